package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sitebuilder/internal/app"
	"sitebuilder/internal/domain"
	"sitebuilder/internal/editor"
	"sitebuilder/internal/service"
)

// pageCommand creates the page management command.
func (c *CLI) pageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Add, rename, reorder and delete the pages of a draft",
	}

	cmd.AddCommand(c.pageListCommand())
	cmd.AddCommand(c.pageAddCommand())
	cmd.AddCommand(c.pageRenameCommand())
	cmd.AddCommand(c.pageMoveCommand())
	cmd.AddCommand(c.pageDeleteCommand())

	return cmd
}

func printPageState(w io.Writer, st domain.PageState) {
	for i, name := range st.PageNames {
		marker := " "
		if i == st.Index {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d. %s\n", marker, i, name)
	}
}

func (c *CLI) pageListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <draft-id>",
		Short: "List pages in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				st, err := a.Editor.Open(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printPageState(cmd.OutOrStdout(), st)
				return nil
			})
		},
	}
}

func (c *CLI) pageAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <draft-id>",
		Short: "Append a new empty page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				st, err := a.Editor.AddPage(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Added page %q", st.Page)
				return nil
			})
		},
	}
}

func (c *CLI) pageRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <draft-id> <index> <name>",
		Short: "Rename a page",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(a *app.App) error {
				st, err := a.Editor.RenamePage(cmd.Context(), args[0], index, args[2])
				if err != nil {
					return err
				}
				printPageState(cmd.OutOrStdout(), st)
				return nil
			})
		},
	}
}

func (c *CLI) pageMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <draft-id> <from> <to>",
		Short: "Move a page to another position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			to, err := parseIndex(args[2])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(a *app.App) error {
				st, err := a.Editor.MovePage(cmd.Context(), args[0], from, to)
				if err != nil {
					return err
				}
				printPageState(cmd.OutOrStdout(), st)
				return nil
			})
		},
	}
}

func (c *CLI) pageDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <draft-id> <index>",
		Short: "Delete a page (asks first when it holds several components)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(a *app.App) error {
				var answered *bool
				confirmer := service.AutoConfirm(true)
				if !yes {
					confirmer = promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
				}
				a.Editor.SetConfirmer(service.ConfirmFunc(func(ctx context.Context, prompt string, done func(bool)) {
					confirmer.Confirm(ctx, prompt, func(ok bool) {
						answered = &ok
						done(ok)
					})
				}))

				outcome, err := a.Editor.DeletePage(cmd.Context(), args[0], index)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch {
				case outcome == editor.DeleteApplied, answered != nil && *answered:
					printSuccess(out, "Deleted page %d", index)
				case answered != nil:
					printInfo(out, "Kept page %d", index)
				default:
					printWarning(out, "No page at index %d", index)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

// promptConfirmer asks on w and reads a y/N answer from r.
func promptConfirmer(r io.Reader, w io.Writer) service.Confirmer {
	return service.ConfirmFunc(func(_ context.Context, prompt string, done func(bool)) {
		fmt.Fprintf(w, "%s [y/N] ", prompt)
		line, _ := bufio.NewReader(r).ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		done(answer == "y" || answer == "yes")
	})
}
