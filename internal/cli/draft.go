package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sitebuilder/internal/app"
)

// draftCommand creates the draft management command.
func (c *CLI) draftCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Create, inspect and manage site drafts",
	}

	cmd.AddCommand(c.draftListCommand())
	cmd.AddCommand(c.draftCreateCommand())
	cmd.AddCommand(c.draftShowCommand())
	cmd.AddCommand(c.draftRenameCommand())
	cmd.AddCommand(c.draftDeleteCommand())
	cmd.AddCommand(c.draftExportCommand())
	cmd.AddCommand(c.draftImportCommand())
	cmd.AddCommand(c.draftHistoryCommand())
	cmd.AddCommand(c.draftRestoreCommand())

	return cmd
}

func (c *CLI) draftListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List drafts, most recently edited first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				drafts, err := a.Drafts.ListDrafts(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(drafts) == 0 {
					printInfo(out, "No drafts yet")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tPAGES\tUPDATED")
				for _, d := range drafts {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", d.ID, d.Name, d.PageCount, d.UpdatedAt.Local().Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	}
}

func (c *CLI) draftCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Create a draft with a single Home page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return c.withApp(cmd, func(a *app.App) error {
				d, err := a.Drafts.CreateDraft(cmd.Context(), name)
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Created draft %q", d.Name)
				printKeyValue(cmd.OutOrStdout(), "id", d.ID)
				return nil
			})
		},
	}
}

func (c *CLI) draftShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <draft-id>",
		Short: "Show the pages and components of a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				d, err := a.Drafts.GetDraft(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, StyleTitle.Render(d.Name))
				printKeyValue(out, "id", d.ID)
				if d.IsLegacy() {
					printWarning(out, "legacy single-page draft")
				}
				for i, p := range d.PageList() {
					fmt.Fprintf(out, "%d. %s (%d components)\n", i, p.Name, len(p.Components))
					for _, comp := range p.Components {
						printDetail(out, "%-11s %s  at (%g, %g)  %gx%g",
							comp.Type, comp.ID, comp.Position.X, comp.Position.Y, comp.Size.Width, comp.Size.Height)
					}
				}
				return nil
			})
		},
	}
}

func (c *CLI) draftRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <draft-id> <name>",
		Short: "Rename a draft",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				if err := a.Drafts.RenameDraft(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Renamed draft to %q", args[1])
				return nil
			})
		},
	}
}

func (c *CLI) draftDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <draft-id>",
		Short: "Delete a draft and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				if err := a.Drafts.DeleteDraft(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Deleted draft %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) draftExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <draft-id>",
		Short: "Export a draft as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				data, err := a.Drafts.ExportDraft(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if output == "" {
					_, err := cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				printSuccess(cmd.OutOrStdout(), "Exported draft")
				printFile(cmd.OutOrStdout(), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func (c *CLI) draftImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Create or replace a draft from exported JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(a *app.App) error {
				d, err := a.Drafts.ImportDraft(cmd.Context(), data)
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Imported draft %q (%d pages)", d.Name, len(d.PageList()))
				printKeyValue(cmd.OutOrStdout(), "id", d.ID)
				return nil
			})
		},
	}
}

func (c *CLI) draftHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history <draft-id>",
		Short: "List saved revisions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				revs, err := a.Drafts.ListRevisions(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(revs) == 0 {
					printInfo(out, "No revisions")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tLABEL\tSAVED")
				for _, r := range revs {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Label, r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				}
				return tw.Flush()
			})
		},
	}
}

func (c *CLI) draftRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <draft-id> <revision-id>",
		Short: "Restore the pages of a draft from a revision",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				d, err := a.Drafts.RestoreRevision(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Restored %d page(s)", len(d.PageList()))
				return nil
			})
		},
	}
}

// parseIndex parses a zero-based page index argument.
func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid page index %q", s)
	}
	return i, nil
}
