package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sitebuilder/internal/app"
	"sitebuilder/internal/domain"
	"sitebuilder/internal/service"
)

// componentCommand creates the component editing command. Every subcommand
// works on one page, chosen with --page.
func (c *CLI) componentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "component",
		Aliases: []string{"comp"},
		Short:   "Place, move, resize and edit components on a page",
	}

	cmd.AddCommand(c.componentAddCommand())
	cmd.AddCommand(c.componentMoveCommand())
	cmd.AddCommand(c.componentResizeCommand())
	cmd.AddCommand(c.componentContentCommand())
	cmd.AddCommand(c.componentRemoveCommand())
	cmd.AddCommand(c.componentArrangeCommand())

	return cmd
}

// switchTo makes page the active page of draftID.
func switchTo(ctx context.Context, a *app.App, draftID string, page int) error {
	st, err := a.Editor.SwitchPage(ctx, draftID, page)
	if err != nil {
		return err
	}
	if st.Index != page {
		return fmt.Errorf("page %d: %w", page, domain.ErrNotFound)
	}
	return nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", s)
		}
		out[i] = f
	}
	return out, nil
}

func (c *CLI) componentAddCommand() *cobra.Command {
	var (
		page          int
		x, y          float64
		width, height float64
		content       string
	)
	cmd := &cobra.Command{
		Use:   "add <draft-id> <type>",
		Short: "Add a component; without --x/--y it is placed automatically",
		Long: `Add a component to a page. Types: textBlock, image, video, card, projectCard, button, navBar.

A component dropped where it would overlap another is moved to the nearest free spot.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := service.AddComponentInput{
				Type:    domain.ComponentType(args[1]),
				Content: domain.ContentFromString(content),
			}
			if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
				in.Position = &domain.Position{X: x, Y: y}
			}
			if cmd.Flags().Changed("width") && cmd.Flags().Changed("height") {
				in.Size = &domain.Size{Width: width, Height: height}
			}
			return c.withApp(cmd, func(a *app.App) error {
				if err := switchTo(cmd.Context(), a, args[0], page); err != nil {
					return err
				}
				comp, err := a.Editor.AddComponent(cmd.Context(), args[0], in)
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Added %s at (%g, %g), %gx%g",
					comp.Type, comp.Position.X, comp.Position.Y, comp.Size.Width, comp.Size.Height)
				printKeyValue(cmd.OutOrStdout(), "id", comp.ID)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "page index")
	cmd.Flags().Float64Var(&x, "x", 0, "drop x position")
	cmd.Flags().Float64Var(&y, "y", 0, "drop y position")
	cmd.Flags().Float64Var(&width, "width", 0, "width (with --height; default per type)")
	cmd.Flags().Float64Var(&height, "height", 0, "height (with --width; default per type)")
	cmd.Flags().StringVar(&content, "content", "", "content as a JSON object or plain text")
	return cmd
}

func (c *CLI) componentMoveCommand() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "move <draft-id> <component-id> <x> <y>",
		Short: "Drop a component at a new position",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := parseFloats(args[2:])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(a *app.App) error {
				if err := switchTo(cmd.Context(), a, args[0], page); err != nil {
					return err
				}
				pos, err := a.Editor.MoveComponent(cmd.Context(), args[0], args[1], domain.Position{X: nums[0], Y: nums[1]})
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Moved to (%g, %g)", pos.X, pos.Y)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "page index")
	return cmd
}

func (c *CLI) componentResizeCommand() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "resize <draft-id> <component-id> <width> <height>",
		Short: "Resize a component in place",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := parseFloats(args[2:])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(a *app.App) error {
				ctx := cmd.Context()
				if err := switchTo(ctx, a, args[0], page); err != nil {
					return err
				}
				st, err := a.Editor.Open(ctx, args[0])
				if err != nil {
					return err
				}
				var pos *domain.Position
				for _, comp := range st.Components {
					if comp.ID == args[1] {
						pos = &comp.Position
						break
					}
				}
				if pos == nil {
					return fmt.Errorf("%w: %s", domain.ErrComponentNotFound, args[1])
				}
				placed, err := a.Editor.ResizeComponent(ctx, args[0], args[1], *pos, domain.Size{Width: nums[0], Height: nums[1]})
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Resized to %gx%g at (%g, %g)",
					placed.Size.Width, placed.Size.Height, placed.Position.X, placed.Position.Y)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "page index")
	return cmd
}

func (c *CLI) componentContentCommand() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "content <draft-id> <component-id> <content>",
		Short: "Replace the content of a component",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				if err := switchTo(cmd.Context(), a, args[0], page); err != nil {
					return err
				}
				if err := a.Editor.UpdateContent(cmd.Context(), args[0], args[1], domain.ContentFromString(args[2])); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Updated content of %s", args[1])
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "page index")
	return cmd
}

func (c *CLI) componentRemoveCommand() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "remove <draft-id> <component-id>",
		Short: "Remove a component",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				if err := switchTo(cmd.Context(), a, args[0], page); err != nil {
					return err
				}
				if err := a.Editor.RemoveComponent(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Removed %s", args[1])
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "page index")
	return cmd
}

func (c *CLI) componentArrangeCommand() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "arrange <draft-id>",
		Short: "Lay out all components of a page in rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				if err := switchTo(cmd.Context(), a, args[0], page); err != nil {
					return err
				}
				st, err := a.Editor.Arrange(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Arranged %d component(s) on %q", len(st.Components), st.Page)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "page index")
	return cmd
}
