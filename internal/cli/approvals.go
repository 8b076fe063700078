package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sitebuilder/internal/app"
	"sitebuilder/internal/domain"
)

var errNoApprovals = errors.New("the configured store cannot hold approvals (use a SQL driver)")

// approvalsCommand answers destructive actions requested by a standalone
// MCP server.
func (c *CLI) approvalsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approvals",
		Short: "List and answer actions waiting for approval",
	}
	cmd.AddCommand(c.approvalsListCommand())
	cmd.AddCommand(c.approvalsResolveCommand("approve", true))
	cmd.AddCommand(c.approvalsResolveCommand("reject", false))
	return cmd
}

func (c *CLI) approvalsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending approvals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				if a.Approvals == nil {
					return errNoApprovals
				}
				pending, err := a.Approvals.ListApprovals(cmd.Context(), domain.ApprovalPending)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(pending) == 0 {
					printInfo(out, "Nothing waiting for approval")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTOOL\tDESCRIPTION")
				for _, p := range pending {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Tool, p.Description)
				}
				return tw.Flush()
			})
		},
	}
}

func (c *CLI) approvalsResolveCommand(verb string, approve bool) *cobra.Command {
	short, done := "Reject a pending action", "Rejected"
	if approve {
		short, done = "Approve a pending action", "Approved"
	}
	return &cobra.Command{
		Use:   verb + " <approval-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				if a.Approvals == nil {
					return errNoApprovals
				}
				if err := a.Approvals.ResolveApproval(cmd.Context(), args[0], approve); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "%s %s", done, args[0])
				return nil
			})
		},
	}
}
