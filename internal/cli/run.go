package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sitebuilder/internal/app"
	"sitebuilder/internal/preview"
)

// signalContext is cancelled on Ctrl-C or SIGTERM.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// shutdown waits a little for in-flight publishes before the stores close.
func shutdown(a *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Publish.WaitRunning(ctx)
}

func (c *CLI) publishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <draft-id>",
		Short: "Render every page of a draft to static HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				prog := newProgress(loggerFromContext(cmd.Context()))
				res, err := a.Publish.Publish(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Published %d page(s)", len(res.Files)))
				out := cmd.OutOrStdout()
				printSuccess(out, "Published to %s", res.Dir)
				for _, f := range res.Files {
					printFile(out, filepath.Join(res.Dir, f.Name))
				}
				return nil
			})
		},
	}
}

func (c *CLI) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <draft.json>",
		Short: "Import and publish a draft file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				ctx, cancel := signalContext(cmd.Context())
				defer cancel()
				if err := a.Publish.Watch(ctx, args[0]); err != nil {
					return err
				}
				printInfo(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)", args[0])
				<-ctx.Done()
				shutdown(a)
				return nil
			})
		},
	}
}

func (c *CLI) scheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Publish drafts on the cron schedules from the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				entries := a.Config.Publish.Schedule
				if len(entries) == 0 {
					printWarning(cmd.OutOrStdout(), "No [[publish.schedule]] entries configured")
					return nil
				}
				ctx, cancel := signalContext(cmd.Context())
				defer cancel()
				if err := a.Publish.Schedule(ctx, entries); err != nil {
					return err
				}
				for _, e := range entries {
					printDetail(cmd.OutOrStdout(), "%s  %s", e.Cron, e.DraftID)
				}
				<-ctx.Done()
				shutdown(a)
				return nil
			})
		},
	}
}

func (c *CLI) previewCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve rendered drafts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				if addr == "" {
					addr = a.Config.Preview.Addr
				}
				ctx, cancel := signalContext(cmd.Context())
				defer cancel()
				printInfo(cmd.OutOrStdout(), "Preview at http://%s/drafts", addr)
				return preview.New(a.Drafts, a.Publish, a.Logger).ListenAndServe(ctx, addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// serveCommand runs every long-lived part at once: preview, schedules and
// the approval watcher for a standalone MCP process.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview server, publish schedules and approval watcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				if addr == "" {
					addr = a.Config.Preview.Addr
				}
				ctx, cancel := signalContext(cmd.Context())
				defer cancel()

				if err := a.Publish.Schedule(ctx, a.Config.Publish.Schedule); err != nil {
					return err
				}
				go a.WatchApprovals(ctx)

				printInfo(cmd.OutOrStdout(), "Preview at http://%s/drafts", addr)
				err := preview.New(a.Drafts, a.Publish, a.Logger).ListenAndServe(ctx, addr)
				shutdown(a)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func (c *CLI) mcpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(a *app.App) error {
				ctx, cancel := signalContext(cmd.Context())
				defer cancel()
				return a.ServeMCP(ctx)
			})
		},
	}
}
