// Package cli implements the sitebuilder command-line interface.
//
// Commands edit drafts through the same services the MCP server uses, so
// every placement goes through the collision-aware layout engine. Output
// for humans goes to stdout; logs go to stderr through charmbracelet/log.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"sitebuilder/internal/app"
	"sitebuilder/internal/config"
)

const appName = "sitebuilder"

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// Execute runs the sitebuilder CLI with os.Args.
func Execute() error {
	return New(os.Stderr, log.InfoLevel).RootCommand().ExecuteContext(context.Background())
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sitebuilder edits and publishes multi-page websites",
		Long:         `Sitebuilder keeps website drafts made of pages of freely placed components, prevents components from overlapping and publishes drafts as static HTML.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.Logger.SetLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.draftCommand())
	root.AddCommand(c.pageCommand())
	root.AddCommand(c.componentCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.scheduleCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.approvalsCommand())

	return root
}

// loadConfig reads --config, or the default path when it exists.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath, false)
	}
	return config.Load(config.DefaultPath(), true)
}

// openApp loads the configuration and opens the stores. The caller closes
// the returned App.
func (c *CLI) openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if !c.verbose {
		c.Logger.SetLevel(cfg.LogLevel())
	}
	return app.New(cmd.Context(), cfg, loggerFromContext(cmd.Context()))
}

// withApp runs fn with an opened App and closes it afterwards.
func (c *CLI) withApp(cmd *cobra.Command, fn func(a *app.App) error) (err error) {
	a, err := c.openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	return fn(a)
}
