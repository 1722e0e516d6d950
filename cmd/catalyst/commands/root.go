// Package commands implements the CLI commands for catalyst.
package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/catalyst/internal/app"
	"go.trai.ch/catalyst/internal/build"
	"go.trai.ch/catalyst/internal/core/domain"
)

// CLI represents the command line interface for catalyst.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Configure(opts app.GlobalOptions) error
	Serve(ctx context.Context, opts app.ServeOptions) error
	RunJob(ctx context.Context, name string, opts app.RunOptions, out io.Writer) error
	ListSessions(ctx context.Context) ([]domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	PruneSessions(ctx context.Context, olderThan time.Duration) ([]string, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "catalyst",
		Short:         "Resume tooling service: generation, tailoring, and evaluation",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to catalyst.yaml (searched upward from the working directory by default)")
	rootCmd.PersistentFlags().String("log-format", "auto", "Log format: auto, pretty, or json")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		logFormat, _ := cmd.Flags().GetString("log-format")
		return c.app.Configure(app.GlobalOptions{
			ConfigPath: configPath,
			LogFormat:  logFormat,
		})
	}

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newSessionsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetInput sets the stream read when a file flag is "-". Used for testing.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}
