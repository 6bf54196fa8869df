// Package commands implements the CLI commands for modroll.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/modroll/internal/app"
	"go.trai.ch/modroll/internal/build"
	"go.trai.ch/modroll/internal/core/domain"
)

// CLI represents the command line interface for modroll.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) (app.Summary, error)
	Plan(ctx context.Context, opts app.RunOptions) (*domain.Plan, error)
	Outdated(ctx context.Context, opts app.RunOptions) ([]domain.PackageDescriptor, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "modroll",
		Short:         "Roll automation account modules forward in dependency order",
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

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to the configuration file (default: search for "+domain.DefaultConfigFile+")")
	flags.Bool("verbose", false, "Enable debug logging")
	flags.StringSlice("include", nil, "Only manage modules matching these glob patterns")
	flags.StringSlice("exclude", nil, "Never manage modules matching these glob patterns")
	flags.StringArray("override", nil, "Force a module version, as name=version (repeatable)")
	flags.Int("concurrency", 0, "Maximum number of install jobs in flight (default: from configuration)")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newOutdatedCmd())
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

// runOptions collects the shared flags of cmd.
func runOptions(cmd *cobra.Command) app.RunOptions {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	verbose, _ := flags.GetBool("verbose")
	include, _ := flags.GetStringSlice("include")
	exclude, _ := flags.GetStringSlice("exclude")
	overrides, _ := flags.GetStringArray("override")
	concurrency, _ := flags.GetInt("concurrency")

	return app.RunOptions{
		ConfigPath:  configPath,
		Concurrency: concurrency,
		Overrides:   overrides,
		Include:     include,
		Exclude:     exclude,
		Verbose:     verbose,
	}
}
