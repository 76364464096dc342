// Package commands implements the CLI commands for the forge build tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/build"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Environment variables providing flag defaults.
const (
	EnvConfig     = "FORGE_CONFIG"
	EnvDepth      = "FORGE_DEPTH"
	EnvRelentless = "FORGE_RELENTLESS"
)

// CLI represents the command line interface for forge.
type CLI struct {
	app     Application
	logger  LogConfigurer
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, cwd string, opts app.BuildOptions) error
	Plan(ctx context.Context, cwd string, opts app.BuildOptions) (*domain.Plan, error)
	Clean(ctx context.Context, cwd string, opts app.CleanOptions) error
	Watch(ctx context.Context, cwd string, opts app.BuildOptions) error
}

// LogConfigurer is implemented by loggers that can switch verbosity and format.
type LogConfigurer interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "forge",
		Short:         "An incremental build tool for C and C++ sources",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	// -v belongs to --verbose, so the version flag has no shorthand.
	rootCmd.Flags().Bool("version", false, "Print the application version")

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show debug output, including every parsed file")
	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if c.logger == nil {
			return
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json")
		c.logger.SetVerbose(verbose)
		c.logger.SetJSON(jsonLogs)
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// WithLogger lets the --verbose and --json flags reconfigure l.
func (c *CLI) WithLogger(l LogConfigurer) *CLI {
	c.logger = l
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

// addBuildFlags registers the flags shared by build, plan and watch.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", os.Getenv(EnvConfig), "Path to forge.yaml, instead of searching upwards")
	depth, ok := envInt(EnvDepth)
	if !ok {
		depth = domain.FullDepth
	}
	cmd.Flags().IntP("depth", "d", depth, "Include levels to analyze, -1 for the full graph")
	cmd.Flags().BoolP("rebuild-all", "B", false, "Rebuild every target regardless of its state")
}

// buildOptions reads the flags registered by addBuildFlags. The depth only overrides
// the build description when it was given explicitly.
func buildOptions(cmd *cobra.Command) app.BuildOptions {
	configFile, _ := cmd.Flags().GetString("config")
	rebuildAll, _ := cmd.Flags().GetBool("rebuild-all")

	opts := app.BuildOptions{
		ConfigFile: configFile,
		RebuildAll: rebuildAll,
	}

	if _, fromEnv := envInt(EnvDepth); fromEnv || cmd.Flags().Changed("depth") {
		depth, _ := cmd.Flags().GetInt("depth")
		opts.Depth = &depth
	}

	if cmd.Flags().Lookup("relentless") != nil {
		opts.Relentless, _ = cmd.Flags().GetBool("relentless")
	}

	return opts
}

func addRelentlessFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("relentless", "k", envBool(EnvRelentless), "Keep building the remaining groups after a failure")
}

// workingDir returns the directory the build description is searched from.
func workingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	return cwd, nil
}

func envInt(key string) (int, bool) {
	value, err := strconv.Atoi(os.Getenv(key))
	return value, err == nil
}

func envBool(key string) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && value
}
