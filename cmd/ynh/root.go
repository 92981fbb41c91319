package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/ynh/internal/config"
	"github.com/raphi011/ynh/internal/log"
	"github.com/raphi011/ynh/internal/output"
)

// Exit codes
const (
	exitEngine = 1 // an engine error, reported as an error object
	exitUsage  = 2 // bad flags, arguments or configuration
)

// Command group IDs for organizing help output
const (
	GroupCore    = "core"
	GroupUtility = "utility"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	schemaPath string
	storePath  string
	locale     string
	verbose    bool
	quiet      bool

	getenv func(string) string
}

// loadConfig builds the effective configuration: config files, then
// environment, then command line flags.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadAll(g.configPath, g.getenv)
	if err != nil {
		return nil, err
	}
	for _, f := range []struct {
		value, name string
		field       *string
	}{
		{g.schemaPath, "--schema", &cfg.SchemaPath},
		{g.storePath, "--store", &cfg.StorePath},
	} {
		if f.value == "" {
			continue
		}
		path, err := config.ResolvePath(f.value, f.name)
		if err != nil {
			return nil, err
		}
		*f.field = path
	}
	if g.locale != "" {
		cfg.Locale = g.locale
	}
	return cfg, nil
}

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, a ...any) error {
	return &usageError{err: fmt.Errorf(format, a...)}
}

// usageArgs wraps a positional argument validator so its errors count as
// usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// newRootCmd builds the command tree. getenv supplies environment
// variables so tests can run without touching the process environment.
func newRootCmd(getenv func(string) string) *cobra.Command {
	g := &globalFlags{getenv: getenv}

	root := &cobra.Command{
		Use:   "ynh",
		Short: "Query YunoHost global settings",
		Long: `ynh reads the YunoHost global settings: the settings schema merged with
the values stored in the override file.

Settings are addressed by dotted keys (panel.section.option). A panel or
section key returns the whole subtree.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for completion and help commands
			if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
				return nil
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			logger := log.New(cmd.ErrOrStderr(), g.verbose, g.quiet)
			ctx = log.WithLogger(ctx, logger)
			ctx = output.WithPrinter(ctx, cmd.OutOrStdout())

			cfg, err := g.loadConfig()
			if err != nil {
				return &usageError{err: fmt.Errorf("load config: %w", err)}
			}
			logger.Debug("config loaded", "schema", cfg.SchemaPath, "store", cfg.StorePath, "locales", cfg.LocalesDir)
			ctx = config.WithConfig(ctx, cfg)

			cmd.SetContext(ctx)
			return nil
		},
		// Run is not set - shows help when no subcommand provided
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	// Global flags
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (default "+config.SystemConfigPath+")")
	pf.StringVar(&g.schemaPath, "schema", "", "Settings schema file")
	pf.StringVar(&g.storePath, "store", "", "Override store file")
	pf.StringVar(&g.locale, "locale", "", "Locale for labels (default from LANG)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Show debug output")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "Suppress all log output")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	root.Version = versionString()
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
	)

	root.AddCommand(newSettingsCmd(g))
	root.AddCommand(newCompletionCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the command line and exits with the matching status.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(os.Getenv)
	root.SetContext(ctx)

	err := root.Execute()
	if err == nil {
		return
	}
	code := report(root.ErrOrStderr(), err)
	cancel()
	os.Exit(code)
}

// report writes err to w and returns the exit status. Engine errors become
// a JSON error object; usage errors a message with a pointer to help.
func report(w io.Writer, err error) int {
	if isUsageError(err) {
		fmt.Fprintln(w, err)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run 'ynh -h' for help")
		return exitUsage
	}
	if perr := output.New(w).Error(err); perr != nil {
		fmt.Fprintln(w, err)
	}
	return exitEngine
}

// isUsageError reports whether err came from invocation rather than from
// the engine. Cobra's own argument errors carry no type, so anything
// without an error kind that was not marked explicitly counts as usage.
func isUsageError(err error) bool {
	var ue *usageError
	if errors.As(err, &ue) {
		return true
	}
	var k interface{ Kind() string }
	return !errors.As(err, &k)
}
