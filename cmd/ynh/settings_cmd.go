package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/ynh/internal/config"
	"github.com/raphi011/ynh/internal/log"
	"github.com/raphi011/ynh/internal/output"
	"github.com/raphi011/ynh/internal/render"
	"github.com/raphi011/ynh/internal/schema"
)

// queryFlags select the render mode and output format.
type queryFlags struct {
	full   bool
	export bool
	json   bool
	yaml   bool
	plain  bool
}

func (q *queryFlags) mode() (render.Mode, error) {
	switch {
	case q.full && q.export:
		return "", usagef("--full and --export are mutually exclusive")
	case q.full:
		return render.ModeFull, nil
	case q.export:
		return render.ModeExport, nil
	}
	return render.ModeClassic, nil
}

func (q *queryFlags) format(def string) (output.Format, error) {
	var set []output.Format
	if q.json {
		set = append(set, output.FormatJSON)
	}
	if q.yaml {
		set = append(set, output.FormatYAML)
	}
	if q.plain {
		set = append(set, output.FormatPlain)
	}
	switch len(set) {
	case 0:
		f, err := output.ParseFormat(def)
		if err != nil {
			return "", &usageError{err: err}
		}
		return f, nil
	case 1:
		return set[0], nil
	}
	return "", usagef("--json, --yaml and --plain are mutually exclusive")
}

func newSettingsCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Short:   "Read global settings",
		GroupID: GroupCore,
		Long: `Read global settings.

Values come from the settings schema defaults merged with the override
store. Every call reads both files again.`,
		// Run is not set - shows help when no subcommand provided
	}

	cmd.AddCommand(newSettingsGetCmd(g))
	cmd.AddCommand(newSettingsListCmd())
	return cmd
}

func newSettingsGetCmd(g *globalFlags) *cobra.Command {
	var q queryFlags

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Show a setting, section or panel",
		Args:  usageArgs(cobra.ExactArgs(1)),
		Long: `Show the value of a setting, or of every setting below a section or panel.

Modes:
  (default)  bare values of visible settings, nested by panel and section
  --full     every node with labels, type, default and visibility
  --export   a flat key: value mapping of all settings, hidden ones included

Without a format flag a single value prints as plain text and anything
larger as YAML.`,
		Example: `  ynh settings get security.ssh.ssh_port
  ynh settings get security.webadmin --json
  ynh settings get email --export --yaml
  ynh settings get security.webadmin.webadmin_allowlist_enabled --full`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeKeys(cmd, g, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], &q)
		},
	}

	cmd.Flags().BoolVar(&q.full, "full", false, "Show every node with its metadata")
	cmd.Flags().BoolVar(&q.export, "export", false, "Show a flat mapping of all settings")
	cmd.Flags().BoolVar(&q.json, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&q.yaml, "yaml", false, "Output as YAML")
	cmd.Flags().BoolVar(&q.plain, "plain", false, "Output a single value as plain text")

	return cmd
}

func newSettingsListCmd() *cobra.Command {
	var q queryFlags

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "Show all settings",
		Aliases: []string{"ls"},
		Args:    usageArgs(cobra.NoArgs),
		Long: `Show all settings, nested by panel and section.

Equivalent to "ynh settings get" on the whole schema.`,
		Example: `  ynh settings list
  ynh settings list --full --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The whole schema never fits on one plain line.
			if !q.json && !q.yaml && config.FromContext(cmd.Context()).DefaultFormat == string(output.FormatPlain) {
				q.yaml = true
			}
			return runQuery(cmd, "", &q)
		},
	}

	cmd.Flags().BoolVar(&q.full, "full", false, "Show every node with its metadata")
	cmd.Flags().BoolVar(&q.json, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&q.yaml, "yaml", false, "Output as YAML")

	return cmd
}

func runQuery(cmd *cobra.Command, key string, q *queryFlags) error {
	ctx := cmd.Context()
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)
	cfg := config.FromContext(ctx)

	mode, err := q.mode()
	if err != nil {
		return err
	}
	format, err := q.format(cfg.DefaultFormat)
	if err != nil {
		return err
	}

	sess, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}

	node, err := sess.Resolve(key)
	if err != nil {
		return err
	}
	l.Debug("resolved", "key", node.Key.String(), "level", node.Level(), "mode", mode)

	doc, err := render.Render(sess, node, mode)
	if err != nil {
		return err
	}

	err = out.Document(doc, format, output.Options{
		Canonical: mode != render.ModeExport,
		Indent:    out.IsTerminal(),
	})
	var fm *output.FormatMismatch
	if errors.As(err, &fm) {
		fm.Setting = key
	}
	return err
}

// completeKeys offers the dotted keys of the schema one level at a time.
func completeKeys(cmd *cobra.Command, g *globalFlags, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := schema.LoadFile(ctx, cfg.SchemaPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	depth := strings.Count(toComplete, ".")
	var keys []string
	for _, k := range s.Keys() {
		if strings.Count(k, ".") == depth && strings.HasPrefix(k, toComplete) {
			keys = append(keys, k)
		}
	}

	directive := cobra.ShellCompDirectiveNoFileComp
	if depth < 2 {
		directive |= cobra.ShellCompDirectiveNoSpace
	}
	return keys, directive
}
