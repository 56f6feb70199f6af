// Package cli builds the pullrefresh command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Elpulgo/pullrefresh/internal/config"
	"github.com/Elpulgo/pullrefresh/internal/version"
)

// ErrNotTerminal is returned when the TUI is started without a terminal.
var ErrNotTerminal = errors.New("pullrefresh needs an interactive terminal")

// RunFunc starts the TUI with the loaded configuration.
type RunFunc func(ctx context.Context, cfg *config.Config) error

// Options holds the root command's flags.
type Options struct {
	ConfigPath  string
	Scrollable  bool
	Easing      bool
	Theme       string
	LogFile     string
	Debug       bool
	MetricsAddr string
	NoColor     bool
}

// isTerminal reports whether stdout is a terminal. Tests override it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewRootCommand creates the pullrefresh command tree. run is called by the
// root command once the configuration is loaded.
func NewRootCommand(build version.Build, run RunFunc) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "pullrefresh",
		Short: "A terminal system monitor you refresh by pulling it down",
		Long: `pullrefresh shows a snapshot of the local system under a pull-to-refresh
control. Drag the view down with the mouse, or scroll up past the top, and
release past the threshold to collect a new snapshot.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return ErrNotTerminal
			}
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			applyColor(opts.NoColor)
			return run(cmd.Context(), cfg)
		},
	}
	cmd.SetVersionTemplate(build.String() + "\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/pullrefresh/config.yaml)")

	local := cmd.Flags()
	local.BoolVar(&opts.Scrollable, "scrollable", false, "track the view as a scrollable container")
	local.BoolVar(&opts.Easing, "easing", false, "ease the pull distance in plain mode")
	local.StringVar(&opts.Theme, "theme", "", "colour theme")
	local.StringVar(&opts.LogFile, "log-file", "", "append logs to this file")
	local.BoolVar(&opts.Debug, "debug", false, "log at debug level")
	local.StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	local.BoolVar(&opts.NoColor, "no-color", false, "disable colours")

	cmd.AddCommand(newVersionCommand(build))
	cmd.AddCommand(newConfigCommand(opts))
	return cmd
}

// Execute runs the command tree.
func Execute(ctx context.Context, build version.Build, run RunFunc) error {
	return NewRootCommand(build, run).ExecuteContext(ctx)
}

// loadConfig reads the configuration and applies the flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command, opts *Options) (*config.Config, error) {
	path, err := configPath(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("scrollable") {
		cfg.Refresh.Scrollable = opts.Scrollable
	}
	if flags.Changed("easing") {
		cfg.Refresh.Easing = opts.Easing
	}
	if flags.Changed("theme") {
		cfg.Theme = opts.Theme
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.LogFile
	}
	if opts.Debug {
		cfg.LogLevel = "debug"
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = opts.MetricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func configPath(opts *Options) (string, error) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, nil
	}
	return config.GetPath()
}

// applyColor drops colours when asked to, or when NO_COLOR is set.
func applyColor(noColor bool) {
	if noColor || termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
