package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/piwi3910/RailCut/internal/model"
	"github.com/piwi3910/RailCut/internal/project"
	"github.com/spf13/cobra"
)

var (
	version = "dev" // semantic version, set via ldflags
	commit  = ""    // git commit SHA
	date    = ""    // build timestamp
)

// SetVersion sets the build information shown by the version command.
// It is called by main with values injected at build time.
func SetVersion(v, c, d string) {
	if v != "" {
		version = v
	}
	commit = c
	date = d
}

// options holds the persistent flags shared by every command.
type options struct {
	verbose    bool
	configPath string
}

// loadConfig reads the application config. A missing file yields the
// defaults.
func (o *options) loadConfig() (model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(o.configPath)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Execute runs the railcut CLI until it completes or ctx is cancelled.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "railcut",
		Short:         "RailCut turns guardrail layouts into fabrication plans",
		Long:          `RailCut resolves guardrail pieces into cut lengths, bar spacing and a bill of materials, and renders shop drawings, cut lists and labels.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", project.DefaultConfigPath(), "path to the TOML config file")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newPlanCmd(opts))
	root.AddCommand(newParseTextCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "railcut %s\n", version)
			if commit != "" {
				fmt.Fprintf(w, "commit: %s\n", commit)
			}
			if date != "" {
				fmt.Fprintf(w, "built: %s\n", date)
			}
		},
	}
}
