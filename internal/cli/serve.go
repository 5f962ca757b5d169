package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/piwi3910/RailCut/internal/assistant"
	"github.com/piwi3910/RailCut/internal/model"
	"github.com/piwi3910/RailCut/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ListenAddr
			}

			logger := loggerFromContext(cmd.Context())
			client := newAssistant(cfg, logger)
			if !client.Configured() {
				logger.Warn("Text analysis disabled", "env", cfg.Assistant.APIKeyEnv)
			}

			return server.New(addr, server.NewHandler(client, cfg.AllowedOrigins, logger), logger).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// newAssistant builds the Gemini client with the key read from the
// environment variable named in the config.
func newAssistant(cfg model.AppConfig, logger *log.Logger) *assistant.Client {
	return assistant.New(assistant.ConfigFrom(cfg, os.Getenv(cfg.Assistant.APIKeyEnv), logger))
}
