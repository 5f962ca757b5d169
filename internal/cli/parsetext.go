package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/piwi3910/RailCut/internal/assistant"
	"github.com/spf13/cobra"
)

func newParseTextCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse-text <description>",
		Short: "Draft a request form from a free-text description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			client := newAssistant(cfg, logger)
			if !client.Configured() {
				return fmt.Errorf("%w: set %s", assistant.ErrNotConfigured, cfg.Assistant.APIKeyEnv)
			}

			p := newProgress(logger)
			draft, err := client.ParseText(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				if errors.Is(err, assistant.ErrBadResponse) {
					return fmt.Errorf("could not read the description: %w", err)
				}
				return err
			}
			p.done("Description analysed", "pieces", len(draft.Pieces))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(draft)
		},
	}
}
