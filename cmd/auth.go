package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/schedule-mcp/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		callbackAddr string
		timeout      time.Duration
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Calendar access",
		Long: `Run the Google OAuth installed-app flow and store the token.

The command prints an authorization URL and waits for the browser redirect on a
local callback server. If the callback server cannot start, paste the code from
the redirect URL instead. The token is written with mode 0600 to the configured
google_token_file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if google.HasToken(cfg.GoogleTokenFile) && !force {
				fmt.Fprintf(cmd.OutOrStdout(), "A Google token already exists at %s. Use --force to authorize again.\n", cfg.GoogleTokenFile)
				return nil
			}

			conf, err := google.LoadOAuthConfig(cfg.GoogleCredentialsFile)
			if err != nil {
				if errors.Is(err, google.ErrCredentialsMissing) {
					return errors.New(google.CredentialsHelp(cfg.GoogleCredentialsFile))
				}
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			tok, err := google.Authorize(ctx, conf, google.FlowOptions{
				CallbackAddr: callbackAddr,
				Timeout:      timeout,
				Out:          cmd.ErrOrStderr(),
				In:           cmd.InOrStdin(),
			})
			if err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}

			if err := google.SaveToken(cfg.GoogleTokenFile, tok); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", cfg.GoogleTokenFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&callbackAddr, "callback-addr", google.DefaultCallbackAddr, "Listen address of the local OAuth redirect server")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "How long to wait for the browser redirect")
	cmd.Flags().BoolVar(&force, "force", false, "Authorize again even if a token already exists")

	return cmd
}
