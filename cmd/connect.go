package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/wallet-bridge-cli/internal/application"
	"github.com/spf13/cobra"
)

func newConnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Establish a session with the wallet extension",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var result application.ConnectResult
			err := runWalletPrompt(cmd.Context(), cmd.ErrOrStderr(), "Waiting for wallet approval...", "approved in wallet", func(ctx context.Context) error {
				var connectErr error
				result, connectErr = app.manager.Connect(ctx)
				return connectErr
			})

			// Warnings apply to both outcomes: a session that could not
			// be persisted, or a stale one that could not be cleared.
			if result.StorageWarning != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", result.StorageWarning)
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "connected as %s\n", result.AccountID)
			return err
		},
	}
}

func newDisconnectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Clear the wallet session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if warn := app.manager.Disconnect(cmd.Context()); warn != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", warn)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "disconnected")
			return err
		},
	}
}
