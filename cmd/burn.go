package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/wallet-bridge-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newBurnCmd(app *app) *cobra.Command {
	var (
		tokenID string
		amount  int64
	)

	cmd := &cobra.Command{
		Use:   "burn",
		Short: "Ask the wallet to sign and submit a token burn",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var txID domain.TransactionID
			err := runWalletPrompt(cmd.Context(), cmd.ErrOrStderr(), "Submitting burn transaction...", "signed and submitted", func(ctx context.Context) error {
				var burnErr error
				txID, burnErr = app.submitter.Burn(ctx, domain.TokenID(tokenID), amount)
				return burnErr
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), txID)
			return err
		},
	}

	cmd.Flags().StringVar(&tokenID, "token", "", "Token ID to burn (shard.realm.number)")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount of token units to destroy")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
