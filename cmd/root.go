package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wb",
		Short:         "Wallet Bridge CLI (wb): connect a wallet extension and burn tokens",
		Long:          "wb bridges the terminal to an external wallet extension: it establishes a session, keeps the bound account across runs, and asks the wallet to sign and submit token burn transactions.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	// Startup restore: trust the persisted session once per invocation.
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		app.manager.Restore(cmd.Context())
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newConnectCmd(app),
		newDisconnectCmd(app),
		newStatusCmd(app),
		newBurnCmd(app),
	)

	return rootCmd
}
