package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:          "finbank",
		Short:        "IBAN ledger service: deposits, withdrawals and transfers",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/config.yaml)")

	root.AddCommand(newServeCmd(&cfgFile), newMigrateCmd(&cfgFile))
	return root
}
