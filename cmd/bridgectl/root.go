package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bridgectl",
	Short: "codebridge command-line interface",
	Long: `bridgectl manages the codebridge server and its database.

codebridge receives Shopify webhooks from the ShipSec and VJD stores,
issues and validates customer forwarding codes, and mirrors orders
between the two stores.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
