package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// originsCmd represents the origins command
var originsCmd = &cobra.Command{
	Use:   "origins",
	Short: "Manage the CORS allowed-origins list",
	Long:  `Manage the CORS allowed-origins list`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'origins' requires a subcommand watch")
		fmt.Println()
		cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(originsCmd)
}
