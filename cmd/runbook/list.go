package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sections in the runbook",
	Long:  `List all sections found in the setup runbook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		runbook, err := Parse(content)
		if err != nil {
			return fmt.Errorf("parsing runbook: %w", err)
		}

		for _, section := range runbook.Sections {
			if len(section.Vars) > 0 {
				fmt.Printf("%s (%d variables)\n", section.Title, len(section.Vars))
			} else {
				fmt.Println(section.Title)
			}
		}

		return nil
	},
}

var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "List all environment variables documented in the runbook",
	Long:  `List every environment variable documented in the setup runbook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		runbook, err := Parse(content)
		if err != nil {
			return fmt.Errorf("parsing runbook: %w", err)
		}

		for _, v := range runbook.Vars() {
			fmt.Println(v)
		}

		return nil
	},
}

func init() {
	listCmd.Flags().StringP("file", "f", "docs/SETUP.md", "Path to the runbook file")
	varsCmd.Flags().StringP("file", "f", "docs/SETUP.md", "Path to the runbook file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(varsCmd)
}
