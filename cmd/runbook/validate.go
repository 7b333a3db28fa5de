package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glocalvision/codebridge/pkg/config"
)

// ValidationError represents a single validation issue
type ValidationError struct {
	Message string
}

// ValidationResult holds all validation errors
type ValidationResult struct {
	Errors []ValidationError
}

func (r *ValidationResult) AddError(message string) {
	r.Errors = append(r.Errors, ValidationError{Message: message})
}

func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

var requiredSections = []string{
	"Prerequisites",
	"Environment variables",
	"Database",
	"Running the server",
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the setup runbook against the recognized configuration",
	Long: `Validate that the setup runbook is complete.

Checks include:
- File has a title
- Required sections are present (Prerequisites, Environment variables,
  Database, Running the server)
- Every environment variable the application recognizes is documented
- No unknown environment variables are documented`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		result := Validate(content)

		if result.IsValid() {
			fmt.Println("✓ Runbook is valid")
			return nil
		}

		fmt.Printf("Found %d issue(s):\n\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  %s\n", e.Message)
		}

		os.Exit(1)
		return nil
	},
}

// Validate checks a runbook for completeness against the recognized
// environment variable surface
func Validate(source []byte) *ValidationResult {
	result := &ValidationResult{}

	runbook, err := Parse(source)
	if err != nil {
		result.AddError(fmt.Sprintf("Failed to parse runbook: %v", err))
		return result
	}

	if runbook.Title == "" {
		result.AddError("Missing runbook title (# heading)")
	}

	for _, title := range requiredSections {
		if runbook.FindSection(title) == nil {
			result.AddError(fmt.Sprintf("Missing section '## %s'", title))
		}
	}

	documented := make(map[string]bool)
	for _, v := range runbook.Vars() {
		documented[v] = true
	}

	recognized := make(map[string]bool)
	for _, v := range config.EnvVars() {
		recognized[v] = true
		if !documented[v] {
			result.AddError(fmt.Sprintf("Environment variable %s is not documented", v))
		}
	}

	for _, v := range runbook.Vars() {
		if !recognized[v] && looksLikeEnvVar(v) {
			result.AddError(fmt.Sprintf("Documented variable %s is not recognized by the application", v))
		}
	}

	return result
}

// looksLikeEnvVar filters out code spans that document commands or values
// rather than environment variables.
func looksLikeEnvVar(s string) bool {
	if s == "" || strings.ContainsAny(s, " /.") {
		return false
	}
	return strings.ToUpper(s) == s
}

func init() {
	validateCmd.Flags().StringP("file", "f", "docs/SETUP.md", "Path to the runbook file")
	rootCmd.AddCommand(validateCmd)
}
