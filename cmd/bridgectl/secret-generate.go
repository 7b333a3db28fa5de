package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"
)

// secretGenerateCmd represents the secret > generate command
var secretGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a webhook signing secret",
	Long: `
Generate a webhook signing secret

Use this command to generate a new Base64-encoded 256 bit secret. Once
generated, place it into the environment of the bridge server and register
the same value with the store's webhook configuration so that incoming
deliveries can be verified.

Example:

$ export WEBHOOK_SECRET="$(bridgectl secret generate)"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bytes := make([]byte, 32)
		if _, err := rand.Read(bytes); err != nil {
			return fmt.Errorf("failed to generate secret: %w", err)
		}
		fmt.Printf("%s", base64.StdEncoding.Strict().EncodeToString(bytes))
		return nil
	},
}

func init() {
	secretCmd.AddCommand(secretGenerateCmd)
}
