package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glocalvision/codebridge/pkg/config"
)

// originsWatchCmd represents the origins watch command
var originsWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch an origins file and print the allowlist as it changes",
	Long: `Watch an origins file and print the allowlist as it changes.

The file contains one origin per line; blank lines and '#' comments are
ignored. This is the same format the server consumes via ALLOWED_ORIGINS_FILE,
so this command is useful for verifying an origins file before pointing the
server at it.

Example:
  bridgectl origins watch /run/codebridge/origins`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchOrigins(args[0]); err != nil && err != context.Canceled {
			fmt.Fprintf(os.Stderr, "Failed to watch origins: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	originsCmd.AddCommand(originsWatchCmd)
}

func watchOrigins(filename string) error {
	origins, err := config.LoadOriginsFile(filename)
	if err != nil {
		return err
	}

	set := config.NewOriginSet(origins)
	for _, o := range set.List() {
		fmt.Println(o)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return config.WatchOrigins(ctx, set, filename)
}
