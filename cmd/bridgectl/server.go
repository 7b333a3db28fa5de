package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/glocalvision/codebridge/pkg/config"
	"github.com/glocalvision/codebridge/pkg/db"
	"github.com/glocalvision/codebridge/pkg/server"
	"github.com/glocalvision/codebridge/pkg/server/endpoints"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the codebridge application server",
	Long: `Run the codebridge application server.

The server requires the database connection variables (DB_USER, PASSWD,
DB_NAME, HOST, PORT), the store API credentials, and a webhook signing
secret unless development mode is enabled.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
			os.Exit(1)
		}

		// Fail fast on missing credentials before touching the database.
		if err := cfg.ValidateServer(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		origins := config.NewOriginSet(cfg.AllowedOrigins)
		if cfg.AllowedOriginsFile != "" {
			go func() {
				if err := config.WatchOrigins(context.Background(), origins, cfg.AllowedOriginsFile); err != nil {
					log.Printf("Origins watch stopped: %v", err)
				}
			}()
		}

		if host, _ := cmd.Flags().GetString("bind-address"); host != "" {
			cfg.BindAddress = host
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.ServerPort = port
		}

		srv := server.NewServer(cfg, database, origins)
		endpoints.RegisterAll(srv)

		log.Printf("Starting server on %s:%s", cfg.BindAddress, cfg.ServerPort)
		if err := srv.Start(); err != nil {
			fmt.Fprintln(os.Stderr, "Server stopped:", err)
			os.Exit(1)
		}
	},
}

func init() {
	serverCmd.Flags().Bool("no-migrate", false, "Skip database migrations on startup")
	serverCmd.Flags().StringP("bind-address", "b", "", "Address to bind the server to (overrides BIND_ADDRESS)")
	serverCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides SERVER_PORT)")
	rootCmd.AddCommand(serverCmd)
}
