package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/glocalvision/codebridge/pkg/config"
	"github.com/glocalvision/codebridge/pkg/provision"
)

// dbProvisionCmd represents the db provision command
var dbProvisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the application role and database",
	Long: `Create the application role and database on the Postgres server.

Connects with the administrative credentials in ADMIN_DATABASE_URL, creates
the login role named by DB_USER with the password in PASSWD if it does not
exist yet, then creates the database named by DB_NAME owned by that role and
grants it all privileges.

The role step is idempotent and safe to rerun. The database step is not: a
second run fails with a duplicate-database error, which keeps the command
honest about what already exists. Pass --skip-existing to tolerate a database
that is already there (ownership is not changed; privileges are re-granted).

Example:
  bridgectl db provision
  bridgectl db provision --skip-existing`,
	Run: func(cmd *cobra.Command, args []string) {
		skipExisting, _ := cmd.Flags().GetBool("skip-existing")

		if err := runProvision(skipExisting); err != nil {
			fmt.Fprintln(os.Stderr, "Provisioning failed:", err)
			os.Exit(1)
		}
	},
}

func init() {
	dbProvisionCmd.Flags().Bool("skip-existing", false, "Do not fail when the database already exists")
	dbCmd.AddCommand(dbProvisionCmd)
}

func runProvision(skipExisting bool) error {
	cfg := config.Get()
	if cfg.AdminDatabaseURL == "" {
		return fmt.Errorf("ADMIN_DATABASE_URL environment variable is required")
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return err
	}

	provisioner, err := provision.New(provision.Config{AdminURL: cfg.AdminDatabaseURL})
	if err != nil {
		return err
	}
	defer func() { _ = provisioner.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	spec := provision.Spec{
		Role:         cfg.DBUser,
		Password:     cfg.DBPassword,
		Database:     cfg.DBName,
		SkipExisting: skipExisting,
	}
	if err := provisioner.Provision(ctx, spec); err != nil {
		return err
	}

	fmt.Printf("Provisioned role %q and database %q\n", cfg.DBUser, cfg.DBName)
	return nil
}
