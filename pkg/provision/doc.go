// Package provision bootstraps the database prerequisites for codebridge.
//
// It ensures a login role exists with the configured credential and creates
// the application database owned by that role with all privileges granted.
// The role step is idempotent and safe to re-run (container restarts invoke
// it repeatedly); the database step mirrors the original bootstrap script and
// fails when the database already exists, unless the caller opts into the
// existence-checked variant.
//
// # Usage
//
//	p, err := provision.New(provision.Config{
//	    AdminURL: os.Getenv("ADMIN_DATABASE_URL"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	err = p.Provision(ctx, provision.Spec{
//	    Role:     "shipsec_user",
//	    Password: password,
//	    Database: "shipsec",
//	})
//
// # Failure modes
//
// All failures carry the underlying database error. Two conditions are
// exposed as sentinel errors: ErrDatabaseExists (re-running the
// non-idempotent database step) and ErrRoleMissing (creating a database for
// an owner that was never provisioned).
package provision
