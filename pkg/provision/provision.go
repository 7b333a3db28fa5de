package provision

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/lib/pq"
)

// Sentinel errors exposed for callers that need to branch on the failure mode.
var (
	// ErrDatabaseExists is returned when the database creation step hits an
	// already-existing database.
	ErrDatabaseExists = errors.New("database already exists")

	// ErrRoleMissing is returned when database creation references an owner
	// role that has not been provisioned.
	ErrRoleMissing = errors.New("owner role does not exist")
)

// identifierRgx matches unquoted PostgreSQL identifiers. Names are also
// quoted on the way into SQL, this is a sanity check on the configuration.
var identifierRgx = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_$]*$`)

// systemDatabases are never valid provisioning targets.
var systemDatabases = map[string]bool{
	"postgres":  true,
	"template0": true,
	"template1": true,
}

// Config holds the administrative connection used for provisioning.
// The admin URL is passed explicitly rather than assumed from the calling
// environment, so the required privileges (CREATEROLE, CREATEDB) are visible
// at the call site.
type Config struct {
	// AdminURL is a PostgreSQL connection string for a role allowed to
	// create roles and databases, e.g.
	// postgres://postgres@localhost:5432/postgres?sslmode=disable
	AdminURL string
}

// Spec describes one provisioning run: a login role, its credential, and the
// database it will own.
type Spec struct {
	Role     string
	Password string
	Database string

	// SkipExisting switches the database step to the existence-checked
	// variant. The default preserves the historical behavior: creating a
	// database that already exists is an error.
	SkipExisting bool
}

// Validate checks the spec before any statement is issued.
func (s Spec) Validate() error {
	if !identifierRgx.MatchString(s.Role) {
		return fmt.Errorf("invalid role name %q", s.Role)
	}
	if s.Password == "" {
		return errors.New("role password must not be empty")
	}
	if !identifierRgx.MatchString(s.Database) {
		return fmt.Errorf("invalid database name %q", s.Database)
	}
	if systemDatabases[s.Database] {
		return fmt.Errorf("refusing to provision system database %q", s.Database)
	}
	return nil
}

// Provisioner runs the role and database bootstrap against a single
// administrative session.
type Provisioner struct {
	db *sql.DB
}

// New opens an administrative connection for provisioning.
func New(cfg Config) (*Provisioner, error) {
	if cfg.AdminURL == "" {
		return nil, errors.New("admin connection URL is required")
	}

	db, err := sql.Open("postgres", cfg.AdminURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open admin connection: %w", err)
	}

	return &Provisioner{db: db}, nil
}

// NewWithDB wraps an existing connection. Used by tests.
func NewWithDB(db *sql.DB) *Provisioner {
	return &Provisioner{db: db}
}

// Close releases the administrative connection.
func (p *Provisioner) Close() error {
	return p.db.Close()
}

// RoleExists reports whether a role with the given name exists.
func (p *Provisioner) RoleExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check role %q: %w", name, err)
	}
	return exists, nil
}

// EnsureRole creates a login role with the given password if it does not
// already exist. Re-invoking with the same name succeeds without touching the
// existing role; the password is only set at creation.
func (p *Provisioner) EnsureRole(ctx context.Context, name, password string) error {
	if !identifierRgx.MatchString(name) {
		return fmt.Errorf("invalid role name %q", name)
	}
	if password == "" {
		return errors.New("role password must not be empty")
	}

	exists, err := p.RoleExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	// Role names and passwords cannot be bind parameters in DDL.
	stmt := fmt.Sprintf(`CREATE ROLE %s WITH LOGIN PASSWORD %s`,
		pq.QuoteIdentifier(name), pq.QuoteLiteral(password))
	if _, err := p.db.ExecContext(ctx, stmt); err != nil {
		// 42710 duplicate_object: lost a race with a concurrent run; the
		// role exists, which is the outcome this step wants.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42710" {
			return nil
		}
		return fmt.Errorf("failed to create role %q: %w", name, translate(err))
	}
	return nil
}

// DatabaseExists reports whether a database with the given name exists.
func (p *Provisioner) DatabaseExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check database %q: %w", name, err)
	}
	return exists, nil
}

// CreateDatabase creates a database owned by the given role and grants it all
// privileges. This step is intentionally not idempotent: a second invocation
// against the same name fails with ErrDatabaseExists, matching the original
// bootstrap script. Callers that want repeatable runs use EnsureDatabase.
func (p *Provisioner) CreateDatabase(ctx context.Context, name, owner string) error {
	if !identifierRgx.MatchString(name) {
		return fmt.Errorf("invalid database name %q", name)
	}
	if systemDatabases[name] {
		return fmt.Errorf("refusing to provision system database %q", name)
	}

	stmt := fmt.Sprintf(`CREATE DATABASE %s OWNER %s`,
		pq.QuoteIdentifier(name), pq.QuoteIdentifier(owner))
	if _, err := p.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create database %q: %w", name, translate(err))
	}

	return p.grant(ctx, name, owner)
}

// EnsureDatabase is the hardened variant of CreateDatabase: it checks for the
// database first and re-applies the grant when it already exists. Re-granting
// is safe.
func (p *Provisioner) EnsureDatabase(ctx context.Context, name, owner string) error {
	exists, err := p.DatabaseExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return p.grant(ctx, name, owner)
	}
	return p.CreateDatabase(ctx, name, owner)
}

func (p *Provisioner) grant(ctx context.Context, name, owner string) error {
	stmt := fmt.Sprintf(`GRANT ALL PRIVILEGES ON DATABASE %s TO %s`,
		pq.QuoteIdentifier(name), pq.QuoteIdentifier(owner))
	if _, err := p.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to grant privileges on %q to %q: %w", name, owner, translate(err))
	}
	return nil
}

// Provision runs the full bootstrap: role first, then database. The role step
// is idempotent; the database step fails on an existing database unless the
// spec sets SkipExisting.
func (p *Provisioner) Provision(ctx context.Context, spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database server is unreachable: %w", err)
	}

	if err := p.EnsureRole(ctx, spec.Role, spec.Password); err != nil {
		return err
	}

	if spec.SkipExisting {
		return p.EnsureDatabase(ctx, spec.Database, spec.Role)
	}
	return p.CreateDatabase(ctx, spec.Database, spec.Role)
}

// translate maps server error codes onto the package's sentinel errors so
// callers don't have to inspect SQLSTATEs.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "42P04": // duplicate_database
		return fmt.Errorf("%w: %v", ErrDatabaseExists, pqErr.Message)
	case "42704": // undefined_object
		return fmt.Errorf("%w: %v", ErrRoleMissing, pqErr.Message)
	}
	return err
}
