package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/lib/pq"

	"github.com/glocalvision/codebridge/pkg/provision"
)

const testPassword = "integration-secret"

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc          *TestContext
	provisioner *provision.Provisioner
	lastErr     error
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:          tc,
		provisioner: provision.NewWithDB(tc.AdminDB),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^an administrative connection is available$`, s.anAdministrativeConnectionIsAvailable)
	sc.Step(`^no database "([^"]*)" exists$`, s.noDatabaseExists)
	sc.Step(`^no role "([^"]*)" exists$`, s.noRoleExists)
	sc.Step(`^a role "([^"]*)" already exists$`, s.aRoleAlreadyExists)
	sc.Step(`^a database "([^"]*)" already exists owned by "([^"]*)"$`, s.aDatabaseAlreadyExistsOwnedBy)

	// Provisioning steps
	sc.Step(`^I provision role "([^"]*)" with database "([^"]*)"$`, s.iProvisionRoleWithDatabase)
	sc.Step(`^I provision role "([^"]*)" with database "([^"]*)" skipping existing databases$`, s.iProvisionSkippingExisting)
	sc.Step(`^I create database "([^"]*)" owned by "([^"]*)"$`, s.iCreateDatabaseOwnedBy)

	// Outcome steps
	sc.Step(`^provisioning should succeed$`, s.provisioningShouldSucceed)
	sc.Step(`^provisioning should fail because the database exists$`, s.provisioningShouldFailDatabaseExists)
	sc.Step(`^provisioning should fail because the owner role is missing$`, s.provisioningShouldFailRoleMissing)
	sc.Step(`^role "([^"]*)" should exist$`, s.roleShouldExist)
	sc.Step(`^database "([^"]*)" should exist owned by "([^"]*)"$`, s.databaseShouldExistOwnedBy)
	sc.Step(`^role "([^"]*)" can create tables in "([^"]*)"$`, s.roleCanCreateTablesIn)
}

// Background steps

func (s *StepsContext) anAdministrativeConnectionIsAvailable() error {
	return s.tc.AdminDB.Ping()
}

func (s *StepsContext) noDatabaseExists(name string) error {
	_, err := s.tc.AdminDB.Exec(fmt.Sprintf(`DROP DATABASE IF EXISTS %s`, pq.QuoteIdentifier(name)))
	return err
}

func (s *StepsContext) noRoleExists(name string) error {
	_, err := s.tc.AdminDB.Exec(fmt.Sprintf(`DROP ROLE IF EXISTS %s`, pq.QuoteIdentifier(name)))
	return err
}

func (s *StepsContext) aRoleAlreadyExists(name string) error {
	return s.provisioner.EnsureRole(context.Background(), name, testPassword)
}

func (s *StepsContext) aDatabaseAlreadyExistsOwnedBy(name, owner string) error {
	if err := s.provisioner.EnsureRole(context.Background(), owner, testPassword); err != nil {
		return err
	}
	return s.provisioner.EnsureDatabase(context.Background(), name, owner)
}

// Provisioning steps

func (s *StepsContext) iProvisionRoleWithDatabase(role, database string) error {
	s.lastErr = s.provisioner.Provision(context.Background(), provision.Spec{
		Role:     role,
		Password: testPassword,
		Database: database,
	})
	return nil
}

func (s *StepsContext) iProvisionSkippingExisting(role, database string) error {
	s.lastErr = s.provisioner.Provision(context.Background(), provision.Spec{
		Role:         role,
		Password:     testPassword,
		Database:     database,
		SkipExisting: true,
	})
	return nil
}

func (s *StepsContext) iCreateDatabaseOwnedBy(database, owner string) error {
	s.lastErr = s.provisioner.CreateDatabase(context.Background(), database, owner)
	return nil
}

// Outcome steps

func (s *StepsContext) provisioningShouldSucceed() error {
	if s.lastErr != nil {
		return fmt.Errorf("expected success, got: %v", s.lastErr)
	}
	return nil
}

func (s *StepsContext) provisioningShouldFailDatabaseExists() error {
	if !errors.Is(s.lastErr, provision.ErrDatabaseExists) {
		return fmt.Errorf("expected database-exists failure, got: %v", s.lastErr)
	}
	return nil
}

func (s *StepsContext) provisioningShouldFailRoleMissing() error {
	if !errors.Is(s.lastErr, provision.ErrRoleMissing) {
		return fmt.Errorf("expected missing-owner failure, got: %v", s.lastErr)
	}
	return nil
}

func (s *StepsContext) roleShouldExist(name string) error {
	exists, err := s.provisioner.RoleExists(context.Background(), name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("role %q does not exist", name)
	}
	return nil
}

func (s *StepsContext) databaseShouldExistOwnedBy(name, owner string) error {
	var actual string
	err := s.tc.AdminDB.QueryRow(`
		SELECT r.rolname FROM pg_database d
		JOIN pg_roles r ON d.datdba = r.oid
		WHERE d.datname = $1
	`, name).Scan(&actual)
	if err == sql.ErrNoRows {
		return fmt.Errorf("database %q does not exist", name)
	}
	if err != nil {
		return err
	}
	if actual != owner {
		return fmt.Errorf("database %q is owned by %q, expected %q", name, actual, owner)
	}
	return nil
}

// roleCanCreateTablesIn connects as the provisioned role and exercises its
// privileges end to end.
func (s *StepsContext) roleCanCreateTablesIn(role, database string) error {
	db, err := sql.Open("postgres", s.tc.RoleURL(role, testPassword, database))
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS provision_probe (id serial PRIMARY KEY, note text)`); err != nil {
		return fmt.Errorf("role %q cannot create tables in %q: %w", role, database, err)
	}
	if _, err := db.Exec(`INSERT INTO provision_probe (note) VALUES ('ok')`); err != nil {
		return fmt.Errorf("role %q cannot insert in %q: %w", role, database, err)
	}
	return nil
}
