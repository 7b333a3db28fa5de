package integration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	Container testcontainers.Container
	AdminDB   *sql.DB
	AdminURL  string

	// Host and Port of the mapped PostgreSQL listener, for building
	// connection strings for provisioned roles.
	Host string
	Port string
}

// NewTestContext starts a PostgreSQL testcontainer and opens an
// administrative (superuser) connection to it.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("postgres"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	adminURL := fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, port.Port())

	adminDB, err := sql.Open("postgres", adminURL)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to open admin connection: %w", err)
	}
	if err := adminDB.PingContext(ctx); err != nil {
		_ = adminDB.Close()
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping admin connection: %w", err)
	}

	return &TestContext{
		Container: pgContainer,
		AdminDB:   adminDB,
		AdminURL:  adminURL,
		Host:      host,
		Port:      port.Port(),
	}, nil
}

// RoleURL builds a connection string for a provisioned role.
func (tc *TestContext) RoleURL(role, password, database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		role, password, tc.Host, tc.Port, database)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.AdminDB != nil {
		_ = tc.AdminDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}
