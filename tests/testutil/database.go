package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/cms-api/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "postgres:16-alpine"
	postgresDB    = "cms_test"
	postgresUser  = "cms"
)

// TestDB is a migrated store backed by a throwaway Postgres container.
type TestDB struct {
	DB        *database.DB
	Container testcontainers.Container
	URL       string
}

// SetupTestDB starts Postgres, connects through database.New and applies
// the migrations. Everything is torn down when t finishes.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     postgresUser,
				"POSTGRES_PASSWORD": postgresUser,
				"POSTGRES_DB":       postgresDB,
			},
			// postgres restarts once after initdb; the second line is the real one.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}

	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresUser, host, port.Port(), postgresDB)

	db, err := database.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Migrations are idempotent; a second run must not fail.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("re-run migrations: %v", err)
	}

	return &TestDB{DB: db, Container: container, URL: url}
}

// CleanTables empties both tables and resets their id sequences so ids
// start at 1 again.
func (tdb *TestDB) CleanTables(t *testing.T) {
	t.Helper()
	if _, err := tdb.DB.Pool.Exec(context.Background(),
		`TRUNCATE TABLE collections, contents RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

// CountContents returns how many rows carry name. Useful where the API
// only ever exposes the oldest one.
func (tdb *TestDB) CountContents(t *testing.T, name string) int {
	t.Helper()
	var n int
	if err := tdb.DB.Pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM contents WHERE name = $1`, name).Scan(&n); err != nil {
		t.Fatalf("count contents: %v", err)
	}
	return n
}
