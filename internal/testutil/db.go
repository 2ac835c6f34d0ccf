// README: Shared database harness for store tests; skips without FRESHFOLD_TEST_DSN.
package testutil

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupDB connects to the test database, applies migrations, and truncates
// every core table. Tests are skipped entirely when FRESHFOLD_TEST_DSN is not
// set, so the default `go test ./...` run needs no infrastructure.
func SetupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("FRESHFOLD_TEST_DSN")
	if dsn == "" {
		t.Skip("FRESHFOLD_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigrations(ctx, db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if _, err := db.Exec(ctx, "TRUNCATE TABLE order_status_events, driver_trips, orders, drivers, customers"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return db
}

func applyMigrations(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	for _, name := range []string{"0001_init.sql"} {
		content, err := os.ReadFile(filepath.Join(root, "migrations", name))
		if err != nil {
			return err
		}
		cleaned := stripSQLComments(string(content))
		for _, stmt := range splitSQL(cleaned) {
			if _, err := db.Exec(ctx, stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
