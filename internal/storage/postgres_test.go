package storage

import (
	"os"
	"testing"
)

// TestPostgresStores runs the store suite against a real PostgreSQL server.
// Set QABOARD_TEST_POSTGRES_DSN to a disposable database to enable it.
func TestPostgresStores(t *testing.T) {
	dsn := os.Getenv("QABOARD_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("QABOARD_TEST_POSTGRES_DSN not set")
	}

	p, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	t.Cleanup(func() { p.Close() })

	if err := p.db.Exec("TRUNCATE TABLE answer, question RESTART IDENTITY").Error; err != nil {
		t.Fatalf("truncating tables: %v", err)
	}

	runStoreSuite(t, p.Questions(), p.Answers())

	if err := p.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	list, err := p.Questions().ListQuestions(t.Context())
	if err != nil {
		t.Fatalf("ListQuestions after Migrate: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("rows after Migrate = %d, want 2", len(list))
	}
}
