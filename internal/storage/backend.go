package storage

import (
	"fmt"

	"github.com/kalambet/qaboard/internal/qa"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Backend bundles the question and answer stores with the client that owns
// their connection.
type Backend struct {
	Driver    string
	Questions qa.QuestionStore
	Answers   qa.AnswerStore

	migrate  func() error
	versions func() ([]int, error)
	close    func() error
}

// Open connects to the configured driver. dataDir is used by sqlite, dsn by postgres.
func Open(driver, dataDir, dsn string) (*Backend, error) {
	switch driver {
	case DriverSQLite, "":
		s, err := OpenSQLite(dataDir)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:    DriverSQLite,
			Questions: s.Questions(),
			Answers:   s.Answers(),
			migrate:   s.Migrate,
			versions:  s.AppliedMigrations,
			close:     s.Close,
		}, nil
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("storage driver %q requires a dsn", driver)
		}
		p, err := OpenPostgres(dsn)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:    DriverPostgres,
			Questions: p.Questions(),
			Answers:   p.Answers(),
			migrate:   p.Migrate,
			close:     p.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// Migrate re-runs schema creation. Existing rows are left untouched.
func (b *Backend) Migrate() error {
	return b.migrate()
}

// AppliedMigrations reports versioned migrations. Drivers that manage
// schema without versions return nil.
func (b *Backend) AppliedMigrations() ([]int, error) {
	if b.versions == nil {
		return nil, nil
	}
	return b.versions()
}

func (b *Backend) Close() error {
	return b.close()
}
