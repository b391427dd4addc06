package application

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"

	_ "github.com/lib/pq"
)

// MigrationManager collects module schema files and applies them with goose.
// Modules register their embedded schema in load order; that order defines
// the goose version sequence, so it must stay stable across releases.
type MigrationManager interface {
	RegisterSchema(fsys *embed.FS)
	Run() error
	Rollback() error
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	dsn := ""
	if pool != nil {
		dsn = pool.Config().ConnString()
	}
	return &migrationManager{dsn: dsn}
}

type migrationManager struct {
	dsn     string
	schemas []*embed.FS
}

func (m *migrationManager) RegisterSchema(fsys *embed.FS) {
	m.schemas = append(m.schemas, fsys)
}

func (m *migrationManager) Run() error {
	return m.withCollected(func(db *sql.DB, dir string) error {
		return goose.Up(db, dir)
	})
}

func (m *migrationManager) Rollback() error {
	return m.withCollected(func(db *sql.DB, dir string) error {
		return goose.Down(db, dir)
	})
}

func (m *migrationManager) withCollected(fn func(db *sql.DB, dir string) error) error {
	dir, err := m.materialize()
	if err != nil {
		return err
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	db, err := sql.Open("postgres", m.dsn)
	if err != nil {
		return fmt.Errorf("migrations: open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return fn(db, dir)
}

// materialize copies every registered schema file into a temp directory with
// sequential goose version prefixes.
func (m *migrationManager) materialize() (string, error) {
	dir, err := os.MkdirTemp("", "pinpoint-migrations-")
	if err != nil {
		return "", err
	}

	version := 0
	for _, schema := range m.schemas {
		files, err := sqlFiles(schema)
		if err != nil {
			_ = os.RemoveAll(dir)
			return "", err
		}
		for _, file := range files {
			data, err := schema.ReadFile(file)
			if err != nil {
				_ = os.RemoveAll(dir)
				return "", err
			}
			version++
			name := fmt.Sprintf("%05d_%s", version, sanitizeMigrationName(path.Base(file)))
			if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
				_ = os.RemoveAll(dir)
				return "", err
			}
		}
	}

	if version == 0 {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("migrations: no schema files registered")
	}
	return dir, nil
}

func sqlFiles(fsys fs.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".sql") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("migrations: reading schema fs: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func sanitizeMigrationName(base string) string {
	base = strings.ReplaceAll(base, "-", "_")
	if !strings.HasSuffix(base, ".sql") {
		base += ".sql"
	}
	return base
}
