// Package sqlite is a RecordStore backed by a single SQLite database file.
//
// Records live in one table keyed by (namespace, key). Create relies on
// ON CONFLICT DO NOTHING, which gives the atomic create-if-absent the file
// backend gets from hard links.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/cognition-hooks/internal/domain"
	"github.com/bnema/cognition-hooks/internal/ports"

	_ "modernc.org/sqlite"
)

const DefaultFileName = "records.db"

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.RecordStore = (*Store)(nil)

func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("sqlite store: create data dir: %w: %w", domain.ErrStoreUnavailable, err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open database: %w: %w", domain.ErrStoreUnavailable, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite store: migration: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS namespaces (
			name       TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS records (
			namespace  TEXT NOT NULL,
			key        TEXT NOT NULL,
			data       BLOB NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (namespace, key)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Ensure(ctx context.Context, ns domain.Namespace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ns.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO namespaces (name, created_at) VALUES (?, ?)`,
		string(ns), s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("create namespace %s: %w: %w", ns, domain.ErrStoreUnavailable, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, ns domain.Namespace, key string) ([]byte, error) {
	if err := validate(ctx, ns, key); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE namespace = ? AND key = ?`,
		string(ns), key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record %s/%s: %w", ns, key, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("read record %s/%s: %w", ns, key, err)
	}

	return data, nil
}

func (s *Store) Put(ctx context.Context, ns domain.Namespace, key string, data []byte) error {
	if err := validate(ctx, ns, key); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (namespace, key, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(ns), key, data, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("write record %s/%s: %w", ns, key, err)
	}

	return nil
}

func (s *Store) Create(ctx context.Context, ns domain.Namespace, key string, data []byte) error {
	if err := validate(ctx, ns, key); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO records (namespace, key, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, key) DO NOTHING`,
		string(ns), key, data, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("create record %s/%s: %w", ns, key, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create record %s/%s: %w", ns, key, err)
	}
	if affected == 0 {
		return fmt.Errorf("record %s/%s: %w", ns, key, domain.ErrRecordExists)
	}

	return nil
}

func (s *Store) List(ctx context.Context, ns domain.Namespace) ([]ports.RecordInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ns.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, updated_at FROM records WHERE namespace = ? ORDER BY key`,
		string(ns),
	)
	if err != nil {
		return nil, fmt.Errorf("list namespace %s: %w: %w", ns, domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []ports.RecordInfo
	for rows.Next() {
		var (
			key       string
			updatedAt int64
		)
		if err := rows.Scan(&key, &updatedAt); err != nil {
			return nil, fmt.Errorf("list namespace %s: %w", ns, err)
		}
		records = append(records, ports.RecordInfo{Key: key, ModTime: time.Unix(0, updatedAt)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list namespace %s: %w", ns, err)
	}

	return records, nil
}

func (s *Store) Delete(ctx context.Context, ns domain.Namespace, key string) error {
	if err := validate(ctx, ns, key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE namespace = ? AND key = ?`,
		string(ns), key,
	); err != nil {
		return fmt.Errorf("delete record %s/%s: %w", ns, key, err)
	}

	return nil
}

func validate(ctx context.Context, ns domain.Namespace, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ns.Validate(); err != nil {
		return err
	}
	return domain.ValidateKey(key)
}
