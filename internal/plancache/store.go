package plancache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/config"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/database"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/project"
	"github.com/fwelpo3/Gruppenadressen-V1-I/migrations"
)

// timeLayout has fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Entry describes a cached plan without its rows.
type Entry struct {
	Key         string
	ProjectName string
	Mode        project.StructureMode
	RowCount    int
	CreatedAt   time.Time
	LastUsedAt  time.Time
}

// Store keeps generated plans in the generated_plans table.
//
// Thread Safety:
//   - Safe for concurrent use; the underlying pool has a single connection.
type Store struct {
	db  *database.DB
	now func() time.Time
}

// NewStore wraps an open, migrated database.
func NewStore(db *database.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Open opens the SQLite database from cfg, applies the embedded
// migrations and returns a ready store.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := db.Migrate(ctx, migrations.FS); err != nil {
		db.Close() //nolint:errcheck // best effort on error path
		return nil, fmt.Errorf("migrating plan cache: %w", err)
	}

	return NewStore(db), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the rows cached under key. ok is false when there is no
// entry. A hit refreshes the entry's last-used time so Prune keeps it.
func (s *Store) Get(ctx context.Context, key string) (rows []generator.Row, ok bool, err error) {
	var data []byte
	err = s.db.QueryRowContext(ctx,
		"SELECT payload FROM generated_plans WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached plan: %w", err)
	}

	rows, err = decodeRows(data)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrCorruptEntry, key, err)
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE generated_plans SET last_used_at = ? WHERE key = ?",
		s.timestamp(), key); err != nil {
		return nil, false, fmt.Errorf("touching cached plan: %w", err)
	}

	return rows, true, nil
}

// Put stores rows under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key, projectName string, mode project.StructureMode, rows []generator.Row) error {
	data, err := encodeRows(rows)
	if err != nil {
		return err
	}

	now := s.timestamp()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO generated_plans (key, project_name, mode, row_count, payload, created_at, last_used_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			project_name = excluded.project_name,
			mode = excluded.mode,
			row_count = excluded.row_count,
			payload = excluded.payload,
			last_used_at = excluded.last_used_at`,
		key, projectName, string(mode), len(rows), data, now, now)
	if err != nil {
		return fmt.Errorf("storing plan: %w", err)
	}
	return nil
}

// Prune deletes all but the keep most recently used entries and returns
// the number removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		return 0, ErrInvalidKeep
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM generated_plans WHERE key NOT IN (
			SELECT key FROM generated_plans
			ORDER BY last_used_at DESC, created_at DESC
			LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning plans: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning plans: %w", err)
	}
	return n, nil
}

// List returns the cached entries, most recently used first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, project_name, mode, row_count, created_at, last_used_at
		FROM generated_plans
		ORDER BY last_used_at DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                 Entry
			mode              string
			created, lastUsed string
		)
		if err := rows.Scan(&e.Key, &e.ProjectName, &mode, &e.RowCount, &created, &lastUsed); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		e.Mode = project.StructureMode(mode)
		e.CreatedAt, _ = time.Parse(timeLayout, created)   //nolint:errcheck // written by this package
		e.LastUsedAt, _ = time.Parse(timeLayout, lastUsed) //nolint:errcheck // written by this package
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}
