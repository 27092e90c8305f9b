package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Dialect selects the placeholder style of a SQLStore.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

const sqlSchema = `
CREATE TABLE IF NOT EXISTS schedule_entries (
    kind        TEXT NOT NULL,
    position    INTEGER NOT NULL,
    entry_id    TEXT NOT NULL DEFAULT '',
    user_id     BIGINT NOT NULL,
    channel_id  BIGINT,
    payload     TEXT NOT NULL DEFAULT '',
    due_at      BIGINT NOT NULL,
    PRIMARY KEY (kind, position)
);`

// SQLStore keeps entries for one kind in the shared schedule_entries table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	kind    Kind
	log     *zap.Logger
	now     func() time.Time
}

// NewSQLStore creates the table if needed.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect, kind Kind, log *zap.Logger) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, sqlSchema); err != nil {
		return nil, fmt.Errorf("create schedule_entries: %w", err)
	}
	return OpenSQLStore(db, dialect, kind, log), nil
}

// OpenSQLStore wraps an existing table without touching the schema.
func OpenSQLStore(db *sql.DB, dialect Dialect, kind Kind, log *zap.Logger) *SQLStore {
	return &SQLStore{
		db:      db,
		dialect: dialect,
		kind:    kind,
		log:     log.With(zap.String("kind", kind.Name), zap.String("store", "sql")),
		now:     time.Now,
	}
}

// bind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) bind(q string) string {
	if s.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Load(ctx context.Context) []Entry {
	entries, err := s.Read(ctx)
	if err != nil {
		s.log.Warn("could not load entries, starting empty", zap.Error(err))
		return []Entry{}
	}
	s.log.Info("loaded entries", zap.Int("count", len(entries)))
	return entries
}

// Read queries the kind's rows, dropping the ones that fail validation.
func (s *SQLStore) Read(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, s.bind(`
		SELECT entry_id, user_id, channel_id, payload, due_at
		FROM schedule_entries
		WHERE kind = ?
		ORDER BY position`), s.kind.Name)
	if err != nil {
		return nil, fmt.Errorf("query %s entries: %w", s.kind.Name, err)
	}
	defer rows.Close()

	now := s.now()
	entries := []Entry{}
	dropped := 0
	for rows.Next() {
		var (
			e       Entry
			channel sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.OwnerID, &channel, &e.Payload, &e.DueAt); err != nil {
			dropped++
			continue
		}
		if channel.Valid {
			e.DestinationID = Int64(channel.Int64)
		}
		v, ok := validate(s.kind, e, now)
		if !ok {
			dropped++
			continue
		}
		entries = append(entries, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s entries: %w", s.kind.Name, err)
	}
	if dropped > 0 {
		s.log.Info("dropped invalid or stale entries", zap.Int("dropped", dropped))
	}
	return entries, nil
}

// Save replaces all rows of the kind inside one transaction.
func (s *SQLStore) Save(ctx context.Context, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.bind(`DELETE FROM schedule_entries WHERE kind = ?`), s.kind.Name); err != nil {
		return fmt.Errorf("clear %s entries: %w", s.kind.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.bind(`
		INSERT INTO schedule_entries (kind, position, entry_id, user_id, channel_id, payload, due_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		var channel sql.NullInt64
		if e.DestinationID != nil {
			channel = sql.NullInt64{Int64: *e.DestinationID, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, s.kind.Name, i, e.ID, e.OwnerID, channel, e.Payload, e.DueAt); err != nil {
			return fmt.Errorf("insert %s entry: %w", s.kind.Name, err)
		}
	}
	return tx.Commit()
}
