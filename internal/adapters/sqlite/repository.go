package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/csg33k/leadform/internal/domain"
	"github.com/csg33k/leadform/internal/ports"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	_ ports.RecordStore  = (*Repository)(nil)
	_ ports.RecordLister = (*Repository)(nil)
)

type Repository struct {
	db *sql.DB
}

// New opens the SQLite database and applies the up sections of the
// bundled migrations. The same files work with `dbmate up`.
func New(dsn string) (*Repository, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", dsn+sep+"_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// ── Records ───────────────────────────────────────────────────────────────────

func (r *Repository) NewKey(_ context.Context, _ string) (string, error) {
	return uuid.NewString(), nil
}

func (r *Repository) Set(ctx context.Context, collection, key string, rec domain.SubmissionRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (
			record_key, collection,
			name, roll, branch, college, email, mobile,
			timestamp, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		key, collection,
		rec.Name, rec.RollNumber, rec.Branch, rec.Institution, rec.Email, rec.Mobile,
		rec.SubmittedAtEpochMillis, rec.SubmittedAtISO,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, collection string) ([]domain.StoredRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT record_key, name, roll, branch, college, email, mobile, timestamp, created_at
		FROM records WHERE collection=? ORDER BY timestamp, record_key`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.StoredRecord
	for rows.Next() {
		var s domain.StoredRecord
		if err := rows.Scan(
			&s.Key, &s.Name, &s.RollNumber, &s.Branch, &s.Institution, &s.Email, &s.Mobile,
			&s.SubmittedAtEpochMillis, &s.SubmittedAtISO,
		); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func migrate(db *sql.DB) error {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, f := range files {
		b, err := migrations.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := db.Exec(upSection(string(b))); err != nil {
			return fmt.Errorf("apply %s: %w", f, err)
		}
	}
	return nil
}

// upSection returns the statements between the dbmate up and down markers.
func upSection(content string) string {
	_, up, ok := strings.Cut(content, "-- migrate:up")
	if !ok {
		return content
	}
	up, _, _ = strings.Cut(up, "-- migrate:down")
	return up
}
