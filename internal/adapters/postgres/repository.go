package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/csg33k/leadform/internal/domain"
	"github.com/csg33k/leadform/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    record_key  TEXT    PRIMARY KEY,
    collection  TEXT    NOT NULL,
    name        TEXT    NOT NULL,
    roll        TEXT    NOT NULL,
    branch      TEXT    NOT NULL,
    college     TEXT    NOT NULL,
    email       TEXT    NOT NULL,
    mobile      TEXT    NOT NULL,
    timestamp   BIGINT  NOT NULL,
    created_at  TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS records_collection_timestamp ON records (collection, timestamp);
`

var (
	_ ports.RecordStore  = &Repository{}
	_ ports.RecordLister = &Repository{}
)

type row struct {
	Key        string `db:"record_key"`
	Collection string `db:"collection"`
	Name       string `db:"name"`
	Roll       string `db:"roll"`
	Branch     string `db:"branch"`
	College    string `db:"college"`
	Email      string `db:"email"`
	Mobile     string `db:"mobile"`
	Timestamp  int64  `db:"timestamp"`
	CreatedAt  string `db:"created_at"`
}

type Repository struct {
	db     *sqlx.DB
	logger ports.Logger
}

// Open connects to url and ensures the records table exists.
func Open(ctx context.Context, url string, logger ports.Logger) (*Repository, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	r := New(db, logger)
	if err := r.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func New(db *sqlx.DB, logger ports.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure records schema: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) NewKey(_ context.Context, _ string) (string, error) {
	return uuid.NewString(), nil
}

func (r *Repository) Set(ctx context.Context, collection, key string, rec domain.SubmissionRecord) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO records (record_key, collection, name, roll, branch, college, email, mobile, timestamp, created_at)
		VALUES (:record_key, :collection, :name, :roll, :branch, :college, :email, :mobile, :timestamp, :created_at)`,
		row{
			Key:        key,
			Collection: collection,
			Name:       rec.Name,
			Roll:       rec.RollNumber,
			Branch:     rec.Branch,
			College:    rec.Institution,
			Email:      rec.Email,
			Mobile:     rec.Mobile,
			Timestamp:  rec.SubmittedAtEpochMillis,
			CreatedAt:  rec.SubmittedAtISO,
		})
	if err != nil {
		r.logger.Debug("insert record failed", "key", key, "error", err)
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, collection string) ([]domain.StoredRecord, error) {
	var rows []row
	query := sqlx.Rebind(sqlx.DOLLAR, `SELECT * FROM records WHERE collection = ? ORDER BY timestamp, record_key`)
	if err := r.db.SelectContext(ctx, &rows, query, collection); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]domain.StoredRecord, 0, len(rows))
	for _, x := range rows {
		out = append(out, domain.StoredRecord{
			Key: x.Key,
			SubmissionRecord: domain.SubmissionRecord{
				Lead: domain.Lead{
					Name: x.Name, RollNumber: x.Roll, Branch: x.Branch,
					Institution: x.College, Email: x.Email, Mobile: x.Mobile,
				},
				SubmittedAtEpochMillis: x.Timestamp,
				SubmittedAtISO:         x.CreatedAt,
			},
		})
	}
	return out, nil
}
