package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loglens/loglens/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Packages ---

func (s *PostgresStore) GetPackage(ctx context.Context, name string) (*models.Package, error) {
	var p models.Package
	err := s.pool.QueryRow(ctx,
		`SELECT name, password_hash, created_at FROM packages WHERE name = $1`, name,
	).Scan(&p.Name, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) CreatePackage(ctx context.Context, pkg *models.Package) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO packages (name, password_hash, created_at) VALUES ($1, $2, $3)`,
		pkg.Name, pkg.PasswordHash, pkg.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}

// --- Logs ---

func (s *PostgresStore) InsertLogs(ctx context.Context, entries []*models.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO logs (id, package_name, level, message, meta, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.ID, e.PackageName, e.Level, e.Message, e.Meta, e.CreatedAt)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert logs: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) ListLogs(ctx context.Context, packageName string, limit int) ([]*models.LogEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, package_name, level, message, meta, created_at
		 FROM logs WHERE package_name = $1
		 ORDER BY created_at DESC LIMIT $2`, packageName, limit)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.PackageName, &e.Level, &e.Message, &e.Meta, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) DeleteLogs(ctx context.Context, packageName string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM logs WHERE package_name = $1`, packageName)
	if err != nil {
		return 0, fmt.Errorf("delete logs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
