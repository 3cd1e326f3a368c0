package store

import (
	"context"
	"errors"

	"github.com/loglens/loglens/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicate = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	// GetPackage returns the package registered under name, or ErrNotFound.
	GetPackage(ctx context.Context, name string) (*models.Package, error)
	// CreatePackage inserts a new package record. The packages.name primary
	// key is the authoritative uniqueness guard; a collision is ErrDuplicate.
	CreatePackage(ctx context.Context, pkg *models.Package) error

	// InsertLogs writes a batch of entries. The batch either fully succeeds
	// or the call returns an error; callers see no partial results.
	InsertLogs(ctx context.Context, entries []*models.LogEntry) error
	// ListLogs returns up to limit entries for packageName, newest first.
	ListLogs(ctx context.Context, packageName string, limit int) ([]*models.LogEntry, error)
	// DeleteLogs removes every entry owned by packageName and returns the
	// number removed.
	DeleteLogs(ctx context.Context, packageName string) (int64, error)
}
