package storage

import "context"

// Provider encapsulates the operations the blog runtime routes through a
// storage backend. The query string is an operation name rather than SQL so
// filesystem-backed implementations can participate alongside databases.
type Provider interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	Transaction(ctx context.Context, fn func(tx Transaction) error) error
}

// Config captures the runtime configuration for a storage provider.
type Config struct {
	Driver  string
	DSN     string
	Options map[string]any
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}

type Transaction interface {
	Provider
	Commit() error
	Rollback() error
}
