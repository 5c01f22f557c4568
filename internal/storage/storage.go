package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-customers/internal/domain"
)

// Package storage provides the customer persistence backends.

// ErrEmailTaken is returned when an insert or update would duplicate an email.
var ErrEmailTaken = errors.New("email already taken")

// Store persists customers.
type Store interface {
	Close() error
	SelectAll(ctx context.Context) ([]domain.Customer, error)
	SelectByID(ctx context.Context, id int) (domain.Customer, bool, error)
	// Insert stores c under a freshly assigned id and returns the stored row.
	Insert(ctx context.Context, c domain.Customer) (domain.Customer, error)
	ExistsWithEmail(ctx context.Context, email string) (bool, error)
	ExistsWithID(ctx context.Context, id int) (bool, error)
	DeleteByID(ctx context.Context, id int) error
	Update(ctx context.Context, c domain.Customer) error
}

// Options controls backend specific knobs.
type Options struct {
	OpenTimeout  time.Duration
	MaxOpenConns int
}

const (
	TypeMemory   = "memory"
	TypeBBolt    = "bbolt"
	TypePostgres = "postgres"

	defaultOpenTimeout  = time.Second
	defaultMaxOpenConns = 10
)

// NewStore creates the configured storage backend. location is the file path
// for bbolt and the connection string for postgres.
func NewStore(ctx context.Context, typ, location string, opts Options) (Store, error) {
	typ = NormalizeType(typ)
	opts = normalizeOptions(opts)

	switch typ {
	case TypeMemory:
		return newMemoryStore(), nil
	case TypeBBolt:
		if strings.TrimSpace(location) == "" {
			return nil, errors.New("bbolt storage requires a path")
		}
		return openBolt(location, opts)
	case TypePostgres:
		if strings.TrimSpace(location) == "" {
			return nil, errors.New("postgres storage requires a database url")
		}
		return openPostgres(ctx, location, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// NormalizeType lowercases typ and maps the accepted aliases onto the
// canonical Type constants. Unknown types are returned lowercased.
func NormalizeType(typ string) string {
	typ = strings.ToLower(strings.TrimSpace(typ))
	switch typ {
	case "", "list":
		return TypeMemory
	case "postgresql":
		return TypePostgres
	}
	return typ
}

func normalizeOptions(opts Options) Options {
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = defaultOpenTimeout
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = defaultMaxOpenConns
	}
	return opts
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
