// Package docstore defines the document store contract shared by the MongoDB
// and embedded SQLite backends.
package docstore

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the field holding a document's store-generated identifier.
const IDField = "_id"

// ConnectionError wraps a failure to reach the configured store.
type ConnectionError struct {
	Backend string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s store: %v", e.Backend, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Document is a raw stored record. Backends return the identifier under
// IDField in their native representation.
type Document map[string]any

// Op is a comparison operator in a filter condition.
type Op int

const (
	// Eq matches documents whose field equals the value.
	Eq Op = iota
	// Ne matches documents whose field differs from the value or is absent.
	Ne
)

// Condition compares one field against a value.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Filter is a conjunction of conditions. The zero value matches everything.
type Filter []Condition

// Where starts a filter with a single condition.
func Where(field string, op Op, value any) Filter {
	return Filter{{Field: field, Op: op, Value: value}}
}

// ByID matches the document with the given identifier.
func ByID(id string) Filter {
	return Where(IDField, Eq, id)
}

// Sort orders results by one field.
type Sort struct {
	Field string
	Desc  bool
}

// FindOptions controls ordering and size of a Find. A zero Limit means no limit.
type FindOptions struct {
	Sort  []Sort
	Limit int64
}

// Update describes a single-document modification: Set overwrites fields and
// Inc adds to numeric fields, treating absent ones as zero.
type Update struct {
	Set map[string]any
	Inc map[string]int64
}

// Store is implemented by every backend. All calls block until the store has
// answered; writes are durable when they return.
type Store interface {
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	Find(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]Document, error)
	FindOne(ctx context.Context, collection string, filter Filter) (Document, error)
	UpdateOne(ctx context.Context, collection string, filter Filter, update Update) (int64, error)
	DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error)
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	CollectionNames(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Name() string
	Close(ctx context.Context) error
}

// NewID returns a fresh identifier in the store's external string form.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id has the identifier format used by every backend.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// Backend names the implementation a connection URL selects.
type Backend string

const (
	BackendNone   Backend = ""
	BackendMongo  Backend = "mongo"
	BackendSQLite Backend = "sqlite"
)

// BackendFor picks the backend from the URL scheme. An empty URL selects
// BackendNone; an unknown scheme is an error.
func BackendFor(url string) (Backend, error) {
	switch {
	case strings.TrimSpace(url) == "":
		return BackendNone, nil
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return BackendMongo, nil
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "file:"):
		return BackendSQLite, nil
	default:
		return BackendNone, fmt.Errorf("unsupported database url scheme: %q", schemeOf(url))
	}
}

// SQLitePath extracts the database file path from a sqlite:// or file: URL.
func SQLitePath(url string) string {
	if p, ok := strings.CutPrefix(url, "sqlite://"); ok {
		return p
	}
	return strings.TrimPrefix(url, "file:")
}

func schemeOf(url string) string {
	if i := strings.Index(url, ":"); i >= 0 {
		return url[:i]
	}
	return url
}
