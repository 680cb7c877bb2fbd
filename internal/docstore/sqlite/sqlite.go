// Package sqlite implements docstore.Store on an embedded SQLite database.
// Every collection shares one table; each row holds a JSON document.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/vbonduro/inmuebles/internal/docstore"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies pending
// migrations. Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &docstore.ConnectionError{Backend: "sqlite", Err: err}
	}
	// A single connection serialises writers and keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &docstore.ConnectionError{Backend: "sqlite", Err: err}
	}

	if err := runMigrations(db); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("failed to run migrations: %w (also failed to close db: %v)", err, cerr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	// m.Close is not called: it would close db.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	id := docstore.NewID()
	fields := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == docstore.IDField {
			if given, ok := v.(string); ok && given != "" {
				id = given
			}
			continue
		}
		fields[k] = storable(v)
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)
	`, collection, id, string(body)); err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return id, nil
}

func (s *Store) Find(ctx context.Context, collection string, filter docstore.Filter, opts docstore.FindOptions) ([]docstore.Document, error) {
	cond, args := where(collection, filter)
	query := "SELECT id, body FROM documents WHERE " + cond

	order := make([]string, 0, len(opts.Sort)+1)
	for _, srt := range opts.Sort {
		expr, exprArgs := fieldExpr(srt.Field)
		dir := " ASC"
		if srt.Desc {
			dir = " DESC"
		}
		order = append(order, expr+dir)
		args = append(args, exprArgs...)
	}
	// Insertion order is the natural order.
	order = append(order, "seq ASC")
	query += " ORDER BY " + strings.Join(order, ", ")

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var docs []docstore.Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		doc[docstore.IDField] = id
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}

func (s *Store) FindOne(ctx context.Context, collection string, filter docstore.Filter) (docstore.Document, error) {
	docs, err := s.Find(ctx, collection, filter, docstore.FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

func (s *Store) UpdateOne(ctx context.Context, collection string, filter docstore.Filter, update docstore.Update) (int64, error) {
	if len(update.Set) == 0 && len(update.Inc) == 0 {
		return 0, errors.New("empty update")
	}

	expr := "body"
	var args []any
	for _, k := range sortedKeys(update.Set) {
		value, err := json.Marshal(storable(update.Set[k]))
		if err != nil {
			return 0, fmt.Errorf("failed to encode field %s: %w", k, err)
		}
		expr = fmt.Sprintf("json_set(%s, ?, json(?))", expr)
		args = append(args, jsonPath(k), string(value))
	}
	for _, k := range sortedKeys(update.Inc) {
		expr = fmt.Sprintf("json_set(%s, ?, COALESCE(json_extract(body, ?), 0) + ?)", expr)
		args = append(args, jsonPath(k), jsonPath(k), update.Inc[k])
	}

	cond, condArgs := where(collection, filter)
	args = append(args, condArgs...)

	result, err := s.db.ExecContext(ctx,
		"UPDATE documents SET body = "+expr+
			" WHERE seq = (SELECT seq FROM documents WHERE "+cond+" ORDER BY seq LIMIT 1)",
		args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update document: %w", err)
	}
	matched, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return matched, nil
}

func (s *Store) DeleteOne(ctx context.Context, collection string, filter docstore.Filter) (int64, error) {
	cond, args := where(collection, filter)
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE seq = (SELECT seq FROM documents WHERE "+cond+" ORDER BY seq LIMIT 1)",
		args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete document: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

func (s *Store) Count(ctx context.Context, collection string, filter docstore.Filter) (int64, error) {
	cond, args := where(collection, filter)
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE "+cond, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT collection FROM documents ORDER BY collection`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collections: %w", err)
	}
	return names, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Name is the database file name without its extension.
func (s *Store) Name() string {
	base := filepath.Base(s.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

func where(collection string, filter docstore.Filter) (string, []any) {
	clauses := []string{"collection = ?"}
	args := []any{collection}
	for _, c := range filter {
		expr, exprArgs := fieldExpr(c.Field)
		op := " = ?"
		if c.Op == docstore.Ne {
			// IS NOT also matches absent fields, which extract as NULL.
			op = " IS NOT ?"
		}
		clauses = append(clauses, expr+op)
		args = append(args, exprArgs...)
		args = append(args, sqlValue(c.Value))
	}
	return strings.Join(clauses, " AND "), args
}

func fieldExpr(field string) (string, []any) {
	if field == docstore.IDField {
		return "id", nil
	}
	return "json_extract(body, ?)", []any{jsonPath(field)}
}

func jsonPath(field string) string {
	return `$."` + field + `"`
}

// sqlValue converts a filter value to what json_extract yields for it.
func sqlValue(v any) any {
	switch x := v.(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case time.Time:
		return x.UTC().Format(timeLayout)
	default:
		return v
	}
}

func storable(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(timeLayout)
	}
	return v
}

func decodeBody(body string) (docstore.Document, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	doc := docstore.Document{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
