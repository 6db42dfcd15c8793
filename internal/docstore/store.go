package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/hyderfleet/fleetops/internal/infrastructure/database"
)

// Store hands out collections backed by one database handle.
type Store struct {
	db  *database.DB
	now func() time.Time
}

// New creates a Store. The database must already be migrated.
func New(db *database.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Collection returns a handle to the named collection.
func (s *Store) Collection(name string) *Collection {
	return &Collection{store: s, name: name}
}

// HealthCheck verifies the underlying database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

// Collection is a named set of JSON documents.
type Collection struct {
	store *Store
	name  string
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Find decodes all documents matching filter into out, which must be a
// pointer to a slice. An empty result leaves out as an empty, non-nil slice.
func (c *Collection) Find(ctx context.Context, filter Filter, opts FindOptions, out any) error {
	where, args, err := filter.where()
	if err != nil {
		return err
	}
	order, err := opts.orderBy()
	if err != nil {
		return err
	}
	sel, err := opts.selectExpr()
	if err != nil {
		return err
	}

	query := "SELECT " + sel + " FROM documents WHERE collection = ?" + where + order
	args = append([]any{c.name}, args...)
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := c.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying %s: %w", c.name, err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return fmt.Errorf("scanning %s document: %w", c.name, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s: %w", c.name, err)
	}

	// Decoding one JSON array lets the caller pick any slice element type.
	array := "[" + strings.Join(docs, ",") + "]"
	if err := json.Unmarshal([]byte(array), out); err != nil {
		return fmt.Errorf("decoding %s documents: %w", c.name, err)
	}
	return nil
}

// FindOne decodes the first document matching filter into out.
func (c *Collection) FindOne(ctx context.Context, filter Filter, out any) error {
	return c.FindOneWithOptions(ctx, filter, FindOptions{}, out)
}

// FindOneWithOptions is FindOne with sort and projection control.
func (c *Collection) FindOneWithOptions(ctx context.Context, filter Filter, opts FindOptions, out any) error {
	where, args, err := filter.where()
	if err != nil {
		return err
	}
	order, err := opts.orderBy()
	if err != nil {
		return err
	}
	sel, err := opts.selectExpr()
	if err != nil {
		return err
	}

	query := "SELECT " + sel + " FROM documents WHERE collection = ?" + where + order + " LIMIT 1"
	args = append([]any{c.name}, args...)

	var doc string
	err = c.store.db.QueryRowContext(ctx, query, args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("querying %s: %w", c.name, err)
	}
	if err := json.Unmarshal([]byte(doc), out); err != nil {
		return fmt.Errorf("decoding %s document: %w", c.name, err)
	}
	return nil
}

// InsertOne stores a new document. The document must marshal to a JSON
// object with a non-empty string "id" field.
func (c *Collection) InsertOne(ctx context.Context, doc any) error {
	id, data, err := encode(doc)
	if err != nil {
		return err
	}
	ts := c.store.now().UTC().Format(TimeFormat)

	_, err = c.store.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, doc, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		c.name, id, data, ts, ts,
	)
	if err != nil {
		return c.insertError(id, err)
	}
	return nil
}

// InsertMany stores documents in a single transaction. Either all are
// inserted or none are.
func (c *Collection) InsertMany(ctx context.Context, docs []any) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO documents (collection, id, doc, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	ts := c.store.now().UTC().Format(TimeFormat)
	for _, doc := range docs {
		id, data, err := encode(doc)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, c.name, id, data, ts, ts); err != nil {
			return c.insertError(id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s inserts: %w", c.name, err)
	}
	return nil
}

// Set maps field names to new values for UpdateOne.
type Set map[string]any

// UpdateOne applies set to the document with the given id. It reports
// whether a document matched; no match is not an error.
func (c *Collection) UpdateOne(ctx context.Context, id string, set Set) (bool, error) {
	if len(set) == 0 {
		return false, nil
	}

	// json_set(doc, '$.a', json(?), '$.b', json(?), ...)
	expr := "json_set(doc"
	args := make([]any, 0, len(set)+3) //nolint:mnd // set values + updated_at, collection, id
	for _, field := range slices.Sorted(maps.Keys(set)) {
		path, err := jsonPath(field)
		if err != nil {
			return false, err
		}
		raw, err := json.Marshal(set[field])
		if err != nil {
			return false, fmt.Errorf("encoding field %s: %w", field, err)
		}
		expr += ", " + path + ", json(?)"
		args = append(args, string(raw))
	}
	expr += ")"

	args = append(args, c.store.now().UTC().Format(TimeFormat), c.name, id)
	res, err := c.store.db.ExecContext(ctx,
		"UPDATE documents SET doc = "+expr+", updated_at = ? WHERE collection = ? AND id = ?",
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("%w: %s/%s", ErrDuplicate, c.name, id)
		}
		return false, fmt.Errorf("updating %s/%s: %w", c.name, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of documents matching filter.
func (c *Collection) Count(ctx context.Context, filter Filter) (int, error) {
	where, args, err := filter.where()
	if err != nil {
		return 0, err
	}
	args = append([]any{c.name}, args...)

	var n int
	if err := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE collection = ?"+where, args...,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", c.name, err)
	}
	return n, nil
}

func (c *Collection) insertError(id string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s/%s", ErrDuplicate, c.name, id)
	}
	return fmt.Errorf("inserting %s/%s: %w", c.name, id, err)
}

// encode marshals doc and extracts its id.
func encode(doc any) (string, string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", "", fmt.Errorf("encoding document: %w", err)
	}
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMissingID, err)
	}
	if head.ID == "" {
		return "", "", ErrMissingID
	}
	return head.ID, string(data), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
