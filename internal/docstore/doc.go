// Package docstore is a small document-collection layer over SQLite.
//
// Records are stored as JSON documents in a single table keyed by
// (collection, id). A Collection offers the handful of operations the
// fleet dashboard needs:
//
//   - Find with equality and lower-bound filters, sort, limit and projection
//   - FindOne returning ErrNotFound when nothing matches
//   - InsertOne and InsertMany returning ErrDuplicate on unique violations
//   - UpdateOne applying a field-level set to one document by id
//   - Count
//
// Filter fields address top-level or dotted JSON paths ("status",
// "location.lat"). Field names are validated and compiled into literal
// json_extract expressions so the partial indexes created by the schema
// migrations can be used.
package docstore
