package docstore

import "errors"

var (
	// ErrNotFound is returned by FindOne when no document matches.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate document")

	// ErrMissingID is returned when a document lacks a string "id" field.
	ErrMissingID = errors.New("document has no id")

	// ErrInvalidField is returned for field names that cannot be used in a query.
	ErrInvalidField = errors.New("invalid field name")
)
