package docstore

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TimeFormat is RFC 3339 with a fixed nine-digit fraction. Timestamps stored
// in this form compare lexically in time order.
const TimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

type operator string

const (
	opEq  operator = "="
	opGte operator = ">="
)

// Cond is a single predicate on a document field.
type Cond struct {
	Field string
	op    operator
	Value any
}

// Filter is a conjunction of conditions. An empty filter matches everything.
type Filter []Cond

// Eq matches documents whose field equals v.
func Eq(field string, v any) Cond {
	return Cond{Field: field, op: opEq, Value: v}
}

// Gte matches documents whose field is greater than or equal to v.
// Strings compare lexically, which orders RFC 3339 UTC timestamps correctly.
func Gte(field string, v any) Cond {
	return Cond{Field: field, op: opGte, Value: v}
}

// Sort orders results by a field.
type Sort struct {
	Field string
	Desc  bool
}

// FindOptions controls Find result shaping.
type FindOptions struct {
	// Limit caps the number of documents returned. Zero means unlimited.
	Limit int

	// Sort is applied in order; ties fall back to insertion order.
	Sort []Sort

	// Projection lists top-level fields removed from every returned document.
	Projection []string
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// jsonPath validates a field name and returns a quoted SQLite JSON path literal.
func jsonPath(field string) (string, error) {
	if !fieldPattern.MatchString(field) {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return "'$." + field + "'", nil
}

// where compiles the filter into a SQL fragment and its arguments.
func (f Filter) where() (string, []any, error) {
	if len(f) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(f))
	args := make([]any, 0, len(f))
	for _, c := range f {
		path, err := jsonPath(c.Field)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, fmt.Sprintf("json_extract(doc, %s) %s ?", path, c.op))
		args = append(args, bindValue(c.Value))
	}
	return " AND " + strings.Join(clauses, " AND "), args, nil
}

// bindValue converts Go values into what json_extract yields for the same JSON.
func bindValue(v any) any {
	switch x := v.(type) {
	case bool:
		// json_extract returns 1/0 for JSON true/false.
		if x {
			return 1
		}
		return 0
	case time.Time:
		return x.UTC().Format(TimeFormat)
	default:
		return v
	}
}

func (o FindOptions) orderBy() (string, error) {
	if len(o.Sort) == 0 {
		return " ORDER BY rowid", nil
	}
	parts := make([]string, 0, len(o.Sort)+1)
	for _, s := range o.Sort {
		path, err := jsonPath(s.Field)
		if err != nil {
			return "", err
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("json_extract(doc, %s) %s", path, dir))
	}
	parts = append(parts, "rowid")
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// selectExpr returns the document column with projected fields removed.
func (o FindOptions) selectExpr() (string, error) {
	if len(o.Projection) == 0 {
		return "doc", nil
	}
	paths := make([]string, 0, len(o.Projection))
	for _, field := range o.Projection {
		path, err := jsonPath(field)
		if err != nil {
			return "", err
		}
		paths = append(paths, path)
	}
	return "json_remove(doc, " + strings.Join(paths, ", ") + ")", nil
}
