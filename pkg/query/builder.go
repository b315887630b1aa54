package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// condition is one WHERE term. Each "?" in clause is a placeholder that is
// numbered in order when the query is rendered.
type condition struct {
	clause string
	args   []any
}

// SortField is one ORDER BY term over a logical field name.
type SortField struct {
	Field      string
	Descending bool
}

// Builder assembles SELECT statements over a ProjectionMap with
// PostgreSQL-numbered parameters.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder. defaultSort applies when no requested sort
// field survives projection filtering.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses "a,-b" into ascending a and descending b.
// Empty input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// OrderByFields replaces the requested sort order.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereEquals adds field = value. Nil values, including typed nil pointers,
// are skipped so optional filters can be passed straight through. field may
// be a projected name or a raw column of a joined table.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.where(b.projection.Column(field)+" = ?", value)
}

// WhereSearch adds a case-insensitive substring match OR-ed across fields.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	terms := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		terms[i] = b.projection.Column(f) + " ILIKE ?"
		args[i] = pattern
	}
	return b.where("("+strings.Join(terms, " OR ")+")", args...)
}

func (b *Builder) where(clause string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{clause: clause, args: args})
	return b
}

// Build returns a SELECT with the conditions and ordering applied.
func (b *Builder) Build() (string, []any) {
	return b.selectStmt(b.projection.Columns(), true, "")
}

// BuildCount returns SELECT COUNT(*) with the conditions applied.
func (b *Builder) BuildCount() (string, []any) {
	return b.selectStmt("COUNT(*)", false, "")
}

// BuildPage returns one 1-based page of Build.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	tail := fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)
	return b.selectStmt(b.projection.Columns(), true, tail)
}

// BuildSingle selects one row by idField, ignoring other conditions.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.From(),
		b.projection.Column(idField),
	)
	return sql, []any{id}
}

func (b *Builder) selectStmt(columns string, ordered bool, tail string) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(columns)
	sb.WriteString(" FROM ")
	sb.WriteString(b.projection.From())

	args := b.writeWhere(&sb)
	if ordered {
		sb.WriteString(b.orderBy())
	}
	sb.WriteString(tail)

	return sb.String(), args
}

func (b *Builder) writeWhere(sb *strings.Builder) []any {
	if len(b.conditions) == 0 {
		return nil
	}

	var args []any
	sb.WriteString(" WHERE ")
	for i, c := range b.conditions {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		for _, r := range c.clause {
			if r != '?' {
				sb.WriteRune(r)
				continue
			}
			args = append(args, c.args[0])
			c.args = c.args[1:]
			sb.WriteString("$" + strconv.Itoa(len(args)))
		}
	}
	return args
}

// orderBy keeps only fields the projection maps, so client sort input
// never reaches the SQL text.
func (b *Builder) orderBy() string {
	parts := b.orderTerms(b.sort)
	if len(parts) == 0 {
		parts = b.orderTerms(b.defaultSort)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) orderTerms(fields []SortField) []string {
	var parts []string
	for _, f := range fields {
		if !b.projection.Has(f.Field) {
			continue
		}
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		parts = append(parts, b.projection.Column(f.Field)+dir)
	}
	return parts
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
