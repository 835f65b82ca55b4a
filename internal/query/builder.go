package query

import (
	"fmt"
	"strings"
)

// Builder accumulates AND-ed WHERE conditions with positional placeholders.
// Column names passed in must be trusted identifiers; values are always
// bound as arguments.
type Builder struct {
	conditions []string
	args       []any
	argCount   int
}

func NewBuilder() *Builder {
	return &Builder{
		conditions: []string{},
		args:       []any{},
		argCount:   1,
	}
}

func (b *Builder) bind(value any) string {
	ph := fmt.Sprintf("$%d", b.argCount)
	b.args = append(b.args, value)
	b.argCount++
	return ph
}

// AddCondition adds "column = $n".
func (b *Builder) AddCondition(column string, value any) {
	b.conditions = append(b.conditions, fmt.Sprintf("%s = %s", column, b.bind(value)))
}

// AddEqualFold adds a case-insensitive equality on a text column.
func (b *Builder) AddEqualFold(column, value string) {
	b.conditions = append(b.conditions, fmt.Sprintf("LOWER(%s) = LOWER(%s)", column, b.bind(value)))
}

// AddILike adds a case-insensitive substring match. LIKE wildcards in value
// are escaped so they match literally.
func (b *Builder) AddILike(column, value string) {
	b.conditions = append(b.conditions, fmt.Sprintf("%s ILIKE %s", column, b.bind("%"+EscapeLike(value)+"%")))
}

// AddArrayContains matches rows whose text array column holds value,
// compared case-insensitively.
func (b *Builder) AddArrayContains(column, value string) {
	b.conditions = append(b.conditions,
		fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS elem WHERE LOWER(elem) = LOWER(%s))", column, b.bind(value)))
}

// AddRaw adds a condition with no arguments.
func (b *Builder) AddRaw(condition string) {
	b.conditions = append(b.conditions, condition)
}

func (b *Builder) WhereClause() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conditions, " AND ")
}

func (b *Builder) Args() []any {
	return b.args
}

func (b *Builder) NextArgNum() int {
	return b.argCount
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
