package dbal

import (
	"fmt"
	"strings"
)

// QueryBuilder assembles a SELECT with numbered pgx placeholders. Joins are
// registered under a key so handlers can share them.
type QueryBuilder struct {
	selects  []string
	from     string
	joins    []string
	joinKeys map[string]bool
	wheres   []string
	groupBy  []string
	orderBy  []string
	args     []interface{}
	limit    int
	offset   int
}

func NewQueryBuilder(from string) *QueryBuilder {
	return &QueryBuilder{from: from, joinKeys: make(map[string]bool)}
}

// AddArg stores value and returns its placeholder.
func (qb *QueryBuilder) AddArg(value interface{}) string {
	qb.args = append(qb.args, value)
	return fmt.Sprintf("$%d", len(qb.args))
}

func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	qb.selects = columns
	return qb
}

func (qb *QueryBuilder) AddSelect(columns ...string) *QueryBuilder {
	qb.selects = append(qb.selects, columns...)
	return qb
}

// Join adds clause once per key.
func (qb *QueryBuilder) Join(key, clause string) *QueryBuilder {
	if qb.joinKeys[key] {
		return qb
	}
	qb.joinKeys[key] = true
	qb.joins = append(qb.joins, clause)
	return qb
}

func (qb *QueryBuilder) HasJoin(key string) bool {
	return qb.joinKeys[key]
}

func (qb *QueryBuilder) Where(clause string) *QueryBuilder {
	qb.wheres = append(qb.wheres, clause)
	return qb
}

func (qb *QueryBuilder) GroupBy(columns ...string) *QueryBuilder {
	qb.groupBy = append(qb.groupBy, columns...)
	return qb
}

func (qb *QueryBuilder) AddOrderBy(expression, direction string) *QueryBuilder {
	qb.orderBy = append(qb.orderBy, expression+" "+direction)
	return qb
}

func (qb *QueryBuilder) ResetOrderBy() *QueryBuilder {
	qb.orderBy = nil
	return qb
}

func (qb *QueryBuilder) SetLimit(limit int) *QueryBuilder {
	qb.limit = limit
	return qb
}

func (qb *QueryBuilder) SetOffset(offset int) *QueryBuilder {
	qb.offset = offset
	return qb
}

func (qb *QueryBuilder) Args() []interface{} {
	return qb.args
}

// Clone copies the builder including its arguments.
func (qb *QueryBuilder) Clone() *QueryBuilder {
	c := &QueryBuilder{
		selects:  append([]string(nil), qb.selects...),
		from:     qb.from,
		joins:    append([]string(nil), qb.joins...),
		joinKeys: make(map[string]bool, len(qb.joinKeys)),
		wheres:   append([]string(nil), qb.wheres...),
		groupBy:  append([]string(nil), qb.groupBy...),
		orderBy:  append([]string(nil), qb.orderBy...),
		args:     append([]interface{}(nil), qb.args...),
		limit:    qb.limit,
		offset:   qb.offset,
	}
	for k, v := range qb.joinKeys {
		c.joinKeys[k] = v
	}
	return c
}

func (qb *QueryBuilder) body() string {
	var sb strings.Builder

	sb.WriteString(" FROM ")
	sb.WriteString(qb.from)
	for _, join := range qb.joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}
	if len(qb.wheres) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(qb.wheres, " AND "))
	}
	if len(qb.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(qb.groupBy, ", "))
	}

	return sb.String()
}

// SQL renders the full statement.
func (qb *QueryBuilder) SQL() (string, []interface{}) {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	if len(qb.selects) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(qb.selects, ", "))
	}
	sb.WriteString(qb.body())

	if len(qb.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(qb.orderBy, ", "))
	}
	if qb.limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", qb.limit))
	}
	if qb.offset > 0 {
		sb.WriteString(fmt.Sprintf(" OFFSET %d", qb.offset))
	}

	return sb.String(), qb.args
}

// CountSQL renders a count over the distinct rows of the query without
// ordering and paging. The builder must not hold arguments that only ORDER BY
// references.
func (qb *QueryBuilder) CountSQL(column string) (string, []interface{}) {
	return "SELECT COUNT(DISTINCT " + column + ")" + qb.body(), qb.args
}
