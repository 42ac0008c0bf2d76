package utils

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// likeEscaper escapes LIKE wildcards so user text matches literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsFold builds a case-insensitive substring match on column.
// Works on both Postgres and SQLite since both honour an explicit ESCAPE.
func ContainsFold(column, text string) exp.LiteralExpression {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
	return goqu.L("LOWER("+column+`) LIKE ? ESCAPE '\'`, pattern)
}

// Nullable turns an optional pointer into a driver value (nil -> NULL)
func Nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// IsNoRows reports whether err means the query matched nothing
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
