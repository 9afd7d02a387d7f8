package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	kvTable         = "kv_entries"
	kvNameColumn    = "name"
	kvValueColumn   = "value"
	kvUpdatedColumn = "updated_at"
)

// sqlite understands "?" placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildGetValueQuery(name string) (string, []any, error) {
	return psql.
		Select(kvValueColumn).
		From(kvTable).
		Where(sq.Eq{kvNameColumn: name}).
		ToSql()
}

func buildUpsertValueQuery(name string, value []byte, now time.Time) (string, []any, error) {
	return psql.
		Insert(kvTable).
		Columns(kvNameColumn, kvValueColumn, kvUpdatedColumn).
		Values(name, value, now.UTC()).
		Suffix("ON CONFLICT(" + kvNameColumn + ") DO UPDATE SET " +
			kvValueColumn + " = excluded." + kvValueColumn + ", " +
			kvUpdatedColumn + " = excluded." + kvUpdatedColumn).
		ToSql()
}

func buildDeleteValuesQuery(names []string) (string, []any, error) {
	return psql.
		Delete(kvTable).
		Where(sq.Eq{kvNameColumn: names}).
		ToSql()
}
