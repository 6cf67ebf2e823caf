package postgres

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/data"
)

const tableNamesQuery = `
SELECT table_name
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
  AND table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_name;`

const columnsQuery = `
SELECT
    column_name,
    udt_name,
    COALESCE(character_maximum_length, 0) AS length,
    COALESCE(numeric_precision, 0)        AS precision,
    COALESCE(numeric_scale, 0)            AS scale,
    (is_nullable = 'YES')                 AS nullable
FROM information_schema.columns
WHERE table_name = $1
ORDER BY ordinal_position;`

const primaryKeyQuery = `
SELECT column_name
FROM information_schema.key_column_usage
WHERE table_schema = 'public'
  AND table_name = $1
  AND constraint_name = (
      SELECT constraint_name
      FROM information_schema.table_constraints
      WHERE table_schema = 'public'
        AND table_name = $1
        AND constraint_type = 'PRIMARY KEY')
ORDER BY ordinal_position;`

// Catalog introspects every base table in the public schema: columns,
// primary keys, and current row counts.
func (a *Adapter) Catalog(ctx context.Context) (*data.Catalog, error) {
	if a.db == nil {
		return nil, errors.New("database connection is not established")
	}

	var names []string
	if err := a.db.SelectContext(ctx, &names, tableNamesQuery); err != nil {
		return nil, errors.Wrap(err, "list tables")
	}

	tables := make([]data.TableSchema, 0, len(names))
	for _, name := range names {
		table, err := a.tableSchema(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	return data.NewCatalog(tables)
}

func (a *Adapter) tableSchema(ctx context.Context, name string) (data.TableSchema, error) {
	var cols []data.Column
	if err := a.db.SelectContext(ctx, &cols, columnsQuery, name); err != nil {
		return data.TableSchema{}, errors.Wrapf(err, "columns of %s", name)
	}
	if len(cols) == 0 {
		return data.TableSchema{}, errors.Errorf("table %q not found", name)
	}

	var pkNames []string
	if err := a.db.SelectContext(ctx, &pkNames, primaryKeyQuery, name); err != nil {
		return data.TableSchema{}, errors.Wrapf(err, "primary key of %s", name)
	}
	pk := make(map[string]bool, len(pkNames))
	for _, n := range pkNames {
		pk[n] = true
	}
	for i := range cols {
		cols[i].PrimaryKey = pk[cols[i].Name]
	}

	var count int64
	countQuery := "SELECT count(*) FROM " + pq.QuoteIdentifier(name)
	if err := a.db.GetContext(ctx, &count, countQuery); err != nil {
		return data.TableSchema{}, errors.Wrapf(err, "row count of %s", name)
	}

	return data.TableSchema{Name: name, Columns: cols, RowCount: count}, nil
}

// DBSize reports the size of the connected database in bytes.
func (a *Adapter) DBSize(ctx context.Context) (int64, error) {
	if a.db == nil {
		return 0, errors.New("database connection is not established")
	}
	var size int64
	err := a.db.GetContext(ctx, &size, "SELECT pg_database_size(current_database());")
	if err != nil {
		return 0, errors.Wrap(err, "database size")
	}
	return size, nil
}
