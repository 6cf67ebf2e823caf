package bench

import (
	"fmt"
	"strings"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/data"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"
)

// Operation is one unit of benchmarked work, fully materialized before
// any I/O happens.
type Operation struct {
	Kind  results.OpType
	Table string // empty for branch/commit operations
	SQL   string
	Args  []interface{}
	// Branch is the target branch name for branch operations.
	Branch string
	// ExpectedKeys is the generator's estimate of rows touched, used
	// for reporting when the backend cannot say (never for
	// correctness).
	ExpectedKeys int64
}

// SQLWithArgs renders the exact text recorded in results: the
// statement plus its bound arguments.
func (o *Operation) SQLWithArgs() string {
	if len(o.Args) == 0 {
		return o.SQL
	}
	return fmt.Sprintf("%s -- args: %v", o.SQL, o.Args)
}

// keyspace approximates the primary-key space of one table: keys are
// assumed dense in [1, maxKey] at run start, and inserts extend it with
// a monotonic counter so in-run collisions cannot happen.
type keyspace struct {
	maxKey  int64
	nextKey int64
}

// Generator turns (config, stream, catalog, branch state) into one
// concrete operation per step. Generation performs no I/O; every
// random decision comes from the stream in a fixed order.
type Generator struct {
	cfg     *RunConfig
	stream  *Stream
	catalog *data.Catalog
	branch  *BranchState

	ops        []results.OpType
	tableNames []string
	keys       map[string]*keyspace
	branchSeq  int
}

// NewGenerator validates the config against the catalog and prepares
// per-table keyspaces.
func NewGenerator(cfg *RunConfig, stream *Stream, catalog *data.Catalog, branch *BranchState) (*Generator, error) {
	g := &Generator{
		cfg:     cfg,
		stream:  stream,
		catalog: catalog,
		branch:  branch,
		ops:     cfg.OpKinds(),
		keys:    make(map[string]*keyspace, catalog.Len()),
	}

	if cfg.TableName != "" {
		if _, ok := catalog.Table(cfg.TableName); !ok {
			return nil, validationErrorf("table %q not present in catalog", cfg.TableName)
		}
		g.tableNames = []string{cfg.TableName}
	} else {
		g.tableNames = catalog.TableNames()
	}

	needsKey := false
	for _, kind := range g.ops {
		switch kind {
		case results.OpRead, results.OpUpdate, results.OpRangeUpdate, results.OpInsert:
			needsKey = true
		}
	}
	for _, name := range g.tableNames {
		table, _ := catalog.Table(name)
		if needsKey {
			if _, ok := table.IntegerKey(); !ok {
				return nil, validationErrorf("table %q has no single integer primary key", name)
			}
		}
		g.keys[name] = &keyspace{maxKey: table.RowCount, nextKey: table.RowCount + 1}
	}

	return g, nil
}

// Next produces the operation for one iteration. Draw order is fixed:
// operation kind first, then table, then operation-specific draws.
func (g *Generator) Next() (*Operation, error) {
	kind := Choice(g.stream, g.ops)

	switch kind {
	case results.OpBranchCreate:
		name := g.nextBranchName()
		if err := g.branch.Apply(kind, name); err != nil {
			return nil, err
		}
		return &Operation{Kind: kind, Branch: name}, nil
	case results.OpBranchConnect:
		if err := g.branch.Apply(kind, ""); err != nil {
			return nil, err
		}
		return &Operation{Kind: kind, Branch: g.branch.Name}, nil
	case results.OpCommit:
		return &Operation{Kind: kind}, nil
	}

	table := g.pickTable()
	ks := g.keys[table.Name]

	switch kind {
	case results.OpRead:
		return g.genRead(table, ks), nil
	case results.OpInsert:
		return g.genInsert(table, ks), nil
	case results.OpUpdate:
		return g.genUpdate(table, ks), nil
	case results.OpRangeUpdate:
		return g.genRangeUpdate(table, ks), nil
	}

	return nil, validationErrorf("unhandled operation kind %s", kind)
}

func (g *Generator) pickTable() *data.TableSchema {
	name := g.tableNames[0]
	if len(g.tableNames) > 1 {
		name = Choice(g.stream, g.tableNames)
	}
	table, _ := g.catalog.Table(name)
	return table
}

// nextBranchName builds a per-run unique, deterministic branch name.
func (g *Generator) nextBranchName() string {
	g.branchSeq++
	prefix := g.cfg.RunID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("bench_%s_b%d", prefix, g.branchSeq)
}

// pickKey draws uniformly from the known key space. An empty table has
// no keys; key 1 is used so the statement remains valid and matches
// nothing.
func (g *Generator) pickKey(ks *keyspace) (key int64, exists bool) {
	if ks.maxKey <= 0 {
		return 1, false
	}
	return 1 + g.stream.Int63n(ks.maxKey), true
}

func (g *Generator) genRead(table *data.TableSchema, ks *keyspace) *Operation {
	pk, _ := table.IntegerKey()
	key, exists := g.pickKey(ks)
	expected := int64(0)
	if exists {
		expected = 1
	}
	return &Operation{
		Kind:         results.OpRead,
		Table:        table.Name,
		SQL:          fmt.Sprintf("SELECT * FROM %s WHERE %s = $1", table.Name, pk.Name),
		Args:         []interface{}{key},
		ExpectedKeys: expected,
	}
}

func (g *Generator) genInsert(table *data.TableSchema, ks *keyspace) *Operation {
	pk, _ := table.IntegerKey()
	key := ks.nextKey
	ks.nextKey++
	ks.maxKey = key

	names := make([]string, 0, len(table.Columns))
	placeholders := make([]string, 0, len(table.Columns))
	args := make([]interface{}, 0, len(table.Columns))
	for _, col := range table.Columns {
		names = append(names, col.Name)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(names)))
		if col.Name == pk.Name {
			args = append(args, key)
		} else {
			args = append(args, g.columnValue(col))
		}
	}

	return &Operation{
		Kind:  results.OpInsert,
		Table: table.Name,
		SQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table.Name, strings.Join(names, ", "), strings.Join(placeholders, ", ")),
		Args:         args,
		ExpectedKeys: 1,
	}
}

func (g *Generator) genUpdate(table *data.TableSchema, ks *keyspace) *Operation {
	pk, _ := table.IntegerKey()
	key, exists := g.pickKey(ks)
	col := g.pickMutableColumn(table)
	value := g.columnValue(col)
	expected := int64(0)
	if exists {
		expected = 1
	}
	return &Operation{
		Kind:         results.OpUpdate,
		Table:        table.Name,
		SQL:          fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2", table.Name, col.Name, pk.Name),
		Args:         []interface{}{value, key},
		ExpectedKeys: expected,
	}
}

// genRangeUpdate touches a contiguous key range. The start offset is
// drawn so the window covers as many keys as the table allows, then
// clipped to table bounds: num keys touched is never more than the
// configured range size.
func (g *Generator) genRangeUpdate(table *data.TableSchema, ks *keyspace) *Operation {
	pk, _ := table.IntegerKey()
	col := g.pickMutableColumn(table)
	value := g.columnValue(col)
	size := int64(g.cfg.RangeUpdate.RangeSize)

	var start, end, expected int64
	if ks.maxKey <= 0 {
		start, end, expected = 1, 0, 0
	} else {
		upper := ks.maxKey - size + 1
		if upper < 1 {
			upper = 1
		}
		start = 1 + g.stream.Int63n(upper)
		end = start + size - 1
		if end > ks.maxKey {
			end = ks.maxKey
		}
		expected = end - start + 1
	}

	return &Operation{
		Kind:  results.OpRangeUpdate,
		Table: table.Name,
		SQL: fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s BETWEEN $2 AND $3",
			table.Name, col.Name, pk.Name),
		Args:         []interface{}{value, start, end},
		ExpectedKeys: expected,
	}
}

// pickMutableColumn draws a non-key column to mutate. Tables with only
// key columns fall back to the key itself being rewritten in place.
func (g *Generator) pickMutableColumn(table *data.TableSchema) data.Column {
	cols := table.NonKeyColumns()
	if len(cols) == 0 {
		return table.Columns[0]
	}
	return Choice(g.stream, cols)
}
