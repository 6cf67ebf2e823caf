// Package data holds the table schema model used to synthesize valid
// rows and predicates against a live database.
package data

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Column describes a single table column as reported by
// information_schema (or declared in a catalog file).
type Column struct {
	Name       string `yaml:"name" db:"column_name"`
	Type       string `yaml:"type" db:"udt_name"`
	Length     int    `yaml:"length,omitempty" db:"length"`
	Precision  int    `yaml:"precision,omitempty" db:"precision"`
	Scale      int    `yaml:"scale,omitempty" db:"scale"`
	Nullable   bool   `yaml:"nullable,omitempty" db:"nullable"`
	PrimaryKey bool   `yaml:"primary-key,omitempty" db:"primary_key"`
}

// TypeName returns the rendered SQL type, including length or
// precision/scale where present.
func (c Column) TypeName() string {
	switch {
	case c.Length > 0:
		return fmt.Sprintf("%s(%d)", c.Type, c.Length)
	case (c.Type == "numeric" || c.Type == "decimal") && c.Precision > 0:
		return fmt.Sprintf("%s(%d, %d)", c.Type, c.Precision, c.Scale)
	default:
		return c.Type
	}
}

// TableSchema is an immutable description of one table. RowCount is the
// table's cardinality captured when the catalog was loaded.
type TableSchema struct {
	Name     string   `yaml:"name"`
	Columns  []Column `yaml:"columns"`
	RowCount int64    `yaml:"row-count,omitempty"`
}

// PrimaryKey returns the primary-key columns in declaration order.
func (t *TableSchema) PrimaryKey() []Column {
	var pk []Column
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pk = append(pk, c)
		}
	}
	return pk
}

// IntegerKey returns the single integer primary-key column, if the table
// has exactly one and it is of an integer type. Key-addressed operations
// (READ, UPDATE, RANGE_UPDATE) require such a key.
func (t *TableSchema) IntegerKey() (Column, bool) {
	pk := t.PrimaryKey()
	if len(pk) != 1 {
		return Column{}, false
	}
	switch pk[0].Type {
	case "int", "integer", "bigint", "smallint", "int2", "int4", "int8", "serial", "bigserial":
		return pk[0], true
	}
	return Column{}, false
}

// NonKeyColumns returns every column outside the primary key.
func (t *TableSchema) NonKeyColumns() []Column {
	var cols []Column
	for _, c := range t.Columns {
		if !c.PrimaryKey {
			cols = append(cols, c)
		}
	}
	return cols
}

// DDL renders the schema as CREATE TABLE text, matching the snapshot
// format recorded alongside every result.
func (t *TableSchema) DDL() string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		def := fmt.Sprintf("  %s %s", c.Name, c.TypeName())
		if !c.Nullable {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);", t.Name, strings.Join(defs, ",\n"))
}

// Catalog is the set of loaded table definitions for one database.
type Catalog struct {
	tables []TableSchema
	byName map[string]*TableSchema
}

// NewCatalog builds a catalog from table schemas. Table order is
// preserved so that random table selection is deterministic.
func NewCatalog(tables []TableSchema) (*Catalog, error) {
	if len(tables) == 0 {
		return nil, errors.New("catalog must contain at least one table")
	}
	c := &Catalog{tables: tables, byName: make(map[string]*TableSchema, len(tables))}
	for i := range c.tables {
		t := &c.tables[i]
		if _, ok := c.byName[t.Name]; ok {
			return nil, errors.Errorf("duplicate table %q in catalog", t.Name)
		}
		c.byName[t.Name] = t
	}
	return c, nil
}

// Tables returns the schemas in load order.
func (c *Catalog) Tables() []TableSchema {
	return c.tables
}

// TableNames returns table names in load order.
func (c *Catalog) TableNames() []string {
	names := make([]string, len(c.tables))
	for i, t := range c.tables {
		names[i] = t.Name
	}
	return names
}

// Table looks up one table by name.
func (c *Catalog) Table(name string) (*TableSchema, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Len returns the number of tables.
func (c *Catalog) Len() int {
	return len(c.tables)
}

type catalogFile struct {
	Tables []TableSchema `yaml:"tables"`
}

// LoadCatalogFile reads a YAML catalog description. This is the offline
// alternative to live information_schema introspection, used for dry
// runs and tests.
func LoadCatalogFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog file %s", path)
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(err, "parse catalog file %s", path)
	}
	return NewCatalog(f.Tables)
}
