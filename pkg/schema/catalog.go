// pkg/schema/catalog.go
package schema

import (
	"fmt"
	"sort"
)

// Catalog maps table names to loaded tables. Base tables are owned by the
// catalog; planning and execution derive fresh tables instead of mutating
// catalog entries.
type Catalog struct {
	tables map[string]*Table
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

// AddTable registers a table under its name, replacing any previous entry.
func (c *Catalog) AddTable(name string, t *Table) {
	c.tables[name] = t
}

// GetTable returns the table registered under name.
func (c *Catalog) GetTable(name string) (*Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t, nil
}

// HasTable reports whether a table is registered under name.
func (c *Catalog) HasTable(name string) bool {
	_, ok := c.tables[name]
	return ok
}

// TableSize returns the row count of the named table.
func (c *Catalog) TableSize(name string) (int, error) {
	t, err := c.GetTable(name)
	if err != nil {
		return 0, err
	}
	return t.Size(), nil
}

// ListTables returns all table names in sorted order.
func (c *Catalog) ListTables() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
