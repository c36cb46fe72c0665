// Package intern provides small, independent name-interning tables. Each
// table assigns a monotonically increasing index to every distinct string it
// sees, bounded by a configurable maximum so that a pathological input
// (e.g. a selector list with millions of distinct attribute names) cannot
// grow a table without limit.
package intern

import "fmt"

// ID is an index into a Table, unique for a given string within that table.
type ID int32

// Limits configures the maximum size of each interning table an owner (e.g.
// a selector environment) keeps, one limit per name class. A zero field
// means "unlimited" for that class, the same convention NewTable uses.
type Limits struct {
	Types      int
	Ids        int
	Classes    int
	Attributes int
	Namespaces int
}

// ErrTableFull is returned by Table.Intern when adding a new name would
// exceed the table's configured maximum.
type ErrTableFull struct {
	Name string
	Max  int
}

func (e *ErrTableFull) Error() string {
	return fmt.Sprintf("intern table full (max %d entries) while interning %q", e.Max, e.Name)
}

// Table interns strings into a dense, monotonically assigned ID space.
// A Table is not safe for concurrent use; each parse owns its own tables.
type Table struct {
	max     int
	byName  map[string]ID
	names   []string
}

// NewTable returns an empty table that rejects inserts once it holds max
// distinct names. A max of 0 means unlimited.
func NewTable(max int) *Table {
	return &Table{max: max, byName: make(map[string]ID)}
}

// Intern returns the ID for name, assigning a new one if name hasn't been
// seen before. On failure (table at capacity) the table is left unchanged
// and ErrTableFull is returned.
func (t *Table) Intern(name string) (ID, error) {
	if id, ok := t.byName[name]; ok {
		return id, nil
	}
	if t.max > 0 && len(t.names) >= t.max {
		return 0, &ErrTableFull{Name: name, Max: t.max}
	}
	id := ID(len(t.names))
	t.names = append(t.names, name)
	t.byName[name] = id
	return id, nil
}

// Lookup returns the ID previously assigned to name, if any.
func (t *Table) Lookup(name string) (ID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Name returns the string previously interned as id.
func (t *Table) Name(id ID) string {
	return t.names[id]
}

// Len returns the number of distinct names interned so far.
func (t *Table) Len() int {
	return len(t.names)
}
