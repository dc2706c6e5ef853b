package tally

import "sort"

// Table is a two-level counter: row (an IP) to column key to count.
type Table struct {
	rows  map[string]*Counter
	order []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[string]*Counter)}
}

// Inc adds one to the cell at row, key.
func (t *Table) Inc(row, key string) {
	c, ok := t.rows[row]
	if !ok {
		c = NewCounter()
		t.rows[row] = c
		t.order = append(t.order, row)
	}
	c.Inc(key)
}

// Row returns the counter for row. A missing row yields an empty counter
// that is not added to the table.
func (t *Table) Row(row string) *Counter {
	if c, ok := t.rows[row]; ok {
		return c
	}
	return NewCounter()
}

// Rows returns row keys in first-insertion order.
func (t *Table) Rows() []string { return append([]string(nil), t.order...) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.order) }

// Columns returns every column key used by any row, sorted as strings.
func (t *Table) Columns() []string {
	seen := make(map[string]struct{})
	for _, c := range t.rows {
		for _, key := range c.order {
			seen[key] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for key := range seen {
		cols = append(cols, key)
	}
	sort.Strings(cols)
	return cols
}
