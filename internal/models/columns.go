package models

// Columns is an ordered list of CSV column names. Order is significant:
// it is the on-disk header order and only ever grows by appending.
type Columns []string

// UniqueColumns returns names in first-seen order with duplicates dropped
func UniqueColumns(names []string) Columns {
	seen := make(map[string]struct{}, len(names))
	cols := make(Columns, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		cols = append(cols, name)
	}
	return cols
}

// Index returns the position of name, or -1 when absent
func (c Columns) Index(name string) int {
	for i, col := range c {
		if col == name {
			return i
		}
	}
	return -1
}

// Contains reports whether name is one of the columns
func (c Columns) Contains(name string) bool {
	return c.Index(name) >= 0
}

// Missing returns the names of other that are not in c, in the order of other
func (c Columns) Missing(other Columns) Columns {
	known := make(map[string]struct{}, len(c))
	for _, col := range c {
		known[col] = struct{}{}
	}

	var missing Columns
	for _, name := range other {
		if _, ok := known[name]; ok {
			continue
		}
		known[name] = struct{}{}
		missing = append(missing, name)
	}
	return missing
}

// Extend returns a new Columns with names appended after the existing ones
func (c Columns) Extend(names Columns) Columns {
	out := make(Columns, 0, len(c)+len(names))
	out = append(out, c...)
	return append(out, names...)
}

// Equal reports whether both lists hold the same names in the same order
func (c Columns) Equal(other Columns) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}
