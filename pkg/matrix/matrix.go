// Package matrix provides a generic two-key associative container.
//
// A [Matrix] maps a (row, column) pair to a value in O(1) and remembers the
// order in which cells were first inserted. That order is observable: [Matrix.Row]
// and [Matrix.Values] return values in insertion order, which callers such as the
// adjacency index rely on for deterministic traversal.
//
// # Usage
//
//	m := matrix.New[string, string, int]()
//	m.Set("a", "b", 1)
//	m.Set("a", "c", 2)
//	m.Row("a")            // [1 2]
//	v, ok := m.Get("b", "a") // 0, false
//	m.Delete("a", "b")
//	m.Delete("a", "c")    // row "a" is gone
//
// # Concurrency
//
// A Matrix is not safe for concurrent use without external synchronization.
package matrix

import "slices"

// Matrix is a two-key map from (row, column) to a value of type V.
//
// Rows are created on demand by [Matrix.Set] and removed by [Matrix.Delete] as
// soon as their last cell is gone, so memory stays bounded as keys come and go.
// The zero value is not usable - use [New].
type Matrix[R, C comparable, V any] struct {
	rows  map[R]*row[C, V]
	order []R
}

type row[C comparable, V any] struct {
	index map[C]int
	cols  []C
	vals  []V
}

// New creates an empty matrix.
func New[R, C comparable, V any]() *Matrix[R, C, V] {
	return &Matrix[R, C, V]{rows: make(map[R]*row[C, V])}
}

// Set stores v at (r, c), creating the row if needed.
// Overwriting an existing cell keeps the cell's original insertion position.
func (m *Matrix[R, C, V]) Set(r R, c C, v V) {
	rw, ok := m.rows[r]
	if !ok {
		rw = &row[C, V]{index: make(map[C]int)}
		m.rows[r] = rw
		m.order = append(m.order, r)
	}
	if i, ok := rw.index[c]; ok {
		rw.vals[i] = v
		return
	}
	rw.index[c] = len(rw.cols)
	rw.cols = append(rw.cols, c)
	rw.vals = append(rw.vals, v)
}

// Get returns the value at (r, c) and whether the cell exists.
// A missing row or column yields the zero value and false.
func (m *Matrix[R, C, V]) Get(r R, c C) (V, bool) {
	var zero V
	rw, ok := m.rows[r]
	if !ok {
		return zero, false
	}
	i, ok := rw.index[c]
	if !ok {
		return zero, false
	}
	return rw.vals[i], true
}

// Has reports whether the cell (r, c) exists.
func (m *Matrix[R, C, V]) Has(r R, c C) bool {
	_, ok := m.Get(r, c)
	return ok
}

// HasRow reports whether row r has at least one cell.
func (m *Matrix[R, C, V]) HasRow(r R) bool {
	_, ok := m.rows[r]
	return ok
}

// Row returns the values of row r in insertion order.
// An unknown row yields an empty, non-nil slice. The slice is a copy.
func (m *Matrix[R, C, V]) Row(r R) []V {
	rw, ok := m.rows[r]
	if !ok {
		return []V{}
	}
	return slices.Clone(rw.vals)
}

// Columns returns the column keys of row r in insertion order.
func (m *Matrix[R, C, V]) Columns(r R) []C {
	rw, ok := m.rows[r]
	if !ok {
		return []C{}
	}
	return slices.Clone(rw.cols)
}

// EachInRow calls fn for every cell of row r in insertion order without
// allocating. fn must not modify the matrix.
func (m *Matrix[R, C, V]) EachInRow(r R, fn func(c C, v V)) {
	rw, ok := m.rows[r]
	if !ok {
		return
	}
	for i, c := range rw.cols {
		fn(c, rw.vals[i])
	}
}

// Delete removes the cell (r, c). If the row becomes empty it is removed too.
// Deleting a missing cell is a no-op.
func (m *Matrix[R, C, V]) Delete(r R, c C) {
	rw, ok := m.rows[r]
	if !ok {
		return
	}
	i, ok := rw.index[c]
	if !ok {
		return
	}
	delete(rw.index, c)
	rw.cols = slices.Delete(rw.cols, i, i+1)
	rw.vals = slices.Delete(rw.vals, i, i+1)
	for j := i; j < len(rw.cols); j++ {
		rw.index[rw.cols[j]] = j
	}
	if len(rw.cols) == 0 {
		m.DeleteRow(r)
	}
}

// DeleteRow removes row r and all of its cells.
func (m *Matrix[R, C, V]) DeleteRow(r R) {
	if _, ok := m.rows[r]; !ok {
		return
	}
	delete(m.rows, r)
	m.order = slices.DeleteFunc(m.order, func(k R) bool { return k == r })
}

// Rows returns the row keys in the order the rows were created.
func (m *Matrix[R, C, V]) Rows() []R { return slices.Clone(m.order) }

// Values returns every value, row by row, each row in insertion order.
func (m *Matrix[R, C, V]) Values() []V {
	var out []V
	for _, r := range m.order {
		out = append(out, m.rows[r].vals...)
	}
	return out
}

// Len returns the number of cells.
func (m *Matrix[R, C, V]) Len() int {
	n := 0
	for _, rw := range m.rows {
		n += len(rw.cols)
	}
	return n
}

// RowCount returns the number of non-empty rows.
func (m *Matrix[R, C, V]) RowCount() int { return len(m.rows) }
