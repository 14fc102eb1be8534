// Package table binds a name to a B+ tree index over the engine's
// tablekey.Key domain, forwarding every Tree operation and adding
// rebuild-with-new-order.
//
// Ground: original_source/db_management_system/database/table.py's Table
// class (name + BPlusTree index, method-per-operation forwarding), adapted
// to Go's (value, bool) / bool return idiom instead of None-means-absent,
// and to the generic tree.Tree instead of a concrete byte-keyed tree.
package table

import (
	"errors"
	"io"
	"sync"

	"bplusdb/tablekey"
	"bplusdb/tree"
)

// ErrInvalidOrder is returned by RebuildWithOrder when newOrder < 3.
var ErrInvalidOrder = errors.New("table: order must be >= 3")

// Record is one stored (key, value) pair with the key decoded back to its
// original dynamic form (int64 or string), as returned by GetAllRecords and
// RangeQuery.
type Record struct {
	Key   any
	Value any
}

// Table is a named B+ tree index. Every method takes the Table's own mutex,
// so calls from concurrent goroutines are serialized before they reach the
// underlying Tree, which is not safe for concurrent use by itself.
type Table struct {
	mu    sync.Mutex
	name  string
	order int
	index *tree.Tree[tablekey.Key, any]
}

// New creates an empty Table named name with the given B+ tree order.
func New(name string, order int) (*Table, error) {
	idx, err := tree.New[tablekey.Key, any](order)
	if err != nil {
		return nil, err
	}
	return &Table{name: name, order: order, index: idx}, nil
}

// Name returns the table's name.
func (t *Table) Name() string { return t.name }

// Order returns the table's current B+ tree order.
func (t *Table) Order() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.order
}

// Len returns the number of records currently stored.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index.Len()
}

// Height returns the underlying tree's height, for diagnostics.
func (t *Table) Height() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index.Height()
}

// Insert stores value under key (upsert semantics). key must be an int64 or
// a string — see tablekey.Normalize for how front-ends produce one.
func (t *Table) Insert(key, value any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.index.Insert(tablekey.Encode(key), value)
}

// Select returns the value stored under key, if any.
func (t *Table) Select(key any) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index.Search(tablekey.Encode(key))
}

// Update overwrites the value stored under key and reports whether key was
// present.
func (t *Table) Update(key, value any) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index.Update(tablekey.Encode(key), value)
}

// Delete removes key, reporting whether it was present.
func (t *Table) Delete(key any) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index.Delete(tablekey.Encode(key))
}

// RangeQuery returns every record with lo <= key <= hi, ordered by the
// table's internal key encoding (int64 keys sort before string keys; see
// tablekey). lo and hi must be the same dynamic kind as the keys being
// queried.
func (t *Table) RangeQuery(lo, hi any) []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries := t.index.Range(tablekey.Encode(lo), tablekey.Encode(hi))
	return toRecords(entries)
}

// GetAllRecords returns every record in key order.
func (t *Table) GetAllRecords() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return toRecords(t.index.ScanAll())
}

// MemoryEstimate returns a rough byte count for the table's current
// footprint.
func (t *Table) MemoryEstimate() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index.MemoryEstimate()
}

// Visualize writes a Graphviz DOT description of the table's index to w.
func (t *Table) Visualize(w io.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index.RenderTo(w)
}

// RebuildWithOrder replaces the table's index with a freshly built tree of
// the given order, reinserting every existing record in ascending key order
// (the cheapest insertion pattern, per §6.5). It fails and leaves the
// existing index untouched if newOrder < 3.
func (t *Table) RebuildWithOrder(newOrder int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if newOrder < 3 {
		return ErrInvalidOrder
	}

	rebuilt, err := tree.New[tablekey.Key, any](newOrder)
	if err != nil {
		return err
	}
	for _, e := range t.index.ScanAll() {
		rebuilt.Insert(e.Key, e.Value)
	}

	t.index = rebuilt
	t.order = newOrder
	return nil
}

func toRecords(entries []tree.Entry[tablekey.Key, any]) []Record {
	records := make([]Record, len(entries))
	for i, e := range entries {
		records[i] = Record{Key: tablekey.Decode(e.Key), Value: e.Value}
	}
	return records
}

// State is the serializable form of a Table, as written into a database
// snapshot.
type State struct {
	Order int
	Index tree.State[tablekey.Key, any]
}

// ExportState captures the table's current contents for persistence.
func (t *Table) ExportState() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{Order: t.order, Index: t.index.ExportState()}
}

// FromState reconstructs a Table named name from a previously exported
// State.
func FromState(name string, s State) *Table {
	return &Table{
		name:  name,
		order: s.Order,
		index: tree.ImportState(s.Index),
	}
}
