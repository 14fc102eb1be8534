package tree

import (
	"fmt"
	"io"
	"unsafe"
)

// RenderTo writes a Graphviz DOT description of the tree's current
// structure to w: one record-shaped node per internal node listing its
// separators, one node per leaf listing its keys (values are not shown), and dashed
// edges threading the leaves together in key order so the rendered graph
// shows the linked list alongside the tree shape.
func (t *Tree[K, V]) RenderTo(w io.Writer) error {
	bw := &errWriter{w: w}
	bw.printf("digraph BPlusTree {\n")
	bw.printf("  node [shape=record];\n")

	id := 0
	ids := map[*node[K, V]]int{}
	var assignIDs func(n *node[K, V])
	assignIDs = func(n *node[K, V]) {
		if n == nil {
			return
		}
		ids[n] = id
		id++
		for _, c := range n.children {
			assignIDs(c)
		}
	}
	assignIDs(t.root)

	var walk func(n *node[K, V])
	walk = func(n *node[K, V]) {
		if n == nil {
			return
		}
		label := renderLabel(n)
		bw.printf("  n%d [label=\"%s\"];\n", ids[n], label)
		for _, c := range n.children {
			bw.printf("  n%d -> n%d;\n", ids[n], ids[c])
			walk(c)
		}
	}
	walk(t.root)

	var prevLeafID = -1
	leaf := t.root
	for !leaf.leaf {
		leaf = leaf.children[0]
	}
	for leaf != nil {
		if prevLeafID >= 0 {
			bw.printf("  n%d -> n%d [style=dashed, constraint=false];\n", prevLeafID, ids[leaf])
		}
		prevLeafID = ids[leaf]
		leaf = leaf.next
	}

	bw.printf("}\n")
	return bw.err
}

func renderLabel[K Ordered, V any](n *node[K, V]) string {
	if n.leaf {
		s := ""
		for i, k := range n.keys {
			if i > 0 {
				s += "|"
			}
			s += fmt.Sprintf("%v", k)
		}
		return s
	}
	s := ""
	for i, k := range n.keys {
		if i > 0 {
			s += "|"
		}
		s += fmt.Sprintf("<f%d> %v", i, k)
	}
	return s
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// nodeOverhead is a rough per-node accounting of the struct's own fixed-size
// fields (pointers and the leaf flag), used by MemoryEstimate.
const nodeOverhead = int64(unsafe.Sizeof(node[int, int]{}))

// MemoryEstimate returns a rough byte count for the tree's current
// footprint: per-node struct overhead plus the size of every stored key and
// value. It is intended for the same comparative role as the baseline
// store's byte-size accounting (see bplusdb/baseline), not as an exact
// accounting of Go's runtime allocator behavior.
func (t *Tree[K, V]) MemoryEstimate() int64 {
	var total int64
	var walk func(n *node[K, V])
	walk = func(n *node[K, V]) {
		if n == nil {
			return
		}
		total += nodeOverhead
		for _, k := range n.keys {
			total += int64(unsafe.Sizeof(k))
		}
		for _, v := range n.values {
			total += sizeOfValue(v)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	return total
}

// sizeOfValue estimates the size of a value. Strings count their length
// plus the string header and byte slices their length; any other value
// counts only the fixed size of its type (for V = any, the interface
// header), since an exact measurement would require walking arbitrary
// reference graphs (slices, maps, nested structs) that V may hide behind
// the `any` the table/database layers actually store.
func sizeOfValue[V any](v V) int64 {
	switch x := any(v).(type) {
	case string:
		return int64(len(x)) + int64(unsafe.Sizeof(x))
	case []byte:
		return int64(len(x))
	default:
		return int64(unsafe.Sizeof(v))
	}
}
