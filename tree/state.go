package tree

// NodeState is an exported, serialization-friendly mirror of one node: a
// value (not pointer) tree so that a whole-object codec like encoding/gob
// can walk it without needing to know about node's parent/next weak
// references, which are never encoded — ExportState/ImportState are the only
// bridge between the tree package's pointer-linked nodes and a wire format.
type NodeState[K Ordered, V any] struct {
	Leaf     bool
	Keys     []K
	Values   []V            // leaf only
	Children []NodeState[K, V] // internal only
}

// State is everything needed to reconstruct a Tree: its order and a
// preorder-traversable copy of its node structure. Parent back-references
// and the leaf next/prev chain are intentionally absent — ImportState
// rebuilds both after loading, per §6.2.
type State[K Ordered, V any] struct {
	Order int
	Size  int
	Root  NodeState[K, V]
}

// ExportState captures the tree's current structure for persistence.
func (t *Tree[K, V]) ExportState() State[K, V] {
	return State[K, V]{
		Order: t.order,
		Size:  t.size,
		Root:  exportNode(t.root),
	}
}

func exportNode[K Ordered, V any](n *node[K, V]) NodeState[K, V] {
	ns := NodeState[K, V]{Leaf: n.leaf}
	if n.leaf {
		ns.Keys = append([]K(nil), n.keys...)
		ns.Values = append([]V(nil), n.values...)
		return ns
	}
	ns.Keys = append([]K(nil), n.keys...)
	ns.Children = make([]NodeState[K, V], len(n.children))
	for i, c := range n.children {
		ns.Children[i] = exportNode(c)
	}
	return ns
}

// ImportState rebuilds a Tree from a previously exported State, restoring
// parent back-references via a preorder walk and the leaf next/prev chain
// by threading the leftmost-to-rightmost leaves together.
func ImportState[K Ordered, V any](s State[K, V]) *Tree[K, V] {
	t := &Tree[K, V]{order: s.Order, size: s.Size}
	t.root = importNode(s.Root, nil)

	var leaves []*node[K, V]
	var collectLeaves func(n *node[K, V])
	collectLeaves = func(n *node[K, V]) {
		if n.leaf {
			leaves = append(leaves, n)
			return
		}
		for _, c := range n.children {
			collectLeaves(c)
		}
	}
	collectLeaves(t.root)

	for i, leaf := range leaves {
		if i > 0 {
			leaf.prev = leaves[i-1]
		}
		if i+1 < len(leaves) {
			leaf.next = leaves[i+1]
		}
	}

	return t
}

func importNode[K Ordered, V any](ns NodeState[K, V], parent *node[K, V]) *node[K, V] {
	n := &node[K, V]{leaf: ns.Leaf, parent: parent}
	if ns.Leaf {
		n.keys = append([]K(nil), ns.Keys...)
		n.values = append([]V(nil), ns.Values...)
		return n
	}
	n.keys = append([]K(nil), ns.Keys...)
	n.children = make([]*node[K, V], len(ns.Children))
	for i, cs := range ns.Children {
		n.children[i] = importNode(cs, n)
	}
	return n
}
