package tree

// node is the single tagged-variant representation of a B+ tree node: a leaf
// carries keys/values and a next-leaf link, an internal node carries keys and
// child pointers. Every split/merge/rebalance branch already needs to know
// which variant it is holding, so a shared struct with a leaf flag is a
// better fit here than two distinct types behind an interface.
type node[K Ordered, V any] struct {
	leaf bool

	keys   []K
	values []V // leaf only, aligned with keys

	children []*node[K, V] // internal only, len == len(keys)+1

	next *node[K, V] // leaf only; weak reference, re-pointed on split/merge
	prev *node[K, V] // leaf only; mirrors next so Iterator.Prev can step back a leaf

	parent *node[K, V] // weak reference, refreshed whenever this node is re-homed
}

func newLeaf[K Ordered, V any]() *node[K, V] {
	return &node[K, V]{leaf: true}
}

func newInternal[K Ordered, V any]() *node[K, V] {
	return &node[K, V]{leaf: false}
}

// isFull reports whether n already holds the maximum number of keys an
// order-m node may carry (k >= m-1). A full node still has room for exactly
// one more key before it must split — see overflowed for that trigger.
func (n *node[K, V]) isFull(order int) bool {
	return len(n.keys) >= order-1
}

// overflowed reports whether n holds more keys than an order-m node is
// allowed to (k > m-1). This is the condition that actually triggers a
// split, checked right after an insertion has already happened.
func (n *node[K, V]) overflowed(order int) bool {
	return len(n.keys) > order-1
}

// isUnderflow reports whether n holds fewer than the minimum number of keys
// a non-root node of its variant must carry. Callers are responsible for
// never applying this to the root.
func (n *node[K, V]) isUnderflow(order int) bool {
	if n.leaf {
		return len(n.keys) < minLeafKeys(order)
	}
	return len(n.keys) < minInternalKeys(order)
}

// minLeafKeys is ceil((m-1)/2), simplified to the equivalent integer
// division m/2 (for even m both are m/2; for odd m both are (m-1)/2). This is the single
// formula used everywhere a leaf underflow threshold is needed.
func minLeafKeys(order int) int {
	return order / 2
}

// minInternalKeys is ceil(m/2) - 1, simplified to (m+1)/2 - 1. This is the
// single formula used everywhere an internal-node underflow threshold is
// needed.
func minInternalKeys(order int) int {
	return (order+1)/2 - 1
}

// childIndex returns the position of child within parent's children slice,
// or -1 if child is not one of parent's children.
func childIndex[K Ordered, V any](parent, child *node[K, V]) int {
	for i, c := range parent.children {
		if c == child {
			return i
		}
	}
	return -1
}

// reparent fixes the parent back-reference of every child in children to
// point at owner. Called whenever a block of children moves to a new node
// during split, borrow, or merge.
func reparent[K Ordered, V any](owner *node[K, V], children []*node[K, V]) {
	for _, c := range children {
		c.parent = owner
	}
}
