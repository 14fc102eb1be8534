//go:build treedebug

package tree

import "bplusdb/internal/assert"

// checkInvariants walks the whole tree verifying I1-I9 from the spec. It
// only runs in builds tagged treedebug — a violation here means a bug in
// this package, not a recoverable runtime condition, so it panics rather
// than returning an error.
func checkInvariants[K Ordered, V any](t *Tree[K, V]) {
	depth := -1
	var walk func(n *node[K, V], isRoot bool, d int)
	walk = func(n *node[K, V], isRoot bool, d int) {
		assert.Assert(n != nil, "nil node reached during invariant walk")

		assert.Assert(len(n.keys) <= t.order-1,
			"I1 violated: node has %d keys, order %d allows at most %d",
			len(n.keys), t.order, t.order-1)

		if !isRoot {
			if n.leaf {
				assert.Assert(len(n.keys) >= minLeafKeys(t.order),
					"I2 violated: non-root leaf has %d keys, needs >= %d",
					len(n.keys), minLeafKeys(t.order))
			} else {
				assert.Assert(len(n.keys) >= minInternalKeys(t.order),
					"I3 violated: non-root internal node has %d keys, needs >= %d",
					len(n.keys), minInternalKeys(t.order))
			}
		} else if !n.leaf {
			assert.Assert(len(n.keys) >= 1 && len(n.children) >= 2,
				"I4 violated: internal root has %d keys, %d children",
				len(n.keys), len(n.children))
		}

		for i := 1; i < len(n.keys); i++ {
			assert.Assert(n.keys[i-1] < n.keys[i], "I5 violated: keys out of order")
		}

		if !n.leaf {
			assert.Assert(len(n.children) == len(n.keys)+1,
				"structural desync: %d children for %d keys", len(n.children), len(n.keys))
			for i, c := range n.children {
				assert.Assert(c.parent == n, "I9 violated: child %d's parent does not resolve back to n", i)
				if i > 0 {
					assert.Assert(subtreeMin(c) == n.keys[i-1],
						"I6 violated: separator %d does not equal min key of child %d", i-1, i)
				}
			}
			for _, c := range n.children {
				walk(c, false, d+1)
			}
			return
		}

		if depth == -1 {
			depth = d
		} else {
			assert.Assert(d == depth, "I7 violated: leaves at mismatched depths (%d vs %d)", d, depth)
		}
	}
	walk(t.root, true, 0)

	checkLeafChain(t)
}

// subtreeMin returns the smallest key reachable under n, used to validate
// I6 (a separator equals the min key of the subtree it bounds).
func subtreeMin[K Ordered, V any](n *node[K, V]) K {
	for !n.leaf {
		n = n.children[0]
	}
	return n.keys[0]
}

// checkLeafChain verifies I8: next pointers form a singly linked list in
// ascending order, terminated by nil.
func checkLeafChain[K Ordered, V any](t *Tree[K, V]) {
	n := t.root
	for !n.leaf {
		n = n.children[0]
	}
	var last K
	first := true
	for n != nil {
		for _, k := range n.keys {
			if !first {
				assert.Assert(last < k, "I8 violated: leaf chain not ascending")
			}
			last = k
			first = false
		}
		n = n.next
	}
}
