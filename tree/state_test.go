package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportStateRoundTrip(t *testing.T) {
	bt, err := New[int, string](4)
	require.NoError(t, err)
	for k := 0; k < 50; k++ {
		bt.Insert(k, fmt.Sprintf("v%d", k))
	}

	state := bt.ExportState()
	restored := ImportState(state)

	assert.Equal(t, bt.Order(), restored.Order())
	assert.Equal(t, bt.Len(), restored.Len())
	assert.Equal(t, bt.ScanAll(), restored.ScanAll())
	checkInvariants(restored)

	for k := 0; k < 50; k++ {
		v, ok := restored.Search(k)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("v%d", k), v)
	}
}

func TestImportStateRebuildsParentAndLeafChain(t *testing.T) {
	bt, err := New[int, string](3)
	require.NoError(t, err)
	for k := 0; k < 30; k++ {
		bt.Insert(k, fmt.Sprintf("v%d", k))
	}

	restored := ImportState(bt.ExportState())

	var walk func(n *node[int, string])
	walk = func(n *node[int, string]) {
		for _, c := range n.children {
			assert.Same(t, n, c.parent)
			walk(c)
		}
	}
	walk(restored.root)

	leaf := restored.root
	for !leaf.leaf {
		leaf = leaf.children[0]
	}
	count := 0
	var last int
	first := true
	for leaf != nil {
		for _, k := range leaf.keys {
			if !first {
				assert.Less(t, last, k)
			}
			last, first = k, false
		}
		count += len(leaf.keys)
		leaf = leaf.next
	}
	assert.Equal(t, restored.Len(), count)
}
