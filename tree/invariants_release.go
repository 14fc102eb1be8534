//go:build !treedebug

package tree

// checkInvariants is a no-op outside of treedebug builds: invariant
// verification costs a full tree walk, so it's opt-in for tests and
// debugging rather than paid on every Insert/Delete in production.
func checkInvariants[K Ordered, V any](t *Tree[K, V]) {}
