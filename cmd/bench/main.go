// Command bench prints a textual A/B performance comparison between the
// B+ tree index and the linear-scan baseline store, across several input
// sizes. Ground: original_source/db_management_system/run_demo.py's
// run_performance_comparison, with matplotlib charts replaced by a plain
// text table since this engine has no UI front-end of its own.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"bplusdb/baseline"
	"bplusdb/tree"
)

type result struct {
	size int

	treeInsert, baseInsert time.Duration
	treeSearch, baseSearch time.Duration
	treeDelete, baseDelete time.Duration
	treeRange, baseRange   time.Duration

	treeMemory, baseMemory int64
}

func main() {
	seed := flag.Int64("seed", 1, "random seed for generated keys")
	flag.Parse()

	sizes := []int{500, 1000, 5000, 10000}
	rng := rand.New(rand.NewSource(*seed))

	results := make([]result, 0, len(sizes))
	for _, size := range sizes {
		results = append(results, runOnce(rng, size))
	}

	printTable(results)
}

func runOnce(rng *rand.Rand, size int) result {
	keys := rng.Perm(size * 5)[:size]

	bt, err := tree.New[int, string](10)
	if err != nil {
		panic(err)
	}
	bs := baseline.New[int, string]()

	r := result{size: size}

	start := time.Now()
	for _, k := range keys {
		bt.Insert(k, fmt.Sprintf("value_%d", k))
	}
	r.treeInsert = time.Since(start)

	start = time.Now()
	for _, k := range keys {
		bs.Insert(k, fmt.Sprintf("value_%d", k))
	}
	r.baseInsert = time.Since(start)

	searchKeys := sampleKeys(rng, keys, 100)
	start = time.Now()
	for _, k := range searchKeys {
		bt.Search(k)
	}
	r.treeSearch = time.Since(start)

	start = time.Now()
	for _, k := range searchKeys {
		bs.Search(k)
	}
	r.baseSearch = time.Since(start)

	deleteKeys := sampleKeys(rng, keys, 100)
	start = time.Now()
	for _, k := range deleteKeys {
		bt.Delete(k)
	}
	r.treeDelete = time.Since(start)

	start = time.Now()
	for _, k := range deleteKeys {
		bs.Delete(k)
	}
	r.baseDelete = time.Since(start)

	lo, hi := size/4, size/4+size/2
	start = time.Now()
	bt.Range(lo, hi)
	r.treeRange = time.Since(start)

	start = time.Now()
	bs.Range(lo, hi)
	r.baseRange = time.Since(start)

	r.treeMemory = bt.MemoryEstimate()
	r.baseMemory = bs.MemoryEstimate()

	return r
}

// sampleKeys picks up to n keys from pool without replacement.
func sampleKeys(rng *rand.Rand, pool []int, n int) []int {
	if n > len(pool) {
		n = len(pool)
	}
	idx := rng.Perm(len(pool))[:n]
	out := make([]int, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

func printTable(results []result) {
	fmt.Printf("%-8s %14s %14s %14s %14s %14s %14s %14s %14s %12s %12s\n",
		"size", "tree insert", "base insert", "tree search", "base search",
		"tree delete", "base delete", "tree range", "base range",
		"tree mem", "base mem")
	for _, r := range results {
		fmt.Printf("%-8d %14s %14s %14s %14s %14s %14s %14s %14s %12d %12d\n",
			r.size,
			r.treeInsert, r.baseInsert,
			r.treeSearch, r.baseSearch,
			r.treeDelete, r.baseDelete,
			r.treeRange, r.baseRange,
			r.treeMemory, r.baseMemory)
	}
}
