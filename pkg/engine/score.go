package engine

// Scoring weights. Frequency dominates, prefix alignment second, and
// the negative length term prefers shorter queries on ties. The live
// weight is deliberately larger than the stored path weight so the
// prefix the user actually typed outranks whatever depth a node
// happened to store a query at.
const (
	freqWeight = 1000
	pathWeight = 1200
	liveWeight = 2000
)

// lcp returns the length in bytes of the longest common prefix of a
// and b.
func lcp(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// pathScore ranks q for storage in a node's top list. pathPrefix is the
// text consumed from the root down to that node; queries that share
// more of the node's path score higher.
func pathScore(t *Table, pathPrefix, q string) int {
	return t.Get(q)*freqWeight + lcp(pathPrefix, q)*pathWeight - len(q)
}

// liveScore re-ranks a candidate against the prefix the user has typed
// so far. Only ever applied to the <=5 candidates a traversal returns.
func liveScore(t *Table, livePrefix, q string) int {
	return t.Get(q)*freqWeight + lcp(livePrefix, q)*liveWeight - len(q)
}
