package engine

import "sort"

// topK is the hard capacity of every ranked list in the system: node
// top lists, the global fallback and prefix cache entries.
const topK = 5

// topList is a bounded list of distinct queries kept sorted by
// descending score. Scores are recomputed from current frequencies on
// every update rather than cached, so a frequency bump is picked up the
// next time the list is touched.
type topList struct {
	items []string
}

func (l *topList) contains(q string) bool {
	for _, it := range l.items {
		if it == q {
			return true
		}
	}
	return false
}

// consider offers q to the list. Present entries cause no structural
// change. Otherwise q is added, the list is stably re-sorted under
// score and trimmed back to capacity, which evicts the worst entry when
// the list was full and q beats it. Stable sort keeps equal-score
// entries in their existing order so repeated builds are deterministic.
func (l *topList) consider(q string, score func(string) int) {
	if l.contains(q) {
		return
	}
	l.items = append(l.items, q)
	sort.SliceStable(l.items, func(i, j int) bool {
		return score(l.items[i]) > score(l.items[j])
	})
	if len(l.items) > topK {
		l.items = l.items[:topK]
	}
}

// slice returns a copy so callers can re-rank without mutating the
// stored order.
func (l *topList) slice() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}
