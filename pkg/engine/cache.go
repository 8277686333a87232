package engine

import "unicode/utf8"

// cacheDepth is the longest prefix (in runes) served straight from the
// cache instead of a trie traversal.
const cacheDepth = 3

// PrefixCache short-circuits the very first keystrokes: direct lookup
// tables for 1-3 character prefixes, built with the same capacity-5
// path-aware lists as trie nodes. It is a shortcut over the trie, never
// a second source of truth; the fingerprint records which frequency
// counts it was built from so staleness is detectable.
type PrefixCache struct {
	lists       map[string]*topList
	fingerprint uint64
}

// buildPrefixCache constructs cache entries for every query in ranked
// order, mirroring the bulk trie build.
func buildPrefixCache(t *Table, ranked []string) *PrefixCache {
	c := &PrefixCache{lists: make(map[string]*topList)}
	for _, q := range ranked {
		c.offer(t, q)
	}
	c.fingerprint = t.Fingerprint()
	return c
}

// offer registers q under each of its 1-3 rune prefixes using the
// path-aware score, exactly as a trie node at that depth would.
func (c *PrefixCache) offer(t *Table, q string) {
	for _, key := range runePrefixes(q) {
		l, ok := c.lists[key]
		if !ok {
			l = &topList{}
			c.lists[key] = l
		}
		l.consider(q, func(cand string) int {
			return pathScore(t, key, cand)
		})
	}
}

// lookup returns the cached list for prefix when one exists. Only
// prefixes of cacheable length can hit.
func (c *PrefixCache) lookup(prefix string) ([]string, bool) {
	if utf8.RuneCountInString(prefix) > cacheDepth {
		return nil, false
	}
	l, ok := c.lists[prefix]
	if !ok {
		return nil, false
	}
	return l.slice(), true
}

// refresh re-evaluates q against its prefix entries after a feedback
// bump. Eviction here follows frequency alone: these tables are not
// path-aware once built.
func (c *PrefixCache) refresh(t *Table, q string) {
	for _, key := range runePrefixes(q) {
		l, ok := c.lists[key]
		if !ok {
			l = &topList{}
			c.lists[key] = l
		}
		l.consider(q, func(cand string) int {
			return t.Get(cand)
		})
	}
	c.fingerprint = t.Fingerprint()
}

// Stale reports whether the cache was last rebuilt from different
// frequency counts than the table currently holds.
func (c *PrefixCache) Stale(t *Table) bool {
	return c.fingerprint != t.Fingerprint()
}

// Len returns the number of cached prefix entries.
func (c *PrefixCache) Len() int {
	return len(c.lists)
}

// runePrefixes returns the prefixes of q that are 1 to cacheDepth runes
// long (fewer when q itself is shorter).
func runePrefixes(q string) []string {
	if q == "" {
		return nil
	}
	out := make([]string, 0, cacheDepth)
	count := 0
	for i := range q {
		if count == 0 {
			count++
			continue
		}
		out = append(out, q[:i])
		count++
		if count > cacheDepth {
			return out
		}
	}
	out = append(out, q)
	return out
}
