// Package engine implements the compressed-edge prefix trie behind
// QueryServe: per-node capacity-5 ranked lists, path-aware and live
// scoring, keystroke-cursor traversal and the feedback loop that folds
// user choices back into the rankings.
package engine

import (
	"sort"
	"sync"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/queryserve/queryserve/internal/utils"
)

// SuggestionCount is the fixed width of every guess result. Unused
// slots are empty strings.
const SuggestionCount = topK

// Options tunes engine behavior. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	// CorrectBonus is the frequency increment when feedback marks the
	// chosen query as correct; IncorrectBonus applies otherwise.
	CorrectBonus   int
	IncorrectBonus int
	// EnablePrefixCache turns on direct lookup tables for 1-3 char
	// prefixes. Purely a traversal shortcut; results must match what
	// the trie would serve.
	EnablePrefixCache bool
}

// DefaultOptions returns the canonical tuning.
func DefaultOptions() Options {
	return Options{
		CorrectBonus:      5,
		IncorrectBonus:    1,
		EnablePrefixCache: true,
	}
}

// Engine owns the shared, read-mostly structures: frequency table,
// trie, global fallback and prefix cache. One RWMutex covers them all:
// guesses take the read lock, feedback and rebuilds the write lock, so
// a traversal never observes a half-split node. Cursor state lives in
// Session, one per in-flight query.
type Engine struct {
	mu        sync.RWMutex
	opts      Options
	freqs     *Table
	tr        *trie
	globalTop []string
	cache     *PrefixCache
}

// New creates an empty engine. Feed it history via AddHistory and call
// Rebuild before guessing.
func New(opts Options) *Engine {
	freqs := NewTable()
	return &Engine{
		opts:  opts,
		freqs: freqs,
		tr:    newTrie(freqs),
	}
}

// AddHistory accumulates count occurrences of an already-normalized
// query without touching the trie. Blank queries are ignored.
func (e *Engine) AddHistory(query string, count int) {
	if query == "" || count <= 0 {
		return
	}
	e.mu.Lock()
	e.freqs.Increment(query, count)
	e.mu.Unlock()
}

// Rebuild constructs the trie, global fallback and prefix cache from
// the current frequency table. Queries are inserted in descending
// frequency order (ties by first appearance) so every node's list is
// seeded with its strongest candidates first and builds are
// deterministic.
func (e *Engine) Rebuild() {
	e.mu.Lock()
	defer e.mu.Unlock()

	ranked := e.freqs.Ranked()
	e.tr = newTrie(e.freqs)
	for _, q := range ranked {
		e.tr.insert(q)
	}

	e.globalTop = append([]string(nil), ranked[:min(topK, len(ranked))]...)
	// Seed the root so the very first keystroke has a strong fallback.
	e.tr.root.top.items = append([]string(nil), e.globalTop...)

	if e.opts.EnablePrefixCache {
		e.cache = buildPrefixCache(e.freqs, ranked)
	}
	log.Debugf("engine rebuilt: %d queries, %d trie nodes, %d cached prefixes",
		len(ranked), e.tr.nodes, e.cacheLen())
}

func (e *Engine) cacheLen() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}

// Session is the per-query keystroke cursor. Not goroutine-safe; use
// one per concurrent typist while sharing the engine underneath.
type Session struct {
	eng    *Engine
	prefix string
	typed  int
}

// NewSession returns a fresh cursor over the engine.
func (e *Engine) NewSession() *Session {
	return &Session{eng: e}
}

// Guess records the character typed at the zero-based position index
// and returns exactly SuggestionCount suggestions, best first, padded
// with empty strings. index == 0 starts a new query; a positive index
// that does not continue the current one resets the cursor to just this
// character.
func (s *Session) Guess(ch rune, index int) []string {
	ch = unicode.ToLower(ch)
	switch {
	case index == 0:
		s.prefix = string(ch)
		s.typed = 1
	case index != s.typed:
		log.Debugf("non-monotonic guess index %d after %d chars, resetting cursor", index, s.typed)
		s.prefix = string(ch)
		s.typed = 1
	default:
		s.prefix += string(ch)
		s.typed++
	}
	return s.eng.suggest(s.prefix)
}

// Prefix returns the text typed so far in this session.
func (s *Session) Prefix() string {
	return s.prefix
}

// suggest produces the five ranked suggestions for the live prefix.
func (e *Engine) suggest(livePrefix string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.cache != nil {
		if hit, ok := e.cache.lookup(livePrefix); ok {
			return padSuggestions(hit)
		}
	}

	last := e.tr.lastReached(livePrefix)
	pool := last.top.slice()
	if len(pool) == 0 {
		pool = append([]string(nil), e.globalTop...)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return liveScore(e.freqs, livePrefix, pool[i]) > liveScore(e.freqs, livePrefix, pool[j])
	})
	return padSuggestions(pool)
}

// Feedback records the user's final choice. Correct choices earn a
// larger frequency bump, then the query is re-inserted so every node on
// its path re-evaluates its top list, and the global fallback and
// prefix cache pick up the new count. A blank query is a silent no-op.
func (e *Engine) Feedback(correct bool, query string) {
	q := utils.NormalizeQuery(query)
	if q == "" {
		return
	}
	inc := e.opts.IncorrectBonus
	if correct {
		inc = e.opts.CorrectBonus
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	q = e.freqs.Increment(q, inc)
	e.tr.insert(q)
	e.refreshGlobal(q)
	if e.cache != nil {
		e.cache.refresh(e.freqs, q)
	}
}

// refreshGlobal applies the replace-worst rule over frequency alone:
// the global list is not path-aware.
func (e *Engine) refreshGlobal(q string) {
	present := false
	for _, g := range e.globalTop {
		if g == q {
			present = true
			break
		}
	}
	if !present {
		if len(e.globalTop) < topK {
			e.globalTop = append(e.globalTop, q)
		} else {
			worst := len(e.globalTop) - 1
			if e.freqs.Get(q) > e.freqs.Get(e.globalTop[worst]) {
				e.globalTop[worst] = q
			}
		}
	}
	sort.SliceStable(e.globalTop, func(i, j int) bool {
		return e.freqs.Get(e.globalTop[i]) > e.freqs.Get(e.globalTop[j])
	})
}

// Frequency returns the current count for a normalized query, 0 when
// unknown.
func (e *Engine) Frequency(query string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.freqs.Get(utils.NormalizeQuery(query))
}

// GlobalTop returns a copy of the overall top queries, best first.
func (e *Engine) GlobalTop() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.globalTop...)
}

// Stats reports engine counters in the same shape the rest of the
// tooling logs.
func (e *Engine) Stats() map[string]int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	stats := map[string]int{
		"queries":   e.freqs.Len(),
		"trieNodes": e.tr.nodes,
	}
	if e.cache != nil {
		stats["cachedPrefixes"] = e.cache.Len()
		stale := 0
		if e.cache.Stale(e.freqs) {
			stale = 1
		}
		stats["cacheStale"] = stale
	}
	return stats
}

func padSuggestions(pool []string) []string {
	out := make([]string, SuggestionCount)
	copy(out, pool)
	return out
}
