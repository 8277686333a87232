package engine

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// entry keeps the canonical text alongside its count so callers can
// borrow the stored string instead of their own copy.
type entry struct {
	text  string
	count int
	seq   int
}

// Table maps normalized query text to an occurrence count. Counts only
// ever grow. The stored key strings double as the intern pool: every
// trie edge label is a slice of a string owned by this table, which
// keeps the backing memory alive for the trie's whole lifetime.
type Table struct {
	entries map[string]*entry
	nextSeq int
}

// NewTable creates an empty frequency table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*entry)}
}

// Increment adds amount to the stored count for q, creating the entry
// at zero first if absent. Returns the canonical (interned) text.
func (t *Table) Increment(q string, amount int) string {
	e, ok := t.entries[q]
	if !ok {
		e = &entry{text: q, seq: t.nextSeq}
		t.nextSeq++
		t.entries[q] = e
	}
	e.count += amount
	return e.text
}

// Get returns the stored count for q, or 0 if absent. Total function,
// never errors.
func (t *Table) Get(q string) int {
	if e, ok := t.entries[q]; ok {
		return e.count
	}
	return 0
}

// Intern returns the canonical stored instance of q, interning q itself
// (at count zero) when it has not been seen before.
func (t *Table) Intern(q string) string {
	if e, ok := t.entries[q]; ok {
		return e.text
	}
	e := &entry{text: q, seq: t.nextSeq}
	t.nextSeq++
	t.entries[q] = e
	return e.text
}

// Len returns the number of distinct queries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Ranked returns all queries ordered by descending count, ties broken
// by first appearance. The order is deterministic across runs for the
// same input sequence.
func (t *Table) Ranked() []string {
	ranked := make([]*entry, 0, len(t.entries))
	for _, e := range t.entries {
		ranked = append(ranked, e)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].seq < ranked[j].seq
	})
	out := make([]string, len(ranked))
	for i, e := range ranked {
		out[i] = e.text
	}
	return out
}

// Fingerprint hashes every (query, count) pair in ranked order. Two
// tables with identical contents produce identical fingerprints, so the
// prefix cache can detect when it was built from different counts.
func (t *Table) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, q := range t.Ranked() {
		_, _ = d.WriteString(q)
		c := t.entries[q].count
		for i := range buf {
			buf[i] = byte(c >> (8 * i))
		}
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
