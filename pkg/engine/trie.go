package engine

// node is one vertex of the compressed-edge trie. label is the full
// edge text leading into the node (empty only for the root) and is
// always a subslice of a query string interned in the frequency table.
// Children are keyed by the first byte of their label; sibling labels
// never share a first byte, which is what lets lookup dispatch on a
// single byte.
type node struct {
	label    string
	children map[byte]*node
	top      topList
	leaf     bool
}

// trie is the compressed prefix index. Nodes and edges are never
// removed; splitting only subdivides existing edges.
type trie struct {
	root  *node
	freqs *Table
	nodes int
}

func newTrie(freqs *Table) *trie {
	return &trie{root: &node{}, freqs: freqs}
}

func (tr *trie) newChild(parent *node, label string) *node {
	child := &node{label: label}
	if parent.children == nil {
		parent.children = make(map[byte]*node, 1)
	}
	parent.children[label[0]] = child
	tr.nodes++
	return child
}

// register offers query to n's top list under the path-aware score for
// the path ending at n.
func (tr *trie) register(n *node, pathPrefix, query string) {
	n.top.consider(query, func(q string) int {
		return pathScore(tr.freqs, pathPrefix, q)
	})
}

// insert walks query from the root, consuming edge labels. The caller
// must pass the interned instance of the query text so that the edge
// labels created here alias table-owned memory. Concatenating edge
// labels from the root to any node always reconstructs a prefix of some
// inserted query; re-inserting an existing query changes no structure.
func (tr *trie) insert(query string) {
	n := tr.root
	remaining := query
	depth := 0
	for {
		if len(remaining) == 0 {
			n.leaf = true
			return
		}
		child, ok := n.children[remaining[0]]
		if !ok {
			// No edge starts with this byte: the whole leftover
			// suffix becomes one new edge.
			child = tr.newChild(n, remaining)
			child.leaf = true
			tr.register(child, query, query)
			return
		}

		l := lcp(remaining, child.label)
		// l >= 1: the map key guarantees the first byte matches.

		if l == len(child.label) {
			// Edge fully consumed; register and descend.
			depth += l
			remaining = remaining[l:]
			tr.register(child, query[:depth], query)
			if len(remaining) == 0 {
				child.leaf = true
				return
			}
			n = child
			continue
		}

		// Partial match inside the edge: split it. The intermediate
		// node takes the common slice and inherits the old child's top
		// list, since everything in that list still lies beneath it.
		mid := &node{label: child.label[:l]}
		mid.top.items = child.top.slice()
		child.label = child.label[l:]
		mid.children = map[byte]*node{child.label[0]: child}
		n.children[mid.label[0]] = mid
		tr.nodes++

		depth += l
		tr.register(mid, query[:depth], query)

		rest := remaining[l:]
		if len(rest) == 0 {
			// The inserted query ends exactly at the split point.
			mid.leaf = true
			return
		}
		leftover := tr.newChild(mid, rest)
		leftover.leaf = true
		tr.register(leftover, query, query)
		return
	}
}

// lastReached consumes prefix against edge labels with the same LCP
// logic as insert and returns the deepest node reached. When the prefix
// is fully absorbed inside an edge, that edge's node is returned; when
// it diverges partway through an edge, the diverging node anchors the
// result; when no child matches, the walk stops where it is.
func (tr *trie) lastReached(prefix string) *node {
	n := tr.root
	last := tr.root
	remaining := prefix
	for len(remaining) > 0 {
		child, ok := n.children[remaining[0]]
		if !ok {
			break
		}
		l := lcp(remaining, child.label)
		if l == len(remaining) {
			last = child
			break
		}
		if l == len(child.label) {
			remaining = remaining[l:]
			last = child
			n = child
			continue
		}
		last = child
		break
	}
	return last
}

// walk visits every node in depth-first order with the full path text
// leading to it. Used by invariant checks and stats.
func (tr *trie) walk(visit func(path string, n *node)) {
	var rec func(path string, n *node)
	rec = func(path string, n *node) {
		visit(path, n)
		for _, c := range n.children {
			rec(path+c.label, c)
		}
	}
	rec("", tr.root)
}
