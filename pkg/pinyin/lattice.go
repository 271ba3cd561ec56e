package pinyin

import (
	"container/heap"
	"sort"
)

// pathNode is one partial decomposition reachable in a lattice cell:
// the phrase built so far, its cumulative score, and a discovery
// sequence number used as a deterministic tie-break.
type pathNode struct {
	phrase string
	score  int
	seq    int
}

// better orders nodes best-first: higher score, then first-discovered.
func better(a, b pathNode) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.seq < b.seq
}

// cell is a bounded best-K collection of pathNodes. It is a min-heap on
// the node ordering, so the worst retained node sits at the root and is
// the one evicted when the cell overflows.
type cell struct {
	nodes []pathNode
	cap   int
}

func newCell(capacity int) *cell {
	return &cell{cap: capacity}
}

func (c *cell) Len() int           { return len(c.nodes) }
func (c *cell) Less(i, j int) bool { return better(c.nodes[j], c.nodes[i]) }
func (c *cell) Swap(i, j int)      { c.nodes[i], c.nodes[j] = c.nodes[j], c.nodes[i] }
func (c *cell) Push(x any)         { c.nodes = append(c.nodes, x.(pathNode)) }
func (c *cell) Pop() any {
	old := c.nodes
	n := len(old)
	node := old[n-1]
	c.nodes = old[:n-1]
	return node
}

// add inserts a node, evicting the worst retained node when the cell is
// full. A full cell rejects nodes that would rank below everything kept.
func (c *cell) add(node pathNode) {
	if c.cap > 0 && len(c.nodes) >= c.cap {
		if !better(node, c.nodes[0]) {
			return
		}
		c.nodes[0] = node
		heap.Fix(c, 0)
		return
	}
	heap.Push(c, node)
}

// sorted returns the retained nodes best-first.
func (c *cell) sorted() []pathNode {
	out := make([]pathNode, len(c.nodes))
	copy(out, c.nodes)
	sort.Slice(out, func(i, j int) bool { return better(out[i], out[j]) })
	return out
}
