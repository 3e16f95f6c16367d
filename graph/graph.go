// varg: a vectorized read-to-variation-graph aligner.
// Copyright (c) 2026 the varg authors.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License along with this program. If not, see
// <https://github.com/varg-aligner/varg/blob/master/LICENSE.txt>.

// Package graph implements the directed acyclic sequence graph the
// aligner consumes: a reference sequence enriched with variant branches.
//
// Nodes live in a single arena owned by the Graph and are addressed by
// dense integer ids; edges carry ids only. After construction the graph
// is finalized, which establishes a topological order and marks pinched
// nodes, and is immutable from then on.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/varg-aligner/varg/dna"
)

// NodeID indexes a node in the graph arena.
type NodeID uint32

// ErrCycle is returned by Finalize when the edges do not form a DAG.
var ErrCycle = errors.New("graph contains a cycle")

// Node is one sequence segment. Nodes are immutable during alignment.
type Node struct {
	id      NodeID
	seq     []dna.Base
	endPos  int32
	isRef   bool
	af      float32
	pinched bool
	pop     *bitset.BitSet
}

// ID returns the node's arena index.
func (n *Node) ID() NodeID { return n.id }

// Seq returns the node's sequence. An empty sequence denotes a deletion
// path; such a node is transparent to the aligner.
func (n *Node) Seq() []dna.Base { return n.seq }

// EndPos is the 1-indexed inclusive genomic coordinate of the last base.
func (n *Node) EndPos() int32 { return n.endPos }

// BeginPos is the 1-indexed coordinate of the first base.
func (n *Node) BeginPos() int32 { return n.endPos - int32(len(n.seq)) + 1 }

// IsRef reports whether the node lies on the reference path.
func (n *Node) IsRef() bool { return n.isRef }

// AlleleFreq returns the allele frequency annotation, 0 if absent.
func (n *Node) AlleleFreq() float32 { return n.af }

// Pinched reports whether every path through the graph crosses this
// node. Seeds stored before a pinched node can be discarded once it has
// been processed.
func (n *Node) Pinched() bool { return n.pinched }

// Population returns the set of sample haplotypes carrying this node,
// or nil when the node belongs to all of them.
func (n *Node) Population() *bitset.BitSet { return n.pop }

// Graph is a DAG of sequence nodes with a single topological order.
type Graph struct {
	nodes     []*Node
	incoming  [][]NodeID
	outgoing  [][]NodeID
	order     []NodeID
	popSize   uint
	finalized bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// NodeOpt configures a node at AddNode time.
type NodeOpt func(*Node)

// Ref marks the node as lying on the reference path.
func Ref() NodeOpt { return func(n *Node) { n.isRef = true } }

// AF annotates the node with an allele frequency.
func AF(af float32) NodeOpt { return func(n *Node) { n.af = af } }

// Population restricts the node to the given sample haplotypes.
func Population(pop *bitset.BitSet) NodeOpt { return func(n *Node) { n.pop = pop } }

// AddNode appends a node to the arena and returns its id. endPos is the
// 1-indexed inclusive coordinate of the last base of seq.
func (g *Graph) AddNode(seq []dna.Base, endPos int32, opts ...NodeOpt) NodeID {
	id := NodeID(len(g.nodes))
	n := &Node{id: id, seq: seq, endPos: endPos}
	for _, opt := range opts {
		opt(n)
	}
	g.nodes = append(g.nodes, n)
	g.incoming = append(g.incoming, nil)
	g.outgoing = append(g.outgoing, nil)
	g.finalized = false
	return id
}

// AddEdge connects from to to.
func (g *Graph) AddEdge(from, to NodeID) {
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	g.finalized = false
}

// SetPopSize records how many sample haplotypes the population bitsets
// range over.
func (g *Graph) SetPopSize(n uint) { g.popSize = n }

// PopSize returns the number of sample haplotypes.
func (g *Graph) PopSize() uint { return g.popSize }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) *Node { return g.nodes[id] }

// Incoming returns the ids of the predecessors of id. All of them
// precede id in the topological order.
func (g *Graph) Incoming(id NodeID) []NodeID { return g.incoming[id] }

// Outgoing returns the ids of the successors of id.
func (g *Graph) Outgoing(id NodeID) []NodeID { return g.outgoing[id] }

// Order returns the topological order established by Finalize or
// UseOrder. The aligner visits nodes in exactly this order.
func (g *Graph) Order() []NodeID {
	if !g.finalized {
		if err := g.Finalize(); err != nil {
			// Callers that never ran Finalize on a cyclic graph get the
			// error from there; Order on an unfinalized DAG just sorts.
			return nil
		}
	}
	return g.order
}

// Finalize computes a topological order with Kahn's algorithm, breaking
// ties by insertion order, and marks pinched nodes. It must be called
// (directly or through Order) after the last AddNode/AddEdge.
func (g *Graph) Finalize() error {
	degree := make([]int, len(g.nodes))
	for id := range g.nodes {
		degree[id] = len(g.incoming[id])
	}
	ready := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		if degree[id] == 0 {
			ready = append(ready, NodeID(id))
		}
	}
	order := make([]NodeID, 0, len(g.nodes))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, succ := range g.outgoing[id] {
			degree[succ]--
			if degree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}
	if len(order) != len(g.nodes) {
		return ErrCycle
	}
	g.order = order
	g.markPinched()
	g.finalized = true
	return nil
}

// UseOrder installs an externally supplied topological order in place of
// the computed one. The order must visit every node exactly once; edge
// consistency is the caller's responsibility and is checked lazily by
// the aligner's seed lookups.
func (g *Graph) UseOrder(order []NodeID) error {
	if len(order) != len(g.nodes) {
		return fmt.Errorf("order lists %v of %v nodes", len(order), len(g.nodes))
	}
	seen := make([]bool, len(g.nodes))
	for _, id := range order {
		if int(id) >= len(g.nodes) || seen[id] {
			return fmt.Errorf("order entry %v invalid or repeated", id)
		}
		seen[id] = true
	}
	g.order = append([]NodeID(nil), order...)
	g.markPinched()
	g.finalized = true
	return nil
}

// markPinched flags the nodes every path crosses. Walking the order, a
// node is pinched exactly when no edge from an earlier node bypasses it:
// the open-edge count drops to zero after its incoming edges are
// consumed and before its outgoing edges are opened.
func (g *Graph) markPinched() {
	open := 0
	for _, id := range g.order {
		open -= len(g.incoming[id])
		g.nodes[id].pinched = open == 0
		open += len(g.outgoing[id])
	}
}

// Subset derives the subgraph of nodes whose population intersects
// filter. Nodes without a population annotation are always kept. Edges
// through excluded nodes are spliced so connectivity among the kept
// nodes is preserved.
func (g *Graph) Subset(filter *bitset.BitSet) (*Graph, error) {
	keep := func(n *Node) bool {
		return n.pop == nil || n.pop.IntersectionCardinality(filter) > 0
	}
	return g.derive(keep)
}

// MaxAF derives the linear graph that follows, at every branch, the
// successor with the highest allele frequency (reference wins ties).
func (g *Graph) MaxAF() (*Graph, error) {
	if !g.finalized {
		if err := g.Finalize(); err != nil {
			return nil, err
		}
	}
	visited := make([]bool, len(g.nodes))
	if len(g.order) > 0 {
		id := g.order[0]
		for {
			visited[id] = true
			succs := g.outgoing[id]
			if len(succs) == 0 {
				break
			}
			best := succs[0]
			for _, s := range succs[1:] {
				bn, sn := g.nodes[best], g.nodes[s]
				if sn.af > bn.af || (sn.af == bn.af && sn.isRef && !bn.isRef) {
					best = s
				}
			}
			id = best
		}
	}
	return g.derive(func(n *Node) bool { return visited[n.id] })
}

// derive rebuilds a finalized graph from the kept nodes, splicing edges
// across dropped ones in topological order.
func (g *Graph) derive(keep func(*Node) bool) (*Graph, error) {
	if !g.finalized {
		if err := g.Finalize(); err != nil {
			return nil, err
		}
	}
	// preds maps an old id to the kept old ids that reach it directly or
	// through dropped nodes only.
	preds := make([][]NodeID, len(g.nodes))
	sub := New()
	sub.popSize = g.popSize
	newID := make([]NodeID, len(g.nodes))
	for _, id := range g.order {
		n := g.nodes[id]
		merged := dedup(preds[id])
		if keep(n) {
			newID[id] = sub.AddNode(n.seq, n.endPos, func(c *Node) {
				c.isRef = n.isRef
				c.af = n.af
				c.pop = n.pop
			})
			for _, p := range merged {
				sub.AddEdge(newID[p], newID[id])
			}
			for _, succ := range g.outgoing[id] {
				preds[succ] = append(preds[succ], id)
			}
		} else {
			// splice: forward the kept predecessors to the successors
			for _, succ := range g.outgoing[id] {
				preds[succ] = append(preds[succ], merged...)
			}
		}
	}
	if err := sub.Finalize(); err != nil {
		return nil, err
	}
	return sub, nil
}

func dedup(ids []NodeID) []NodeID {
	if len(ids) < 2 {
		return ids
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
