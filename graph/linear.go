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

package graph

import (
	"fmt"

	"github.com/varg-aligner/varg/dna"
)

// Linear builds a finalized chain of reference nodes covering seq,
// starting at 1-indexed position startPos, with at most maxNodeLen
// bases per node. Variant branches are grafted on afterwards with
// AddVariant by external builders.
func Linear(seq []dna.Base, startPos int32, maxNodeLen int) (*Graph, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("empty reference sequence")
	}
	if maxNodeLen <= 0 {
		maxNodeLen = len(seq)
	}
	g := New()
	var prev NodeID
	for off := 0; off < len(seq); off += maxNodeLen {
		end := min(off+maxNodeLen, len(seq))
		id := g.AddNode(seq[off:end], startPos+int32(end)-1, Ref())
		if off > 0 {
			g.AddEdge(prev, id)
		}
		prev = id
	}
	if err := g.Finalize(); err != nil {
		return nil, err
	}
	return g, nil
}

// AddVariant grafts an alternative allele onto the graph: the reference
// span begin..begin+refLen-1 (1-indexed) gets a parallel branch
// carrying alt. The reference node containing the span is split; its
// left remainder may become an empty node, which is transparent to the
// aligner. An empty alt encodes a deletion. Returns the id of the new
// branch node.
func (g *Graph) AddVariant(begin int32, refLen int, alt []dna.Base, af float32) (NodeID, error) {
	if refLen <= 0 {
		return 0, fmt.Errorf("variant must replace at least one reference base")
	}
	end := begin + int32(refLen) - 1
	var host *Node
	for _, n := range g.nodes {
		if n.isRef && n.BeginPos() <= begin && end <= n.endPos {
			host = n
			break
		}
	}
	if host == nil {
		return 0, fmt.Errorf("no reference node spans %v..%v", begin, end)
	}
	seq := host.seq
	leftLen := begin - host.BeginPos()
	rightLen := host.endPos - end
	origEnd := host.endPos
	successors := append([]NodeID(nil), g.outgoing[host.id]...)

	// The host keeps its predecessors and shrinks to the left flank,
	// possibly to an empty node.
	for _, s := range successors {
		g.incoming[s] = removeID(g.incoming[s], host.id)
	}
	g.outgoing[host.id] = nil
	host.seq = seq[:leftLen]
	host.endPos = begin - 1

	refNode := g.AddNode(seq[leftLen:int32(len(seq))-rightLen], end, Ref())
	altNode := g.AddNode(alt, end, AF(af))
	g.AddEdge(host.id, refNode)
	g.AddEdge(host.id, altNode)

	if rightLen > 0 {
		right := g.AddNode(seq[int32(len(seq))-rightLen:], origEnd, Ref())
		g.AddEdge(refNode, right)
		g.AddEdge(altNode, right)
		for _, s := range successors {
			g.AddEdge(right, s)
		}
	} else {
		for _, s := range successors {
			g.AddEdge(refNode, s)
			g.AddEdge(altNode, s)
		}
	}
	if err := g.Finalize(); err != nil {
		return 0, err
	}
	return altNode, nil
}

func removeID(ids []NodeID, id NodeID) []NodeID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
