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
	"strings"
	"testing"

	"github.com/bits-and-blooms/bitset"

	"github.com/varg-aligner/varg/dna"
)

func buildDiamond(t *testing.T) (*Graph, []NodeID) {
	t.Helper()
	g := New()
	ids := []NodeID{
		g.AddNode(dna.FromString("AAA"), 3, Ref(), Population(bitset.New(3).Set(0).Set(1).Set(2))),
		g.AddNode(dna.FromString("CCC"), 6, Ref(), AF(0.4), Population(bitset.New(3).Set(0).Set(2))),
		g.AddNode(dna.FromString("GGG"), 6, AF(0.6), Population(bitset.New(3).Set(1))),
		g.AddNode(dna.FromString("TTTA"), 10, Ref(), AF(0.3), Population(bitset.New(3).Set(0).Set(1).Set(2))),
	}
	g.AddEdge(ids[0], ids[1])
	g.AddEdge(ids[0], ids[2])
	g.AddEdge(ids[1], ids[3])
	g.AddEdge(ids[2], ids[3])
	g.SetPopSize(3)
	if err := g.Finalize(); err != nil {
		t.Fatal(err)
	}
	return g, ids
}

func TestTopologicalOrder(t *testing.T) {
	g, _ := buildDiamond(t)
	order := g.Order()
	if len(order) != 4 {
		t.Fatalf("order length %v", len(order))
	}
	position := make(map[NodeID]int)
	for i, id := range order {
		position[id] = i
	}
	for _, id := range order {
		for _, p := range g.Incoming(id) {
			if position[p] >= position[id] {
				t.Errorf("predecessor %v not before %v", p, id)
			}
		}
	}
}

func TestCycleDetection(t *testing.T) {
	g := New()
	a := g.AddNode(dna.FromString("A"), 1)
	b := g.AddNode(dna.FromString("C"), 2)
	g.AddEdge(a, b)
	g.AddEdge(b, a)
	if err := g.Finalize(); err != ErrCycle {
		t.Errorf("got %v, want cycle error", err)
	}
}

func TestPinchMarking(t *testing.T) {
	g, ids := buildDiamond(t)
	wantPinched := map[NodeID]bool{ids[0]: true, ids[1]: false, ids[2]: false, ids[3]: true}
	for id, want := range wantPinched {
		if got := g.Node(id).Pinched(); got != want {
			t.Errorf("node %v: pinched %v, want %v", id, got, want)
		}
	}
}

func TestNodeCoordinates(t *testing.T) {
	g, ids := buildDiamond(t)
	n := g.Node(ids[3])
	if n.BeginPos() != 7 || n.EndPos() != 10 {
		t.Errorf("TTTA spans %v..%v, want 7..10", n.BeginPos(), n.EndPos())
	}
	empty := New()
	e := empty.AddNode(nil, 3)
	if got := empty.Node(e).BeginPos(); got != 4 {
		t.Errorf("empty node begin %v, want 4", got)
	}
}

func TestSubset(t *testing.T) {
	g, _ := buildDiamond(t)
	filter := bitset.New(3).Set(1)
	sub, err := g.Subset(filter)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Len() != 3 {
		t.Fatalf("subset has %v nodes, want 3", sub.Len())
	}
	for _, id := range sub.Order() {
		if seq := dna.String(sub.Node(id).Seq()); seq == "CCC" {
			t.Error("subset retains the branch individual 1 does not carry")
		}
	}
	// The spliced graph stays connected: dropping CCC forwards its
	// predecessor AAA to TTTA, alongside the surviving GGG branch.
	last := sub.Order()[len(sub.Order())-1]
	if got := dna.String(sub.Node(last).Seq()); got != "TTTA" {
		t.Errorf("last subset node %v, want TTTA", got)
	}
	if len(sub.Incoming(last)) != 2 {
		t.Errorf("TTTA has %v predecessors in subset, want 2", len(sub.Incoming(last)))
	}
}

func TestMaxAF(t *testing.T) {
	g, _ := buildDiamond(t)
	lin, err := g.MaxAF()
	if err != nil {
		t.Fatal(err)
	}
	if lin.Len() != 3 {
		t.Fatalf("max-AF graph has %v nodes, want 3", lin.Len())
	}
	var seqs []string
	for _, id := range lin.Order() {
		seqs = append(seqs, dna.String(lin.Node(id).Seq()))
	}
	want := []string{"AAA", "GGG", "TTTA"}
	for i := range want {
		if seqs[i] != want[i] {
			t.Errorf("max-AF path %v, want %v", seqs, want)
			break
		}
	}
}

func TestLinearBuilder(t *testing.T) {
	seq := dna.FromString("ACGTACGTAC")
	g, err := Linear(seq, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 3 {
		t.Fatalf("linear graph has %v nodes, want 3", g.Len())
	}
	ends := []int32{4, 8, 10}
	for i, id := range g.Order() {
		if got := g.Node(id).EndPos(); got != ends[i] {
			t.Errorf("node %v ends at %v, want %v", i, got, ends[i])
		}
		if !g.Node(id).Pinched() {
			t.Errorf("linear node %v not pinched", i)
		}
	}
}

func TestAddVariant(t *testing.T) {
	seq := dna.FromString("AAACCCTTTA")
	g, err := Linear(seq, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	alt, err := g.AddVariant(4, 3, dna.FromString("GGG"), 0.6)
	if err != nil {
		t.Fatal(err)
	}
	n := g.Node(alt)
	if n.BeginPos() != 4 || n.EndPos() != 6 || n.IsRef() {
		t.Errorf("alt node spans %v..%v ref=%v", n.BeginPos(), n.EndPos(), n.IsRef())
	}
	// Reconstruct both paths.
	var ref, withAlt []string
	for _, id := range g.Order() {
		node := g.Node(id)
		if node.IsRef() {
			ref = append(ref, dna.String(node.Seq()))
		}
	}
	if got := strings.Join(ref, ""); got != "AAACCCTTTA" {
		t.Errorf("reference path %q", got)
	}
	withAlt = nil
	for _, id := range g.Order() {
		node := g.Node(id)
		if node.ID() == alt || (node.IsRef() && !(node.BeginPos() == 4 && node.EndPos() == 6)) {
			withAlt = append(withAlt, dna.String(node.Seq()))
		}
	}
	if got := strings.Join(withAlt, ""); got != "AAAGGGTTTA" {
		t.Errorf("alternate path %q", got)
	}
}

func TestDotExport(t *testing.T) {
	g, _ := buildDiamond(t)
	rendered, err := g.Dot("test")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"digraph", "n0", "n3", "->"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("dot output missing %q:\n%v", want, rendered)
		}
	}
}
