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

package sim

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bits-and-blooms/bitset"

	"github.com/varg-aligner/varg/dna"
	"github.com/varg-aligner/varg/graph"
)

func refGraph(t *testing.T) *graph.Graph {
	t.Helper()
	seq := strings.Repeat("ACGTTGCAAC", 20)
	g, err := graph.Linear(dna.FromString(seq), 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestSimulateDeterministic(t *testing.T) {
	g := refGraph(t)
	cfg := Config{NumReads: 20, ReadLen: 30, MutErr: 0.1, IndelErr: 0.05, Seed: 42}
	first, err := Simulate(g, cfg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Simulate(g, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("read %v differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSimulateReads(t *testing.T) {
	g := refGraph(t)
	reads, err := Simulate(g, Config{NumReads: 50, ReadLen: 25, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if len(reads) != 50 {
		t.Fatalf("%v reads, want 50", len(reads))
	}
	for i, r := range reads {
		if len(r.Seq) < 25/2 {
			t.Errorf("read %v too short: %v", i, r.Seq)
		}
		if r.EndPos < 1 || r.EndPos > 200 {
			t.Errorf("read %v end position %v out of range", i, r.EndPos)
		}
		// Error-free simulation reproduces the reference.
		begin := int(r.EndPos) - len(r.Seq)
		window := strings.Repeat("ACGTTGCAAC", 20)[begin:r.EndPos]
		if r.Seq != window {
			t.Errorf("read %v does not match its source window: %v vs %v", i, r.Seq, window)
		}
		if r.SubErr != 0 {
			t.Errorf("read %v reports %v substitutions without error injection", i, r.SubErr)
		}
		if r.IndelErr != 0 {
			t.Errorf("read %v reports %v indels without error injection", i, r.IndelErr)
		}
	}
}

func TestWriteFasta(t *testing.T) {
	reads := []Read{{Name: "sim0", Seq: "ACGT", EndPos: 10, SubErr: 1, IndelErr: 2}}
	var buf bytes.Buffer
	if err := WriteFasta(&buf, reads); err != nil {
		t.Fatal(err)
	}
	want := ">sim0 end=10;mut=1;indel=2;vnode=0;vbase=0\nACGT\n"
	if buf.String() != want {
		t.Errorf("fasta output %q, want %q", buf.String(), want)
	}
}

func TestIndelCounting(t *testing.T) {
	g := refGraph(t)
	reads, err := Simulate(g, Config{NumReads: 200, ReadLen: 40, IndelErr: 0.2, MutErr: 0.05, Seed: 11})
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, r := range reads {
		total += r.IndelErr
	}
	if total == 0 {
		t.Error("no indels counted at a 20% indel rate")
	}
}

func TestHaplotypeConsistency(t *testing.T) {
	// Two variant sites with disjoint carrier sets. A walk that mixes
	// alleles of different individuals would produce a read containing
	// both a {0}-allele and a {1}-allele.
	g := graph.New()
	n0 := g.AddNode(dna.FromString("AAA"), 3, graph.Ref())
	c0 := g.AddNode(dna.FromString("CCC"), 6, graph.Ref(), graph.Population(bitset.New(2).Set(0)))
	c1 := g.AddNode(dna.FromString("GGG"), 6, graph.Population(bitset.New(2).Set(1)))
	mid := g.AddNode(dna.FromString("TT"), 8, graph.Ref())
	d0 := g.AddNode(dna.FromString("ACA"), 11, graph.Ref(), graph.Population(bitset.New(2).Set(0)))
	d1 := g.AddNode(dna.FromString("GCG"), 11, graph.Population(bitset.New(2).Set(1)))
	n5 := g.AddNode(dna.FromString("TTTA"), 15, graph.Ref())
	g.AddEdge(n0, c0)
	g.AddEdge(n0, c1)
	g.AddEdge(c0, mid)
	g.AddEdge(c1, mid)
	g.AddEdge(mid, d0)
	g.AddEdge(mid, d1)
	g.AddEdge(d0, n5)
	g.AddEdge(d1, n5)
	g.SetPopSize(2)
	if err := g.Finalize(); err != nil {
		t.Fatal(err)
	}
	reads, err := Simulate(g, Config{NumReads: 300, ReadLen: 15, Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range reads {
		if strings.Contains(r.Seq, "CCC") && strings.Contains(r.Seq, "GCG") {
			t.Errorf("read %v mixes individual 0 and 1 alleles: %v", i, r.Seq)
		}
		if strings.Contains(r.Seq, "GGG") && strings.Contains(r.Seq, "ACA") {
			t.Errorf("read %v mixes individual 1 and 0 alleles: %v", i, r.Seq)
		}
	}
}
