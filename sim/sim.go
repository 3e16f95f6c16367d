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

// Package sim generates reads by random walks over a sequence graph and
// injects substitution and indel errors at configurable rates. Each
// read is derived from its own deterministic RNG stream, so generation
// is reproducible under a fixed seed and safe to parallelize.
package sim

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash"
	"github.com/exascience/pargo/parallel"

	"github.com/varg-aligner/varg/dna"
	"github.com/varg-aligner/varg/graph"
	"github.com/varg-aligner/varg/internal"
)

// Config controls read generation.
type Config struct {
	NumReads int
	ReadLen  int
	// MutErr is the substitution error rate, IndelErr the indel rate.
	MutErr   float64
	IndelErr float64
	Seed     int64
}

// Read is one simulated read with its provenance.
type Read struct {
	Name     string
	Seq      string
	EndPos   int32 // 1-indexed position of the last sampled base
	SubErr   int   // substitution errors injected
	IndelErr int   // insertions and deletions injected
	VarNode  int   // variant (non-reference) nodes crossed
	VarBase  int   // bases sampled from variant nodes
}

const rejectionLimit = 64

// Simulate draws cfg.NumReads reads from random paths through g.
func Simulate(g *graph.Graph, cfg Config) ([]Read, error) {
	order := g.Order()
	bases := 0
	for _, id := range order {
		bases += len(g.Node(id).Seq())
	}
	if bases == 0 {
		return nil, fmt.Errorf("sim: graph has no sequence")
	}
	if cfg.ReadLen <= 0 || cfg.NumReads < 0 {
		return nil, fmt.Errorf("sim: invalid config: %v reads of length %v", cfg.NumReads, cfg.ReadLen)
	}
	reads := make([]Read, cfg.NumReads)
	parallel.Range(0, cfg.NumReads, 0, func(low, high int) {
		for i := low; i < high; i++ {
			reads[i] = generateRead(g, cfg, i)
		}
	})
	return reads, nil
}

// readRand derives an independent generator for read i from the run
// seed, so reads can be generated in any order or in parallel.
func readRand(seed int64, i int) *internal.Rand {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(i))
	return internal.NewRand(int64(xxhash.Sum64(buf[:])))
}

func generateRead(g *graph.Graph, cfg Config, index int) Read {
	r := readRand(cfg.Seed, index)
	order := g.Order()
	for attempt := 0; ; attempt++ {
		read, ok := sampleWalk(g, order, cfg.ReadLen, r)
		if ok || attempt >= rejectionLimit {
			mutate(&read, cfg, r)
			read.Name = fmt.Sprintf("sim%v", index)
			return read
		}
	}
}

// sampleWalk samples one unmutated read along a random path. The first
// population-annotated node encountered fixes the individual the rest
// of the walk follows, so the read traces a single haplotype through
// variant sites. A walk that is mostly ambiguous bases or ran off the
// graph too early is rejected.
func sampleWalk(g *graph.Graph, order []graph.NodeID, readLen int, r *internal.Rand) (Read, bool) {
	var read Read
	// Random start node with sequence, random offset within it.
	var n *graph.Node
	for {
		n = g.Node(order[int(r.Int31n(int32(len(order))))])
		if len(n.Seq()) > 0 {
			break
		}
	}
	offset := int(r.Int31n(int32(len(n.Seq()))))

	seq := make([]dna.Base, 0, readLen)
	ambig := 0
	currIndiv := -1
	enterNode := func(n *graph.Node) {
		if !n.IsRef() {
			read.VarNode++
		}
		if pop := n.Population(); pop != nil && currIndiv < 0 {
			currIndiv = randomMember(pop, r)
		}
	}
	enterNode(n)
	for len(seq) < readLen {
		if offset == len(n.Seq()) {
			succs := g.Outgoing(n.ID())
			if len(succs) == 0 {
				break
			}
			n = pickSuccessor(g, succs, currIndiv, r)
			enterNode(n)
			offset = 0
			continue
		}
		b := n.Seq()[offset]
		seq = append(seq, b)
		if b == dna.N {
			ambig++
		}
		if !n.IsRef() {
			read.VarBase++
		}
		read.EndPos = n.BeginPos() + int32(offset)
		offset++
	}
	read.Seq = dna.String(seq)
	return read, ambig <= len(seq)/2 && len(seq) >= readLen/2
}

// pickSuccessor draws a random successor consistent with the current
// individual: unannotated nodes are always valid, annotated ones must
// carry currIndiv. An individual not yet fixed accepts any candidate.
// Resampling is bounded so an inconsistently annotated graph cannot
// stall the walk.
func pickSuccessor(g *graph.Graph, succs []graph.NodeID, currIndiv int, r *internal.Rand) *graph.Node {
	for attempt := 0; ; attempt++ {
		n := g.Node(succs[int(r.Int31n(int32(len(succs))))])
		pop := n.Population()
		if pop == nil || currIndiv < 0 || pop.Test(uint(currIndiv)) || attempt >= rejectionLimit {
			return n
		}
	}
}

// randomMember returns a uniformly drawn set bit of pop, -1 if empty.
func randomMember(pop *bitset.BitSet, r *internal.Rand) int {
	count := int32(pop.Count())
	if count == 0 {
		return -1
	}
	k := r.Int31n(count)
	i, _ := pop.NextSet(0)
	for ; k > 0; k-- {
		i, _ = pop.NextSet(i + 1)
	}
	return int(i)
}

// mutate injects substitution and indel errors, one random draw per
// base, with the same thresholds for substitution, deletion, and
// insertion as the original simulator.
func mutate(read *Read, cfg Config, r *internal.Rand) {
	const scale = 100000
	mutCut := int32(scale * cfg.MutErr)
	indelCut := int32(scale * cfg.IndelErr)
	var out []byte
	for i := 0; i < len(read.Seq); i++ {
		draw := r.Int31n(scale)
		mut := read.Seq[i]
		if draw < scale-indelCut/2 { // not a deletion
			switch {
			case draw < mutCut/4 && mut != 'A':
				mut = 'A'
				read.SubErr++
			case draw < 2*mutCut/4 && mut != 'G':
				mut = 'G'
				read.SubErr++
			case draw < 3*mutCut/4 && mut != 'C':
				mut = 'C'
				read.SubErr++
			case draw < mutCut && mut != 'T':
				mut = 'T'
				read.SubErr++
			}
			out = append(out, mut)

			if indelCut > 0 && mutCut > 0 && draw > scale-indelCut {
				read.IndelErr++
				switch ins := r.Int31n(mutCut); {
				case ins < mutCut/4:
					out = append(out, 'A')
				case ins < 2*mutCut/4:
					out = append(out, 'G')
				case ins < 3*mutCut/4:
					out = append(out, 'C')
				default:
					out = append(out, 'T')
				}
			}
		} else {
			// base dropped
			read.IndelErr++
		}
	}
	read.Seq = string(out)
}

// WriteFasta writes the reads with their provenance in the comment:
// >name end=..;mut=..;indel=..;vnode=..;vbase=..
func WriteFasta(w io.Writer, reads []Read) error {
	for _, r := range reads {
		if _, err := fmt.Fprintf(w, ">%v end=%v;mut=%v;indel=%v;vnode=%v;vbase=%v\n%v\n",
			r.Name, r.EndPos, r.SubErr, r.IndelErr, r.VarNode, r.VarBase, r.Seq); err != nil {
			return err
		}
	}
	return nil
}
