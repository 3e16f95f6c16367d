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

// Package align implements a vectorized Smith-Waterman alignment engine
// for sequence graphs. A batch of reads is scored simultaneously, one
// read per SIMD lane, against a graph traversed in topological order.
// "Score" means something that is added; "penalty" something that is
// subtracted. All penalties are given as positive magnitudes.
package align

import (
	"fmt"
	"log"
	"sync"

	"github.com/varg-aligner/varg/dna"
	"github.com/varg-aligner/varg/graph"
	"github.com/varg-aligner/varg/simd"
)

// Aligner scores read batches against a graph. Implementations are not
// safe for concurrent use; run one Aligner per worker on disjoint
// batches instead (the graph itself is shared read-only).
type Aligner interface {
	// SetScores replaces the scoring parameters. The end-to-end flag of
	// the profile selects between local and end-to-end alignment.
	SetScores(prof ScoreProfile) error
	// AlignInto aligns reads (with optional matching per-base Phred
	// qualities) against g and fills res. With fwdOnly false, a second
	// pass scores the reverse-complemented reads and the per-strand
	// position lists identify the winning strand.
	AlignInto(reads []string, quals [][]byte, g *graph.Graph, res *Results, fwdOnly bool) error
	// Align is AlignInto without qualities into a fresh Results.
	Align(reads []string, g *graph.Graph) (*Results, error)
	// ReadCapacity returns the number of reads scored per pass, one per
	// lane.
	ReadCapacity() int
}

type config struct {
	wide  bool
	tally Tally
}

// Option configures New.
type Option func(*config)

// Wide selects 16-bit lanes instead of the default 8-bit lanes, halving
// the batch width but widening the score range.
func Wide() Option { return func(c *config) { c.wide = true } }

// WithTally selects how much per-cell bookkeeping is performed.
func WithTally(t Tally) Option { return func(c *config) { c.tally = t } }

// New returns an aligner for reads of at most readLen bases under the
// given profile. It fails with a configuration error if the profile is
// invalid or readLen*match exceeds the dynamic range of the lane type.
func New(readLen int, prof ScoreProfile, opts ...Option) (Aligner, error) {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if readLen <= 0 {
		return nil, fmt.Errorf("%w: read length %v", ErrConfig, readLen)
	}
	if c.wide {
		return newAlignerT[simd.Int16x16](readLen, prof, c.tally)
	}
	return newAlignerT[simd.Int8x32](readLen, prof, c.tally)
}

// seed carries the last columns of the score matrix (S) and the
// read-gap matrix (I) of a node into its successors.
type seed[V simd.Vector[V]] struct {
	S []V
	I []V
}

func newSeed[V simd.Vector[V]](readLen int) *seed[V] {
	return &seed[V]{
		S: make([]V, readLen+1),
		I: make([]V, readLen+1),
	}
}

func (s *seed[V]) copyFrom(o *seed[V]) {
	copy(s.S, o.S)
	copy(s.I, o.I)
}

// alignerT is the generic engine; V fixes the lane width.
type alignerT[V simd.Vector[V]] struct {
	prof    ScoreProfile
	readLen int
	tally   Tally
	bias    int

	group alignmentGroup[V]

	// DP columns, indexed 0..readLen. s is the score column, dc the
	// current-column gap recurrence, ic the column-carried one.
	s, dc, ic []V
	// sd is the previous-diagonal register: one lane vector carried
	// across the cells of a column, reset to the bias at column start.
	sd V

	biasVec        V
	gapExtRead     V
	gapOpenExtRead V
	gapExtRef      V
	gapOpenExtRef  V

	trk tracker[V]

	// seedFree recycles seed columns between pinched sections.
	seedFree []*seed[V]
}

func newAlignerT[V simd.Vector[V]](readLen int, prof ScoreProfile, tally Tally) (*alignerT[V], error) {
	a := &alignerT[V]{
		readLen: readLen,
		tally:   tally,
		group:   newAlignmentGroup[V](readLen),
		s:       make([]V, readLen+1),
		dc:      make([]V, readLen+1),
		ic:      make([]V, readLen+1),
		trk:     newTracker[V](readLen, tally),
	}
	if err := a.SetScores(prof); err != nil {
		return nil, err
	}
	return a, nil
}

var saturationWarning sync.Once

// SetScores implements Aligner.
func (a *alignerT[V]) SetScores(prof ScoreProfile) error {
	if err := prof.validate(); err != nil {
		return err
	}
	bias, err := a.computeBias(&prof)
	if err != nil {
		return err
	}
	var z V
	a.prof = prof
	a.bias = bias
	a.biasVec = z.Splat(bias)
	a.gapExtRead = z.Splat(prof.ReadGapExtend)
	a.gapOpenExtRead = z.Splat(prof.ReadGapOpen + prof.ReadGapExtend)
	a.gapExtRef = z.Splat(prof.RefGapExtend)
	a.gapOpenExtRef = z.Splat(prof.RefGapOpen + prof.RefGapExtend)
	return nil
}

// computeBias derives the constant added to every score so the matrix
// stays representable. Local mode pins the bias to the bottom of the
// lane range, which doubles as the zero floor of local alignment under
// saturating arithmetic. End-to-end mode reserves headroom for a
// perfect read above the bias and warns once per process when the
// parameters could still clamp.
func (a *alignerT[V]) computeBias(prof *ScoreProfile) (int, error) {
	var z V
	if a.readLen*prof.Match > z.MaxScore()-z.MinScore() {
		return 0, fmt.Errorf("%w: read length %v with match %v exceeds the lane dynamic range %v",
			ErrConfig, a.readLen, prof.Match, z.MaxScore()-z.MinScore())
	}
	if !prof.EndToEnd {
		return z.MinScore(), nil
	}
	b := z.MaxScore() - a.readLen*prof.Match
	if prof.ReadGapOpen+(a.readLen-1)*prof.ReadGapExtend > b || a.readLen*prof.MismatchMax > b {
		saturationWarning.Do(func() {
			log.Printf("warning: possible score saturation in end-to-end mode: cell width %v, bias %v, limits gaplen=%v or mismatches=%v",
				z.MaxScore()-z.MinScore(), b,
				(b-prof.ReadGapOpen)/max(1, prof.ReadGapExtend), b/max(1, prof.MismatchMax))
		})
	}
	return b, nil
}

// ReadCapacity implements Aligner.
func (a *alignerT[V]) ReadCapacity() int {
	var z V
	return z.Lanes()
}

// Align implements Aligner.
func (a *alignerT[V]) Align(reads []string, g *graph.Graph) (*Results, error) {
	res := new(Results)
	if err := a.AlignInto(reads, nil, g, res, true); err != nil {
		return nil, err
	}
	return res, nil
}

// AlignInto implements Aligner.
func (a *alignerT[V]) AlignInto(reads []string, quals [][]byte, g *graph.Graph, res *Results, fwdOnly bool) error {
	res.Profile = a.prof
	if len(reads) == 0 {
		res.resize(0)
		return nil
	}
	if len(quals) > 0 && len(quals) != len(reads) {
		return fmt.Errorf("%w: %v quality slices for %v reads", ErrConfig, len(quals), len(reads))
	}
	encoded := make([][]dna.Base, len(reads))
	for i, r := range reads {
		if len(r) > a.readLen {
			return fmt.Errorf("%w: read %v length %v exceeds maximum %v", ErrConfig, i, len(r), a.readLen)
		}
		if len(quals) > 0 && len(quals[i]) > 0 && len(quals[i]) != len(r) {
			return fmt.Errorf("%w: read %v has %v bases but %v qualities", ErrConfig, i, len(r), len(quals[i]))
		}
		encoded[i] = dna.FromString(r)
	}

	capacity := a.ReadCapacity()
	numGroups := 1 + (len(reads)-1)/capacity
	res.resize(numGroups * capacity)

	seedMap := make(map[graph.NodeID]*seed[V])
	current := newSeed[V](a.readLen)

	for grp := 0; grp < numGroups; grp++ {
		a.recycleSeeds(seedMap)
		begin := grp * capacity
		end := min(begin+capacity, len(reads))

		a.trk.reset()

		// Forward strand.
		a.group.loadReads(encoded, quals, &a.prof, begin, end, false)
		if err := a.runPass(g, seedMap, current); err != nil {
			return err
		}
		a.trk.finishPass()
		for r := begin; r < end; r++ {
			res.MaxPosFwd[r] = append(res.MaxPosFwd[r][:0], a.trk.maxPos[r-begin]...)
			res.SubPosFwd[r] = append(res.SubPosFwd[r][:0], a.trk.subPos[r-begin]...)
		}

		if !fwdOnly {
			a.recycleSeeds(seedMap)
			a.group.loadReads(encoded, quals, &a.prof, begin, end, true)
			fwdMax := a.trk.maxScore
			fwdSub := a.trk.subScore
			a.trk.beginReversePass()
			if err := a.runPass(g, seedMap, current); err != nil {
				return err
			}
			a.trk.finishPass()
			for r := begin; r < end; r++ {
				res.MaxPosRev[r] = append(res.MaxPosRev[r][:0], a.trk.maxPos[r-begin]...)
				res.SubPosRev[r] = append(res.SubPosRev[r][:0], a.trk.subPos[r-begin]...)
			}
			// A strictly better reverse score invalidates the forward
			// positions; ties keep both strands.
			for i := 0; i < capacity; i++ {
				if begin+i >= end {
					break
				}
				if a.trk.maxScore.Extract(i) > fwdMax.Extract(i) {
					res.MaxPosFwd[begin+i] = res.MaxPosFwd[begin+i][:0]
				}
				if a.trk.subScore.Extract(i) > fwdSub.Extract(i) {
					res.SubPosFwd[begin+i] = res.SubPosFwd[begin+i][:0]
				}
			}
		}

		for i := 0; i < capacity && begin+i < end; i++ {
			res.MaxScore[begin+i] = a.trk.maxScore.Extract(i) - a.bias
			if a.tally == TallyFull {
				res.SubScore[begin+i] = a.trk.subScore.Extract(i) - a.bias
			}
		}
	}

	res.crop(len(reads))
	return nil
}

// runPass traverses the graph once in topological order, seeding every
// node from its predecessors and filling its DP matrix.
func (a *alignerT[V]) runPass(g *graph.Graph, seedMap map[graph.NodeID]*seed[V], current *seed[V]) error {
	for _, id := range g.Order() {
		n := g.Node(id)
		if err := a.getSeed(g.Incoming(id), seedMap, current); err != nil {
			return err
		}
		if n.Pinched() {
			// Every path crosses this node: earlier seeds are dead.
			a.recycleSeeds(seedMap)
		}
		out := a.takeSeed()
		a.fillNode(n, current, out)
		seedMap[id] = out
	}
	return nil
}

// getSeed merges the output seeds of all predecessors into the
// lane-wise elementwise maximum, or synthesizes the mode-specific
// initial seed for a node with no predecessors. A predecessor without a
// stored seed means the supplied order was not topological.
func (a *alignerT[V]) getSeed(prev []graph.NodeID, seedMap map[graph.NodeID]*seed[V], dst *seed[V]) error {
	if len(prev) == 0 {
		a.seedMatrix(dst)
		return nil
	}
	first, ok := seedMap[prev[0]]
	if !ok {
		return fmt.Errorf("%w: seed of node %v missing", ErrTopology, prev[0])
	}
	dst.copyFrom(first)
	for _, p := range prev[1:] {
		next, ok := seedMap[p]
		if !ok {
			return fmt.Errorf("%w: seed of node %v missing", ErrTopology, p)
		}
		for i := 1; i <= a.readLen; i++ {
			dst.S[i] = dst.S[i].Max(next.S[i])
			dst.I[i] = dst.I[i].Max(next.I[i])
		}
	}
	return nil
}

// seedMatrix synthesizes the initial seed. In end-to-end mode the first
// column is penalized monotonically so alignments must start at the
// first read base; in local mode every row starts at the bias.
func (a *alignerT[V]) seedMatrix(dst *seed[V]) {
	var z V
	if a.prof.EndToEnd {
		dst.S[0] = a.biasVec
		for i := 1; i <= a.readLen; i++ {
			v := a.bias - a.prof.RefGapOpen - i*a.prof.RefGapExtend
			if v < z.MinScore() {
				v = z.MinScore()
			}
			dst.S[i] = z.Splat(v)
		}
	} else {
		for i := 0; i <= a.readLen; i++ {
			dst.S[i] = a.biasVec
		}
	}
	copy(dst.I, dst.S)
}

// fillNode fills the DP matrix of one node from seed s and writes the
// final column into nxt. An empty node represents a deletion path and
// passes its seed through untouched.
func (a *alignerT[V]) fillNode(n *graph.Node, s, nxt *seed[V]) {
	seq := n.Seq()
	if len(seq) == 0 {
		nxt.copyFrom(s)
		return
	}
	var z V
	currPos := n.BeginPos()

	copy(a.s, s.S)
	copy(a.ic, s.I)
	a.dc[0] = z.Splat(z.MinScore())

	for _, refBase := range seq {
		a.sd = a.biasVec
		for r := 1; r <= a.readLen; r++ {
			a.fillCell(&a.group.prof[r-1], refBase, r, currPos)
		}
		if a.prof.EndToEnd {
			a.trk.observe(a.s[a.readLen], currPos)
		}
		currPos++
	}

	copy(nxt.S, a.s)
	copy(nxt.I, a.ic)
}

// fillCell computes one cell of the column for reference base ref. The
// saturating vector ops keep every lane within range; a clamped lane is
// safe to observe. Adjacent gap switches (D directly to I) are not
// considered.
func (a *alignerT[V]) fillCell(prof *baseScores[V], ref dna.Base, row int, currPos int32) {
	a.dc[row] = a.dc[row-1].SubSat(a.gapExtRef).Max(a.s[row-1].SubSat(a.gapOpenExtRef))
	a.ic[row] = a.ic[row].SubSat(a.gapExtRead).Max(a.s[row].SubSat(a.gapOpenExtRead))
	sr := a.sd.AddSat(prof[ref])
	a.sd = a.s[row] // S(i-1, j-1) for the next cell down the column
	a.s[row] = a.ic[row].Max(a.dc[row].Max(sr))
	if !a.prof.EndToEnd {
		a.trk.observe(a.s[row], currPos)
	}
}

func (a *alignerT[V]) takeSeed() *seed[V] {
	if n := len(a.seedFree); n > 0 {
		s := a.seedFree[n-1]
		a.seedFree = a.seedFree[:n-1]
		return s
	}
	return newSeed[V](a.readLen)
}

func (a *alignerT[V]) recycleSeeds(seedMap map[graph.NodeID]*seed[V]) {
	for id, s := range seedMap {
		a.seedFree = append(a.seedFree, s)
		delete(seedMap, id)
	}
}
