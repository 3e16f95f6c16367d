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

package align

import (
	"github.com/varg-aligner/varg/dna"
	"github.com/varg-aligner/varg/simd"
)

// baseScores maps a reference base to the lane vector of score
// contributions at one read position.
type baseScores[V simd.Vector[V]] [dna.NumBases]V

// alignmentGroup interleaves a batch of up to Lanes() reads into a
// query profile: prof[i][b] holds, per lane, the score for aligning
// read position i against reference base b. Reads shorter than the
// profile are front padded with score-neutral entries so they still end
// at the last position.
type alignmentGroup[V simd.Vector[V]] struct {
	prof    []baseScores[V]
	readLen int
}

func newAlignmentGroup[V simd.Vector[V]](readLen int) alignmentGroup[V] {
	return alignmentGroup[V]{
		prof:    make([]baseScores[V], readLen),
		readLen: readLen,
	}
}

var plainBases = [4]dna.Base{dna.A, dna.C, dna.G, dna.T}

// loadReads packages reads[begin:end] into the query profile, one read
// per lane. Quality slices, when present, drive the per-base mismatch
// penalty. With revcomp set, each read is consumed back to front and
// complemented; the quality of a base travels with it. Lanes beyond
// end-begin keep stale values; their results are discarded by the
// caller.
func (g *alignmentGroup[V]) loadReads(reads [][]dna.Base, quals [][]byte, prof *ScoreProfile, begin, end int, revcomp bool) {
	for r := begin; r < end; r++ {
		read := reads[r]
		lane := r - begin

		pad := g.readLen - len(read)
		for i := 0; i < pad; i++ {
			for b := dna.Base(0); b < dna.NumBases; b++ {
				g.prof[i][b] = g.prof[i][b].Insert(lane, 0)
			}
		}

		var qual []byte
		if len(quals) > 0 {
			qual = quals[r]
		}
		pos := pad
		start, stop, inc := 0, len(read), 1
		if revcomp {
			start, stop, inc = len(read)-1, -1, -1
		}
		for p := start; p != stop; p += inc {
			rdb := read[p]
			if revcomp {
				rdb = rdb.Complement()
			}
			g.prof[pos][dna.N] = g.prof[pos][dna.N].Insert(lane, -prof.AmbigPenalty)
			for _, b := range plainBases {
				var score int
				switch {
				case rdb == dna.N:
					score = -prof.AmbigPenalty
				case rdb == b:
					score = prof.Match
				case len(qual) == 0:
					score = -prof.MismatchMax
				default:
					score = -prof.Penalty(qual[p])
				}
				g.prof[pos][b] = g.prof[pos][b].Insert(lane, score)
			}
			pos++
		}
	}
}
