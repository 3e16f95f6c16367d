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

import "github.com/varg-aligner/varg/simd"

// Tally selects how much bookkeeping the engine performs per cell.
type Tally int

const (
	// TallyFull tracks the best and second-best scores with their
	// position lists.
	TallyFull Tally = iota
	// TallyMaxOnly tracks the best score and its positions, no
	// second-best.
	TallyMaxOnly
	// TallyScoreOnly tracks the best score alone, no positions.
	TallyScoreOnly
)

// tracker maintains, per lane, the running best score with its list of
// positions, the committed second-best under the separation rule, and a
// waiting slot that stages a second-best candidate until two read
// lengths of separation from its last occurrence have been witnessed.
//
// Positions are 1-indexed coordinates of the last aligned base. Any two
// entries of the same list, and any entry of the sub list against any
// entry of the max list, are more than 2*readLen apart.
type tracker[V simd.Vector[V]] struct {
	tally   Tally
	lanes   int
	rho     int32 // 2 * readLen
	minVal  int

	maxScore     V
	subScore     V
	waitingScore V

	maxLastPos     []int32
	subLastPos     []int32
	waitingPos     []int32 // 0 = no waiting candidate
	waitingLastPos []int32

	maxPos [][]int32
	subPos [][]int32
}

func newTracker[V simd.Vector[V]](readLen int, tally Tally) tracker[V] {
	var z V
	return tracker[V]{
		tally:          tally,
		lanes:          z.Lanes(),
		rho:            2 * int32(readLen),
		minVal:         z.MinScore(),
		maxLastPos:     make([]int32, z.Lanes()),
		subLastPos:     make([]int32, z.Lanes()),
		waitingPos:     make([]int32, z.Lanes()),
		waitingLastPos: make([]int32, z.Lanes()),
		maxPos:         make([][]int32, z.Lanes()),
		subPos:         make([][]int32, z.Lanes()),
	}
}

// reset prepares the tracker for a new batch.
func (t *tracker[V]) reset() {
	var z V
	t.maxScore = z.Splat(t.minVal)
	t.subScore = z.Splat(t.minVal)
	t.waitingScore = z.Splat(t.minVal)
	for i := 0; i < t.lanes; i++ {
		t.maxLastPos[i] = 0
		t.subLastPos[i] = 0
		t.waitingPos[i] = 0
		t.waitingLastPos[i] = 0
		t.maxPos[i] = t.maxPos[i][:0]
		t.subPos[i] = t.subPos[i][:0]
	}
}

// beginReversePass clears the positional state before the reverse
// strand traversal while keeping the scores, so the reverse pass only
// records positions that match or beat the forward strand.
func (t *tracker[V]) beginReversePass() {
	for i := 0; i < t.lanes; i++ {
		t.maxLastPos[i] = 0
		t.subLastPos[i] = 0
		t.waitingPos[i] = 0
		t.waitingScore = t.waitingScore.Insert(i, t.subScore.Extract(i))
		t.maxPos[i] = t.maxPos[i][:0]
		t.subPos[i] = t.subPos[i][:0]
	}
}

// observe feeds one committed DP cell vector at genomic position pos.
func (t *tracker[V]) observe(s V, pos int32) {
	switch t.tally {
	case TallyScoreOnly:
		t.maxScore = t.maxScore.Max(s)
	case TallyMaxOnly:
		t.observeMaxOnly(s, pos)
	default:
		t.observeFull(s, pos)
	}
}

func (t *tracker[V]) observeMaxOnly(s V, pos int32) {
	if m := s.Eq(t.maxScore); m.Any() {
		for i := 0; i < t.lanes; i++ {
			if m.Extract(i) == 0 {
				continue
			}
			if pos > t.maxLastPos[i]+t.rho {
				t.maxPos[i] = append(t.maxPos[i], pos)
			}
			t.maxLastPos[i] = pos
		}
	}
	if m := s.Gt(t.maxScore); m.Any() {
		for i := 0; i < t.lanes; i++ {
			if m.Extract(i) == 0 {
				continue
			}
			t.maxScore = t.maxScore.Insert(i, s.Extract(i))
			t.maxLastPos[i] = pos
			t.maxPos[i] = append(t.maxPos[i][:0], pos)
		}
	}
}

func (t *tracker[V]) observeFull(s V, pos int32) {
	// Repeated best score.
	if m := s.Eq(t.maxScore); m.Any() {
		for i := 0; i < t.lanes; i++ {
			if m.Extract(i) == 0 {
				continue
			}
			if pos > t.maxLastPos[i]+t.rho {
				t.maxPos[i] = append(t.maxPos[i], pos)
			}
			t.maxLastPos[i] = pos
			// A waiting candidate can no longer witness its separation.
			t.waitingPos[i] = 0
			t.waitingScore = t.waitingScore.Insert(i, t.subScore.Extract(i))
			if n := len(t.subPos[i]); n > 0 && t.subPos[i][n-1]+t.rho > pos {
				t.subPos[i] = t.subPos[i][:n-1]
			}
		}
	}

	// New best score.
	if m := s.Gt(t.maxScore); m.Any() {
		for i := 0; i < t.lanes; i++ {
			if m.Extract(i) == 0 {
				continue
			}
			if n := len(t.maxPos[i]); n > 0 && t.maxPos[i][n-1]+t.rho > pos {
				t.maxPos[i] = t.maxPos[i][:n-1]
			}
			if len(t.maxPos[i]) > 0 {
				// The old best keeps an occurrence far enough back:
				// demote it to second-best.
				t.subScore = t.subScore.Insert(i, t.maxScore.Extract(i))
				t.subLastPos[i] = t.maxLastPos[i]
				t.subPos[i] = append(t.subPos[i][:0], t.maxPos[i]...)
			} else if n := len(t.subPos[i]); n > 0 && t.subPos[i][n-1]+t.rho > pos {
				t.subPos[i] = t.subPos[i][:n-1]
			}
			t.waitingPos[i] = 0
			t.waitingScore = t.waitingScore.Insert(i, t.subScore.Extract(i))
			t.maxScore = t.maxScore.Insert(i, s.Extract(i))
			t.maxLastPos[i] = pos
			t.maxPos[i] = append(t.maxPos[i][:0], pos)
		}
	}

	// Repeated waiting score: extend the last occurrence.
	if m := s.Eq(t.waitingScore); m.Any() {
		for i := 0; i < t.lanes; i++ {
			if m.Extract(i) != 0 && t.waitingPos[i] > 0 {
				t.waitingLastPos[i] = pos
			}
		}
	}

	// Repeated committed second-best score.
	if m := s.Eq(t.subScore); m.Any() {
		for i := 0; i < t.lanes; i++ {
			if m.Extract(i) == 0 {
				continue
			}
			nm, ns := len(t.maxPos[i]), len(t.subPos[i])
			if nm > 0 && pos > t.maxPos[i][nm-1]+t.rho &&
				ns > 0 && pos > t.subPos[i][ns-1]+t.rho {
				t.subPos[i] = append(t.subPos[i], pos)
			}
			t.subLastPos[i] = pos
		}
	}

	// Candidate new second-best goes to the waiting slot.
	if m := s.Gt(t.subScore).And(s.Lt(t.maxScore)); m.Any() {
		for i := 0; i < t.lanes; i++ {
			if m.Extract(i) == 0 {
				continue
			}
			c := s.Extract(i)
			if pos > t.maxLastPos[i]+t.rho &&
				(t.waitingPos[i] == 0 || c > t.waitingScore.Extract(i)) {
				t.waitingScore = t.waitingScore.Insert(i, c)
				t.waitingPos[i] = pos
				t.waitingLastPos[i] = pos
			}
		}
	}

	// Commit the waiting slot once its separation is witnessed.
	if m := t.waitingScore.Gt(t.subScore); m.Any() {
		for i := 0; i < t.lanes; i++ {
			if m.Extract(i) == 0 {
				continue
			}
			if t.waitingPos[i] > 0 && pos > t.waitingLastPos[i]+t.rho {
				t.subScore = t.subScore.Insert(i, t.waitingScore.Extract(i))
				t.subLastPos[i] = t.waitingLastPos[i]
				t.subPos[i] = append(t.subPos[i][:0], t.waitingPos[i])
				t.waitingPos[i] = 0
			}
		}
	}
}

// finishPass commits a still-waiting second-best at the end of a
// traversal, when the best score never advanced past it.
func (t *tracker[V]) finishPass() {
	if t.tally != TallyFull {
		return
	}
	if m := t.waitingScore.Gt(t.subScore); m.Any() {
		for i := 0; i < t.lanes; i++ {
			if m.Extract(i) != 0 && t.waitingPos[i] > 0 && t.maxLastPos[i] < t.waitingPos[i] {
				t.subScore = t.subScore.Insert(i, t.waitingScore.Extract(i))
				t.subLastPos[i] = t.waitingLastPos[i]
				t.subPos[i] = append(t.subPos[i][:0], t.waitingPos[i])
				t.waitingPos[i] = 0
			}
		}
	}
}
