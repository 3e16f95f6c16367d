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

import "errors"

// The engine reports three error kinds. Configuration errors come from
// invalid scoring parameters or a read length that exceeds the dynamic
// range of the chosen lane width; topology errors from a graph whose
// node order is not topological. Saturation risk is a one-shot warning,
// not an error.
var (
	ErrConfig   = errors.New("align: invalid configuration")
	ErrTopology = errors.New("align: graph order is not topological")
)

// Results holds the per-read outcome of a batch alignment. Scores have
// the bias already subtracted. Position lists hold 1-indexed genomic
// coordinates of the last aligned base, ascending, any two entries more
// than two read lengths apart.
type Results struct {
	MaxScore []int
	SubScore []int

	MaxPosFwd [][]int32
	MaxPosRev [][]int32
	SubPosFwd [][]int32
	SubPosRev [][]int32

	// Profile is the scoring profile the scores were produced under.
	Profile ScoreProfile
}

// Len returns the number of reads covered by the results.
func (r *Results) Len() int { return len(r.MaxScore) }

// crop truncates to the live read count, keeping the recorded results.
func (r *Results) crop(n int) {
	r.MaxScore = r.MaxScore[:n]
	r.SubScore = r.SubScore[:n]
	r.MaxPosFwd = r.MaxPosFwd[:n]
	r.MaxPosRev = r.MaxPosRev[:n]
	r.SubPosFwd = r.SubPosFwd[:n]
	r.SubPosRev = r.SubPosRev[:n]
}

func (r *Results) resize(n int) {
	r.MaxScore = resizeInts(r.MaxScore, n)
	r.SubScore = resizeInts(r.SubScore, n)
	r.MaxPosFwd = resizeLists(r.MaxPosFwd, n)
	r.MaxPosRev = resizeLists(r.MaxPosRev, n)
	r.SubPosFwd = resizeLists(r.SubPosFwd, n)
	r.SubPosRev = resizeLists(r.SubPosRev, n)
}

func resizeInts(s []int, n int) []int {
	if n <= cap(s) {
		s = s[:n]
		for i := range s {
			s[i] = 0
		}
		return s
	}
	return make([]int, n)
}

func resizeLists(s [][]int32, n int) [][]int32 {
	if n <= cap(s) {
		s = s[:n]
		for i := range s {
			s[i] = nil
		}
		return s
	}
	return make([][]int32, n)
}
