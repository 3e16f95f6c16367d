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

// Package simd provides portable fixed-width integer lane vectors with
// saturating arithmetic for the alignment engine.
//
// The two vector shapes mirror a 256-bit integer register: 32 lanes of
// int8 or 16 lanes of int16. One read is scored per lane. Comparison
// operations produce lane masks (all ones or all zeros per lane) that
// combine with And/Or/AndNot and select with Blend, so the scoring
// kernels can be written once, generically over the element width.
package simd

import "math"

// Lane counts of the two vector shapes.
const (
	Int8Lanes  = 32
	Int16Lanes = 16
)

// Vector is the operation set shared by Int8x32 and Int16x16. The engine
// is generic over a Vector instantiated with itself (V Vector[V]).
//
// AddSat and SubSat saturate: results outside the signed element range
// clamp to the nearest representable value and never wrap. Comparisons
// return masks with all bits of a lane set when the predicate holds.
type Vector[V any] interface {
	// Lanes returns the number of elements.
	Lanes() int
	// MinScore and MaxScore return the representable range of one lane.
	MinScore() int
	MaxScore() int
	// Splat returns a vector with x broadcast to every lane. x is
	// clamped to the lane range.
	Splat(x int) V
	AddSat(V) V
	SubSat(V) V
	Max(V) V
	Eq(V) V
	Ne(V) V
	Gt(V) V
	Lt(V) V
	Ge(V) V
	Le(V) V
	Not() V
	And(V) V
	Or(V) V
	AndNot(V) V
	// Blend treats the receiver as a mask and selects t where the mask
	// lane is set, f elsewhere.
	Blend(t, f V) V
	// Any reports whether any lane is nonzero.
	Any() bool
	Extract(i int) int
	Insert(i, x int) V
}

// Int8x32 is a vector of 32 signed 8-bit lanes.
type Int8x32 [Int8Lanes]int8

// Int16x16 is a vector of 16 signed 16-bit lanes.
type Int16x16 [Int16Lanes]int16

func sat8(x int) int8 {
	if x > math.MaxInt8 {
		return math.MaxInt8
	}
	if x < math.MinInt8 {
		return math.MinInt8
	}
	return int8(x)
}

func sat16(x int) int16 {
	if x > math.MaxInt16 {
		return math.MaxInt16
	}
	if x < math.MinInt16 {
		return math.MinInt16
	}
	return int16(x)
}

// Lanes returns the number of elements.
func (Int8x32) Lanes() int { return Int8Lanes }

// MinScore returns the smallest representable lane value.
func (Int8x32) MinScore() int { return math.MinInt8 }

// MaxScore returns the largest representable lane value.
func (Int8x32) MaxScore() int { return math.MaxInt8 }

// Splat broadcasts x to every lane.
func (Int8x32) Splat(x int) (r Int8x32) {
	v := sat8(x)
	for i := range r {
		r[i] = v
	}
	return r
}

// AddSat is lane-wise saturating addition.
func (a Int8x32) AddSat(b Int8x32) (r Int8x32) {
	for i := range r {
		r[i] = sat8(int(a[i]) + int(b[i]))
	}
	return r
}

// SubSat is lane-wise saturating subtraction.
func (a Int8x32) SubSat(b Int8x32) (r Int8x32) {
	for i := range r {
		r[i] = sat8(int(a[i]) - int(b[i]))
	}
	return r
}

// Max is the lane-wise maximum.
func (a Int8x32) Max(b Int8x32) (r Int8x32) {
	for i := range r {
		if a[i] > b[i] {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// Eq compares lanes for equality, producing a mask.
func (a Int8x32) Eq(b Int8x32) (r Int8x32) {
	for i := range r {
		if a[i] == b[i] {
			r[i] = -1
		}
	}
	return r
}

// Ne is the complement of Eq.
func (a Int8x32) Ne(b Int8x32) Int8x32 { return a.Eq(b).Not() }

// Gt compares lanes with >, producing a mask.
func (a Int8x32) Gt(b Int8x32) (r Int8x32) {
	for i := range r {
		if a[i] > b[i] {
			r[i] = -1
		}
	}
	return r
}

// Lt compares lanes with <, producing a mask.
func (a Int8x32) Lt(b Int8x32) (r Int8x32) {
	for i := range r {
		if a[i] < b[i] {
			r[i] = -1
		}
	}
	return r
}

// Ge is the complement of Lt.
func (a Int8x32) Ge(b Int8x32) Int8x32 { return a.Lt(b).Not() }

// Le is the complement of Gt.
func (a Int8x32) Le(b Int8x32) Int8x32 { return a.Gt(b).Not() }

// Not inverts all bits of every lane.
func (a Int8x32) Not() (r Int8x32) {
	for i := range r {
		r[i] = ^a[i]
	}
	return r
}

// And is the lane-wise bitwise and.
func (a Int8x32) And(b Int8x32) (r Int8x32) {
	for i := range r {
		r[i] = a[i] & b[i]
	}
	return r
}

// Or is the lane-wise bitwise or.
func (a Int8x32) Or(b Int8x32) (r Int8x32) {
	for i := range r {
		r[i] = a[i] | b[i]
	}
	return r
}

// AndNot computes a &^ b per lane.
func (a Int8x32) AndNot(b Int8x32) (r Int8x32) {
	for i := range r {
		r[i] = a[i] &^ b[i]
	}
	return r
}

// Blend selects t where the receiver mask lane is set, f elsewhere.
func (m Int8x32) Blend(t, f Int8x32) (r Int8x32) {
	for i := range r {
		if m[i] != 0 {
			r[i] = t[i]
		} else {
			r[i] = f[i]
		}
	}
	return r
}

// Any reports whether any lane is nonzero.
func (a Int8x32) Any() bool {
	for i := range a {
		if a[i] != 0 {
			return true
		}
	}
	return false
}

// Extract returns lane i as an int.
func (a Int8x32) Extract(i int) int { return int(a[i]) }

// Insert returns a copy with lane i set to x.
func (a Int8x32) Insert(i, x int) Int8x32 {
	a[i] = sat8(x)
	return a
}

// Lanes returns the number of elements.
func (Int16x16) Lanes() int { return Int16Lanes }

// MinScore returns the smallest representable lane value.
func (Int16x16) MinScore() int { return math.MinInt16 }

// MaxScore returns the largest representable lane value.
func (Int16x16) MaxScore() int { return math.MaxInt16 }

// Splat broadcasts x to every lane.
func (Int16x16) Splat(x int) (r Int16x16) {
	v := sat16(x)
	for i := range r {
		r[i] = v
	}
	return r
}

// AddSat is lane-wise saturating addition.
func (a Int16x16) AddSat(b Int16x16) (r Int16x16) {
	for i := range r {
		r[i] = sat16(int(a[i]) + int(b[i]))
	}
	return r
}

// SubSat is lane-wise saturating subtraction.
func (a Int16x16) SubSat(b Int16x16) (r Int16x16) {
	for i := range r {
		r[i] = sat16(int(a[i]) - int(b[i]))
	}
	return r
}

// Max is the lane-wise maximum.
func (a Int16x16) Max(b Int16x16) (r Int16x16) {
	for i := range r {
		if a[i] > b[i] {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// Eq compares lanes for equality, producing a mask.
func (a Int16x16) Eq(b Int16x16) (r Int16x16) {
	for i := range r {
		if a[i] == b[i] {
			r[i] = -1
		}
	}
	return r
}

// Ne is the complement of Eq.
func (a Int16x16) Ne(b Int16x16) Int16x16 { return a.Eq(b).Not() }

// Gt compares lanes with >, producing a mask.
func (a Int16x16) Gt(b Int16x16) (r Int16x16) {
	for i := range r {
		if a[i] > b[i] {
			r[i] = -1
		}
	}
	return r
}

// Lt compares lanes with <, producing a mask.
func (a Int16x16) Lt(b Int16x16) (r Int16x16) {
	for i := range r {
		if a[i] < b[i] {
			r[i] = -1
		}
	}
	return r
}

// Ge is the complement of Lt.
func (a Int16x16) Ge(b Int16x16) Int16x16 { return a.Lt(b).Not() }

// Le is the complement of Gt.
func (a Int16x16) Le(b Int16x16) Int16x16 { return a.Gt(b).Not() }

// Not inverts all bits of every lane.
func (a Int16x16) Not() (r Int16x16) {
	for i := range r {
		r[i] = ^a[i]
	}
	return r
}

// And is the lane-wise bitwise and.
func (a Int16x16) And(b Int16x16) (r Int16x16) {
	for i := range r {
		r[i] = a[i] & b[i]
	}
	return r
}

// Or is the lane-wise bitwise or.
func (a Int16x16) Or(b Int16x16) (r Int16x16) {
	for i := range r {
		r[i] = a[i] | b[i]
	}
	return r
}

// AndNot computes a &^ b per lane.
func (a Int16x16) AndNot(b Int16x16) (r Int16x16) {
	for i := range r {
		r[i] = a[i] &^ b[i]
	}
	return r
}

// Blend selects t where the receiver mask lane is set, f elsewhere.
func (m Int16x16) Blend(t, f Int16x16) (r Int16x16) {
	for i := range r {
		if m[i] != 0 {
			r[i] = t[i]
		} else {
			r[i] = f[i]
		}
	}
	return r
}

// Any reports whether any lane is nonzero.
func (a Int16x16) Any() bool {
	for i := range a {
		if a[i] != 0 {
			return true
		}
	}
	return false
}

// Extract returns lane i as an int.
func (a Int16x16) Extract(i int) int { return int(a[i]) }

// Insert returns a copy with lane i set to x.
func (a Int16x16) Insert(i, x int) Int16x16 {
	a[i] = sat16(x)
	return a
}
