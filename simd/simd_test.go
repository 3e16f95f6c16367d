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

package simd

import (
	"math"
	"testing"
)

func TestInt8Broadcast(t *testing.T) {
	var z Int8x32
	a := z.Splat(10)
	b := z.Splat(-4)
	c := a.SubSat(b)
	d := a.Lt(c)
	for i := 0; i < a.Lanes(); i++ {
		if a.Extract(i) != 10 {
			t.Errorf("splat lane %v: got %v", i, a.Extract(i))
		}
		if b.Extract(i) != -4 {
			t.Errorf("splat lane %v: got %v", i, b.Extract(i))
		}
		if c.Extract(i) != 14 {
			t.Errorf("sub lane %v: got %v", i, c.Extract(i))
		}
		if d.Extract(i) != -1 {
			t.Errorf("mask lane %v: got %v", i, d.Extract(i))
		}
	}
}

func TestInt8Saturation(t *testing.T) {
	var z Int8x32
	top := z.Splat(120)
	bottom := z.Splat(-120)
	ten := z.Splat(10)
	if got := top.AddSat(ten).Extract(0); got != math.MaxInt8 {
		t.Errorf("add saturation: got %v", got)
	}
	if got := bottom.SubSat(ten).Extract(0); got != math.MinInt8 {
		t.Errorf("sub saturation: got %v", got)
	}
	if got := bottom.AddSat(ten).Extract(0); got != -110 {
		t.Errorf("add within range: got %v", got)
	}
}

func TestInt16Saturation(t *testing.T) {
	var z Int16x16
	top := z.Splat(math.MaxInt16 - 1)
	if got := top.AddSat(z.Splat(5)).Extract(3); got != math.MaxInt16 {
		t.Errorf("add saturation: got %v", got)
	}
	bottom := z.Splat(math.MinInt16 + 1)
	if got := bottom.SubSat(z.Splat(5)).Extract(3); got != math.MinInt16 {
		t.Errorf("sub saturation: got %v", got)
	}
}

func TestMasksAndBlend(t *testing.T) {
	var z Int8x32
	a := z.Splat(3).Insert(5, 9)
	b := z.Splat(3)
	eq := a.Eq(b)
	if eq.Extract(5) != 0 || eq.Extract(4) != -1 {
		t.Error("eq mask wrong")
	}
	if !a.Ne(b).Any() {
		t.Error("ne mask should have a lane set")
	}
	sel := a.Gt(b).Blend(a, b)
	for i := 0; i < sel.Lanes(); i++ {
		want := 3
		if i == 5 {
			want = 9
		}
		if sel.Extract(i) != want {
			t.Errorf("blend lane %v: got %v want %v", i, sel.Extract(i), want)
		}
	}
	if got := a.Max(b).Extract(5); got != 9 {
		t.Errorf("max lane 5: got %v", got)
	}
}

func TestMaskComplements(t *testing.T) {
	var z Int16x16
	a := z.Splat(1).Insert(0, 2)
	b := z.Splat(1)
	if a.Ge(b).Extract(0) != -1 || a.Ge(b).Extract(1) != -1 {
		t.Error("ge mask wrong")
	}
	if a.Le(b).Extract(0) != 0 || a.Le(b).Extract(1) != -1 {
		t.Error("le mask wrong")
	}
	m := a.Gt(b)
	if m.AndNot(m).Any() {
		t.Error("andnot of a mask with itself should be empty")
	}
	if !m.Or(m.Not()).Any() {
		t.Error("or with complement should be all ones")
	}
}

func TestFeatures(t *testing.T) {
	if Features() == "" {
		t.Error("empty feature name")
	}
	if VectorBits() < 64 {
		t.Errorf("vector bits %v", VectorBits())
	}
}
