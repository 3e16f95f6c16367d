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
	"errors"
	"testing"
)

func TestPenaltyClamping(t *testing.T) {
	prof := NewScoreProfile(2, 6, 5, 3)
	prof.MismatchMin = 2
	if got := prof.Penalty(200); got != 6 {
		t.Errorf("penalty above the quality range: %v, want 6", got)
	}
	if got := prof.Penalty(0); got != 2 {
		t.Errorf("penalty at quality 0: %v, want 2", got)
	}
	flat := NewScoreProfile(2, 6, 5, 3)
	for q := byte(0); q <= 40; q += 10 {
		if got := flat.Penalty(q); got != 6 {
			t.Errorf("flat profile penalty(%v) = %v, want 6", q, got)
		}
	}
}

func TestProfileValidation(t *testing.T) {
	bad := NewScoreProfile(2, 2, 3, 1)
	bad.MismatchMin = 4
	bad.MismatchMax = 2
	if _, err := New(10, bad); !errors.Is(err, ErrConfig) {
		t.Errorf("inconsistent mismatch bounds: got %v, want configuration error", err)
	}

	negative := NewScoreProfile(2, 2, 3, 1)
	negative.AmbigPenalty = -1
	if _, err := New(10, negative); !errors.Is(err, ErrConfig) {
		t.Errorf("negative penalty: got %v, want configuration error", err)
	}
}

func TestTagRoundTrip(t *testing.T) {
	prof := NewAsymmetricProfile(2, 6, 5, 3, 4, 1)
	prof.AmbigPenalty = 1
	if got, want := prof.Tag(), "2:6:5:3:4:1:1"; got != want {
		t.Errorf("tag %q, want %q", got, want)
	}
	parsed, err := ParseTag(prof.Tag())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != prof {
		t.Errorf("round trip changed the profile: %+v vs %+v", parsed, prof)
	}

	prof.EndToEnd = true
	if got, want := prof.Tag(), "2:6:5:3:4:1:1:E"; got != want {
		t.Errorf("end-to-end tag %q, want %q", got, want)
	}
	parsed, err = ParseTag(prof.Tag())
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.EndToEnd {
		t.Error("end-to-end flag lost in round trip")
	}
}

func TestTagParseErrors(t *testing.T) {
	for _, s := range []string{"", "1:2:3", "a:b:c:d:e:f:g", "1:2:3:4:5:6:7:X"} {
		if _, err := ParseTag(s); !errors.Is(err, ErrConfig) {
			t.Errorf("ParseTag(%q): got %v, want configuration error", s, err)
		}
	}
}
