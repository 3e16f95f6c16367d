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

package dna

import "testing"

func TestEncoding(t *testing.T) {
	if got := String(FromString("acgtACGT")); got != "ACGTACGT" {
		t.Errorf("round trip %v", got)
	}
	// IUPAC ambiguity codes and junk normalize to N.
	if got := String(FromString("RYKMx.-")); got != "NNNNNNN" {
		t.Errorf("ambiguity mapping %v", got)
	}
}

func TestComplementInvolution(t *testing.T) {
	for b := Base(0); b < NumBases; b++ {
		if b.Complement().Complement() != b {
			t.Errorf("complement of %c not an involution", b.Char())
		}
	}
	if N.Complement() != N {
		t.Error("N must be its own complement")
	}
}

func TestRevComp(t *testing.T) {
	if got := String(RevComp(FromString("AACGT"))); got != "ACGTT" {
		t.Errorf("revcomp %v", got)
	}
	if got := String(RevComp(FromString("TAATGG"))); got != "CCATTA" {
		t.Errorf("revcomp %v", got)
	}
}
