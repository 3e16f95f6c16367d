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

// Package dna defines the five-letter base alphabet shared by the graph,
// the aligner, and the read sources.
package dna

// Base is a numeric code for one of A, C, G, T, N.
type Base uint8

// Base codes. N doubles as the code for any IUPAC ambiguity character.
const (
	A Base = iota
	C
	G
	T
	N
)

// NumBases is the size of the alphabet, including N.
const NumBases = 5

var baseForChar [256]Base

var charForBase = [NumBases]byte{'A', 'C', 'G', 'T', 'N'}

var complement = [NumBases]Base{T, G, C, A, N}

func init() {
	for i := range baseForChar {
		baseForChar[i] = N
	}
	baseForChar['A'], baseForChar['a'] = A, A
	baseForChar['C'], baseForChar['c'] = C, C
	baseForChar['G'], baseForChar['g'] = G, G
	baseForChar['T'], baseForChar['t'] = T, T
}

// FromChar converts an ASCII character to a Base. Anything that is not
// one of ACGT (either case) maps to N.
func FromChar(c byte) Base {
	return baseForChar[c]
}

// Char converts a Base to its upper case ASCII character.
func (b Base) Char() byte {
	return charForBase[b]
}

// Complement returns the Watson-Crick complement. N is its own complement.
func (b Base) Complement() Base {
	return complement[b]
}

// FromString converts a sequence string to base codes.
func FromString(s string) []Base {
	seq := make([]Base, len(s))
	for i := 0; i < len(s); i++ {
		seq[i] = FromChar(s[i])
	}
	return seq
}

// String converts base codes back to an upper case sequence string.
func String(seq []Base) string {
	buf := make([]byte, len(seq))
	for i, b := range seq {
		buf[i] = b.Char()
	}
	return string(buf)
}

// RevComp returns the reverse complement of seq as a new slice.
func RevComp(seq []Base) []Base {
	rc := make([]Base, len(seq))
	for i, b := range seq {
		rc[len(seq)-1-i] = b.Complement()
	}
	return rc
}
