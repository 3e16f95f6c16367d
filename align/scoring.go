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
	"fmt"
	"strconv"
	"strings"
)

// ScoreProfile holds the affine-gap scoring parameters. All penalties
// are positive magnitudes that get subtracted; Match is added. A
// mismatch against a base with Phred quality q costs Penalty(q),
// interpolating MismatchMin..MismatchMax; without qualities,
// MismatchMax applies.
type ScoreProfile struct {
	Match         int
	MismatchMin   int
	MismatchMax   int
	ReadGapOpen   int
	ReadGapExtend int
	RefGapOpen    int
	RefGapExtend  int
	AmbigPenalty  int
	EndToEnd      bool
}

// NewScoreProfile returns a profile with symmetric read/reference gap
// costs and a quality-independent mismatch penalty.
func NewScoreProfile(match, mismatch, gapOpen, gapExtend int) ScoreProfile {
	return ScoreProfile{
		Match:         match,
		MismatchMin:   mismatch,
		MismatchMax:   mismatch,
		ReadGapOpen:   gapOpen,
		ReadGapExtend: gapExtend,
		RefGapOpen:    gapOpen,
		RefGapExtend:  gapExtend,
	}
}

// NewAsymmetricProfile returns a profile with separate read and
// reference gap costs.
func NewAsymmetricProfile(match, mismatch, readGapOpen, readGapExtend, refGapOpen, refGapExtend int) ScoreProfile {
	return ScoreProfile{
		Match:         match,
		MismatchMin:   mismatch,
		MismatchMax:   mismatch,
		ReadGapOpen:   readGapOpen,
		ReadGapExtend: readGapExtend,
		RefGapOpen:    refGapOpen,
		RefGapExtend:  refGapExtend,
	}
}

const maxPhred = 40

// Penalty returns the mismatch penalty for Phred quality q, linearly
// mapped from MismatchMin at q=0 to MismatchMax at q=40 and clamped at
// the ends.
func (p *ScoreProfile) Penalty(q byte) int {
	if q > maxPhred {
		q = maxPhred
	}
	return p.MismatchMin + (p.MismatchMax-p.MismatchMin)*int(q)/maxPhred
}

func (p *ScoreProfile) validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"match", p.Match},
		{"mismatch-min", p.MismatchMin},
		{"mismatch-max", p.MismatchMax},
		{"read-gap-open", p.ReadGapOpen},
		{"read-gap-extend", p.ReadGapExtend},
		{"ref-gap-open", p.RefGapOpen},
		{"ref-gap-extend", p.RefGapExtend},
		{"ambig-penalty", p.AmbigPenalty},
	}
	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%w: negative %v %v", ErrConfig, f.name, f.value)
		}
	}
	if p.MismatchMin > p.MismatchMax {
		return fmt.Errorf("%w: mismatch-min %v exceeds mismatch-max %v", ErrConfig, p.MismatchMin, p.MismatchMax)
	}
	return nil
}

// Tag serializes the profile as M:m:rgo:rge:qgo:qge:amb[:E], suitable
// as an annotation token in read or alignment metadata. The mismatch
// field carries MismatchMax.
func (p *ScoreProfile) Tag() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v:%v:%v:%v:%v:%v:%v",
		p.Match, p.MismatchMax, p.ReadGapOpen, p.ReadGapExtend, p.RefGapOpen, p.RefGapExtend, p.AmbigPenalty)
	if p.EndToEnd {
		sb.WriteString(":E")
	}
	return sb.String()
}

// ParseTag parses the serialization produced by Tag. The mismatch field
// sets both MismatchMin and MismatchMax.
func ParseTag(s string) (ScoreProfile, error) {
	var p ScoreProfile
	parts := strings.Split(s, ":")
	if len(parts) == 8 && parts[7] == "E" {
		p.EndToEnd = true
		parts = parts[:7]
	}
	if len(parts) != 7 {
		return p, fmt.Errorf("%w: malformed score tag %q", ErrConfig, s)
	}
	values := make([]int, 7)
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return p, fmt.Errorf("%w: malformed score tag %q", ErrConfig, s)
		}
		values[i] = v
	}
	p.Match = values[0]
	p.MismatchMin = values[1]
	p.MismatchMax = values[1]
	p.ReadGapOpen = values[2]
	p.ReadGapExtend = values[3]
	p.RefGapOpen = values[4]
	p.RefGapExtend = values[5]
	p.AmbigPenalty = values[6]
	if err := p.validate(); err != nil {
		return p, err
	}
	return p, nil
}
