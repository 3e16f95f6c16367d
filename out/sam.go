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

// Package out writes alignment results as SAM records. The engine does
// not produce CIGAR strings, so records carry a '*' CIGAR and the
// scores and position lists travel in optional tags:
//
//	AS:i best score        ss:i second-best score
//	mp:Z best positions, forward strand
//	mv:Z best positions, reverse strand
//	sp:Z second-best positions, forward strand
//	sv:Z second-best positions, reverse strand
//	mc:i/sc:i position counts on the winning strand
//	st:Z winning strand    pr:Z scoring profile tag
package out

import (
	"io"
	"strconv"
	"strings"

	"github.com/biogo/hts/sam"
	"github.com/google/uuid"

	"github.com/varg-aligner/varg/align"
)

const program = "varg"

// Writer emits one SAM record per aligned read. It implements
// align.Sink.
type Writer struct {
	sw  *sam.Writer
	ref *sam.Reference
}

// NewWriter builds a SAM header for the given reference contig and
// prepares a writer. Each run gets a unique program line id.
func NewWriter(w io.Writer, refName string, refLen int, prof align.ScoreProfile) (*Writer, error) {
	ref, err := sam.NewReference(refName, "", "", refLen, nil, nil)
	if err != nil {
		return nil, err
	}
	h, err := sam.NewHeader(nil, []*sam.Reference{ref})
	if err != nil {
		return nil, err
	}
	pg := sam.NewProgram(uuid.New().String(), program, program+" "+prof.Tag(), "", "")
	if err := h.AddProgram(pg); err != nil {
		return nil, err
	}
	sw, err := sam.NewWriter(w, h, sam.FlagDecimal)
	if err != nil {
		return nil, err
	}
	return &Writer{sw: sw, ref: ref}, nil
}

// Write implements align.Sink.
func (w *Writer) Write(batch []align.Read, res *align.Results) error {
	for i, read := range batch {
		rec, err := w.record(read, res, i)
		if err != nil {
			return err
		}
		if err := w.sw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) record(read align.Read, res *align.Results, i int) (*sam.Record, error) {
	maxFwd, maxRev := res.MaxPosFwd[i], res.MaxPosRev[i]
	subFwd, subRev := res.SubPosFwd[i], res.SubPosRev[i]

	strand := byte('+')
	winning, sub := maxFwd, subFwd
	if len(maxFwd) == 0 && len(maxRev) > 0 {
		strand = '-'
		winning, sub = maxRev, subRev
	}

	pos := -1
	if len(winning) > 0 {
		pos = int(winning[0]) - 1 // SAM records store 0-based positions
	}
	rec, err := sam.NewRecord(read.Name, w.ref, nil, pos, -1, 0, 0xff, nil, []byte(read.Seq), read.Qual, nil)
	if err != nil {
		return nil, err
	}
	if strand == '-' {
		rec.Flags |= sam.Reverse
	}
	if len(winning) == 0 {
		rec.Flags |= sam.Unmapped
	}

	auxs := []struct {
		tag   string
		value interface{}
	}{
		{"AS", res.MaxScore[i]},
		{"ss", res.SubScore[i]},
		{"mp", joinPositions(maxFwd)},
		{"mv", joinPositions(maxRev)},
		{"sp", joinPositions(subFwd)},
		{"sv", joinPositions(subRev)},
		{"mc", len(winning)},
		{"sc", len(sub)},
		{"st", string(strand)},
		{"pr", res.Profile.Tag()},
	}
	for _, a := range auxs {
		aux, err := sam.NewAux(sam.NewTag(a.tag), a.value)
		if err != nil {
			return nil, err
		}
		rec.AuxFields = append(rec.AuxFields, aux)
	}
	return rec, nil
}

func joinPositions(positions []int32) string {
	if len(positions) == 0 {
		return "*"
	}
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = strconv.Itoa(int(p))
	}
	return strings.Join(parts, ",")
}
