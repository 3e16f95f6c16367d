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

package cmd

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/varg-aligner/varg/align"
	"github.com/varg-aligner/varg/fastx"
	"github.com/varg-aligner/varg/out"
)

// AlignHelp is the help string for the align command.
const AlignHelp = "\nalign parameters:\n" +
	"varg align reference.fasta reads.fastx\n" +
	"[--readlen length]\n" +
	"[--match score]\n" +
	"[--mismatch penalty]\n" +
	"[--gap-open penalty]\n" +
	"[--gap-extend penalty]\n" +
	"[--ref-gap-open penalty]\n" +
	"[--ref-gap-extend penalty]\n" +
	"[--ambig penalty]\n" +
	"[--end-to-end]\n" +
	"[--wide]\n" +
	"[--fwdonly]\n" +
	"[--maxonly]\n" +
	"[--msonly]\n" +
	"[--variants pos:REF:ALT[:af],...]\n" +
	"[--max-node-len length]\n" +
	"[--phred64]\n" +
	"[--output file.sam]\n"

// Align implements the align command: score every read of the input
// against the graph built from the reference and write SAM output.
func Align() error {
	var (
		readLen                   int
		match, mismatch           int
		gapOpen, gapExtend        int
		refGapOpen, refGapExtend  int
		ambig                     int
		endToEnd, wide, fwdOnly   bool
		maxOnly, msOnly           bool
		variants                  string
		maxNodeLen                int
		phred64                   bool
		output                    string
	)

	var flags flag.FlagSet
	flags.IntVar(&readLen, "readlen", 100, "maximum read length in the input")
	flags.IntVar(&match, "match", 2, "match score")
	flags.IntVar(&mismatch, "mismatch", 2, "mismatch penalty")
	flags.IntVar(&gapOpen, "gap-open", 3, "read gap open penalty")
	flags.IntVar(&gapExtend, "gap-extend", 1, "read gap extension penalty")
	flags.IntVar(&refGapOpen, "ref-gap-open", -1, "reference gap open penalty (defaults to --gap-open)")
	flags.IntVar(&refGapExtend, "ref-gap-extend", -1, "reference gap extension penalty (defaults to --gap-extend)")
	flags.IntVar(&ambig, "ambig", 0, "ambiguous base penalty")
	flags.BoolVar(&endToEnd, "end-to-end", false, "end-to-end alignment instead of local")
	flags.BoolVar(&wide, "wide", false, "16-bit score cells instead of 8-bit")
	flags.BoolVar(&fwdOnly, "fwdonly", false, "align to the forward strand only")
	flags.BoolVar(&maxOnly, "maxonly", false, "skip the second-best score")
	flags.BoolVar(&msOnly, "msonly", false, "report the best score only, no positions")
	flags.StringVar(&variants, "variants", "", "comma separated variant branches pos:REF:ALT[:af]")
	flags.IntVar(&maxNodeLen, "max-node-len", 0, "split reference nodes longer than this")
	flags.BoolVar(&phred64, "phred64", false, "FASTQ qualities are Phred+64")
	flags.StringVar(&output, "output", "", "SAM output file (default stdout)")

	parseFlags(flags, 4, AlignHelp)

	refFile := os.Args[2]
	readsFile := os.Args[3]

	if !checkExist("", refFile) || !checkExist("", readsFile) {
		return fmt.Errorf("input files missing")
	}

	if refGapOpen < 0 {
		refGapOpen = gapOpen
	}
	if refGapExtend < 0 {
		refGapExtend = gapExtend
	}
	prof := align.NewAsymmetricProfile(match, mismatch, gapOpen, gapExtend, refGapOpen, refGapExtend)
	prof.AmbigPenalty = ambig
	prof.EndToEnd = endToEnd

	var opts []align.Option
	if wide {
		opts = append(opts, align.Wide())
	}
	switch {
	case msOnly:
		opts = append(opts, align.WithTally(align.TallyScoreOnly))
	case maxOnly:
		opts = append(opts, align.WithTally(align.TallyMaxOnly))
	}

	refName, g, err := buildGraph(refFile, variants, maxNodeLen)
	if err != nil {
		return err
	}
	refLen := 0
	for _, id := range g.Order() {
		if p := int(g.Node(id).EndPos()); p > refLen {
			refLen = p
		}
	}

	var fxOpts []fastx.Option
	if phred64 {
		fxOpts = append(fxOpts, fastx.Phred64())
	}
	reads, err := fastx.Open(readsFile, fxOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := reads.Close(); err != nil {
			log.Println(err)
		}
	}()

	w, err := openOutput(output)
	if err != nil {
		return err
	}
	defer closeOutput(w)

	sink, err := out.NewWriter(w, refName, refLen, prof)
	if err != nil {
		return err
	}
	return align.AlignAll(g, reads, sink, readLen, prof, fwdOnly, opts...)
}
