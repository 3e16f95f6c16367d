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
	"os"
	"time"

	"github.com/varg-aligner/varg/sim"
)

// SimHelp is the help string for the sim command.
const SimHelp = "\nsim parameters:\n" +
	"varg sim reference.fasta\n" +
	"[--numreads n]\n" +
	"[--readlen length]\n" +
	"[--muterr rate]\n" +
	"[--indelerr rate]\n" +
	"[--seed seed]\n" +
	"[--variants pos:REF:ALT[:af],...]\n" +
	"[--max-node-len length]\n" +
	"[--output file.fasta]\n"

// Sim implements the sim command: sample error-injected reads from
// random paths through the graph and print them as FASTA.
func Sim() error {
	var (
		numReads   int
		readLen    int
		mutErr     float64
		indelErr   float64
		seed       int64
		variants   string
		maxNodeLen int
		output     string
	)

	var flags flag.FlagSet
	flags.IntVar(&numReads, "numreads", 1000, "number of reads to simulate")
	flags.IntVar(&readLen, "readlen", 100, "nominal read length")
	flags.Float64Var(&mutErr, "muterr", 0.01, "substitution error rate")
	flags.Float64Var(&indelErr, "indelerr", 0, "indel error rate")
	flags.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	flags.StringVar(&variants, "variants", "", "comma separated variant branches pos:REF:ALT[:af]")
	flags.IntVar(&maxNodeLen, "max-node-len", 0, "split reference nodes longer than this")
	flags.StringVar(&output, "output", "", "FASTA output file (default stdout)")

	parseFlags(flags, 3, SimHelp)

	refFile := os.Args[2]
	if !checkExist("", refFile) {
		return fmt.Errorf("input files missing")
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	_, g, err := buildGraph(refFile, variants, maxNodeLen)
	if err != nil {
		return err
	}

	reads, err := sim.Simulate(g, sim.Config{
		NumReads: numReads,
		ReadLen:  readLen,
		MutErr:   mutErr,
		IndelErr: indelErr,
		Seed:     seed,
	})
	if err != nil {
		return err
	}

	w, err := openOutput(output)
	if err != nil {
		return err
	}
	defer closeOutput(w)
	return sim.WriteFasta(w, reads)
}
