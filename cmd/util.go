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

// Package cmd implements the varg subcommands.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/varg-aligner/varg/dna"
	"github.com/varg-aligner/varg/fastx"
	"github.com/varg-aligner/varg/graph"
	"github.com/varg-aligner/varg/simd"
)

// ProgramName and ProgramVersion identify the binary.
const (
	ProgramName    = "varg"
	ProgramVersion = "1.0.0"
)

// ProgramMessage is the first line printed when the varg binary is
// called.
var ProgramMessage string

func init() {
	ProgramMessage = fmt.Sprint(
		"\n", ProgramName, " version ", ProgramVersion,
		" compiled with ", runtime.Version(),
		", vector support ", simd.Features(), ".\n",
	)
}

// HelpMessage is printed alongside usage errors.
const HelpMessage = "Print command details:\n[--help]\n"

func parseFlags(flags flag.FlagSet, requiredArgs int, help string) {
	if len(os.Args) < requiredArgs {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
	flags.SetOutput(io.Discard)
	if err := flags.Parse(os.Args[requiredArgs:]); err != nil {
		x := 0
		if err != flag.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			x = 1
		}
		fmt.Fprint(os.Stderr, help)
		os.Exit(x)
	}
	if flags.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "Cannot parse remaining parameters:", flags.Args())
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
}

func checkExist(parameter, filename string) bool {
	if filename == "" {
		log.Printf("Error: Missing filename for command line parameter %v.\n", parameter)
		return false
	}
	if _, err := os.Stat(filename); err != nil {
		log.Printf("Error: File %v for command line parameter %v does not exist.\n", filename, parameter)
		return false
	}
	return true
}

// loadReference reads the first record of a FASTA file into a sequence
// for graph construction.
func loadReference(filename string) (name string, seq []dna.Base, err error) {
	r, err := fastx.Open(filename)
	if err != nil {
		return "", nil, err
	}
	defer func() {
		if cerr := r.Close(); err == nil {
			err = cerr
		}
	}()
	batch, err := r.Next(1)
	if err != nil {
		return "", nil, fmt.Errorf("reference %v: %v", filename, err)
	}
	return batch[0].Name, dna.FromString(batch[0].Seq), nil
}

// buildGraph constructs the alignment graph for a reference, applying
// optional variant specifications of the form pos:REF:ALT[:af], comma
// separated, e.g. 4:CCC:GGG:0.6 (ALT "-" is a deletion).
func buildGraph(refFile, variants string, maxNodeLen int) (string, *graph.Graph, error) {
	name, seq, err := loadReference(refFile)
	if err != nil {
		return "", nil, err
	}
	g, err := graph.Linear(seq, 1, maxNodeLen)
	if err != nil {
		return "", nil, err
	}
	if variants != "" {
		for _, spec := range strings.Split(variants, ",") {
			if err := applyVariant(g, spec); err != nil {
				return "", nil, err
			}
		}
	}
	return name, g, nil
}

func applyVariant(g *graph.Graph, spec string) error {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return fmt.Errorf("malformed variant %q, want pos:REF:ALT[:af]", spec)
	}
	var pos int32
	if _, err := fmt.Sscanf(parts[0], "%d", &pos); err != nil {
		return fmt.Errorf("malformed variant position %q", parts[0])
	}
	var af float64
	if len(parts) == 4 {
		if _, err := fmt.Sscanf(parts[3], "%g", &af); err != nil {
			return fmt.Errorf("malformed allele frequency %q", parts[3])
		}
	}
	alt := parts[2]
	if alt == "-" {
		alt = ""
	}
	_, err := g.AddVariant(pos, len(parts[1]), dna.FromString(alt), float32(af))
	return err
}

func openOutput(filename string) (io.WriteCloser, error) {
	if filename == "" || filename == "-" {
		return os.Stdout, nil
	}
	return os.Create(filename)
}

func closeOutput(w io.WriteCloser) {
	if w != os.Stdout {
		if err := w.Close(); err != nil {
			log.Panic(err)
		}
	}
}
