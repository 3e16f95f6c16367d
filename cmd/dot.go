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
)

// DotHelp is the help string for the dot command.
const DotHelp = "\ndot parameters:\n" +
	"varg dot reference.fasta\n" +
	"[--variants pos:REF:ALT[:af],...]\n" +
	"[--max-node-len length]\n" +
	"[--output file.dot]\n"

// Dot implements the dot command: render the alignment graph in
// graphviz dot format.
func Dot() error {
	var (
		variants   string
		maxNodeLen int
		output     string
	)

	var flags flag.FlagSet
	flags.StringVar(&variants, "variants", "", "comma separated variant branches pos:REF:ALT[:af]")
	flags.IntVar(&maxNodeLen, "max-node-len", 0, "split reference nodes longer than this")
	flags.StringVar(&output, "output", "", "dot output file (default stdout)")

	parseFlags(flags, 3, DotHelp)

	refFile := os.Args[2]
	if !checkExist("", refFile) {
		return fmt.Errorf("input files missing")
	}

	_, g, err := buildGraph(refFile, variants, maxNodeLen)
	if err != nil {
		return err
	}
	rendered, err := g.Dot(ProgramName)
	if err != nil {
		return err
	}

	w, err := openOutput(output)
	if err != nil {
		return err
	}
	defer closeOutput(w)
	_, err = fmt.Fprint(w, rendered)
	return err
}
