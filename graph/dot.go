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

package graph

import (
	"fmt"

	"github.com/awalterschulze/gographviz"

	"github.com/varg-aligner/varg/dna"
)

// Dot renders the graph in graphviz dot format. Reference nodes are
// drawn as boxes, variant nodes as ellipses, pinched nodes shaded.
func (g *Graph) Dot(name string) (string, error) {
	gv := gographviz.NewGraph()
	if err := gv.SetName(name); err != nil {
		return "", err
	}
	if err := gv.SetDir(true); err != nil {
		return "", err
	}
	for _, id := range g.Order() {
		n := g.Node(id)
		seq := dna.String(n.Seq())
		if seq == "" {
			seq = "-"
		}
		attrs := map[string]string{
			"label": fmt.Sprintf("\"%v:%v\"", n.EndPos(), seq),
			"shape": "ellipse",
		}
		if n.IsRef() {
			attrs["shape"] = "box"
		}
		if n.Pinched() {
			attrs["style"] = "filled"
		}
		if err := gv.AddNode(name, nodeName(id), attrs); err != nil {
			return "", err
		}
	}
	for _, id := range g.Order() {
		for _, succ := range g.Outgoing(id) {
			if err := gv.AddEdge(nodeName(id), nodeName(succ), true, nil); err != nil {
				return "", err
			}
		}
	}
	return gv.String(), nil
}

func nodeName(id NodeID) string {
	return fmt.Sprintf("n%v", id)
}
