// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/aclements/go-ssaform/internal/graph"
	"github.com/aclements/go-ssaform/internal/ir"
)

// dumpGraph writes a Dot (asSVG false) or SVG (asSVG true) rendering
// of one of proc's graph views, named by which ("cfg" or "domtree"),
// to w.
func dumpGraph(w io.Writer, proc *ir.Procedure, which string, asSVG bool) error {
	cfg := ir.BuildCFG(proc)

	var g graph.Graph
	var name string
	switch which {
	case "cfg":
		g, name = cfg, "cfg"
	case "domtree":
		g, name = graph.Dom(graph.IDom(cfg, 0)), "domtree"
	default:
		return fmt.Errorf("unknown graph %q (want cfg or domtree)", which)
	}

	label := func(n int) string { return fmt.Sprintf("b%d", n) }

	if asSVG {
		graph.SVG{Label: label}.Fprint(g, w)
		return nil
	}
	return graph.Dot{Name: name, Label: label}.Fprint(g, w)
}
