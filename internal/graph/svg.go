// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"io"

	svg "github.com/ajstarks/svgo"
)

// SVG contains options for rendering a Graph as a simple SVG diagram,
// a sibling of Dot for callers that want an image they can embed
// directly rather than shelling out to Graphviz.
type SVG struct {
	// Label returns the string to use as a label for the given
	// node. If nil, nodes are labeled with their node numbers.
	Label func(node int) string

	// NodeWidth and RowHeight control the layout grid. Nodes are
	// placed one per row, in node-number order, regardless of
	// graph structure; this is intentionally dumb so that it never
	// needs to lay out cycles. Zero values fall back to sane
	// defaults.
	NodeWidth, RowHeight int
}

// Fprint writes an SVG rendering of g to w. Nodes are placed top to
// bottom in node-number order, which need not be a topological order
// (a DomTree node can have a lower number than its parent); edges are
// drawn as straight lines between node centers.
func (o SVG) Fprint(g Graph, w io.Writer) {
	label := o.Label
	if label == nil {
		label = defaultLabel
	}
	nodeWidth := o.NodeWidth
	if nodeWidth == 0 {
		nodeWidth = 160
	}
	rowHeight := o.RowHeight
	if rowHeight == 0 {
		rowHeight = 48
	}

	n := g.NumNodes()
	canvas := svg.New(w)
	canvas.Start(nodeWidth, rowHeight*(n+1))

	cx := nodeWidth / 2
	centerY := func(node int) int { return rowHeight*node + rowHeight/2 }

	for i := 0; i < n; i++ {
		for _, out := range g.Out(i) {
			canvas.Line(cx, centerY(i), cx, centerY(out), "stroke:black;stroke-width:1")
		}
	}
	for i := 0; i < n; i++ {
		canvas.Circle(cx, centerY(i), rowHeight/3, "fill:white;stroke:black")
		canvas.Text(cx, centerY(i), label(i), "text-anchor:middle;dominant-baseline:middle")
	}

	canvas.End()
}
