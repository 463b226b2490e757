// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ssaform rewrites a three-address procedure (package
// internal/ir) into SSA form in place: every redefinition of an
// original variable gets a fresh version, every operand is rewritten
// to its reaching definition, phi-functions are inserted at dominance
// frontiers, and try/catch joints are filled in at exception merge
// points.
//
// The pass is a direct generalization of the renaming walk textbook
// SSA construction (Cytron et al.) uses, with one addition: a joint
// mechanism that extends the same renaming machinery to exception
// edges, which a plain CFG-based dominance computation can't see.
package ssaform

import (
	"github.com/aclements/go-ssaform/internal/graph"
	"github.com/aclements/go-ssaform/internal/ir"
)

// Update rewrites proc into SSA form. arguments maps variable indices
// 0..k-1 to the procedure's formal parameters; arguments[i].Index
// must equal i, and these variables are treated as already having
// their final, single definition (the call site, not any instruction
// in proc).
//
// Update mutates proc in place and returns nothing. If proc has no
// blocks, it is a no-op.
func Update(proc *ir.Procedure, arguments []*ir.Variable) {
	if proc.BlockCount() == 0 {
		return
	}

	cfg := ir.BuildCFG(proc)
	idom := graph.IDom(cfg, 0)
	domTree := graph.Dom(idom)
	frontiers := graph.DomFrontier(cfg, 0, idom)

	r := &renamer{
		proc:           proc,
		cfg:            cfg,
		domTree:        domTree,
		frontiers:      frontiers,
		synth:          make(map[*ir.BasicBlock][]*synthPhi),
		synthIndex:     make(map[*ir.BasicBlock]map[int]*synthPhi),
		usedAsReceiver: make(map[int]bool),
	}

	seed := make(map[int]*ir.Variable, len(arguments))
	for i, a := range arguments {
		seed[i] = a
		r.usedAsReceiver[a.Index] = true
	}

	r.buildJointIndex()
	r.placePhis()

	var roots []int
	for i, p := range idom {
		if p == -1 {
			roots = append(roots, i)
		}
	}
	debugf("renaming from %d root(s)", len(roots))
	r.run(roots, seed)

	r.finalize()
}
