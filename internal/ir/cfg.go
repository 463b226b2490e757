// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "github.com/aclements/go-ssaform/internal/graph"

// CFG adapts a Procedure's control-flow edges, as derived from each
// block's terminator, to graph.BiGraph. It never holds a reference
// back to *BasicBlock: callers that need the block for a given index
// use Procedure.BlockAt, matching this repo's rule of keeping graph
// views index-keyed rather than pointer-keyed (see internal/graph).
type CFG struct {
	proc  *Procedure
	succs [][]int
	preds [][]int
}

// BuildCFG derives the CFG from each block's terminator instruction,
// plus one additional edge per try/catch region a block sits in: a
// block protected by a try/catch can transfer control to the handler
// at any instruction, not just at its terminator, so the handler is
// treated as a control-flow successor of every block it protects.
// This is what lets ordinary phi placement (ssaform) reach a handler
// the same way it reaches any other merge point; TryCatchJoint exists
// precisely because a per-block CFG edge is too coarse to capture
// which of several versions defined inside one block was live at the
// actual throw point.
//
// A block with no terminator, or whose terminator is not a
// ir.Terminator, is treated as having no terminator-derived
// successors.
func BuildCFG(proc *Procedure) *CFG {
	n := len(proc.Blocks)
	succs := make([][]int, n)
	preds := make([][]int, n)

	// A block's terminator contributes at most 2 successors (Jump,
	// BranchUnary/Binary; Switch and a try/catch handler edge can
	// push past that), and a block rarely has more than a couple of
	// predecessors either, so preallocate a small capacity per slot
	// rather than growing from nil on every append.
	for i := range succs {
		succs[i] = make([]int, 0, 2)
		preds[i] = make([]int, 0, 2)
	}

	for _, b := range proc.Blocks {
		seen := make(map[int]bool)
		add := func(idx int) {
			if !seen[idx] {
				seen[idx] = true
				succs[b.Index] = append(succs[b.Index], idx)
			}
		}
		if term := b.Terminator(); term != nil {
			term.Successors(func(s *BasicBlock) { add(s.Index) })
		}
		for _, tcb := range b.TryCatchBlocks {
			add(tcb.Handler.Index)
		}
	}
	for from, outs := range succs {
		for _, to := range outs {
			preds[to] = append(preds[to], from)
		}
	}

	return &CFG{proc, succs, preds}
}

func (c *CFG) NumNodes() int   { return len(c.proc.Blocks) }
func (c *CFG) Out(i int) []int { return c.succs[i] }
func (c *CFG) In(i int) []int  { return c.preds[i] }

// Predecessors returns the basic blocks that branch to b.
func (c *CFG) Predecessors(b *BasicBlock) []*BasicBlock {
	return c.blocksOf(c.preds[b.Index])
}

// Successors returns the basic blocks b branches to.
func (c *CFG) Successors(b *BasicBlock) []*BasicBlock {
	return c.blocksOf(c.succs[b.Index])
}

func (c *CFG) blocksOf(indexes []int) []*BasicBlock {
	out := make([]*BasicBlock, len(indexes))
	for i, idx := range indexes {
		out[i] = c.proc.BlockAt(idx)
	}
	return out
}
