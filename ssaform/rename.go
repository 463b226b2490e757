// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssaform

import (
	"github.com/aclements/go-ssaform/internal/graph"
	"github.com/aclements/go-ssaform/internal/ir"
)

// renamer carries all of the pass's working state for one Update
// call. It is never reused across calls and never shared across
// goroutines -- passing it explicitly, rather than holding it as
// reusable instance fields the way the teacher's lifting pass does,
// is what spec's design notes call out as the preferred shape here.
type renamer struct {
	proc      *ir.Procedure
	cfg       *ir.CFG
	domTree   *graph.DomTree
	frontiers [][]int

	// synth holds, per block, the phis placePhis synthesized there,
	// in placement order. synthIndex is the same data indexed by
	// original variable index, for O(1) dedup during placement.
	synth      map[*ir.BasicBlock][]*synthPhi
	synthIndex map[*ir.BasicBlock]map[int]*synthPhi

	// usedAsReceiver tracks, per original variable index, whether
	// that index has already been handed out as a receiver -- the
	// first definition of an index reuses the original variable
	// object; later ones mint fresh ones (introduce).
	usedAsReceiver map[int]bool

	// jointsByVar maps a block to the joints that should collect a
	// source whenever that block redefines a given original variable
	// index (see joints.go).
	jointsByVar map[*ir.BasicBlock]map[int][]*ir.TryCatchJoint

	// current and currentBlock are valid only while a block task is
	// being processed; they are not carried across tasks (each task
	// installs its own snapshot instead -- see blockTask).
	current      map[int]*ir.Variable
	currentBlock *ir.BasicBlock
}

// blockTask is one entry on the renaming work stack: visit the
// dominator-tree node for block, with current as the reaching-
// definition snapshot inherited from its dominator-tree parent.
type blockTask struct {
	block   *ir.BasicBlock
	current map[int]*ir.Variable
}

// run drains a renaming work stack seeded from roots (the dominator
// forest's root nodes -- ordinarily just the entry block, but
// unreachable blocks also show up as their own roots), each starting
// from a private copy of seed.
func (r *renamer) run(roots []int, seed map[int]*ir.Variable) {
	var stack []*blockTask
	for _, root := range roots {
		stack = append(stack, &blockTask{r.proc.BlockAt(root), cloneCurrent(seed)})
	}

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, r.visitBlock(t.block, t.current)...)
	}
}

// visitBlock runs the six-step block-task processing for b and
// returns one new task per dominator-tree child, each carrying a
// fresh copy of current.
func (r *renamer) visitBlock(b *ir.BasicBlock, current map[int]*ir.Variable) []*blockTask {
	r.current = current
	r.currentBlock = b

	// Joints on any try/catch whose declared protected block is b,
	// and that strictly dominates its handler, are renamed before
	// anything else in b runs -- this is what lets b's own
	// definitions (including its phis, right below) feed the same
	// joints via propagate.
	r.renameProtectedJoints(b)

	// The exception variable, when present, is defined by the runtime
	// on entry to a handler block -- before any phi or instruction in
	// it runs, exactly like an implicit parameter local to b.
	if b.ExceptionVariable != nil {
		b.ExceptionVariable = r.define(b.ExceptionVariable.Index)
	}

	for _, sp := range r.synth[b] {
		sp.phi.Receiver = r.define(sp.origVar)
	}

	for _, phi := range b.Phis {
		phi.Receiver = r.define(phi.Receiver.Index)
	}

	for _, instr := range b.Instructions {
		instr.ForEachUse(func(v *ir.Variable) *ir.Variable { return r.use(v) })
		instr.ForEachDef(func(v *ir.Variable) *ir.Variable { return r.define(v.Index) })
	}

	for _, s := range r.cfg.Successors(b) {
		for _, sp := range r.synth[s] {
			if w := current[sp.origVar]; w != nil {
				sp.phi.Incomings = append(sp.phi.Incomings, ir.Incoming{Source: b, Value: w})
			}
		}
	}

	var children []*blockTask
	for _, c := range r.domTree.OutgoingEdges(b.Index) {
		children = append(children, &blockTask{r.proc.BlockAt(c), cloneCurrent(current)})
	}
	return children
}

// define allocates a fresh version of the original variable at index,
// propagates the prior binding into any joint that's tracking it, and
// installs the fresh version as the reaching definition.
func (r *renamer) define(index int) *ir.Variable {
	orig := r.proc.Variables[index]
	old := r.current[index]
	w := r.introduce(orig)
	r.propagate(index, w, old)
	r.current[index] = w
	return w
}

// introduce returns v itself the first time its index is used as a
// receiver (so a variable with a single definition keeps its original
// identity), and a brand-new variable carrying forward v's debug
// names on every later call.
func (r *renamer) introduce(v *ir.Variable) *ir.Variable {
	if !r.usedAsReceiver[v.Index] {
		r.usedAsReceiver[v.Index] = true
		return v
	}
	w := r.proc.CreateVariable()
	w.UnionDebugNames(v)
	return w
}

// use resolves a use operand to its reaching definition. A nil result
// from the current map means v is read on some path with no
// preceding definition, which is a structural defect in the input
// procedure, not something this pass can repair.
func (r *renamer) use(v *ir.Variable) *ir.Variable {
	w := r.current[v.Index]
	if w == nil {
		invariantViolation("use of v%d in block %d has no reaching definition", v.Index, r.currentBlock.Index)
	}
	return w
}

// finalize discards every synthesized phi that never collected an
// incoming (the variable it was placed for never actually reached
// that merge point) and appends the rest to their block's real phi
// list, having first folded each incoming's debug names into the
// phi's now-renamed receiver.
func (r *renamer) finalize() {
	for _, b := range r.proc.Blocks {
		for _, sp := range r.synth[b] {
			if len(sp.phi.Incomings) == 0 {
				debugf("discard empty phi for v%d at block %d", sp.origVar, b.Index)
				continue
			}
			for _, in := range sp.phi.Incomings {
				sp.phi.Receiver.UnionDebugNames(in.Value)
			}
			b.Phis = append(b.Phis, sp.phi)
		}
	}
}

func cloneCurrent(m map[int]*ir.Variable) map[int]*ir.Variable {
	out := make(map[int]*ir.Variable, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
