// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssaform

import "github.com/aclements/go-ssaform/internal/ir"

// buildJointIndex precomputes, for every block covered by some
// try/catch (i.e. every block that lists the try/catch in its own
// TryCatchBlocks, not just the try/catch's declared protected block),
// which joints should collect a source whenever that block redefines
// the joint's original variable. This mirrors spec's "before each
// block B is entered" setup, just computed once up front instead of
// recomputed on every visit, since neither the CFG nor a block's
// TryCatchBlocks change during the pass.
//
// A joint whose receiver is the handler's own exception variable is
// skipped entirely: that variable is defined by the handler entry,
// not by anything flowing out of the protected region.
func (r *renamer) buildJointIndex() {
	r.jointsByVar = make(map[*ir.BasicBlock]map[int][]*ir.TryCatchJoint)
	for _, b := range r.proc.Blocks {
		for _, tcb := range b.TryCatchBlocks {
			for _, j := range tcb.Joints {
				if j.Receiver == tcb.Handler.ExceptionVariable {
					continue
				}
				byVar := r.jointsByVar[b]
				if byVar == nil {
					byVar = make(map[int][]*ir.TryCatchJoint)
					r.jointsByVar[b] = byVar
				}
				byVar[j.Receiver.Index] = append(byVar[j.Receiver.Index], j)
			}
		}
	}
}

// propagate is called from define whenever the block currently being
// renamed redefines varIndex: it appends the fresh version w to every
// joint registered for varIndex at that block. The first time a given
// joint collects a source, old (the value that was live immediately
// before this redefinition) is prepended first, so the joint's source
// list starts with whatever was live on entry to the region. old is
// never prepended if it's the joint's own (just-minted) receiver --
// that would make the joint a source of itself.
func (r *renamer) propagate(varIndex int, w, old *ir.Variable) {
	for _, j := range r.jointsByVar[r.currentBlock][varIndex] {
		if len(j.Sources) == 0 && old != nil && old != j.Receiver {
			j.Sources = append(j.Sources, old)
		}
		j.Sources = append(j.Sources, w)
	}
}

// renameProtectedJoints renames the joints of every try/catch whose
// declared protected block is b and which strictly dominates its
// handler. This runs once, at the start of b's block-task visit,
// before b's own phis and instructions are processed -- which is what
// lets those later steps feed their own redefinitions into the same
// joints via propagate, from the fresh receiver's value onward.
//
// If the handler is not strictly dominated by the protected block,
// the try/catch's joints are left untouched: the merge isn't needed
// at this scope, though outgoing phi renaming into the handler (an
// ordinary CFG successor) still happens during normal renaming.
func (r *renamer) renameProtectedJoints(b *ir.BasicBlock) {
	for _, tcb := range b.TryCatchBlocks {
		if tcb.Protected != b {
			continue
		}
		if tcb.Protected == tcb.Handler || !r.domTree.Dominates(tcb.Protected.Index, tcb.Handler.Index) {
			continue
		}
		for _, j := range tcb.Joints {
			if j.Receiver == tcb.Handler.ExceptionVariable {
				continue
			}
			origIndex := j.Receiver.Index
			old := r.current[origIndex]

			fresh := r.proc.CreateVariable()
			fresh.UnionDebugNames(j.Receiver)
			if old != nil {
				j.Sources = append(j.Sources, old)
			}
			j.Receiver = fresh
			r.current[origIndex] = fresh
			debugf("rename joint for v%d to v%d at block %d (handler %d)", origIndex, fresh.Index, b.Index, tcb.Handler.Index)
		}
	}
}
