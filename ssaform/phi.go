// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssaform

import "github.com/aclements/go-ssaform/internal/ir"

// synthPhi is a phi synthesized by placePhis, kept separate from a
// block's pre-existing ir.Phi list until renaming completes and
// discards the ones that never collected an incoming. origVar records
// which original variable index this phi was placed for, since the
// phi's own Receiver field doesn't get a renamed value until the
// block that holds it is visited during renaming.
type synthPhi struct {
	origVar int
	phi     *ir.Phi
}

// definedVars returns the receiver variables instr defines. In
// practice this is 0 or 1 variables, but the enumeration is not
// bounded to arity 1: it is built entirely on ir.Instruction.ForEachDef,
// so a future instruction shape that defines more than one variable
// needs no change here.
func definedVars(instr ir.Instruction) []*ir.Variable {
	var defs []*ir.Variable
	instr.ForEachDef(func(v *ir.Variable) *ir.Variable {
		defs = append(defs, v)
		return v
	})
	return defs
}

// placePhis walks every block's assignments (handler-entry exception
// variables, pre-existing phi receivers, instruction receivers, and
// try/catch joint receivers) and runs the iterated dominance frontier
// worklist for each one, synthesizing an empty phi wherever a
// dominance frontier block doesn't already have one for that original
// variable.
func (r *renamer) placePhis() {
	for _, b := range r.proc.Blocks {
		if b.ExceptionVariable != nil {
			r.recordAssignment(b, b.ExceptionVariable.Index)
		}
		for _, phi := range b.Phis {
			r.recordAssignment(b, phi.Receiver.Index)
		}
		for _, instr := range b.Instructions {
			for _, v := range definedVars(instr) {
				r.recordAssignment(b, v.Index)
			}
		}
		for _, tcb := range b.TryCatchBlocks {
			for _, j := range tcb.Joints {
				if j.Receiver == tcb.Handler.ExceptionVariable {
					// Defined by the handler entry, not by b; see
					// buildJointIndex.
					continue
				}
				r.recordAssignment(b, j.Receiver.Index)
			}
		}
	}
}

// recordAssignment runs the standard iterated dominance frontier
// worklist for one assignment of varIndex at block b.
func (r *renamer) recordAssignment(b *ir.BasicBlock, varIndex int) {
	worklist := []*ir.BasicBlock{b}
	for len(worklist) > 0 {
		x := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		for _, fIdx := range r.frontiers[x.Index] {
			f := r.proc.BlockAt(fIdx)
			if r.hasPhiFor(f, varIndex, x) {
				continue
			}
			r.placeSynthPhi(f, varIndex)
			worklist = append(worklist, f)
		}
	}
}

// hasPhiFor reports whether f already has an empty phi for varIndex,
// either a synthesized one or a pre-existing one that already carries
// an incoming <x, varIndex>.
func (r *renamer) hasPhiFor(f *ir.BasicBlock, varIndex int, x *ir.BasicBlock) bool {
	if byVar, ok := r.synthIndex[f]; ok {
		if _, ok := byVar[varIndex]; ok {
			return true
		}
	}
	for _, phi := range f.Phis {
		if phi.Receiver.Index != varIndex {
			continue
		}
		for _, in := range phi.Incomings {
			if in.Source == x && in.Value.Index == varIndex {
				return true
			}
		}
	}
	return false
}

func (r *renamer) placeSynthPhi(f *ir.BasicBlock, varIndex int) {
	sp := &synthPhi{origVar: varIndex, phi: &ir.Phi{}}
	r.synth[f] = append(r.synth[f], sp)
	byVar := r.synthIndex[f]
	if byVar == nil {
		byVar = make(map[int]*synthPhi)
		r.synthIndex[f] = byVar
	}
	byVar[varIndex] = sp
	debugf("place phi for v%d at block %d", varIndex, f.Index)
}
