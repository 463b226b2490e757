// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssaform

import (
	"testing"

	"github.com/aclements/go-ssaform/internal/ir"
)

// TestFinalizeDiscardsEmptyPhi exercises finalize's discard rule
// directly: a synthesized phi that never collected an incoming (no
// reachable predecessor ever had a reaching definition for it) must not
// be appended to its block's phi list.
func TestFinalizeDiscardsEmptyPhi(t *testing.T) {
	proc := &ir.Procedure{}
	b := proc.AddBlock()
	v := proc.CreateVariable()

	r := &renamer{
		proc: proc,
		synth: map[*ir.BasicBlock][]*synthPhi{
			b: {{origVar: v.Index, phi: &ir.Phi{}}},
		},
	}
	r.finalize()

	if len(b.Phis) != 0 {
		t.Fatalf("discarded phi was appended to block %d's phi list (%d phis)", b.Index, len(b.Phis))
	}
}

// TestFinalizeKeepsNonEmptyPhi is the complement: a phi with at least
// one incoming survives and absorbs its incomings' debug names.
func TestFinalizeKeepsNonEmptyPhi(t *testing.T) {
	proc := &ir.Procedure{}
	src := proc.AddBlock()
	dst := proc.AddBlock()
	v := proc.CreateVariable()
	v.AddDebugName("x")

	phi := &ir.Phi{Receiver: proc.CreateVariable()}
	phi.Incomings = append(phi.Incomings, ir.Incoming{Source: src, Value: v})

	r := &renamer{
		proc: proc,
		synth: map[*ir.BasicBlock][]*synthPhi{
			dst: {{origVar: v.Index, phi: phi}},
		},
	}
	r.finalize()

	if len(dst.Phis) != 1 || dst.Phis[0] != phi {
		t.Fatalf("non-empty phi was not kept on block %d", dst.Index)
	}
	if _, ok := phi.Receiver.DebugNames["x"]; !ok {
		t.Errorf("finalize did not union the incoming's debug name onto the receiver")
	}
}

// TestIntroduceReusesFirstDefinition checks the identity-preserving
// optimization introduce documents: the first call for a given index
// returns the original variable, and every later call mints a fresh one
// carrying its debug names forward.
func TestIntroduceReusesFirstDefinition(t *testing.T) {
	proc := &ir.Procedure{}
	v := proc.CreateVariable()
	v.AddDebugName("n")

	r := &renamer{proc: proc, usedAsReceiver: map[int]bool{}}

	first := r.introduce(v)
	if first != v {
		t.Errorf("first introduce() should return the original variable")
	}

	second := r.introduce(v)
	if second == v {
		t.Errorf("second introduce() should mint a fresh variable")
	}
	if _, ok := second.DebugNames["n"]; !ok {
		t.Errorf("fresh variable should carry forward the original's debug names")
	}
}

// TestUseOnUndefinedVariablePanics checks the documented invariant
// violation: reading a variable with no reaching definition is a
// structural defect this pass surfaces, not silently tolerates.
func TestUseOnUndefinedVariablePanics(t *testing.T) {
	proc := &ir.Procedure{}
	b := proc.AddBlock()
	v := proc.CreateVariable()

	r := &renamer{proc: proc, current: map[int]*ir.Variable{}, currentBlock: b}

	defer func() {
		if recover() == nil {
			t.Errorf("use of an undefined variable should panic")
		}
	}()
	r.use(v)
}
