// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssaform_test

import (
	"strings"
	"testing"

	"github.com/aclements/go-ssaform/internal/ir"
	"github.com/aclements/go-ssaform/ssaform"
)

func mustParse(t *testing.T, src string) *ir.Procedure {
	t.Helper()
	proc, err := ir.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return proc
}

func block(t *testing.T, proc *ir.Procedure, i int) *ir.BasicBlock {
	t.Helper()
	if i >= proc.BlockCount() {
		t.Fatalf("no block %d", i)
	}
	return proc.BlockAt(i)
}

func constInt(t *testing.T, b *ir.BasicBlock, i int) *ir.ConstantInt {
	t.Helper()
	if i >= len(b.Instructions) {
		t.Fatalf("block %d has no instruction %d", b.Index, i)
	}
	c, ok := b.Instructions[i].(*ir.ConstantInt)
	if !ok {
		t.Fatalf("block %d instruction %d is a %T, not *ir.ConstantInt", b.Index, i, b.Instructions[i])
	}
	return c
}

// TestStraightLine covers a block that redefines v1 twice and then jumps
// to a block returning it: the second definition must mint a fresh
// variable and the exit must be rewritten to reference it, with no phis
// involved at all.
func TestStraightLine(t *testing.T) {
	proc := mustParse(t, `
		block 0
		  v1 = const.int 1
		  v1 = const.int 2
		  jump 1
		block 1
		  exit v1
	`)
	origV1 := proc.Variables[0]

	ssaform.Update(proc, nil)

	b0, b1 := block(t, proc, 0), block(t, proc, 1)
	first, second := constInt(t, b0, 0), constInt(t, b0, 1)

	if first.Receiver != origV1 {
		t.Errorf("first definition should keep the original variable, got v%d", first.Receiver.Index)
	}
	if second.Receiver == origV1 {
		t.Errorf("second definition should mint a fresh variable, kept the original")
	}

	exit, ok := b1.Instructions[0].(*ir.Exit)
	if !ok {
		t.Fatalf("block 1 instruction 0 is a %T, not *ir.Exit", b1.Instructions[0])
	}
	if exit.Value != second.Receiver {
		t.Errorf("exit should reference the second definition's fresh variable, got v%d want v%d", exit.Value.Index, second.Receiver.Index)
	}
	for _, b := range proc.Blocks {
		if len(b.Phis) != 0 {
			t.Errorf("block %d has %d phis, want 0", b.Index, len(b.Phis))
		}
	}
}

// TestDiamond covers a branch to two blocks that both redefine v1 before
// joining: the join block gets exactly one phi merging both arms, and
// the final read is rewritten to the phi's receiver.
func TestDiamond(t *testing.T) {
	proc := mustParse(t, `
		param cond
		block 0
		  branch.u eq b1 b2 cond
		block 1
		  v1 = const.int 1
		  jump 3
		block 2
		  v1 = const.int 2
		  jump 3
		block 3
		  exit v1
	`)
	condVar := proc.Variables[0]

	ssaform.Update(proc, []*ir.Variable{condVar})

	b0, b1, b2, b3 := block(t, proc, 0), block(t, proc, 1), block(t, proc, 2), block(t, proc, 3)

	branch, ok := b0.Instructions[0].(*ir.BranchUnary)
	if !ok {
		t.Fatalf("block 0 instruction 0 is a %T, not *ir.BranchUnary", b0.Instructions[0])
	}
	if branch.Operand != condVar {
		t.Errorf("argument cond should never be rewritten, got v%d", branch.Operand.Index)
	}

	if len(b3.Phis) != 1 {
		t.Fatalf("block 3 has %d phis, want 1", len(b3.Phis))
	}
	phi := b3.Phis[0]
	if len(phi.Incomings) != 2 {
		t.Fatalf("join phi has %d incomings, want 2", len(phi.Incomings))
	}

	v1, v2 := constInt(t, b1, 0).Receiver, constInt(t, b2, 0).Receiver
	if v1 == v2 {
		t.Errorf("the two arms' definitions should be distinct variables")
	}

	got := map[*ir.BasicBlock]*ir.Variable{}
	for _, in := range phi.Incomings {
		got[in.Source] = in.Value
	}
	if got[b1] != v1 {
		t.Errorf("incoming from block 1 is v%d, want v%d", safeIndex(got[b1]), v1.Index)
	}
	if got[b2] != v2 {
		t.Errorf("incoming from block 2 is v%d, want v%d", safeIndex(got[b2]), v2.Index)
	}

	exit, ok := b3.Instructions[0].(*ir.Exit)
	if !ok {
		t.Fatalf("block 3 instruction 0 is a %T, not *ir.Exit", b3.Instructions[0])
	}
	if exit.Value != phi.Receiver {
		t.Errorf("exit should reference the phi's receiver, got v%d want v%d", exit.Value.Index, phi.Receiver.Index)
	}
}

// TestLoop covers a self-looping block that reads v1 before redefining
// it: the loop header gets a phi merging the initial argument with the
// loop body's fresh definition, and the read ahead of the redefinition
// is rewritten to the phi's receiver rather than the fresh version.
func TestLoop(t *testing.T) {
	proc := mustParse(t, `
		param v1
		block 0
		  jump 1
		block 1
		  put_field foo v1
		  v1 = add v1 v1
		  branch.u ne b1 b2 v1
		block 2
		  exit v1
	`)
	param := proc.Variables[0]

	ssaform.Update(proc, []*ir.Variable{param})

	b0, b1, b2 := block(t, proc, 0), block(t, proc, 1), block(t, proc, 2)

	if len(b1.Phis) != 1 {
		t.Fatalf("loop header has %d phis, want 1", len(b1.Phis))
	}
	phi := b1.Phis[0]
	if len(phi.Incomings) != 2 {
		t.Fatalf("loop phi has %d incomings, want 2", len(phi.Incomings))
	}

	add, ok := b1.Instructions[1].(*ir.BinaryArithmetic)
	if !ok {
		t.Fatalf("block 1 instruction 1 is a %T, not *ir.BinaryArithmetic", b1.Instructions[1])
	}
	if add.Receiver == phi.Receiver {
		t.Errorf("loop body redefinition should mint a fresh variable distinct from the phi's receiver")
	}

	got := map[*ir.BasicBlock]*ir.Variable{}
	for _, in := range phi.Incomings {
		got[in.Source] = in.Value
	}
	if got[b0] != param {
		t.Errorf("incoming from block 0 should be the original argument, got v%d", safeIndex(got[b0]))
	}
	if got[b1] != add.Receiver {
		t.Errorf("incoming from block 1 should be the loop body's fresh definition, got v%d want v%d", safeIndex(got[b1]), add.Receiver.Index)
	}

	putField, ok := b1.Instructions[0].(*ir.PutField)
	if !ok {
		t.Fatalf("block 1 instruction 0 is a %T, not *ir.PutField", b1.Instructions[0])
	}
	if putField.Value != phi.Receiver {
		t.Errorf("the read ahead of the redefinition should see the phi's receiver, got v%d want v%d", putField.Value.Index, phi.Receiver.Index)
	}
	if add.First != phi.Receiver || add.Second != phi.Receiver {
		t.Errorf("both operands of the redefinition should read the phi's receiver")
	}

	exit, ok := b2.Instructions[0].(*ir.Exit)
	if !ok {
		t.Fatalf("block 2 instruction 0 is a %T, not *ir.Exit", b2.Instructions[0])
	}
	if exit.Value != add.Receiver {
		t.Errorf("after the loop, the exit should see the loop body's last definition, got v%d want v%d", exit.Value.Index, add.Receiver.Index)
	}
}

// TestTryCatchJoint covers a protected block that redefines v1 twice
// before falling through to an unrelated successor: the joint attached
// to the try/catch collects both definitions, in order, as sources, and
// the handler's exception variable is renamed like any other receiver.
func TestTryCatchJoint(t *testing.T) {
	proc := mustParse(t, `
		block 0
		  jump 2
		block 1: handler=exc
		  exit exc
		block 2
		  v1 = const.int 1
		  v1 = const.int 2
		  jump 3
		block 3
		  exit v1
		try protected=2 handler=1
		joint v1 <-
	`)

	ssaform.Update(proc, nil)

	b1, b2, b3 := block(t, proc, 1), block(t, proc, 2), block(t, proc, 3)

	if len(b2.TryCatchBlocks) != 1 {
		t.Fatalf("block 2 has %d try/catch blocks, want 1", len(b2.TryCatchBlocks))
	}
	tcb := b2.TryCatchBlocks[0]
	if len(tcb.Joints) != 1 {
		t.Fatalf("try/catch has %d joints, want 1", len(tcb.Joints))
	}
	joint := tcb.Joints[0]

	first, second := constInt(t, b2, 0), constInt(t, b2, 1)
	if len(joint.Sources) != 2 {
		t.Fatalf("joint has %d sources, want 2", len(joint.Sources))
	}
	if joint.Sources[0] != first.Receiver {
		t.Errorf("joint source 0 is v%d, want the first definition v%d", joint.Sources[0].Index, first.Receiver.Index)
	}
	if joint.Sources[1] != second.Receiver {
		t.Errorf("joint source 1 is v%d, want the second definition v%d", joint.Sources[1].Index, second.Receiver.Index)
	}
	if joint.Receiver == first.Receiver || joint.Receiver == second.Receiver {
		t.Errorf("joint receiver should be its own fresh variable")
	}

	exit3, ok := b3.Instructions[0].(*ir.Exit)
	if !ok {
		t.Fatalf("block 3 instruction 0 is a %T, not *ir.Exit", b3.Instructions[0])
	}
	if exit3.Value != second.Receiver {
		t.Errorf("normal flow past the try region should see the last definition, not the joint")
	}

	if b1.ExceptionVariable == nil {
		t.Fatalf("handler lost its exception variable")
	}
	exit1, ok := b1.Instructions[0].(*ir.Exit)
	if !ok {
		t.Fatalf("block 1 instruction 0 is a %T, not *ir.Exit", b1.Instructions[0])
	}
	if exit1.Value != b1.ExceptionVariable {
		t.Errorf("handler's read of its exception variable was not rewritten consistently")
	}
}

// TestArgumentPassthrough covers a procedure that returns a formal
// argument unchanged: no new variable should be minted for it.
func TestArgumentPassthrough(t *testing.T) {
	proc := mustParse(t, `
		param v0
		block 0
		  exit v0
	`)
	v0 := proc.Variables[0]
	before := proc.VariableCount()

	ssaform.Update(proc, []*ir.Variable{v0})

	if proc.VariableCount() != before {
		t.Errorf("argument passthrough minted %d new variables, want 0", proc.VariableCount()-before)
	}
	exit := block(t, proc, 0).Instructions[0].(*ir.Exit)
	if exit.Value != v0 {
		t.Errorf("exit should still reference the original argument")
	}
}

// TestEmptyProcedure covers the documented no-op case.
func TestEmptyProcedure(t *testing.T) {
	proc := &ir.Procedure{}
	ssaform.Update(proc, nil) // must not panic
	if proc.BlockCount() != 0 || proc.VariableCount() != 0 {
		t.Errorf("Update mutated an empty procedure")
	}
}

func safeIndex(v *ir.Variable) int {
	if v == nil {
		return -1
	}
	return v.Index
}
