// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir defines the three-address intermediate representation
// that package ssaform rewrites into SSA form. Everything here is a
// plain, mutable data structure; beyond the data model, this package
// holds only CFG construction (cfg.go), a minimal textual notation
// parser (parse.go), a dump printer (print.go) and the minimal sanity
// checks in validate.go. There is no type checker or optimizer.
package ir

// Variable is an SSA-renamable value. Variables are owned by exactly
// one Procedure and are never shared across procedures.
type Variable struct {
	// Index is this variable's position in its Procedure's
	// Variables slice.
	Index int

	// DebugNames accumulates human-readable names for this
	// variable across renaming. It is a set, not a single string,
	// because a fresh variable that replaces several originals on
	// a merged path inherits all of their names.
	DebugNames map[string]struct{}
}

// AddDebugName records name as one of v's debug names.
func (v *Variable) AddDebugName(name string) {
	if name == "" {
		return
	}
	if v.DebugNames == nil {
		v.DebugNames = make(map[string]struct{})
	}
	v.DebugNames[name] = struct{}{}
}

// UnionDebugNames merges src's debug names into v.
func (v *Variable) UnionDebugNames(src *Variable) {
	for name := range src.DebugNames {
		v.AddDebugName(name)
	}
}

// Procedure is a single function's IR: its basic blocks and the
// variables they reference. Variables is append-only during SSA
// construction; CreateVariable is the only way new ones are minted.
type Procedure struct {
	Blocks    []*BasicBlock
	Variables []*Variable

	// Arguments lists the variables that already hold their final,
	// caller-supplied value on entry -- the ssaform.Update seed that
	// keeps a parameter from being reallocated on its own first use.
	// Only Parse's "param" declarations populate this; a *Procedure
	// built by hand is free to leave it nil and pass its own slice to
	// Update directly.
	Arguments []*Variable
}

// BlockCount returns the number of basic blocks in p.
func (p *Procedure) BlockCount() int { return len(p.Blocks) }

// VariableCount returns the number of variables in p.
func (p *Procedure) VariableCount() int { return len(p.Variables) }

// BlockAt returns the i'th basic block of p.
func (p *Procedure) BlockAt(i int) *BasicBlock { return p.Blocks[i] }

// CreateVariable appends and returns a fresh variable, indexed at the
// end of p.Variables.
func (p *Procedure) CreateVariable() *Variable {
	v := &Variable{Index: len(p.Variables)}
	p.Variables = append(p.Variables, v)
	return v
}

// AddBlock appends and returns a fresh, empty basic block.
func (p *Procedure) AddBlock() *BasicBlock {
	b := &BasicBlock{Index: len(p.Blocks), Program: p}
	p.Blocks = append(p.Blocks, b)
	return b
}

// BasicBlock is a maximal straight-line sequence of instructions: a
// list of (possibly pre-existing) phis, followed by ordinary
// instructions, the last of which must be a Terminator once the
// procedure is well-formed.
type BasicBlock struct {
	Index   int
	Program *Procedure

	Phis         []*Phi
	Instructions []Instruction

	// TryCatchBlocks lists the try/catch regions that protect this
	// block, outermost first.
	TryCatchBlocks []*TryCatchBlock

	// ExceptionVariable is non-nil when this block is the entry of
	// an exception handler; it is defined on entry to the block by
	// the runtime, not by any instruction.
	ExceptionVariable *Variable
}

// Terminator returns the block's terminating instruction, or nil if
// the block is empty or does not yet end in a terminator.
func (b *BasicBlock) Terminator() Terminator {
	if len(b.Instructions) == 0 {
		return nil
	}
	t, _ := b.Instructions[len(b.Instructions)-1].(Terminator)
	return t
}

// Phi is a pseudo-instruction at a control-flow merge point whose
// value is selected according to which predecessor was taken.
type Phi struct {
	Receiver  *Variable
	Incomings []Incoming
}

// Incoming is one (source block, value) pair of a Phi.
type Incoming struct {
	Source *BasicBlock
	Value  *Variable
}

// TryCatchBlock associates a protected region (identified by the
// blocks that list it in their TryCatchBlocks) with a handler block,
// and the joints that merge variable versions live at potential throw
// points inside the region.
type TryCatchBlock struct {
	Protected *BasicBlock
	Handler   *BasicBlock
	Joints    []*TryCatchJoint
}

// TryCatchJoint merges the versions of one original variable that
// could be live when an exception transfers control from a protected
// region to its handler. It is conceptually a Phi whose incoming
// edges are potential throw points rather than CFG edges.
type TryCatchJoint struct {
	Receiver *Variable
	Sources  []*Variable
}
