// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// Instruction is implemented by every instruction shape the IR knows
// about. Rather than a visitor interface, each shape exposes its own
// operands through a pair of operand-introspection methods: ForEachUse
// enumerates its use operands and ForEachDef enumerates its receiver
// (at most one, in practice, but the signature doesn't assume that).
// Both take a rewrite callback that is passed the current operand and
// must return its replacement; passing a callback that always returns
// its argument is a no-op traversal, which is how the definition
// extractor (ssaform.definedVars) is built on top of ForEachDef alone.
//
// This keeps ssaform's renamer and the definition extractor as data-
// driven traversals over a single generic enumeration per shape,
// instead of two parallel visitor classes that must be kept in sync.
type Instruction interface {
	ForEachUse(rewrite func(*Variable) *Variable)
	ForEachDef(rewrite func(*Variable) *Variable)
}

// Terminator is implemented by the subset of instruction shapes that
// end a basic block. Successors calls fn once per CFG successor, in
// a fixed, shape-specific order.
type Terminator interface {
	Instruction
	Successors(fn func(*BasicBlock))
}

func callIfSet(v *Variable, rewrite func(*Variable) *Variable) *Variable {
	if v == nil {
		return nil
	}
	return rewrite(v)
}

// Empty is a no-op instruction with no operands.
type Empty struct{}

func (*Empty) ForEachUse(func(*Variable) *Variable) {}
func (*Empty) ForEachDef(func(*Variable) *Variable) {}

// ConstantClass loads a reference to a class/type literal.
type ConstantClass struct {
	ClassName string
	Receiver  *Variable
}

func (*ConstantClass) ForEachUse(func(*Variable) *Variable) {}
func (i *ConstantClass) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// ConstantNull loads the null reference.
type ConstantNull struct{ Receiver *Variable }

func (*ConstantNull) ForEachUse(func(*Variable) *Variable) {}
func (i *ConstantNull) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// ConstantInt loads a constant 32-bit integer.
type ConstantInt struct {
	Value    int32
	Receiver *Variable
}

func (*ConstantInt) ForEachUse(func(*Variable) *Variable) {}
func (i *ConstantInt) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// ConstantLong loads a constant 64-bit integer.
type ConstantLong struct {
	Value    int64
	Receiver *Variable
}

func (*ConstantLong) ForEachUse(func(*Variable) *Variable) {}
func (i *ConstantLong) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// ConstantFloat loads a constant single-precision float.
type ConstantFloat struct {
	Value    float32
	Receiver *Variable
}

func (*ConstantFloat) ForEachUse(func(*Variable) *Variable) {}
func (i *ConstantFloat) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// ConstantDouble loads a constant double-precision float.
type ConstantDouble struct {
	Value    float64
	Receiver *Variable
}

func (*ConstantDouble) ForEachUse(func(*Variable) *Variable) {}
func (i *ConstantDouble) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// ConstantString loads a constant string.
type ConstantString struct {
	Value    string
	Receiver *Variable
}

func (*ConstantString) ForEachUse(func(*Variable) *Variable) {}
func (i *ConstantString) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// Assign copies Assignee into Receiver.
type Assign struct {
	Assignee *Variable
	Receiver *Variable
}

func (i *Assign) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Assignee = rewrite(i.Assignee)
}
func (i *Assign) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// UnaryNegate computes Receiver = -Operand.
type UnaryNegate struct {
	Operand  *Variable
	Receiver *Variable
}

func (i *UnaryNegate) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Operand = rewrite(i.Operand)
}
func (i *UnaryNegate) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// BinaryOp identifies the operator of a BinaryArithmetic instruction.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpCompare
)

// BinaryArithmetic computes Receiver = First <op> Second.
type BinaryArithmetic struct {
	Op            BinaryOp
	First, Second *Variable
	Receiver      *Variable
}

func (i *BinaryArithmetic) ForEachUse(rewrite func(*Variable) *Variable) {
	i.First = rewrite(i.First)
	i.Second = rewrite(i.Second)
}
func (i *BinaryArithmetic) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// BranchCond identifies the condition tested by BranchUnary/BranchBinary.
type BranchCond int

const (
	CondEqual BranchCond = iota
	CondNotEqual
	CondLess
	CondLessEqual
	CondGreater
	CondGreaterEqual
)

// BranchUnary compares Operand against an implicit zero/null and
// transfers control to True or False.
type BranchUnary struct {
	Cond        BranchCond
	Operand     *Variable
	True, False *BasicBlock
}

func (i *BranchUnary) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Operand = rewrite(i.Operand)
}
func (*BranchUnary) ForEachDef(func(*Variable) *Variable) {}
func (i *BranchUnary) Successors(fn func(*BasicBlock)) {
	fn(i.True)
	fn(i.False)
}

// BranchBinary compares First against Second and transfers control to
// True or False.
type BranchBinary struct {
	Cond          BranchCond
	First, Second *Variable
	True, False   *BasicBlock
}

func (i *BranchBinary) ForEachUse(rewrite func(*Variable) *Variable) {
	i.First = rewrite(i.First)
	i.Second = rewrite(i.Second)
}
func (*BranchBinary) ForEachDef(func(*Variable) *Variable) {}
func (i *BranchBinary) Successors(fn func(*BasicBlock)) {
	fn(i.True)
	fn(i.False)
}

// Jump is an unconditional transfer of control to Target.
type Jump struct{ Target *BasicBlock }

func (*Jump) ForEachUse(func(*Variable) *Variable) {}
func (*Jump) ForEachDef(func(*Variable) *Variable) {}
func (i *Jump) Successors(fn func(*BasicBlock))    { fn(i.Target) }

// SwitchCase is one value/target pair of a Switch.
type SwitchCase struct {
	Value  int32
	Target *BasicBlock
}

// Switch transfers control to the case matching Operand, or Default
// if none match.
type Switch struct {
	Operand *Variable
	Cases   []SwitchCase
	Default *BasicBlock
}

func (i *Switch) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Operand = rewrite(i.Operand)
}
func (*Switch) ForEachDef(func(*Variable) *Variable) {}
func (i *Switch) Successors(fn func(*BasicBlock)) {
	for _, c := range i.Cases {
		fn(c.Target)
	}
	fn(i.Default)
}

// Exit returns from the procedure, optionally with Value. It has no
// CFG successors.
type Exit struct{ Value *Variable }

func (i *Exit) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Value = callIfSet(i.Value, rewrite)
}
func (*Exit) ForEachDef(func(*Variable) *Variable) {}
func (*Exit) Successors(func(*BasicBlock))         {}

// Raise throws Exception. It has no successors of its own; a block's
// edge to its handler(s) comes from its TryCatchBlocks, not from any
// instruction's Successors (see ir.BuildCFG).
type Raise struct{ Exception *Variable }

func (i *Raise) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Exception = rewrite(i.Exception)
}
func (*Raise) ForEachDef(func(*Variable) *Variable) {}
func (*Raise) Successors(func(*BasicBlock))         {}

// Construct allocates an object, with Sizes as any constructor-visible
// size arguments (e.g. a fixed-length inline array field).
type Construct struct {
	ClassName string
	Sizes     []*Variable
	Receiver  *Variable
}

func (i *Construct) ForEachUse(rewrite func(*Variable) *Variable) {
	for j, s := range i.Sizes {
		i.Sizes[j] = rewrite(s)
	}
}
func (i *Construct) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// ConstructArray allocates a single-dimension array of the given Size.
type ConstructArray struct {
	ElementType string
	Size        *Variable
	Receiver    *Variable
}

func (i *ConstructArray) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Size = rewrite(i.Size)
}
func (i *ConstructArray) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// ConstructMultiArray allocates a multi-dimension array, one Size per
// dimension.
type ConstructMultiArray struct {
	ElementType string
	Sizes       []*Variable
	Receiver    *Variable
}

func (i *ConstructMultiArray) ForEachUse(rewrite func(*Variable) *Variable) {
	for j, s := range i.Sizes {
		i.Sizes[j] = rewrite(s)
	}
}
func (i *ConstructMultiArray) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// GetField reads FieldName off Instance (nil for a static field) into
// Receiver.
type GetField struct {
	Instance  *Variable
	FieldName string
	Receiver  *Variable
}

func (i *GetField) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Instance = callIfSet(i.Instance, rewrite)
}
func (i *GetField) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// PutField writes Value into FieldName on Instance (nil for a static
// field).
type PutField struct {
	Instance  *Variable
	FieldName string
	Value     *Variable
}

func (i *PutField) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Instance = callIfSet(i.Instance, rewrite)
	i.Value = callIfSet(i.Value, rewrite)
}
func (*PutField) ForEachDef(func(*Variable) *Variable) {}

// GetElement reads Array[Index] into Receiver.
type GetElement struct {
	Array, Index *Variable
	Receiver     *Variable
}

func (i *GetElement) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Array = rewrite(i.Array)
	i.Index = rewrite(i.Index)
}
func (i *GetElement) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// PutElement writes Value into Array[Index].
type PutElement struct {
	Array, Index *Variable
	Value        *Variable
}

func (i *PutElement) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Array = rewrite(i.Array)
	i.Index = rewrite(i.Index)
	i.Value = callIfSet(i.Value, rewrite)
}
func (*PutElement) ForEachDef(func(*Variable) *Variable) {}

// Invoke calls MethodName on Instance (nil for a static method) with
// Args, optionally producing Receiver.
type Invoke struct {
	Instance   *Variable
	MethodName string
	Args       []*Variable
	Receiver   *Variable
}

func (i *Invoke) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Instance = callIfSet(i.Instance, rewrite)
	for j, a := range i.Args {
		i.Args[j] = rewrite(a)
	}
}
func (i *Invoke) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = callIfSet(i.Receiver, rewrite)
}

// InvokeDynamic is an indirect/dynamically-dispatched call, otherwise
// identical in operand shape to Invoke.
type InvokeDynamic struct {
	Instance   *Variable
	MethodName string
	Args       []*Variable
	Receiver   *Variable
}

func (i *InvokeDynamic) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Instance = callIfSet(i.Instance, rewrite)
	for j, a := range i.Args {
		i.Args[j] = rewrite(a)
	}
}
func (i *InvokeDynamic) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = callIfSet(i.Receiver, rewrite)
}

// IsInstance tests whether Value is an instance of ClassName.
type IsInstance struct {
	Value     *Variable
	ClassName string
	Receiver  *Variable
}

func (i *IsInstance) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Value = rewrite(i.Value)
}
func (i *IsInstance) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// Cast narrows Value to ClassName, trapping if the instance check
// fails.
type Cast struct {
	Value     *Variable
	ClassName string
	Receiver  *Variable
}

func (i *Cast) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Value = rewrite(i.Value)
}
func (i *Cast) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// CastNumber converts Value between numeric representations (e.g.
// int to float).
type CastNumber struct {
	Value    *Variable
	Receiver *Variable
}

func (i *CastNumber) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Value = rewrite(i.Value)
}
func (i *CastNumber) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// CastInteger converts Value between integer widths.
type CastInteger struct {
	Value    *Variable
	Receiver *Variable
}

func (i *CastInteger) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Value = rewrite(i.Value)
}
func (i *CastInteger) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// ArrayLength reads the length of Array into Receiver.
type ArrayLength struct {
	Array    *Variable
	Receiver *Variable
}

func (i *ArrayLength) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Array = rewrite(i.Array)
}
func (i *ArrayLength) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// UnwrapArray reinterprets a boxed Array as its primitive backing
// array.
type UnwrapArray struct {
	Array    *Variable
	Receiver *Variable
}

func (i *UnwrapArray) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Array = rewrite(i.Array)
}
func (i *UnwrapArray) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// CloneArray produces a shallow copy of Array.
type CloneArray struct {
	Array    *Variable
	Receiver *Variable
}

func (i *CloneArray) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Array = rewrite(i.Array)
}
func (i *CloneArray) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// InitClass ensures ClassName's static initializer has run. It has no
// operands.
type InitClass struct{ ClassName string }

func (*InitClass) ForEachUse(func(*Variable) *Variable) {}
func (*InitClass) ForEachDef(func(*Variable) *Variable) {}

// NullCheck traps if Value is null, otherwise passes it through to
// Receiver.
type NullCheck struct {
	Value    *Variable
	Receiver *Variable
}

func (i *NullCheck) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Value = rewrite(i.Value)
}
func (i *NullCheck) ForEachDef(rewrite func(*Variable) *Variable) {
	i.Receiver = rewrite(i.Receiver)
}

// MonitorEnter acquires the monitor of Object. It has no receiver.
type MonitorEnter struct{ Object *Variable }

func (i *MonitorEnter) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Object = rewrite(i.Object)
}
func (*MonitorEnter) ForEachDef(func(*Variable) *Variable) {}

// MonitorExit releases the monitor of Object. It has no receiver.
type MonitorExit struct{ Object *Variable }

func (i *MonitorExit) ForEachUse(rewrite func(*Variable) *Variable) {
	i.Object = rewrite(i.Object)
}
func (*MonitorExit) ForEachDef(func(*Variable) *Variable) {}
