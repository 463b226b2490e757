// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

// Parse reads a minimal textual notation for a Procedure from r. This
// notation exists purely for tests and cmd/ssaformdump: it has no
// relationship to any real source language (see SPEC_FULL.md §5), and
// its variables are pre-SSA locals that may be redefined freely — the
// point of the notation is to hand ssaform.Update something to chew
// on without constructing *ir.Procedure values by hand in Go source.
//
// Grammar, line oriented:
//
//	param <name>*
//	block <index>[: handler=<excVarName>]
//	  <name> = <opcode> <operand>*
//	  <opcode> <operand>*
//	try protected=<index> handler=<index>
//	  joint <name> <- <name>*
//
// Operands are whitespace-separated tokens; a double-quoted token is a
// string literal (parsed with shellquote so it can contain spaces). A
// block operand is "b<index>" or a bare "<index>". Everything after a
// '#' is a comment.
func Parse(r io.Reader) (*Procedure, error) {
	p := &parser{proc: &Procedure{}, vars: map[string]*Variable{}}
	if err := p.run(r); err != nil {
		return nil, err
	}
	return p.proc, nil
}

type parser struct {
	proc      *Procedure
	vars      map[string]*Variable
	blocks    map[int]*BasicBlock
	cur       *BasicBlock
	lineNo    int
	curTryBlk *TryCatchBlock
}

func (p *parser) run(r io.Reader) error {
	p.blocks = map[int]*BasicBlock{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		toks, err := shellquote.Split(line)
		if err != nil {
			return p.errf("tokenizing: %v", err)
		}
		if len(toks) == 0 {
			continue
		}
		if err := p.statement(toks); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (p *parser) errf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", p.lineNo, fmt.Sprintf(format, args...))
}

func (p *parser) statement(toks []string) error {
	switch toks[0] {
	case "param":
		for _, name := range toks[1:] {
			v := p.proc.CreateVariable()
			v.AddDebugName(name)
			p.vars[name] = v
			p.proc.Arguments = append(p.proc.Arguments, v)
		}
		return nil
	case "block":
		return p.block(toks[1:])
	case "try":
		return p.tryCatch(toks[1:])
	case "joint":
		return p.joint(toks[1:])
	default:
		return p.instruction(toks)
	}
}

func (p *parser) block(toks []string) error {
	if len(toks) == 0 {
		return p.errf("block needs an index")
	}
	spec := strings.TrimSuffix(toks[0], ":")
	idx, err := strconv.Atoi(spec)
	if err != nil {
		return p.errf("bad block index %q: %v", spec, err)
	}
	for len(p.proc.Blocks) <= idx {
		p.proc.AddBlock()
	}
	b := p.proc.BlockAt(idx)
	p.cur = b
	p.curTryBlk = nil

	for _, t := range toks[1:] {
		if name, ok := strings.CutPrefix(t, "handler="); ok {
			v := p.proc.CreateVariable()
			v.AddDebugName(name)
			p.vars[name] = v
			b.ExceptionVariable = v
		}
	}
	return nil
}

func (p *parser) tryCatch(toks []string) error {
	var protected, handler = -1, -1
	for _, t := range toks {
		if v, ok := strings.CutPrefix(t, "protected="); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return p.errf("bad protected index: %v", err)
			}
			protected = n
		}
		if v, ok := strings.CutPrefix(t, "handler="); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return p.errf("bad handler index: %v", err)
			}
			handler = n
		}
	}
	if protected < 0 || handler < 0 {
		return p.errf("try needs protected= and handler=")
	}
	pb := p.proc.BlockAt(protected)
	tcb := &TryCatchBlock{Protected: pb, Handler: p.proc.BlockAt(handler)}
	pb.TryCatchBlocks = append(pb.TryCatchBlocks, tcb)
	p.curTryBlk = tcb
	return nil
}

func (p *parser) joint(toks []string) error {
	if p.curTryBlk == nil {
		return p.errf("joint outside of a try block")
	}
	if len(toks) < 2 || toks[1] != "<-" {
		return p.errf("joint syntax is: joint <name> <- <name>*")
	}
	receiver := p.variable(toks[0])
	joint := &TryCatchJoint{Receiver: receiver}
	for _, name := range toks[2:] {
		joint.Sources = append(joint.Sources, p.variable(name))
	}
	p.curTryBlk.Joints = append(p.curTryBlk.Joints, joint)
	return nil
}

func (p *parser) variable(name string) *Variable {
	if v, ok := p.vars[name]; ok {
		return v
	}
	v := p.proc.CreateVariable()
	v.AddDebugName(name)
	p.vars[name] = v
	return v
}

// redefine resolves name to its variable slot, same as variable. It's
// named separately at call sites to make clear that a receiver
// position, unlike a use, is writing this pre-SSA local -- the slot
// itself doesn't change identity, since in this notation (unlike the
// IR ssaform.Update produces) one name always denotes one original
// Variable no matter how many instructions assign to it.
func (p *parser) redefine(name string) *Variable {
	return p.variable(name)
}

func (p *parser) blockRef(tok string) (*BasicBlock, error) {
	idx, err := strconv.Atoi(strings.TrimPrefix(tok, "b"))
	if err != nil {
		return nil, p.errf("bad block reference %q: %v", tok, err)
	}
	for len(p.proc.Blocks) <= idx {
		p.proc.AddBlock()
	}
	return p.proc.BlockAt(idx), nil
}

func (p *parser) instruction(toks []string) error {
	if p.cur == nil {
		return p.errf("instruction outside of a block")
	}

	var receiverName string
	rest := toks
	if len(toks) >= 2 && toks[1] == "=" {
		receiverName = toks[0]
		rest = toks[2:]
	}
	if len(rest) == 0 {
		return p.errf("missing opcode")
	}
	op, args := rest[0], rest[1:]

	instr, err := p.buildInstr(op, args, receiverName)
	if err != nil {
		return err
	}
	p.cur.Instructions = append(p.cur.Instructions, instr)
	return nil
}

func (p *parser) buildInstr(op string, args []string, receiverName string) (Instruction, error) {
	recv := func() *Variable { return p.redefine(receiverName) }
	needRecv := func() error {
		if receiverName == "" {
			return p.errf("%s needs a receiver", op)
		}
		return nil
	}

	switch op {
	case "const.null":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &ConstantNull{Receiver: recv()}, nil
	case "const.class":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &ConstantClass{ClassName: arg(args, 0), Receiver: recv()}, nil
	case "const.int":
		if err := needRecv(); err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(arg(args, 0), 10, 32)
		if err != nil {
			return nil, p.errf("bad int: %v", err)
		}
		return &ConstantInt{Value: int32(n), Receiver: recv()}, nil
	case "const.long":
		if err := needRecv(); err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(arg(args, 0), 10, 64)
		if err != nil {
			return nil, p.errf("bad long: %v", err)
		}
		return &ConstantLong{Value: n, Receiver: recv()}, nil
	case "const.float":
		if err := needRecv(); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(arg(args, 0), 32)
		if err != nil {
			return nil, p.errf("bad float: %v", err)
		}
		return &ConstantFloat{Value: float32(f), Receiver: recv()}, nil
	case "const.double":
		if err := needRecv(); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(arg(args, 0), 64)
		if err != nil {
			return nil, p.errf("bad double: %v", err)
		}
		return &ConstantDouble{Value: f, Receiver: recv()}, nil
	case "const.string":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &ConstantString{Value: arg(args, 0), Receiver: recv()}, nil
	case "assign":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &Assign{Assignee: p.variable(arg(args, 0)), Receiver: recv()}, nil
	case "neg":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &UnaryNegate{Operand: p.variable(arg(args, 0)), Receiver: recv()}, nil
	case "add", "sub", "mul", "div", "mod", "and", "or", "xor", "shl", "shr", "cmp":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &BinaryArithmetic{
			Op:       binaryOpFromName(op),
			First:    p.variable(arg(args, 0)),
			Second:   p.variable(arg(args, 1)),
			Receiver: recv(),
		}, nil
	case "branch.u":
		tb, err := p.blockRef(arg(args, 1))
		if err != nil {
			return nil, err
		}
		fb, err := p.blockRef(arg(args, 2))
		if err != nil {
			return nil, err
		}
		return &BranchUnary{Cond: condFromName(arg(args, 0)), Operand: p.variable(arg(args, 3)), True: tb, False: fb}, nil
	case "branch.b":
		tb, err := p.blockRef(arg(args, 1))
		if err != nil {
			return nil, err
		}
		fb, err := p.blockRef(arg(args, 2))
		if err != nil {
			return nil, err
		}
		return &BranchBinary{
			Cond: condFromName(arg(args, 0)), First: p.variable(arg(args, 3)), Second: p.variable(arg(args, 4)),
			True: tb, False: fb,
		}, nil
	case "jump":
		tb, err := p.blockRef(arg(args, 0))
		if err != nil {
			return nil, err
		}
		return &Jump{Target: tb}, nil
	case "exit":
		if len(args) == 0 {
			return &Exit{}, nil
		}
		return &Exit{Value: p.variable(args[0])}, nil
	case "raise":
		return &Raise{Exception: p.variable(arg(args, 0))}, nil
	case "construct":
		if err := needRecv(); err != nil {
			return nil, err
		}
		i := &Construct{ClassName: arg(args, 0), Receiver: recv()}
		for _, s := range args[1:] {
			i.Sizes = append(i.Sizes, p.variable(s))
		}
		return i, nil
	case "construct_array":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &ConstructArray{ElementType: arg(args, 0), Size: p.variable(arg(args, 1)), Receiver: recv()}, nil
	case "construct_multi_array":
		if err := needRecv(); err != nil {
			return nil, err
		}
		i := &ConstructMultiArray{ElementType: arg(args, 0), Receiver: recv()}
		for _, s := range args[1:] {
			i.Sizes = append(i.Sizes, p.variable(s))
		}
		return i, nil
	case "get_field":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &GetField{Instance: optVariable(p, args, 1), FieldName: arg(args, 0), Receiver: recv()}, nil
	case "put_field":
		return &PutField{Instance: optVariable(p, args, 2), FieldName: arg(args, 0), Value: p.variable(arg(args, 1))}, nil
	case "get_element":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &GetElement{Array: p.variable(arg(args, 0)), Index: p.variable(arg(args, 1)), Receiver: recv()}, nil
	case "put_element":
		return &PutElement{Array: p.variable(arg(args, 0)), Index: p.variable(arg(args, 1)), Value: p.variable(arg(args, 2))}, nil
	case "invoke":
		i := &Invoke{MethodName: arg(args, 0)}
		if receiverName != "" {
			i.Receiver = recv()
		}
		i.Instance, i.Args = instanceAndArgs(p, args[1:])
		return i, nil
	case "invoke_dynamic":
		i := &InvokeDynamic{MethodName: arg(args, 0)}
		if receiverName != "" {
			i.Receiver = recv()
		}
		i.Instance, i.Args = instanceAndArgs(p, args[1:])
		return i, nil
	case "is_instance":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &IsInstance{Value: p.variable(arg(args, 0)), ClassName: arg(args, 1), Receiver: recv()}, nil
	case "cast":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &Cast{Value: p.variable(arg(args, 0)), ClassName: arg(args, 1), Receiver: recv()}, nil
	case "cast_number":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &CastNumber{Value: p.variable(arg(args, 0)), Receiver: recv()}, nil
	case "cast_integer":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &CastInteger{Value: p.variable(arg(args, 0)), Receiver: recv()}, nil
	case "array_length":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &ArrayLength{Array: p.variable(arg(args, 0)), Receiver: recv()}, nil
	case "unwrap_array":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &UnwrapArray{Array: p.variable(arg(args, 0)), Receiver: recv()}, nil
	case "clone_array":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &CloneArray{Array: p.variable(arg(args, 0)), Receiver: recv()}, nil
	case "init_class":
		return &InitClass{ClassName: arg(args, 0)}, nil
	case "null_check":
		if err := needRecv(); err != nil {
			return nil, err
		}
		return &NullCheck{Value: p.variable(arg(args, 0)), Receiver: recv()}, nil
	case "monitor_enter":
		return &MonitorEnter{Object: p.variable(arg(args, 0))}, nil
	case "monitor_exit":
		return &MonitorExit{Object: p.variable(arg(args, 0))}, nil
	default:
		return nil, p.errf("unknown opcode %q", op)
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func optVariable(p *parser, args []string, i int) *Variable {
	if i >= len(args) || args[i] == "" || args[i] == "-" {
		return nil
	}
	return p.variable(args[i])
}

func instanceAndArgs(p *parser, toks []string) (*Variable, []*Variable) {
	var instance *Variable
	var rest []string
	if len(toks) > 0 && toks[0] != "-" {
		instance = p.variable(toks[0])
		rest = toks[1:]
	} else if len(toks) > 0 {
		rest = toks[1:]
	}
	args := make([]*Variable, len(rest))
	for i, t := range rest {
		args[i] = p.variable(t)
	}
	return instance, args
}

func binaryOpFromName(name string) BinaryOp {
	switch name {
	case "add":
		return OpAdd
	case "sub":
		return OpSub
	case "mul":
		return OpMul
	case "div":
		return OpDiv
	case "mod":
		return OpMod
	case "and":
		return OpAnd
	case "or":
		return OpOr
	case "xor":
		return OpXor
	case "shl":
		return OpShl
	case "shr":
		return OpShr
	default:
		return OpCompare
	}
}

func condFromName(name string) BranchCond {
	switch name {
	case "eq":
		return CondEqual
	case "ne":
		return CondNotEqual
	case "lt":
		return CondLess
	case "le":
		return CondLessEqual
	case "gt":
		return CondGreater
	case "ge":
		return CondGreaterEqual
	default:
		return CondEqual
	}
}
