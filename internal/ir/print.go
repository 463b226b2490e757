// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"fmt"
	"io"
	"sort"
)

// Fprint writes a human-readable dump of proc to w, one block at a
// time, in the style of this repo's other Fprint-based IR dumps.
func Fprint(w io.Writer, proc *Procedure) {
	cfg := BuildCFG(proc)
	for _, b := range proc.Blocks {
		fmt.Fprintf(w, "b%d:", b.Index)
		if preds := cfg.Predecessors(b); len(preds) > 0 {
			fmt.Fprintf(w, " <-")
			for _, p := range preds {
				fmt.Fprintf(w, " b%d", p.Index)
			}
		}
		if b.ExceptionVariable != nil {
			fmt.Fprintf(w, " (handler, exception=%s)", varName(b.ExceptionVariable))
		}
		fmt.Fprintln(w)

		for _, phi := range b.Phis {
			fmt.Fprintf(w, "\t%s = phi", varName(phi.Receiver))
			for _, in := range phi.Incomings {
				fmt.Fprintf(w, " [b%d: %s]", in.Source.Index, varName(in.Value))
			}
			fmt.Fprintln(w)
		}
		for _, instr := range b.Instructions {
			fmt.Fprintf(w, "\t%s\n", formatInstr(instr))
		}
		for _, tcb := range b.TryCatchBlocks {
			fmt.Fprintf(w, "\ttry: protected=b%d handler=b%d\n", tcb.Protected.Index, tcb.Handler.Index)
			for _, j := range tcb.Joints {
				fmt.Fprintf(w, "\t\tjoint %s <-", varName(j.Receiver))
				for _, s := range j.Sources {
					fmt.Fprintf(w, " %s", varName(s))
				}
				fmt.Fprintln(w)
			}
		}
	}
}

func varName(v *Variable) string {
	if v == nil {
		return "<nil>"
	}
	if len(v.DebugNames) == 0 {
		return fmt.Sprintf("v%d", v.Index)
	}
	names := make([]string, 0, len(v.DebugNames))
	for n := range v.DebugNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return fmt.Sprintf("v%d(%s)", v.Index, names[0])
}

func formatInstr(instr Instruction) string {
	var uses, defs []string
	instr.ForEachUse(func(v *Variable) *Variable {
		uses = append(uses, varName(v))
		return v
	})
	instr.ForEachDef(func(v *Variable) *Variable {
		defs = append(defs, varName(v))
		return v
	})

	name := fmt.Sprintf("%T", instr)
	switch t := instr.(type) {
	case *Jump:
		name = fmt.Sprintf("jump b%d", t.Target.Index)
	case *BranchUnary:
		name = fmt.Sprintf("branch.u b%d,b%d", t.True.Index, t.False.Index)
	case *BranchBinary:
		name = fmt.Sprintf("branch.b b%d,b%d", t.True.Index, t.False.Index)
	case *Switch:
		name = "switch"
	}

	switch {
	case len(defs) == 1 && len(uses) > 0:
		return fmt.Sprintf("%s = %s %v", defs[0], name, uses)
	case len(defs) == 1:
		return fmt.Sprintf("%s = %s", defs[0], name)
	case len(uses) > 0:
		return fmt.Sprintf("%s %v", name, uses)
	default:
		return name
	}
}
