// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "fmt"

// Validate runs a handful of cheap structural sanity checks on proc:
// every Phi incoming names an actual CFG predecessor of its block, and
// every TryCatchBlock's Protected/Handler blocks belong to proc. It is
// not run automatically by ssaform.Update (which trusts its
// preconditions per spec), but is useful tooling for callers building
// a Procedure by hand, a parser, or a test fixture loader.
func Validate(proc *Procedure) error {
	cfg := BuildCFG(proc)

	blockIndex := make(map[*BasicBlock]int, len(proc.Blocks))
	for i, b := range proc.Blocks {
		blockIndex[b] = i
	}

	for _, b := range proc.Blocks {
		for _, phi := range b.Phis {
			preds := make(map[*BasicBlock]bool)
			for _, p := range cfg.Predecessors(b) {
				preds[p] = true
			}
			for _, in := range phi.Incomings {
				if _, ok := blockIndex[in.Source]; !ok {
					return fmt.Errorf("block %d: phi incoming source is not in this procedure", b.Index)
				}
				if !preds[in.Source] {
					return fmt.Errorf("block %d: phi incoming from block %d, which is not a predecessor", b.Index, in.Source.Index)
				}
			}
		}
		for _, tcb := range b.TryCatchBlocks {
			if _, ok := blockIndex[tcb.Protected]; !ok {
				return fmt.Errorf("block %d: try/catch protected block not in this procedure", b.Index)
			}
			if _, ok := blockIndex[tcb.Handler]; !ok {
				return fmt.Errorf("block %d: try/catch handler block not in this procedure", b.Index)
			}
		}
	}
	return nil
}
