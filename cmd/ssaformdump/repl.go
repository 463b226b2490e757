// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/aclements/go-ssaform/internal/ir"
	"github.com/aclements/go-ssaform/ssaform"
	shellquote "github.com/kballard/go-shellquote"
)

// runREPL reads shellquote-tokenized commands from in, one per line,
// and writes their output to out. Each command operates on a single
// "current" procedure loaded with "load"; commands that need one
// before it exists report an error and keep the session open, rather
// than exiting, since a typo shouldn't cost the caller every fixture
// they'd already loaded this session.
func runREPL(in io.Reader, out io.Writer) {
	fmt.Fprintln(out, "ssaformdump interactive mode; try \"help\"")
	sc := bufio.NewScanner(in)
	var proc *ir.Procedure

	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return
		}
		toks, err := shellquote.Split(sc.Text())
		if err != nil {
			fmt.Fprintf(out, "tokenizing: %v\n", err)
			continue
		}
		if len(toks) == 0 {
			continue
		}

		switch toks[0] {
		case "quit", "exit":
			return
		case "help":
			printHelp(out)
		case "debug":
			if !setBoolFlag(out, toks, &ssaform.Debug) {
				continue
			}
		case "validate":
			if !setBoolFlag(out, toks, flagValidate) {
				continue
			}
		case "load":
			if len(toks) != 2 {
				fmt.Fprintln(out, "usage: load <file>")
				continue
			}
			p, err := loadAndUpdate(toks[1])
			if err != nil {
				fmt.Fprintf(out, "%v\n", err)
				continue
			}
			proc = p
			fmt.Fprintf(out, "loaded %d block(s), %d variable(s)\n", proc.BlockCount(), proc.VariableCount())
		case "dump":
			if proc == nil {
				fmt.Fprintln(out, "no procedure loaded; use \"load <file>\" first")
				continue
			}
			ir.Fprint(out, proc)
		case "dot", "svg":
			if proc == nil {
				fmt.Fprintln(out, "no procedure loaded; use \"load <file>\" first")
				continue
			}
			if len(toks) != 2 {
				fmt.Fprintf(out, "usage: %s cfg|domtree\n", toks[0])
				continue
			}
			if err := dumpGraph(out, proc, toks[1], toks[0] == "svg"); err != nil {
				fmt.Fprintf(out, "%v\n", err)
			}
		default:
			fmt.Fprintf(out, "unknown command %q; try \"help\"\n", toks[0])
		}
	}
}

// loadAndUpdate parses path's procedure, runs it through process's
// pipeline (validate, Update), and returns it for further "dump"/
// "dot"/"svg" commands, rather than printing its default dump -- the
// REPL's "load" is meant to be followed by an explicit query.
func loadAndUpdate(path string) (*ir.Procedure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	proc, err := ir.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if *flagValidate {
		if err := ir.Validate(proc); err != nil {
			return nil, fmt.Errorf("validating %s: %w", path, err)
		}
	}
	ssaform.Update(proc, proc.Arguments)
	return proc, nil
}

func setBoolFlag(out io.Writer, toks []string, dst *bool) bool {
	if len(toks) != 2 || (toks[1] != "on" && toks[1] != "off") {
		fmt.Fprintf(out, "usage: %s on|off\n", toks[0])
		return false
	}
	*dst = toks[1] == "on"
	return true
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `commands:
  load <file>        parse <file> and run the SSA pass over it
  dump                print the current procedure's SSA form
  dot cfg|domtree     print a Graphviz dump of the CFG or dominator tree
  svg cfg|domtree     print an SVG dump of the CFG or dominator tree
  debug on|off        toggle ssaform.Debug diagnostics
  validate on|off     toggle ir.Validate before each load
  help                show this message
  quit, exit          end the session
`)
}
