// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ssaformdump parses the textual procedure notation accepted
// by internal/ir, runs ssaform.Update over it, and prints either the
// resulting SSA dump or a Graphviz/SVG rendering of the procedure's
// CFG or dominator tree.
//
// Usage:
//
//	ssaformdump [flags] [file]
//
// With no file argument, the procedure is read from stdin. With -i,
// ssaformdump instead starts an interactive shell that accepts the
// same commands one would otherwise pass as flags, letting a caller
// load several fixtures in one session without re-invoking the
// process for each one.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aclements/go-ssaform/internal/ir"
	"github.com/aclements/go-ssaform/ssaform"
	"golang.org/x/xerrors"
)

var (
	flagDebug    = flag.Bool("debug", false, "enable ssaform.Debug diagnostics on stderr")
	flagValidate = flag.Bool("validate", true, "run ir.Validate before ssaform.Update")
	flagDot      = flag.String("dot", "", "print a Graphviz dump of `graph` (cfg or domtree) instead of the SSA form")
	flagSVG      = flag.String("svg", "", "print an SVG dump of `graph` (cfg or domtree) instead of the SSA form")
	flagInter    = flag.Bool("i", false, "start an interactive session instead of processing one file")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [file]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "With no file, reads the procedure from stdin.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	ssaform.Debug = *flagDebug

	if *flagInter {
		runREPL(os.Stdin, os.Stdout)
		return
	}

	var r io.Reader = os.Stdin
	if args := flag.Args(); len(args) > 0 {
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "ssaformdump: at most one file argument\n")
			os.Exit(1)
		}
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "ssaformdump: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	if err := process(r, os.Stdout, renderRequest{dot: *flagDot, svg: *flagSVG}); err != nil {
		fmt.Fprintf(os.Stderr, "ssaformdump: %v\n", err)
		os.Exit(1)
	}
}

// renderRequest selects an alternate output mode: dot/svg name one of
// "cfg" or "domtree", or are empty for the default SSA text dump.
type renderRequest struct {
	dot, svg string
}

// process reads a procedure from r, optionally validates and always
// runs ssaform.Update over it, then writes the requested output to w.
// It recovers from ssaform's invariant-violation panics, the one
// place in this program that treats them as a reportable error rather
// than a programmer bug to crash on -- the caller handed us an
// unverified, possibly hand-edited fixture.
func process(r io.Reader, w io.Writer, req renderRequest) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = xerrors.Errorf("ssaform panicked: %v", p)
		}
	}()

	proc, perr := ir.Parse(r)
	if perr != nil {
		return xerrors.Errorf("parsing procedure: %w", perr)
	}

	if *flagValidate {
		if verr := ir.Validate(proc); verr != nil {
			return xerrors.Errorf("validating procedure: %w", verr)
		}
	}

	ssaform.Update(proc, proc.Arguments)

	switch {
	case req.dot != "":
		return dumpGraph(w, proc, req.dot, false)
	case req.svg != "":
		return dumpGraph(w, proc, req.svg, true)
	default:
		ir.Fprint(w, proc)
		return nil
	}
}
