// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ssatest runs golden-fixture tests against ssaform.Update:
// each fixture is a txtar archive pairing a textual procedure (in
// internal/ir's notation) with the SSA dump ssaform.Update is
// expected to produce from it.
package ssatest

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/aclements/go-ssaform/internal/ir"
	"github.com/aclements/go-ssaform/ssaform"
)

// update rewrites each fixture's "want" section with what Update
// actually produced, the same escape hatch golden-file tests in
// golang.org/x/tools itself use for intentional output changes.
var update = flag.Bool("ssatest.update", false, "rewrite golden fixtures with actual output")

// Run loads every *.txt fixture matching glob and runs it as a
// subtest of t. A fixture is a txtar archive with exactly two files:
//
//	-- input --
//	<internal/ir textual notation>
//	-- want --
//	<expected ir.Fprint dump after ssaform.Update>
//
// The input is validated with ir.Validate before Update runs, since a
// malformed fixture is a bug in the test, not something Update should
// be asked to tolerate.
func Run(t *testing.T, glob string) {
	t.Helper()
	paths, err := filepath.Glob(glob)
	if err != nil {
		t.Fatalf("ssatest: bad glob %q: %v", glob, err)
	}
	if len(paths) == 0 {
		t.Fatalf("ssatest: glob %q matched no fixtures", glob)
	}
	for _, path := range paths {
		path := path
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		t.Run(name, func(t *testing.T) { runFixture(t, path) })
	}
}

func runFixture(t *testing.T, path string) {
	t.Helper()

	arc, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	input, ok := fileData(arc, "input")
	if !ok {
		t.Fatalf("fixture missing \"-- input --\" section")
	}
	want, haveWant := fileData(arc, "want")

	proc, err := ir.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parsing input: %v", err)
	}
	if err := ir.Validate(proc); err != nil {
		t.Fatalf("input fails ir.Validate: %v", err)
	}

	ssaform.Update(proc, proc.Arguments)

	var buf strings.Builder
	ir.Fprint(&buf, proc)
	got := buf.String()

	if *update {
		setFileData(arc, "want", got)
		if err := os.WriteFile(path, txtar.Format(arc), 0644); err != nil {
			t.Fatalf("rewriting fixture: %v", err)
		}
		return
	}

	if !haveWant {
		t.Fatalf("fixture missing \"-- want --\" section; rerun with -ssatest.update to populate it")
	}
	if got != want {
		t.Errorf("output mismatch for %s\n--- want ---\n%s--- got ---\n%s", path, want, got)
	}
}

func fileData(arc *txtar.Archive, name string) (string, bool) {
	for _, f := range arc.Files {
		if f.Name == name {
			return string(f.Data), true
		}
	}
	return "", false
}

func setFileData(arc *txtar.Archive, name, data string) {
	for i, f := range arc.Files {
		if f.Name == name {
			arc.Files[i].Data = []byte(data)
			return
		}
	}
	arc.Files = append(arc.Files, txtar.File{Name: name, Data: []byte(data)})
}

