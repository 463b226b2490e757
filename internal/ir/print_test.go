// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"strings"
	"testing"
)

func TestFprint(t *testing.T) {
	proc := mustParse(t, `
		param cond
		block 0
		  branch.u eq b1 b2 cond
		block 1
		  v1 = const.int 1
		  jump 2
		block 2
		  exit v1
	`)

	var buf strings.Builder
	Fprint(&buf, proc)
	out := buf.String()

	for _, want := range []string{"b0:", "b1: <- b0", "b2: <- b0 b1", "branch.u b1,b2", "jump b2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Fprint output missing %q:\n%s", want, out)
		}
	}
}

func TestFprintHandlerAnnotation(t *testing.T) {
	proc := mustParse(t, `
		block 0
		  jump 1
		block 1: handler=exc
		  exit exc
	`)

	var buf strings.Builder
	Fprint(&buf, proc)
	out := buf.String()

	if !strings.Contains(out, "handler, exception=") {
		t.Errorf("Fprint output missing handler annotation:\n%s", out)
	}
}
