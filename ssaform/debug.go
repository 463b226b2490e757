// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssaform

import (
	"fmt"
	"os"
)

// Debug enables verbose diagnostics to stderr at each step of the
// pass: phi placement, renaming, and joint rewriting. It is a var
// rather than a build-time const (unlike go/ssa's debugLifting)
// because cmd/ssaformdump exposes it as a flag.
var Debug = false

func debugf(format string, args ...interface{}) {
	if Debug {
		fmt.Fprintf(os.Stderr, "ssaform: "+format+"\n", args...)
	}
}
