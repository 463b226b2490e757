// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssaform

import "golang.org/x/xerrors"

// invariantViolation panics with a wrapped, frame-carrying error. It
// is reserved for structural defects in the input procedure that no
// well-formed caller should ever trigger; its one use is a use with no
// reaching definition. Update does not recover from this; callers that
// accept untrusted procedures (cmd/ssaformdump, ssatest's fixture
// loader) run ir.Validate first, and cmd/ssaformdump's process also
// recovers the panic and reports it as an ordinary error.
func invariantViolation(format string, args ...interface{}) {
	panic(xerrors.Errorf("ssaform: invariant violation: "+format, args...))
}
