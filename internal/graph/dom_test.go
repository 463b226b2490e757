// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"reflect"
	"testing"
)

func TestIDom(t *testing.T) {
	idom := IDom(graphMuchnick, 0)
	want := []int{0: -1, 1: 0, 2: 1, 3: 2, 4: 2, 5: 4, 6: 4, 7: 4}
	if !reflect.DeepEqual(want, idom) {
		t.Errorf("graphMuchnick: want %v, got %v", want, idom)
	}

	idom = IDom(graphCS252, 0)
	want = []int{0: -1, 1: 0, 2: 1, 3: 2, 4: 2, 5: 1, 6: 2, 7: 1, 8: 7}
	if !reflect.DeepEqual(want, idom) {
		t.Errorf("graphCS252: want %v, got %v", want, idom)
	}
}

func TestDomFrontier(t *testing.T) {
	df := DomFrontier(graphCS252, 0, nil)
	want := [][]int{
		0: {},
		1: {1},
		2: {7},
		3: {6},
		4: {6},
		5: {1, 7},
		6: {7},
		7: {},
		8: {},
	}
	if !reflect.DeepEqual(want, df) {
		t.Errorf("want %v, got %v", want, df)
	}
}

func TestDomTreeOutgoingEdges(t *testing.T) {
	tree := Dom(IDom(graphCS252, 0))
	want := [][]int{
		0: {1},
		1: {2, 5, 7},
		2: {3, 4, 6},
		3: {},
		4: {},
		5: {},
		6: {},
		7: {8},
		8: {},
	}
	for n, w := range want {
		got := tree.OutgoingEdges(n)
		if !reflect.DeepEqual(w, got) {
			t.Errorf("node %d: want children %v, got %v", n, w, got)
		}
		if !reflect.DeepEqual(got, tree.Out(n)) {
			t.Errorf("node %d: OutgoingEdges and Out disagree", n)
		}
	}
}

func TestDomTreeDominates(t *testing.T) {
	tree := Dom(IDom(graphCS252, 0))
	for n := 0; n < tree.NumNodes(); n++ {
		if !tree.Dominates(n, n) {
			t.Errorf("node %d does not dominate itself", n)
		}
		if !tree.Dominates(0, n) {
			t.Errorf("root does not dominate node %d", n)
		}
	}
	// Node 7 is reachable both via node 2 (2->3->6->7) and via node 5
	// (5->7) directly, so only their common ancestor, node 1, and the
	// root dominate it -- neither node 2 nor node 5 alone does.
	if !tree.Dominates(1, 7) {
		t.Errorf("node 1 should dominate node 7")
	}
	if tree.Dominates(2, 7) {
		t.Errorf("node 2 should not dominate node 7 (7 is also reachable via node 5)")
	}
	if tree.Dominates(5, 2) {
		t.Errorf("node 5 should not dominate node 2 (2 is also reachable via node 1 directly)")
	}
}
