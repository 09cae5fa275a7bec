// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ram

import (
	"fmt"
	"sync"
	"testing"
)

func TestSymbolTableLookup(t *testing.T) {
	table := NewSymbolTable()

	a := table.Lookup("a")
	b := table.Lookup("b")
	if a == b {
		t.Fatalf("expected distinct indexes, got %d and %d", a, b)
	}
	if exp, act := a, table.Lookup("a"); exp != act {
		t.Errorf("expected stable index %d, got %d", exp, act)
	}
	if exp, act := 2, table.Size(); exp != act {
		t.Errorf("expected size %d, got %d", exp, act)
	}

	sym, ok := table.Resolve(a)
	if !ok || sym != "a" {
		t.Errorf("expected to resolve %d to a, got %q (%v)", a, sym, ok)
	}
	if _, ok := table.Resolve(99); ok {
		t.Error("expected unassigned index to not resolve")
	}
	if !table.Contains("b") {
		t.Error("expected table to contain b")
	}
	if table.Contains("c") {
		t.Error("expected table to not contain c")
	}
}

func TestSymbolTableConcurrent(t *testing.T) {
	table := NewSymbolTable()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				table.Lookup(fmt.Sprintf("sym-%d", j))
			}
		}()
	}
	wg.Wait()

	if exp, act := 100, table.Size(); exp != act {
		t.Fatalf("expected %d symbols, got %d", exp, act)
	}
	for j := 0; j < 100; j++ {
		sym := fmt.Sprintf("sym-%d", j)
		got, ok := table.Resolve(table.Lookup(sym))
		if !ok || got != sym {
			t.Fatalf("expected %v to roundtrip, got %q (%v)", sym, got, ok)
		}
	}
}
