// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package ram

import (
	"sync"
)

// SymbolTable interns string constants, mapping each distinct string to a
// dense non-negative index. Translation encodes string constants as signed
// constants carrying their symbol index. The table is safe for concurrent
// use: clause translations running on parallel workers share one table.
type SymbolTable struct {
	mu      sync.RWMutex
	indexes map[string]int
	symbols []string
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		indexes: map[string]int{},
	}
}

// Lookup returns the index of the symbol, interning it if it has not been
// seen before.
func (t *SymbolTable) Lookup(symbol string) int {
	t.mu.RLock()
	if i, ok := t.indexes[symbol]; ok {
		t.mu.RUnlock()
		return i
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if i, ok := t.indexes[symbol]; ok {
		return i
	}
	i := len(t.symbols)
	t.indexes[symbol] = i
	t.symbols = append(t.symbols, symbol)
	return i
}

// Contains returns true if the symbol has been interned.
func (t *SymbolTable) Contains(symbol string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.indexes[symbol]
	return ok
}

// Resolve returns the symbol stored at the index. The second return value
// is false if the index has not been assigned.
func (t *SymbolTable) Resolve(index int) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.symbols) {
		return "", false
	}
	return t.symbols[index], true
}

// Size returns the number of interned symbols.
func (t *SymbolTable) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.symbols)
}
