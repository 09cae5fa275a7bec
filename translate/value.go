// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package translate

import (
	"fmt"

	"github.com/yonatan/souffle/ast"
	"github.com/yonatan/souffle/ram"
)

// value resolves one argument expression into a RAM expression against the
// bindings established for the clause. Variables resolve to their definition
// point, string constants are interned into the session symbol table, and
// generators resolve to the tuple bound by their level. An unbound variable
// is a defect in the calling compiler stage and panics.
func (t *clauseTranslator) value(arg ast.Argument) ram.Expression {
	switch arg := arg.(type) {
	case ast.Variable:
		loc := t.index.definitionPoint(arg)
		return &ram.TupleElement{Tuple: loc.Tuple, Element: loc.Element}
	case ast.UnnamedVariable:
		return &ram.UndefValue{}
	case ast.NumberConstant:
		return &ram.SignedConstant{Value: int64(arg)}
	case ast.StringConstant:
		return &ram.SignedConstant{Value: int64(t.session.symbols.Lookup(string(arg)))}
	case *ast.IntrinsicFunctor:
		if arg.Op.IsMultiResult() {
			loc := t.index.generatorLocation(arg)
			return &ram.TupleElement{Tuple: loc.Tuple, Element: loc.Element}
		}
		args := make([]ram.Expression, len(arg.Args))
		for i := range arg.Args {
			args[i] = t.value(arg.Args[i])
		}
		return &ram.IntrinsicOperator{Op: arg.Op, Args: args}
	case *ast.Aggregate:
		loc := t.index.generatorLocation(arg)
		return &ram.TupleElement{Tuple: loc.Tuple, Element: loc.Element}
	case *ast.RecordInit:
		args := make([]ram.Expression, len(arg.Args))
		for i := range arg.Args {
			args[i] = t.value(arg.Args[i])
		}
		return &ram.PackRecord{Args: args}
	}
	panic(fmt.Sprintf("illegal argument: %T", arg))
}
