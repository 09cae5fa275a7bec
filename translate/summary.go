// Copyright 2026 The Souffle Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package translate

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/yonatan/souffle/ram"
)

// Summary renders a table describing the physical relations of a lowered
// program, one row per copy. It is intended for debug output and build logs.
func Summary(w io.Writer, p *ram.Program) {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Relation", "Arity", "Aux", "Kind"})
	for _, rel := range p.Relations {
		kind := "full"
		switch {
		case strings.HasPrefix(rel.Name, deltaPrefix):
			kind = "delta"
		case strings.HasPrefix(rel.Name, newPrefix):
			kind = "new"
		}
		table.Append([]string{
			rel.Name,
			strconv.Itoa(rel.Arity),
			strconv.Itoa(rel.AuxiliaryArity),
			kind,
		})
	}
	table.Render()
}
