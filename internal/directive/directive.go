// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package directive finds countedarray directives in Go source files.
//
// A directive is a line comment beginning with "//countedarray:", with no
// space after the slashes, in the manner of //go:generate. If its text
// leaves a brace open, the directive continues on the following lines of
// the same comment group until the braces balance:
//
//	//countedarray:var primes [_]int{
//	//	2, 3, 5, 7,
//	//	11, 13,
//	//}
package directive

import (
	"go/ast"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/emabrey/countedarray"
)

// Prefix starts every directive comment.
const Prefix = "//countedarray:"

// A Directive is the text of one directive, with the prefix removed and
// continuation lines joined by newlines.
type Directive struct {
	Text   string
	Origin countedarray.Origin
}

// Find returns the directives of file in source order.
func Find(fset *token.FileSet, file *ast.File) []Directive {
	var out []Directive
	for _, group := range file.Comments {
		list := group.List
		for i := 0; i < len(list); i++ {
			c := list[i]
			if !strings.HasPrefix(c.Text, Prefix) {
				continue
			}
			pos := fset.Position(c.Slash)
			d := Directive{
				Text: c.Text[len(Prefix):],
				Origin: countedarray.Origin{
					Filename: pos.Filename,
					Line:     pos.Line,
					Cols:     []int{pos.Column + len(Prefix)},
				},
			}
			for open(d.Text) && i+1 < len(list) {
				next := list[i+1]
				npos := fset.Position(next.Slash)
				if strings.HasPrefix(next.Text, Prefix) ||
					!strings.HasPrefix(next.Text, "//") ||
					npos.Line != pos.Line+len(d.Origin.Cols) {
					break
				}
				d.Text += "\n" + next.Text[len("//"):]
				d.Origin.Cols = append(d.Origin.Cols, npos.Column+len("//"))
				i++
			}
			out = append(out, d)
		}
	}
	return out
}

// open reports whether text leaves a brace unclosed. Braces within string
// and rune literals do not count.
func open(text string) bool {
	fset := token.NewFileSet()
	file := fset.AddFile("", -1, len(text))
	var s scanner.Scanner
	s.Init(file, []byte(text), nil, 0)
	depth := 0
	for {
		_, tok, _ := s.Scan()
		switch tok {
		case token.EOF:
			return depth > 0
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
		}
	}
}
