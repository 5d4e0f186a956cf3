// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package countedarray

import (
	"errors"
	"fmt"
	"go/ast"
	"go/scanner"
	"go/token"
	"unicode"
	"unicode/utf8"
)

// Visibility selects whether an expanded declaration is exported.
type Visibility int

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Public:
		return "public"
	}
	return fmt.Sprintf("Visibility(%d)", int(v))
}

// qualify applies the visibility qualifier to name. In Go the qualifier is
// the case of the first letter.
func (v Visibility) qualify(name string) (string, error) {
	switch v {
	case Public:
		r, size := utf8.DecodeRuneInString(name)
		exported := string(unicode.ToUpper(r)) + name[size:]
		if !token.IsExported(exported) {
			return "", fmt.Errorf("cannot export %s: first character has no upper case form", name)
		}
		return exported, nil
	case Private:
		if token.IsExported(name) {
			return "", fmt.Errorf("%s is exported; use a lower-case name or the pub form", name)
		}
		return name, nil
	}
	return "", fmt.Errorf("invalid visibility %v", v)
}

// Kind is the binding kind of a declaration.
type Kind int

const (
	Var   Kind = iota // a package-level variable
	Const             // a function returning the array value
)

func (k Kind) String() string {
	switch k {
	case Var:
		return "var"
	case Const:
		return "const"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind named by s, either "var" or "const".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "var":
		return Var, nil
	case "const":
		return Const, nil
	}
	return 0, fmt.Errorf("unknown declaration kind %q (want var or const)", s)
}

// A Request describes one counted declaration before expansion.
type Request struct {
	Visibility Visibility
	Kind       Kind
	Name       string
	Elem       string   // element type, gofmt-formatted
	Values     []string // initializer expressions in source order, gofmt-formatted
	Pos        token.Position
}

// An Origin locates the text of a directive in its source file.
// Line is the line holding the first byte of the text, and Cols[i] is the
// column at which line i+1 of the text starts.
type Origin struct {
	Filename string
	Line     int
	Cols     []int
}

// Position maps a 1-based line and column within the directive text to
// a position in the source file.
func (o Origin) Position(line, col int) token.Position {
	pos := token.Position{Filename: o.Filename, Line: o.Line + line - 1, Column: col}
	if i := line - 1; i >= 0 && i < len(o.Cols) {
		pos.Column = o.Cols[i] + col - 1
	}
	return pos
}

// NewRequest returns a request built from an element type and a list of
// initializer expressions. Each piece must be valid Go syntax; the result
// holds their gofmt-formatted form. The returned request has no position.
func NewRequest(vis Visibility, kind Kind, name, elem string, values []string) (*Request, error) {
	if !token.IsIdentifier(name) || name == "_" {
		return nil, fmt.Errorf("invalid declaration name %q", name)
	}
	req := &Request{Visibility: vis, Kind: kind, Name: name}

	lit, fset, err := parseLiteral(Origin{}, "[_]"+elem+"{}")
	if err != nil {
		return nil, fmt.Errorf("invalid element type %q: %s", elem, firstMessage(err))
	}
	req.Elem = render(fset, lit.Type.(*ast.ArrayType).Elt)

	for i, v := range values {
		// Wrapping each value in a literal of its own allows elided
		// composite types such as {1, 2}.
		lit, fset, err := parseLiteral(Origin{}, "[_]"+req.Elem+"{"+v+"}")
		if err != nil {
			return nil, fmt.Errorf("invalid value %d %q: %s", i, v, firstMessage(err))
		}
		if n := len(lit.Elts); n != 1 {
			return nil, fmt.Errorf("value %d %q holds %d expressions, want 1", i, v, n)
		}
		req.Values = append(req.Values, render(fset, lit.Elts[0]))
	}
	return req, nil
}

func errorAt(pos token.Position, format string, args ...any) error {
	var list scanner.ErrorList
	list.Add(pos, fmt.Sprintf(format, args...))
	return list.Err()
}

func firstMessage(err error) string {
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return list[0].Msg
	}
	return err.Error()
}
