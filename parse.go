// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package countedarray

import (
	"bytes"
	"errors"
	"go/ast"
	"go/format"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"
)

// Placeholder is the array length that asks for the length to be counted.
const Placeholder = "_"

// Parse parses the text of a counted declaration,
//
//	[pub] var|const name [_]T{x, y, z}
//
// as it appears after the directive prefix. The origin locates the text in
// its source file; errors are reported as a [scanner.ErrorList] positioned
// there.
func Parse(text string, origin Origin) (*Request, error) {
	fset := token.NewFileSet()
	file := fset.AddFile(origin.Filename, -1, len(text))

	var errs scanner.ErrorList
	var s scanner.Scanner
	s.Init(file, []byte(text), func(pos token.Position, msg string) {
		errs.Add(origin.Position(pos.Line, pos.Column), msg)
	}, 0)
	at := func(pos token.Pos) token.Position {
		p := file.Position(pos)
		return origin.Position(p.Line, p.Column)
	}

	req := &Request{Pos: origin.Position(1, 1)}
	pos, tok, lit := s.Scan()
	if tok == token.IDENT && lit == "pub" {
		req.Visibility = Public
		pos, tok, lit = s.Scan()
	}
	switch tok {
	case token.VAR:
		req.Kind = Var
	case token.CONST:
		req.Kind = Const
	default:
		return nil, errorAt(at(pos), "expected var or const, found %s", describe(tok, lit))
	}

	pos, tok, lit = s.Scan()
	if tok != token.IDENT || lit == "_" {
		return nil, errorAt(at(pos), "expected declaration name, found %s", describe(tok, lit))
	}
	req.Name = lit

	pos, tok, lit = s.Scan()
	if tok != token.LBRACK {
		return nil, errorAt(at(pos), "expected [%s]T{...} after %s, found %s", Placeholder, req.Name, describe(tok, lit))
	}
	if len(errs) > 0 {
		return nil, errs.Err()
	}

	// Blank out the header so that parser positions line up with the text.
	offset := file.Offset(pos)
	src := strings.Repeat(" ", offset) + text[offset:]
	cl, lfset, err := parseLiteral(origin, src)
	if err != nil {
		return nil, err
	}
	req.Elem = render(lfset, cl.Type.(*ast.ArrayType).Elt)
	for _, elt := range cl.Elts {
		req.Values = append(req.Values, render(lfset, elt))
	}
	return req, nil
}

// parseLiteral parses src as an array composite literal whose length is
// the placeholder and whose elements are not keyed.
func parseLiteral(origin Origin, src string) (*ast.CompositeLit, *token.FileSet, error) {
	fset := token.NewFileSet()
	expr, err := parser.ParseExprFrom(fset, origin.Filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, rebase(err, origin)
	}
	at := func(node ast.Node) token.Position {
		p := fset.Position(node.Pos())
		return origin.Position(p.Line, p.Column)
	}

	cl, ok := expr.(*ast.CompositeLit)
	if !ok {
		return nil, nil, errorAt(at(expr), "expected array literal [%s]T{...}, found %s", Placeholder, render(fset, expr))
	}
	array, ok := cl.Type.(*ast.ArrayType)
	if !ok || array.Len == nil {
		return nil, nil, errorAt(at(cl), "expected array literal [%s]T{...}, found %s literal", Placeholder, typeString(fset, cl.Type))
	}
	if id, ok := array.Len.(*ast.Ident); !ok || id.Name != Placeholder {
		return nil, nil, errorAt(at(array.Len), "array length must be the placeholder %s, found %s", Placeholder, render(fset, array.Len))
	}
	var errs scanner.ErrorList
	for _, elt := range cl.Elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			errs.Add(at(kv), "keyed element "+render(fset, kv)+": the length of a counted array is the number of values")
		}
	}
	if len(errs) > 0 {
		return nil, nil, errs.Err()
	}
	return cl, fset, nil
}

// rebase moves parser errors from the text being parsed to the origin.
func rebase(err error, origin Origin) error {
	var list scanner.ErrorList
	if !errors.As(err, &list) {
		return err
	}
	var out scanner.ErrorList
	for _, e := range list {
		out.Add(origin.Position(e.Pos.Line, e.Pos.Column), e.Msg)
	}
	return out.Err()
}

// render returns the gofmt-formatted source of node.
func render(fset *token.FileSet, node ast.Node) string {
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, node); err != nil {
		// Nodes produced by the parser always print.
		panic(err)
	}
	return buf.String()
}

func typeString(fset *token.FileSet, typ ast.Expr) string {
	if typ == nil {
		return "untyped"
	}
	return render(fset, typ)
}

func describe(tok token.Token, lit string) string {
	switch {
	case tok == token.EOF:
		return "end of directive"
	case tok == token.SEMICOLON && lit == "\n":
		return "newline"
	case lit != "":
		return lit
	}
	return tok.String()
}
