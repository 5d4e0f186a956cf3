// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package countedarray

import (
	"fmt"
	"go/token"
	"io"
	"strings"
)

// A Decl is an expanded counted declaration.
type Decl struct {
	Visibility Visibility
	Kind       Kind
	Name       string // with the visibility qualifier applied
	Elem       string
	Len        int
	Values     []string
	Pos        token.Position
}

// accumulator holds the state of a counting expansion: the number of
// values seen so far and the values themselves, in order.
type accumulator struct {
	count  int
	values []string
}

func (a *accumulator) push(value string) {
	a.values = append(a.values, value)
	a.count++
}

// Expand counts the values of req and returns the declaration to emit.
// The length is the number of values; they are never evaluated. A request
// with no values expands to a zero-length array.
func Expand(req *Request) (*Decl, error) {
	if req.Kind != Var && req.Kind != Const {
		return nil, errorAt(req.Pos, "invalid declaration kind %v", req.Kind)
	}
	name, err := req.Visibility.qualify(req.Name)
	if err != nil {
		return nil, errorAt(req.Pos, "%v", err)
	}

	var acc accumulator
	for _, v := range req.Values {
		acc.push(v)
	}

	return &Decl{
		Visibility: req.Visibility,
		Kind:       req.Kind,
		Name:       name,
		Elem:       req.Elem,
		Len:        acc.count,
		Values:     acc.values,
		Pos:        req.Pos,
	}, nil
}

// Type returns the array type of d, such as [4]byte.
func (d *Decl) Type() string {
	return fmt.Sprintf("[%d]%s", d.Len, d.Elem)
}

// maxLine is the width beyond which a literal is written one value per line.
const maxLine = 80

// tabWidth is the width of an indenting tab, as gofmt counts it.
const tabWidth = 8

// Literal returns the composite literal initializing d, laid out as if it
// started a line.
func (d *Decl) Literal() string {
	return d.literal(0)
}

// literal returns the composite literal initializing d when it follows
// prefix columns of text on its first line.
func (d *Decl) literal(prefix int) string {
	var b strings.Builder
	typ := d.Type()
	b.WriteString(typ)
	b.WriteByte('{')
	oneLine := strings.Join(d.Values, ", ")
	if prefix+len(typ)+len(oneLine)+2 <= maxLine && !strings.Contains(oneLine, "\n") {
		b.WriteString(oneLine)
	} else {
		b.WriteByte('\n')
		for _, v := range d.Values {
			b.WriteByte('\t')
			b.WriteString(strings.ReplaceAll(v, "\n", "\n\t"))
			b.WriteString(",\n")
		}
	}
	b.WriteByte('}')
	return b.String()
}

// WriteTo writes the Go source of d to w.
func (d *Decl) WriteTo(w io.Writer) (int64, error) {
	var (
		n   int
		err error
	)
	switch d.Kind {
	case Var:
		head := "var " + d.Name + " = "
		n, err = fmt.Fprintf(w, "%s%s\n", head, d.literal(len(head)))
	case Const:
		const head = "return "
		lit := strings.ReplaceAll(d.literal(tabWidth+len(head)), "\n", "\n\t")
		n, err = fmt.Fprintf(w, "func %s() %s {\n\t%s%s\n}\n", d.Name, d.Type(), head, lit)
	default:
		err = fmt.Errorf("invalid declaration kind %v", d.Kind)
	}
	return int64(n), err
}

func (d *Decl) String() string {
	var b strings.Builder
	if _, err := d.WriteTo(&b); err != nil {
		return fmt.Sprintf("%s: %v", d.Name, err)
	}
	return b.String()
}
