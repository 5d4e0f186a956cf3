// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest reads counted declarations from a YAML file.
//
// A manifest names the package of the generated file and lists its
// declarations:
//
//	package: tables
//	declarations:
//	  - name: quad
//	    type: byte
//	    values: [1, 2, 3, 4]
//	  - name: greetings
//	    kind: const
//	    public: true
//	    type: string
//	    values: ['"hello"', '"hi"']
//
// Unknown keys are errors. Each value is a Go expression, taken verbatim from its YAML scalar, so Go
// string literals keep their quotes inside YAML quoting.
package manifest

import (
	"fmt"
	"go/scanner"
	"go/token"
	"os"
	"slices"

	"github.com/emabrey/countedarray"
	"gopkg.in/yaml.v3"
)

// A Manifest is a decoded manifest file.
type Manifest struct {
	Filename string
	Package  string
	Requests []*countedarray.Request
}

type document struct {
	Package      yaml.Node   `yaml:"package"`
	Declarations []yaml.Node `yaml:"declarations"`
}

type entry struct {
	Name   string      `yaml:"name"`
	Kind   string      `yaml:"kind"`
	Public bool        `yaml:"public"`
	Type   string      `yaml:"type"`
	Values []yaml.Node `yaml:"values"`
}

var (
	documentKeys = []string{"package", "declarations"}
	entryKeys    = []string{"name", "kind", "public", "type", "values"}
)

// unknownKeys returns the keys of the mapping n that are not in known.
// A misspelled key would otherwise leave its field empty.
func unknownKeys(n *yaml.Node, known []string) []*yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	var keys []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		if key := n.Content[i]; !slices.Contains(known, key.Value) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Load reads and parses the named manifest.
func Load(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(filename, data)
}

// Parse parses the manifest held in data. Errors in individual
// declarations are reported together as a [scanner.ErrorList].
func Parse(filename string, data []byte) (*Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	var doc document
	if root.Kind != 0 {
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}
	at := func(n *yaml.Node) token.Position {
		return token.Position{Filename: filename, Line: n.Line, Column: n.Column}
	}

	m := &Manifest{Filename: filename, Package: doc.Package.Value}
	var errs scanner.ErrorList
	if len(root.Content) > 0 {
		for _, key := range unknownKeys(root.Content[0], documentKeys) {
			errs.Add(at(key), fmt.Sprintf("unknown field %q", key.Value))
		}
	}
	switch {
	case doc.Package.Kind == 0:
		errs.Add(token.Position{Filename: filename, Line: 1, Column: 1}, "missing package")
	case doc.Package.Kind != yaml.ScalarNode || !token.IsIdentifier(m.Package) || m.Package == "_":
		errs.Add(at(&doc.Package), fmt.Sprintf("invalid package name %q", m.Package))
	}

	for i := range doc.Declarations {
		node := &doc.Declarations[i]
		pos := at(node)
		if unknown := unknownKeys(node, entryKeys); len(unknown) > 0 {
			for _, key := range unknown {
				errs.Add(at(key), fmt.Sprintf("unknown field %q in declaration", key.Value))
			}
			continue
		}
		var e entry
		if err := node.Decode(&e); err != nil {
			errs.Add(pos, err.Error())
			continue
		}
		if e.Name == "" || e.Type == "" {
			errs.Add(pos, "declaration needs a name and a type")
			continue
		}
		kind := countedarray.Var
		if e.Kind != "" {
			k, err := countedarray.ParseKind(e.Kind)
			if err != nil {
				errs.Add(pos, err.Error())
				continue
			}
			kind = k
		}
		vis := countedarray.Private
		if e.Public {
			vis = countedarray.Public
		}

		values := make([]string, 0, len(e.Values))
		ok := true
		for j := range e.Values {
			v := &e.Values[j]
			if v.Kind != yaml.ScalarNode {
				errs.Add(at(v), "value must be a scalar holding a Go expression")
				ok = false
				continue
			}
			values = append(values, v.Value)
		}
		if !ok {
			continue
		}

		req, err := countedarray.NewRequest(vis, kind, e.Name, e.Type, values)
		if err != nil {
			errs.Add(pos, fmt.Sprintf("%s: %v", e.Name, err))
			continue
		}
		req.Pos = pos
		m.Requests = append(m.Requests, req)
	}
	if len(errs) > 0 {
		errs.Sort()
		return nil, errs.Err()
	}
	return m, nil
}
