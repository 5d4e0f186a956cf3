// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Countedarray is a tool to automate the creation of fixed-size arrays
// whose length is counted from their initializer lists. Given
//
//	package tables
//
//	//go:generate countedarray
//
//	//countedarray:var quad [_]byte{1, 2, 3, 4,}
//	//countedarray:pub const primes [_]int{2, 3, 5, 7}
//
// running this command in the same directory will create the file
// tables_countedarray.go, in package tables, containing
//
//	var quad = [4]byte{1, 2, 3, 4}
//
//	func Primes() [4]int {
//		return [4]int{2, 3, 5, 7}
//	}
//
// The length placeholder _ is replaced by the number of initializers.
// Whitespace and a trailing comma do not affect the count, and an empty
// list declares a zero-length array. The pub keyword exports the
// declaration by upper-casing the first letter of its name; without it the
// name must not be exported. Since Go has no constant arrays, const
// declarations become functions returning the array.
//
// A directive whose braces are left open continues on the following
// comment lines:
//
//	//countedarray:var names [_]string{
//	//	"alpha",
//	//	"beta",
//	//}
//
// Directives in _test.go files are written to <pkg>_countedarray_test.go.
// Imports that the type or initializers of a directive refer to are copied
// from its file to the output, so initializers may use imported packages.
// Declarations in a package and in its in-package tests share one scope.
//
// Declarations may also come from a YAML manifest given with -manifest;
// see package [github.com/emabrey/countedarray/internal/manifest] for its
// format. The output is then written next to the manifest, with the
// extension replaced by _countedarray.go.
//
// With no arguments, it processes the package in the current directory.
// Otherwise, the arguments must name a single directory holding a Go
// package or a set of Go source files that represent a single Go package.
//
// The -output flag names the output file. It may only be used when a
// single file is generated.
package main // import "github.com/emabrey/countedarray/cmd/countedarray"

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/scanner"
	"go/token"
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/emabrey/countedarray"
	"github.com/emabrey/countedarray/internal/directive"
	"github.com/emabrey/countedarray/internal/manifest"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/imports"
)

var (
	output       = flag.String("output", "", "output file name; default srcdir/<pkg>_countedarray.go")
	buildTags    = flag.String("tags", "", "comma-separated list of build tags to apply")
	manifestFile = flag.String("manifest", "", "read declarations from the named YAML `file` instead of Go source")
	fixImports   = flag.Bool("imports", true, "copy the imports of the source files and remove unused ones")
	verbose      = flag.Bool("v", false, "log each expanded declaration")
)

// Usage is a replacement usage function for the flags package.
func Usage() {
	fmt.Fprintf(os.Stderr, "Usage of countedarray:\n")
	fmt.Fprintf(os.Stderr, "\tcountedarray [flags] # Must be run from a package directory\n")
	fmt.Fprintf(os.Stderr, "\tcountedarray [flags] directory\n")
	fmt.Fprintf(os.Stderr, "\tcountedarray [flags] files... # Must be a single package\n")
	fmt.Fprintf(os.Stderr, "\tcountedarray [flags] -manifest tables.yaml\n")
	fmt.Fprintf(os.Stderr, "For more information, see:\n")
	fmt.Fprintf(os.Stderr, "\thttps://pkg.go.dev/github.com/emabrey/countedarray/cmd/countedarray\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("countedarray: ")
	flag.Usage = Usage
	flag.Parse()

	// We accept either one directory or a list of files. Which do we have?
	args := flag.Args()
	if *manifestFile != "" && len(args) > 0 {
		flag.Usage()
		os.Exit(2)
	}
	if len(args) == 0 {
		// Default: process whole package in current directory.
		args = []string{"."}
	}

	var tags []string
	if len(*buildTags) > 0 {
		tags = strings.Split(*buildTags, ",")
	}

	logf := func(string, ...any) {}
	if *verbose {
		logf = log.Printf
	}

	var (
		files []*outputFile
		err   error
	)
	if *manifestFile != "" {
		files, err = generateManifest(*manifestFile, *fixImports, logf)
	} else {
		files, err = generatePackages(loadPackages(args, tags, logf), *fixImports, logf)
	}
	if err != nil {
		scanner.PrintError(os.Stderr, err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logf("no declarations found")
		return
	}

	if *output != "" {
		if len(files) > 1 {
			log.Fatalf("-output cannot be used when %d files are generated", len(files))
		}
		files[0].name = *output
	}
	for _, f := range files {
		if err := os.WriteFile(f.name, f.src, 0o644); err != nil {
			log.Fatalf("writing output: %s", err)
		}
	}
}

// outputFile is a generated file and the name it is written to.
type outputFile struct {
	name string
	src  []byte
}

// Package holds the files of one package variant that may carry
// directives.
type Package struct {
	name  string
	dir   string
	scope string // package path; a package and its in-package tests share it
	test  bool   // the files are _test.go files
	fset  *token.FileSet
	files []*ast.File

	importNames map[string]string // import path to package name
}

// loadPackages parses the single package specified by the patterns,
// including its test variants.
func loadPackages(patterns, tags []string, logf func(format string, args ...any)) []*Package {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedImports | packages.NeedDeps | packages.NeedSyntax,
		// Directives in test files are written to test files.
		Tests:      true,
		BuildFlags: []string{fmt.Sprintf("-tags=%s", strings.Join(tags, " "))},
		Logf:       logf,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		log.Fatal(err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		os.Exit(1)
	}

	var out []*Package
	for _, pkg := range pkgs {
		if strings.HasSuffix(pkg.ID, ".test") {
			// The synthesized test main.
			continue
		}
		// Test variants ("p [p.test]") repeat the package's own files.
		variant := strings.Contains(pkg.ID, " [")
		p := &Package{
			name:        pkg.Name,
			scope:       pkg.PkgPath,
			test:        variant,
			fset:        pkg.Fset,
			importNames: make(map[string]string),
		}
		for ipath, imp := range pkg.Imports {
			if imp.Name != "" {
				p.importNames[ipath] = imp.Name
			}
		}
		for _, file := range pkg.Syntax {
			filename := pkg.Fset.Position(file.Package).Filename
			if !slices.Contains(pkg.GoFiles, filename) {
				// Generated by cgo.
				continue
			}
			if variant != strings.HasSuffix(filename, "_test.go") || ast.IsGenerated(file) {
				continue
			}
			if p.dir == "" {
				p.dir = filepath.Dir(filename)
			}
			p.files = append(p.files, file)
		}
		if len(p.files) == 0 {
			continue
		}
		slices.SortFunc(p.files, func(x, y *ast.File) int {
			return strings.Compare(p.fset.Position(x.Package).Filename, p.fset.Position(y.Package).Filename)
		})
		logf("%s: %d files", pkg.ID, len(p.files))
		out = append(out, p)
	}
	return out
}

// outputName returns the default name of the file generated for pkg.
func (pkg *Package) outputName() string {
	base := strings.ToLower(pkg.name) + "_countedarray"
	if pkg.test {
		base += "_test"
	}
	return filepath.Join(pkg.dir, base+".go")
}

// generatePackages generates one file per package holding directives.
// Diagnostics from all packages are returned together as a
// [scanner.ErrorList]; no file is returned unless every package is free of
// them.
func generatePackages(pkgs []*Package, fix bool, logf func(format string, args ...any)) ([]*outputFile, error) {
	var (
		eg   errgroup.Group
		gens = make([]*Generator, len(pkgs))
	)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, pkg := range pkgs {
		eg.Go(func() error {
			g := newGenerator(pkg.name, logf)
			gens[i] = g
			for _, file := range pkg.files {
				ds := directive.Find(pkg.fset, file)
				if len(ds) == 0 {
					continue
				}
				var imps []importSpec
				if fix {
					imps = fileImports(pkg.fset, file, pkg.importNames)
				}
				for _, d := range ds {
					req, err := countedarray.Parse(d.Text, d.Origin)
					if err != nil {
						g.errorf(err)
						continue
					}
					g.expand(req, imps)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// The in-package test files are compiled with the package's own
	// files, so their declarations share one scope.
	for i, pkg := range pkgs {
		if !pkg.test {
			continue
		}
		for j, other := range pkgs {
			if other.test || other.scope != pkg.scope || other.name != pkg.name {
				continue
			}
			for _, d := range gens[i].decls {
				if prev, ok := gens[j].byName[d.Name]; ok {
					gens[i].errs.Add(d.Pos, fmt.Sprintf("%s redeclared; other declaration at %s", d.Name, prev.Pos))
				}
			}
		}
	}

	var all scanner.ErrorList
	for _, g := range gens {
		all = append(all, g.errs...)
	}
	if len(all) > 0 {
		all.Sort()
		return nil, all
	}

	var out errgroup.Group
	out.SetLimit(runtime.GOMAXPROCS(0))
	files := make([]*outputFile, len(pkgs))
	for i, g := range gens {
		if len(g.decls) == 0 {
			continue
		}
		out.Go(func() error {
			name := pkgs[i].outputName()
			if err := g.generate(); err != nil {
				return err
			}
			src, err := g.format(name, fix)
			if err != nil {
				return err
			}
			files[i] = &outputFile{name: name, src: src}
			return nil
		})
	}
	if err := out.Wait(); err != nil {
		return nil, err
	}
	return slices.DeleteFunc(files, func(f *outputFile) bool { return f == nil }), nil
}

// generateManifest generates the file described by a manifest.
func generateManifest(filename string, fix bool, logf func(format string, args ...any)) ([]*outputFile, error) {
	m, err := manifest.Load(filename)
	if err != nil {
		return nil, err
	}
	g := newGenerator(m.Package, logf)
	for _, req := range m.Requests {
		g.expand(req, nil)
	}
	if len(g.errs) > 0 {
		g.errs.Sort()
		return nil, g.errs
	}
	if len(g.decls) == 0 {
		return nil, nil
	}
	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + "_countedarray.go"
	if err := g.generate(); err != nil {
		return nil, err
	}
	src, err := g.format(name, fix)
	if err != nil {
		return nil, err
	}
	return []*outputFile{{name: name, src: src}}, nil
}

// Generator holds the state of the analysis. Primarily used to buffer
// the output for format.Source.
type Generator struct {
	buf bytes.Buffer // Accumulated output.

	pkgName   string
	args      []string // command line recorded in the header
	imports   []importSpec
	imported  map[string]importSpec // by local name
	conflicts map[token.Position]bool
	decls     []*countedarray.Decl
	byName    map[string]*countedarray.Decl
	errs      scanner.ErrorList

	logf func(format string, args ...any) // progress logging; may be nil
}

type importSpec struct {
	name    string // explicit local name, or ""
	pkgName string // name of the imported package, or "" if unknown
	path    string
	pos     token.Position
}

func newGenerator(pkgName string, logf func(format string, args ...any)) *Generator {
	return &Generator{
		pkgName:   pkgName,
		args:      os.Args[1:],
		imported:  make(map[string]importSpec),
		conflicts: make(map[token.Position]bool),
		byName:    make(map[string]*countedarray.Decl),
		logf:      logf,
	}
}

func (g *Generator) Printf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

// errorf records err, which may be a [scanner.ErrorList].
func (g *Generator) errorf(err error) {
	var list scanner.ErrorList
	if errors.As(err, &list) {
		g.errs = append(g.errs, list...)
		return
	}
	g.errs.Add(token.Position{}, err.Error())
}

// expand expands req and records the declaration, rejecting a second
// declaration of the same name. The imports of the file holding req are
// given in imps; those its values refer to are added to the output.
func (g *Generator) expand(req *countedarray.Request, imps []importSpec) {
	d, err := countedarray.Expand(req)
	if err != nil {
		g.errorf(err)
		return
	}
	if prev, ok := g.byName[d.Name]; ok {
		g.errs.Add(d.Pos, fmt.Sprintf("%s redeclared; other declaration at %s", d.Name, prev.Pos))
		return
	}
	g.byName[d.Name] = d
	if g.logf != nil {
		g.logf("%s: %s %s %s", d.Pos, d.Kind, d.Name, d.Type())
	}
	g.decls = append(g.decls, d)
	if len(imps) > 0 {
		g.useImports(d, imps)
	}
}

// useImports adds the imports among imps that d refers to. A name bound
// to different paths by the files of two declarations is reported.
func (g *Generator) useImports(d *countedarray.Decl, imps []importSpec) {
	for _, name := range qualifiers(d) {
		i := slices.IndexFunc(imps, func(imp importSpec) bool { return imp.local() == name })
		if i < 0 {
			continue
		}
		imp := imps[i]
		prev, ok := g.imported[name]
		switch {
		case !ok:
			g.imported[name] = imp
			g.imports = append(g.imports, imp)
		case prev.path != imp.path && !g.conflicts[imp.pos]:
			g.conflicts[imp.pos] = true
			g.errs.Add(imp.pos, fmt.Sprintf("%s imported as %s conflicts with %s imported at %s", imp.path, name, prev.path, prev.pos))
		}
	}
}

// qualifiers returns the identifiers that qualify a selector in the type
// or values of d, in order of first appearance. Some of them name
// imported packages.
func qualifiers(d *countedarray.Decl) []string {
	expr, err := parser.ParseExpr(d.Literal())
	if err != nil {
		// The type and values were parsed when the request was made.
		panic(err)
	}
	var names []string
	ast.Inspect(expr, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok && !slices.Contains(names, id.Name) {
				names = append(names, id.Name)
			}
		}
		return true
	})
	return names
}

// fileImports returns the imports of file. Blank and dot imports are
// skipped. The names of the imported packages are taken from names, keyed
// by import path.
func fileImports(fset *token.FileSet, file *ast.File, names map[string]string) []importSpec {
	var imps []importSpec
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := importSpec{path: p, pkgName: names[p], pos: fset.Position(spec.Pos())}
		if spec.Name != nil {
			imp.name = spec.Name.Name
		}
		if imp.name == "_" || imp.name == "." {
			continue
		}
		imps = append(imps, imp)
	}
	return imps
}

// local returns the name under which imp is referred to.
func (imp importSpec) local() string {
	switch {
	case imp.name != "":
		return imp.name
	case imp.pkgName != "":
		return imp.pkgName
	}
	return assumedName(imp.path)
}

// assumedName returns the package name conventionally used for path when
// the package itself is not known, following goimports: the last element,
// skipping a major version suffix and a go- prefix, up to the first
// character that cannot appear in an identifier.
func assumedName(p string) string {
	dir, base := path.Split(p)
	if dir != "" && len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		base = path.Base(dir)
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	}); i >= 0 {
		base = base[:i]
	}
	return base
}

// generate writes the file holding every recorded declaration.
func (g *Generator) generate() error {
	// Print the header and package clause.
	g.Printf("// Code generated by \"countedarray %s\"; DO NOT EDIT.\n", strings.Join(g.args, " "))
	g.Printf("\n")
	g.Printf("package %s", g.pkgName)
	g.Printf("\n")

	switch len(g.imports) {
	case 0:
	case 1:
		g.Printf("\nimport %s\n", g.imports[0])
	default:
		g.Printf("\nimport (\n")
		for _, imp := range g.imports {
			g.Printf("\t%s\n", imp)
		}
		g.Printf(")\n")
	}

	for _, d := range g.decls {
		g.Printf("\n")
		if _, err := d.WriteTo(&g.buf); err != nil {
			return err
		}
	}
	return nil
}

func (imp importSpec) String() string {
	// Name the import when the package name is not the one its path
	// suggests, as goimports does.
	if name := imp.local(); name != assumedName(imp.path) || imp.name != "" {
		return name + " " + strconv.Quote(imp.path)
	}
	return strconv.Quote(imp.path)
}

// format returns the gofmt-ed contents of the Generator's buffer. With fix
// set, unused imports are removed and missing ones added.
func (g *Generator) format(filename string, fix bool) ([]byte, error) {
	if fix {
		src, err := imports.Process(filename, g.buf.Bytes(), &imports.Options{
			Comments:  true,
			TabIndent: true,
			TabWidth:  8,
		})
		if err != nil {
			return nil, fmt.Errorf("fixing imports of %s: %w", filename, err)
		}
		return src, nil
	}
	src, err := format.Source(g.buf.Bytes())
	if err != nil {
		// Should never happen, but can arise when developing this code.
		// The user can compile the output to see the error.
		log.Printf("warning: internal error: invalid Go generated: %s", err)
		log.Printf("warning: compile the package to analyze the error")
		return g.buf.Bytes(), nil
	}
	return src, nil
}
