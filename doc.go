// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package countedarray expands counted array declarations.
//
// A counted declaration names a fixed-size array whose length is left as
// the placeholder _ and is computed from the number of initializer
// expressions:
//
//	//countedarray:var quad [_]byte{1, 2, 3, 4}
//
// expands to
//
//	var quad = [4]byte{1, 2, 3, 4}
//
// The literal part of a declaration is ordinary Go syntax, so whitespace
// and a trailing comma after the last element are accepted and do not
// affect the count. An empty list yields a zero-length array.
//
// The optional pub keyword requests an exported declaration; since Go
// encodes visibility in the case of an identifier, the expander upper-cases
// the first letter of the name. Without pub the name is emitted as written
// and must not be exported.
//
// Go has no constant arrays. A const declaration therefore expands to a
// function returning the array value:
//
//	//countedarray:pub const primes [_]int{2, 3, 5, 7}
//
// expands to
//
//	func Primes() [4]int {
//		return [4]int{2, 3, 5, 7}
//	}
//
// Parse turns the text of a directive into a [Request], NewRequest builds one
// from separate pieces, and Expand counts its values and produces the
// [Decl] to be written into a generated file. The cmd/countedarray command
// drives these from go generate.
package countedarray
