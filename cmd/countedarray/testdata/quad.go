// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Trailing commas and spacing do not change the count.

package main

import "fmt"

//countedarray:var quad [_]byte{1,2,3,4}
//countedarray:var quadComma [_]byte{1,2,3,4,}
//countedarray:var quadSpaced [_]byte{1 , 2 , 3 , 4}
//countedarray:var quadBoth [_]byte{1 , 2 , 3 , 4, }

func main() {
	want := [4]byte{1, 2, 3, 4}
	ck("quad", quad, want)
	ck("quadComma", quadComma, want)
	ck("quadSpaced", quadSpaced, want)
	ck("quadBoth", quadBoth, want)
}

func ck(name string, got, want [4]byte) {
	if len(got) != 4 || got != want {
		panic(fmt.Sprintf("quad.go: %s = %v, want %v", name, got, want))
	}
}
