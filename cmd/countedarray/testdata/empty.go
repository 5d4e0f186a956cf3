// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Zero and one elements.

package main

//countedarray:var none [_]string{}
//countedarray:var one [_]string{"only"}
//countedarray:var oneComma [_]string{ "only" , }
//countedarray:const noneConst [_]float64{}

func main() {
	if len(none) != 0 {
		panic("empty.go: none")
	}
	if len(noneConst()) != 0 {
		panic("empty.go: noneConst")
	}
	if one != [1]string{"only"} || oneComma != one {
		panic("empty.go: one")
	}
}
