// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Exported declarations of both kinds.

package main

//countedarray:pub const constArr [_]int32{1, 2, 3}
//countedarray:pub var staticArr [_]int32{7, 8, 9, 10}

func main() {
	if got := ConstArr(); got != [3]int32{1, 2, 3} {
		panic("public.go: ConstArr")
	}
	if StaticArr != [4]int32{7, 8, 9, 10} {
		panic("public.go: StaticArr")
	}

	// Each call returns a fresh value.
	a := ConstArr()
	a[0] = 100
	if ConstArr()[0] != 1 {
		panic("public.go: ConstArr shares storage")
	}

	// There is one StaticArr.
	p := &StaticArr
	p[0] = 70
	if StaticArr[0] != 70 {
		panic("public.go: StaticArr is not a variable")
	}
}
