// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Multi-line directives, composite elements and imported names.

package main

import (
	"fmt"
	"strings"
	"time"
)

type point struct{ x, y int }

func double(x int) int { return 2 * x }
func negate(x int) int { return -x }

//countedarray:var corners [_]point{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

//countedarray:var delays [_]time.Duration{
//	time.Millisecond,
//	time.Second,
//	time.Minute,
//}

//countedarray:var ops [_]func(int) int{double, negate, double,}

//countedarray:var squares [_]int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81, 100, 121, 144, 169, 196, 225, 256, 289}

func main() {
	if len(corners) != 4 || corners[3] != (point{1, 1}) {
		panic("tables.go: corners")
	}
	if len(delays) != 3 || delays[2] != time.Minute {
		panic("tables.go: delays")
	}
	var results []string
	for _, op := range ops {
		results = append(results, fmt.Sprint(op(3)))
	}
	if got := strings.Join(results, " "); got != "6 -3 6" {
		panic("tables.go: ops = " + got)
	}
	if len(squares) != 18 {
		panic("tables.go: squares")
	}
	for i, sq := range squares {
		if sq != i*i {
			panic(fmt.Sprintf("tables.go: squares[%d] = %d", i, sq))
		}
	}
}
