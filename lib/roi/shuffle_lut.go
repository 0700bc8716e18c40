// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package roi

import "sync"

// compactShuffle and compactLength implement the branchless compaction
// step of the SIMD kernel: given four pixels each encoded into its own
// 4-byte slot, but only the first N bytes of each slot "live" (N being
// that pixel's opcode length, 1..4), the entry for key packs a shuffle
// vector that gathers the live bytes of all four pixels to the front of
// a 16-byte scratch buffer, and compactLength[key] is the total number
// of live bytes.
//
// key encodes the four lengths, each biased by -1 into 2 bits: bits
// [1:0] = len(pixel0)-1, [3:2] = len(pixel1)-1, [5:4] = len(pixel2)-1,
// [7:6] = len(pixel3)-1.
//
// This table is built once, on first use, instead of checked in as a literal,
// the way a real shuffle-instruction lookup table would be generated
// from its packing rule rather than hand-transcribed.
var (
	compactShuffle [256][16]byte
	compactLength  [256]uint8

	initCompactOnce sync.Once
)

func initCompactTables() {
	for key := 0; key < 256; key++ {
		lens := [4]int{
			(key & 3) + 1,
			((key >> 2) & 3) + 1,
			((key >> 4) & 3) + 1,
			((key >> 6) & 3) + 1,
		}
		written := 0
		for lane, n := range lens {
			base := lane * 4
			for b := 0; b < n; b++ {
				compactShuffle[key][written] = byte(base + b)
				written++
			}
		}
		compactLength[key] = uint8(written)
	}
}

func compactKey(lens [4]int) int {
	return (lens[0] - 1) | ((lens[1] - 1) << 2) | ((lens[2] - 1) << 4) | ((lens[3] - 1) << 6)
}

// ensureCompactTables builds the tables on first use. The SIMD codepath
// is opt-in, so paying the table-build cost only when SIMD is actually
// selected keeps Scalar- and LUT-only callers from filling them in. The
// arrays themselves are package-level variables and exist either way.
func ensureCompactTables() {
	initCompactOnce.Do(initCompactTables)
}
