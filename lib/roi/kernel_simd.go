// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package roi

// simdGroup is the number of pixels packed into one SWAR register (a
// uint32, one byte per lane). simdLanes is the number of pixels the
// SIMD kernel processes per outer iteration: four such groups, matching
// a 128-bit-vector budget of four packed bytes per lane.
const (
	simdGroup = 4
	simdLanes = 16
)

// encodeSIMD is the SIMD-shaped counterpart to encodeScalar. It processes
// pixels sixteen at a time, falling back to the scalar kernel for the
// final partial window and for any 16-pixel window that cannot be
// encoded branchlessly (an alpha change, for channels=4, or any
// individual zero-diff pixel — see the correctness note below).
func encodeSIMD(dst []byte, cursor int, pixels []byte, channels uint8, st *encoderState) int {
	ensureCompactTables()

	n := len(pixels) / int(channels)
	i := 0
	for i < n {
		if n-i < simdLanes {
			return encodeScalar(dst, cursor, pixels[i*int(channels):], channels, st)
		}

		chunk := pixels[i*int(channels) : (i+simdLanes)*int(channels)]
		if newCursor, ok := trySIMDWindow(dst, cursor, chunk, channels, st); ok {
			cursor = newCursor
		} else {
			cursor = encodeScalar(dst, cursor, chunk, channels, st)
		}
		i += simdLanes
	}
	return cursor
}

// simdGroupDiff holds one group's worth (four pixels) of diffs, each
// packed one byte per lane into a uint32 — the SWAR analogue of a
// 4-lane vector register.
type simdGroupDiff struct {
	vg, vgR, vgB uint32
}

// loadGroupDiff reads four consecutive pixels starting at chunk pixel
// index base, planarizes them into per-channel packed words (an R
// word, a G word, a B word, an A word, one byte per lane), and forms
// each lane's predecessor word by shifting the group's own channel word
// up by one lane and feeding prev's channel value into the vacated low
// lane — the SWAR equivalent of an unaligned vector load that pulls in
// the previous pixel. It returns the group's vectorized diff, the
// group's per-lane alpha diff (for the caller's alpha-change check), the
// group's raw alpha word, and the last pixel of the group (the new prev
// for the next group).
func loadGroupDiff(chunk []byte, base int, channels uint8, prev pixel) (simdGroupDiff, uint32, uint32, pixel) {
	var curR, curG, curB, curA uint32
	var last pixel
	for lane := 0; lane < simdGroup; lane++ {
		p := readPixel(chunk, base+lane, channels)
		shift := uint(8 * lane)
		curR |= uint32(p.r) << shift
		curG |= uint32(p.g) << shift
		curB |= uint32(p.b) << shift
		curA |= uint32(p.a) << shift
		last = p
	}

	predR := (curR << 8) | uint32(prev.r)
	predG := (curG << 8) | uint32(prev.g)
	predB := (curB << 8) | uint32(prev.b)
	predA := (curA << 8) | uint32(prev.a)

	vr := subBytesWrap(curR, predR)
	vg := subBytesWrap(curG, predG)
	vb := subBytesWrap(curB, predB)

	d := simdGroupDiff{
		vg:  vg,
		vgR: subBytesWrap(vr, vg),
		vgB: subBytesWrap(vb, vg),
	}
	alphaDiff := subBytesWrap(curA, predA)
	return d, alphaDiff, curA, last
}

// trySIMDWindow attempts to encode one 16-pixel window branchlessly. It
// reports ok=false when the window contains anything the branchless path
// cannot safely handle, in which case the caller must fall back to
// encodeScalar for the same chunk — the window's state has not been
// mutated in that case.
//
// A pixel whose diff against its predecessor is exactly zero must never
// be encoded via the branchless color-op path (it would wrongly encode
// as a literal LUMA232 zero-diff byte instead of contributing to a
// run). This implementation enforces that by requiring every lane in
// the window to have a nonzero diff before taking the branchless path
// at all — any window containing even one zero-diff lane, or (for
// channels=4) any alpha change, is deferred to encodeScalar in its
// entirety. The contract this satisfies is scalar equivalence, not
// maximum SIMD coverage, so this coarser-grained fallback is fine
// without per-lane branch code.
func trySIMDWindow(dst []byte, cursor int, chunk []byte, channels uint8, st *encoderState) (int, bool) {
	var groups [simdLanes / simdGroup]simdGroupDiff

	prev := st.prev
	allZero := true
	anyZero := false
	alphaChanged := false

	for gi := range groups {
		d, alphaDiff, _, last := loadGroupDiff(chunk, gi*simdGroup, channels, prev)
		groups[gi] = d

		if channels == 4 && alphaDiff != 0 {
			alphaChanged = true
		}
		combined := d.vg | d.vgR | d.vgB
		zeroMask := isZeroByteMask(combined)
		if zeroMask != 0xFFFFFFFF {
			allZero = false
		}
		if zeroMask != 0 {
			anyZero = true
		}
		prev = last
	}

	// The whole window repeats the previous pixel: fold it into the run.
	if allZero && !alphaChanged {
		st.run += simdLanes
		st.prev = prev
		return cursor, true
	}
	if alphaChanged || anyZero {
		return cursor, false
	}

	cursor = flushRun(dst, cursor, &st.run)
	for gi := range groups {
		cursor = encodeGroupSIMD(dst, cursor, groups[gi])
	}
	st.prev = prev
	return cursor, true
}

// classifyAndPack derives, for all four lanes of d at once, the mask
// vectors that pick out which opcode family each lane belongs to
// (saturated-comparison bit-hacks rather than a per-lane branch), packs
// each lane's diff into every candidate opcode's bit layout in
// parallel, and blends the winning candidate into shared output-byte
// accumulators using the mask vectors. It returns four packed-byte
// words (one output byte position per word, one lane per byte) and a
// packed word of per-lane opcode lengths.
func classifyAndPack(d simdGroupDiff) (b0, b1, b2, b3, lens uint32) {
	arb := absUnsignedBytes(d.vgR) | absUnsignedBytes(d.vgB)
	ag := absUnsignedBytes(d.vg)

	m232 := expandMask(hasLessThanBytes(arb, 2) & hasLessThanBytes(ag, 4))
	m464 := expandMask(hasLessThanBytes(arb, 8)&hasLessThanBytes(ag, 32)) &^ m232
	m777 := expandMask(hasLessThanBytes(arb|ag, 64)) &^ (m232 | m464)
	mRGB := ^(m232 | m464 | m777)

	// LUMA232: one byte, (vb<<6)|(vr<<4)|(vg<<1)|tag(0).
	vg232 := addBytesWrap(d.vg, bcast(biasLuma232Green)) & bcast(0x07)
	vr232 := addBytesWrap(d.vgR, bcast(biasLuma232RB)) & bcast(0x03)
	vb232 := addBytesWrap(d.vgB, bcast(biasLuma232RB)) & bcast(0x03)
	byte232 := (vb232 << 6) | (vr232 << 4) | (vg232 << 1)

	// LUMA464: two bytes, (vg<<2)|tag then vr|(vb<<4).
	vg464 := addBytesWrap(d.vg, bcast(biasLuma464Green)) & bcast(0x3F)
	vr464 := addBytesWrap(d.vgR, bcast(biasLuma464RB)) & bcast(0x0F)
	vb464 := addBytesWrap(d.vgB, bcast(biasLuma464RB)) & bcast(0x0F)
	byte464_0 := (vg464 << 2) | bcast(tagLuma464Value)
	byte464_1 := vr464 | (vb464 << 4)

	// LUMA777: three bytes assembled from three 7-bit biased fields
	// whose bit boundaries straddle the byte layout; see kernel_scalar.go
	// and decoder.go's matching extraction for the same layout.
	vg777 := addBytesWrap(d.vg, bcast(biasLuma777)) & bcast(0x7F)
	vr777 := addBytesWrap(d.vgR, bcast(biasLuma777)) & bcast(0x7F)
	vb777 := addBytesWrap(d.vgB, bcast(biasLuma777)) & bcast(0x7F)
	byte777_0 := ((vg777 & bcast(0x1F)) << 3) | bcast(tagLuma777Value)
	byte777_1 := ((vg777 >> 5) & bcast(0x03)) | ((vr777 & bcast(0x3F)) << 2)
	byte777_2 := ((vr777 >> 6) & bcast(0x01)) | (vb777 << 1)

	// RGB: four bytes, the tag then the three raw (unbiased) diffs.
	byteRGB0 := bcast(opRGB)

	b0 = (m232 & byte232) | (m464 & byte464_0) | (m777 & byte777_0) | (mRGB & byteRGB0)
	b1 = (m464 & byte464_1) | (m777 & byte777_1) | (mRGB & d.vg)
	b2 = (m777 & byte777_2) | (mRGB & d.vgR)
	b3 = mRGB & d.vgB

	lens = (m232 & bcast(1)) | (m464 & bcast(2)) | (m777 & bcast(3)) | (mRGB & bcast(4))
	return
}

// encodeGroupSIMD encodes one group's four diffs into dst using
// classifyAndPack's vectorized opcode selection, then gathers the live
// prefix of each lane's 4-byte slot to the front using the precomputed
// shuffle/length tables (branchless compaction).
func encodeGroupSIMD(dst []byte, cursor int, d simdGroupDiff) int {
	b0, b1, b2, b3, lensPacked := classifyAndPack(d)

	var flat [16]byte
	var lens [4]int
	for lane := 0; lane < simdGroup; lane++ {
		shift := uint(8 * lane)
		flat[lane*4+0] = byte(b0 >> shift)
		flat[lane*4+1] = byte(b1 >> shift)
		flat[lane*4+2] = byte(b2 >> shift)
		flat[lane*4+3] = byte(b3 >> shift)
		lens[lane] = int(byte(lensPacked >> shift))
	}

	key := compactKey(lens)
	total := int(compactLength[key])
	shuf := compactShuffle[key]
	for j := 0; j < total; j++ {
		dst[cursor+j] = flat[shuf[j]]
	}
	return cursor + total
}
