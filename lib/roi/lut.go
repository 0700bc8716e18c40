// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package roi

import (
	"encoding/gob"
	"fmt"
	"io"
)

// lutEntry is the precomputed opcode bytes for one (vg, vgR, vgB) triple:
// exactly what emitColorOp would have written, and how many bytes of
// bytes are live.
type lutEntry struct {
	bytes [4]byte
	n     uint8
}

// LUTTable is the mega-LUT encoder codepath's lookup table: every one of the
// 256*256*256 possible (vg, vgR, vgB) byte-diff triples mapped directly
// to its encoded opcode bytes. Building one costs a 16,777,216-entry
// (roughly 80 MiB) allocation and a full sweep of emitColorOp, so
// BuildLUT is never called implicitly by Encode or StreamEncoder: a
// caller who selects the LUT codepath must build (or load) one up front
// and reuse it across calls.
type LUTTable struct {
	entries []lutEntry
}

// BuildLUT constructs a LUT by evaluating emitColorOp for every possible
// diff, once, in an ordinary Go function a caller invokes explicitly,
// rather than as a separate build-system code-generation step.
func BuildLUT() *LUTTable {
	lut := &LUTTable{entries: make([]lutEntry, 1<<24)}
	var slot [4]byte
	for vgR := -128; vgR < 128; vgR++ {
		for vg := -128; vg < 128; vg++ {
			for vgB := -128; vgB < 128; vgB++ {
				d := diff{vg: int8(vg), vgR: int8(vgR), vgB: int8(vgB)}
				n := emitColorOp(slot[:], 0, d)
				idx := lutIndex(d.vgR, d.vg, d.vgB)
				lut.entries[idx] = lutEntry{bytes: slot, n: uint8(n)}
			}
		}
	}
	return lut
}

// lutIndex maps a (vgR, vg, vgB) triple to its slot in LUTTable.entries.
func lutIndex(vgR, vg, vgB int8) uint32 {
	return uint32(uint8(vgR))<<16 | uint32(uint8(vg))<<8 | uint32(uint8(vgB))
}

// GobEncode implements gob.GobEncoder. LUTTable.entries is unexported, so the
// package encodes it explicitly (5 bytes per entry: 4 opcode bytes plus
// the live length) rather than relying on gob's reflection-based
// struct encoding, which only sees exported fields.
func (l *LUTTable) GobEncode() ([]byte, error) {
	buf := make([]byte, len(l.entries)*5)
	for i, e := range l.entries {
		copy(buf[i*5:i*5+4], e.bytes[:])
		buf[i*5+4] = e.n
	}
	return buf, nil
}

// GobDecode implements gob.GobDecoder, the inverse of GobEncode.
func (l *LUTTable) GobDecode(data []byte) error {
	if len(data)%5 != 0 {
		return fmt.Errorf("roi: LUT.GobDecode: %w: corrupt data", ErrBadDescriptor)
	}
	l.entries = make([]lutEntry, len(data)/5)
	for i := range l.entries {
		copy(l.entries[i].bytes[:], data[i*5:i*5+4])
		l.entries[i].n = data[i*5+4]
	}
	return nil
}

// LoadLUT reads a LUT previously written by cmd/roilutgen (or by calling
// gob.NewEncoder(w).Encode on the result of BuildLUT).
func LoadLUT(r io.Reader) (*LUTTable, error) {
	lut := &LUTTable{}
	if err := gob.NewDecoder(r).Decode(lut); err != nil {
		return nil, fmt.Errorf("roi: LoadLUT: %w", err)
	}
	return lut, nil
}

// encodeLUT is the LUT-driven counterpart to encodeScalar: identical run
// detection and RGBA handling, but the diff-to-opcode step is a table
// lookup instead of emitColorOp's range checks.
func encodeLUT(dst []byte, cursor int, pixels []byte, channels uint8, st *encoderState, lut *LUTTable) int {
	n := len(pixels) / int(channels)
	for i := 0; i < n; i++ {
		cur := readPixel(pixels, i, channels)

		matches := cur.equalRGB(st.prev)
		if channels == 4 {
			matches = cur.equal(st.prev)
		}
		if matches {
			st.run++
			continue
		}

		cursor = flushRun(dst, cursor, &st.run)

		if channels == 4 && cur.a != st.prev.a {
			dst[cursor] = opRGBA
			dst[cursor+1] = cur.a
			cursor += 2
		}

		d := computeDiff(st.prev, cur)
		e := lut.entries[lutIndex(d.vgR, d.vg, d.vgB)]
		copy(dst[cursor:cursor+int(e.n)], e.bytes[:e.n])
		cursor += int(e.n)
		st.prev = cur
	}
	return cursor
}
