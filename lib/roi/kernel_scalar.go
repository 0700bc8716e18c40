// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package roi

// readPixel returns the pixel at index i (not byte offset) of a tightly
// packed row-major buffer with the given channel count. For channels == 3,
// alpha is implicitly 255.
func readPixel(pixels []byte, i int, channels uint8) pixel {
	o := i * int(channels)
	if channels == 4 {
		return pixel{pixels[o], pixels[o+1], pixels[o+2], pixels[o+3]}
	}
	return pixel{pixels[o], pixels[o+1], pixels[o+2], 255}
}

// flushRun appends the opcodes needed to fully drain *run pending
// repetitions of the previous pixel: as many saturated (30-count) RUN
// bytes as needed, then one partial RUN byte if a remainder is left. It
// resets *run to zero and returns the advanced cursor.
func flushRun(dst []byte, cursor int, run *int) int {
	r := *run
	for r >= maxRunPerByte {
		dst[cursor] = runSaturated
		cursor++
		r -= maxRunPerByte
	}
	if r > 0 {
		dst[cursor] = byte(((r - 1) << 3) | tagRunValue)
		cursor++
	}
	*run = 0
	return cursor
}

// emitColorOp selects the smallest opcode whose range contains d and
// appends it to dst, returning the advanced cursor. The predicates are
// tried in a fixed order (LUMA232, LUMA464, LUMA777, RGB); the first that
// succeeds wins, per the format's minimality invariant.
func emitColorOp(dst []byte, cursor int, d diff) int {
	switch {
	case fitsLuma232(d):
		vg := uint8(d.vg + biasLuma232Green)
		vr := uint8(d.vgR + biasLuma232RB)
		vb := uint8(d.vgB + biasLuma232RB)
		dst[cursor] = (vb << 6) | (vr << 4) | (vg << 1) | tagLuma232Value
		return cursor + 1

	case fitsLuma464(d):
		vg := uint8(d.vg + biasLuma464Green)
		vr := uint8(d.vgR + biasLuma464RB)
		vb := uint8(d.vgB + biasLuma464RB)
		dst[cursor] = (vg << 2) | tagLuma464Value
		dst[cursor+1] = vr | (vb << 4)
		return cursor + 2

	case fitsLuma777(d):
		vg := uint32(uint8(d.vg + biasLuma777))
		vr := uint32(uint8(d.vgR + biasLuma777))
		vb := uint32(uint8(d.vgB + biasLuma777))
		packed := (vb << 17) | (vr << 10) | (vg << 3) | uint32(tagLuma777Value)
		dst[cursor] = byte(packed)
		dst[cursor+1] = byte(packed >> 8)
		dst[cursor+2] = byte(packed >> 16)
		return cursor + 3

	default:
		dst[cursor] = opRGB
		dst[cursor+1] = byte(d.vg)
		dst[cursor+2] = byte(d.vgR)
		dst[cursor+3] = byte(d.vgB)
		return cursor + 4
	}
}

// encoderState is the per-image state threaded across window-sized calls
// into a kernel: the previously emitted pixel and the count of pixels
// pending as a run that has not yet been turned into RUN opcodes.
type encoderState struct {
	prev pixel
	run  int
}

func newEncoderState() encoderState {
	return encoderState{prev: seedPixel}
}

// encodeScalar runs the reference one-pixel-at-a-time kernel over every
// pixel in the window: classify against the previous pixel, extend a
// run, or emit an RGBA/color opcode, appending bytes to dst starting at
// cursor. It returns the advanced cursor.
func encodeScalar(dst []byte, cursor int, pixels []byte, channels uint8, st *encoderState) int {
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
		cursor = emitColorOp(dst, cursor, d)
		st.prev = cur
	}
	return cursor
}
