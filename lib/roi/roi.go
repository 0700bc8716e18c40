// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package roi implements the ROI lossless image codec: a byte-oriented
// stream format derived from QOI (the "Quite OK Image" format) that
// deliberately diverges in its opcode set and byte order to admit
// efficient vectorised implementations on little-endian hardware.
//
// ROI encodes a sequence of RGB or RGBA pixels as a run of variable-length
// opcodes describing the difference from the previously emitted pixel.
// There is no palette, no compression pass beyond the diff coding itself,
// and no support for lossy encoding.
package roi

import "errors"

var (
	ErrBadDescriptor       = errors.New("roi: bad descriptor")
	ErrOversizeImage       = errors.New("roi: image exceeds pixel guard")
	ErrInvalidHeader       = errors.New("roi: invalid header")
	ErrTruncatedStream     = errors.New("roi: truncated stream")
	ErrMissingLUT          = errors.New("roi: LUT codepath requires a non-nil LUT")
	ErrUnsupportedChannels = errors.New("roi: channels must be 3 or 4")
)

// Codepath selects which encoder kernel produces the opcode stream. All
// three codepaths must emit byte-identical output for the same input; the
// choice only affects encoding speed.
type Codepath int

const (
	// Scalar processes one pixel at a time. It is the reference
	// implementation that the other two codepaths are checked against.
	Scalar Codepath = iota

	// SIMD processes pixels sixteen at a time using SIMD-within-a-register
	// techniques (see kernel_simd.go).
	SIMD

	// LUT looks up the encoded byte sequence for each pixel's (vg_r, vg,
	// vg_b) triple in a precomputed table supplied by the caller.
	LUT
)

func (c Codepath) String() string {
	switch c {
	case Scalar:
		return "scalar"
	case SIMD:
		return "simd"
	case LUT:
		return "lut"
	}
	return "unknown"
}

// pixel is an ordered (r, g, b, a) tuple. Alpha is un-premultiplied.
type pixel struct {
	r, g, b, a byte
}

var seedPixel = pixel{r: 0, g: 0, b: 0, a: 255}

func (p pixel) equalRGB(q pixel) bool {
	return p.r == q.r && p.g == q.g && p.b == q.b
}

func (p pixel) equal(q pixel) bool {
	return p == q
}

// diff holds the signed, wraparound-subtracted component differences used
// by every codepath's opcode selection.
type diff struct {
	vg, vgR, vgB int8
}

func computeDiff(prev, cur pixel) diff {
	vr := int8(cur.r - prev.r)
	vg := int8(cur.g - prev.g)
	vb := int8(cur.b - prev.b)
	return diff{
		vg:  vg,
		vgR: vr - vg,
		vgB: vb - vg,
	}
}

// absUnsigned mirrors the C reference's `(v<0) ? (-v)-1 : v` trick: it
// folds a signed byte's two-sided range onto an unsigned one so the
// scalar, SIMD and LUT codepaths can share one range predicate.
func absUnsigned(v int8) uint8 {
	if v < 0 {
		return uint8(-v) - 1
	}
	return uint8(v)
}

// fitsLuma232 reports whether d can be encoded as a LUMA232 opcode.
func fitsLuma232(d diff) bool {
	arb := absUnsigned(d.vgR) | absUnsigned(d.vgB)
	ag := absUnsigned(d.vg)
	return arb < 2 && ag < 4
}

// fitsLuma464 reports whether d can be encoded as a LUMA464 opcode.
func fitsLuma464(d diff) bool {
	arb := absUnsigned(d.vgR) | absUnsigned(d.vgB)
	ag := absUnsigned(d.vg)
	return arb < 8 && ag < 32
}

// fitsLuma777 reports whether d can be encoded as a LUMA777 opcode.
func fitsLuma777(d diff) bool {
	arb := absUnsigned(d.vgR) | absUnsigned(d.vgB)
	ag := absUnsigned(d.vg)
	return (arb | ag) < 64
}
