// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package roi

import (
	"fmt"
	"io"
)

// defaultWindow is a power-of-two pixel count convenient for SIMD
// alignment. It has no observable effect on the emitted bytes; any
// positive window size produces the same output.
const defaultWindow = 131072

// EncodeOptions are optional arguments to Encode. The zero value selects
// the Scalar codepath with the default window size.
type EncodeOptions struct {
	// Codepath selects which kernel produces the opcode stream.
	Codepath Codepath

	// LUT must be non-nil when Codepath is LUT. Encode never builds this
	// table itself; call BuildLUT once and reuse it across calls.
	LUT *LUTTable

	// Window is the number of pixels processed per kernel invocation.
	// Zero means defaultWindow. Purely an implementation detail: it has
	// no effect on the emitted bytes.
	Window int
}

func (o EncodeOptions) window() int {
	if o.Window <= 0 {
		return defaultWindow
	}
	return o.Window
}

// Encode encodes pixels (a tightly packed, row-major buffer with
// desc.Channels bytes per pixel) into a complete ROI stream: header,
// opcodes, end marker.
func Encode(pixels []byte, desc Descriptor, opts EncodeOptions) ([]byte, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("roi: Encode: %w", err)
	}
	want := int(desc.PixelCount()) * int(desc.Channels)
	if len(pixels) != want {
		return nil, fmt.Errorf("roi: Encode: %w: pixel buffer has %d bytes, want %d", ErrBadDescriptor, len(pixels), want)
	}
	if opts.Codepath == LUT && opts.LUT == nil {
		return nil, fmt.Errorf("roi: Encode: %w", ErrMissingLUT)
	}

	size, err := WorstCaseSize(desc)
	if err != nil {
		return nil, fmt.Errorf("roi: Encode: %w", err)
	}
	dst := make([]byte, size)
	writeHeader(dst, desc)
	cursor := HeaderSize

	st := newEncoderState()
	window := opts.window()
	for off := 0; off < len(pixels); off += window * int(desc.Channels) {
		end := off + window*int(desc.Channels)
		if end > len(pixels) {
			end = len(pixels)
		}
		chunk := pixels[off:end]
		switch opts.Codepath {
		case SIMD:
			cursor = encodeSIMD(dst, cursor, chunk, desc.Channels, &st)
		case LUT:
			cursor = encodeLUT(dst, cursor, chunk, desc.Channels, &st, opts.LUT)
		default:
			cursor = encodeScalar(dst, cursor, chunk, desc.Channels, &st)
		}
	}

	cursor = flushRun(dst, cursor, &st.run)
	cursor += copy(dst[cursor:], EndMarker[:])

	return dst[:cursor], nil
}

// StreamEncoder writes an ROI stream to an io.Writer incrementally, one
// batch of raw pixel rows at a time, so a caller need not hold the whole
// image in memory.
type StreamEncoder struct {
	w       io.Writer
	desc    Descriptor
	opts    EncodeOptions
	st      encoderState
	scratch []byte
	written uint64
	total   uint64
	closed  bool
}

// NewStreamEncoder validates desc and opts and writes the 14-byte header
// to w.
func NewStreamEncoder(w io.Writer, desc Descriptor, opts EncodeOptions) (*StreamEncoder, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("roi: NewStreamEncoder: %w", err)
	}
	if opts.Codepath == LUT && opts.LUT == nil {
		return nil, fmt.Errorf("roi: NewStreamEncoder: %w", ErrMissingLUT)
	}
	hdr := make([]byte, HeaderSize)
	writeHeader(hdr, desc)
	if _, err := w.Write(hdr); err != nil {
		return nil, err
	}
	return &StreamEncoder{
		w:     w,
		desc:  desc,
		opts:  opts,
		st:    newEncoderState(),
		total: desc.PixelCount(),
	}, nil
}

// Write encodes pixels (a whole number of pixels' worth of bytes) and
// writes the resulting opcodes to the underlying writer.
func (e *StreamEncoder) Write(pixels []byte) (int, error) {
	channels := int(e.desc.Channels)
	if len(pixels)%channels != 0 {
		return 0, fmt.Errorf("roi: StreamEncoder.Write: %w: length not a multiple of %d", ErrBadDescriptor, channels)
	}
	worst := 6
	if e.desc.Channels == 3 {
		worst = 4
	}
	n := len(pixels) / channels
	// A run that spans several Write calls only grows (no bytes are
	// emitted for matching pixels), so the buffer must have room to
	// flush the whole thing, not just this call's own pixels.
	runFlushWorst := (e.st.run+n)/maxRunPerByte + 2
	need := n*worst + runFlushWorst + 64
	if cap(e.scratch) < need {
		e.scratch = make([]byte, need)
	}
	buf := e.scratch[:need]

	var cursor int
	switch e.opts.Codepath {
	case SIMD:
		cursor = encodeSIMD(buf, 0, pixels, e.desc.Channels, &e.st)
	case LUT:
		cursor = encodeLUT(buf, 0, pixels, e.desc.Channels, &e.st, e.opts.LUT)
	default:
		cursor = encodeScalar(buf, 0, pixels, e.desc.Channels, &e.st)
	}
	e.written += uint64(len(pixels) / channels)

	if _, err := e.w.Write(buf[:cursor]); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Close flushes any pending run and writes the end marker. It must be
// called exactly once, after all pixels have been written.
func (e *StreamEncoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if e.written != e.total {
		return fmt.Errorf("roi: StreamEncoder.Close: %w: wrote %d pixels, want %d", ErrBadDescriptor, e.written, e.total)
	}
	tail := make([]byte, e.st.run/maxRunPerByte+2+len(EndMarker))
	cursor := flushRun(tail, 0, &e.st.run)
	cursor += copy(tail[cursor:], EndMarker[:])
	_, err := e.w.Write(tail[:cursor])
	return err
}
