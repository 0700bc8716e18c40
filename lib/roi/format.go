// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package roi

import "encoding/binary"

// Magic is the 4-byte prefix of every ROI stream.
const Magic = "roif"

// HeaderSize is the fixed size, in bytes, of the ROI header.
const HeaderSize = 14

// EndMarker is the fixed 8-byte trailer that closes every ROI stream.
var EndMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

// pixelGuard mirrors the reference implementation's pixel guard:
// height must satisfy height < 400_000_000 / width.
const pixelGuard = 400_000_000

// Opcode tag bytes and masks. All multi-byte payloads are little-endian.
const (
	tagLuma232Mask  = 0b0000_0001
	tagLuma232Value = 0b0000_0000

	tagLuma464Mask  = 0b0000_0011
	tagLuma464Value = 0b0000_0001

	tagLuma777Mask  = 0b0000_0111
	tagLuma777Value = 0b0000_0011

	tagRunMask  = 0b0000_0111
	tagRunValue = 0b0000_0111

	opRGB  = 0b1111_0111
	opRGBA = 0b1111_1111

	// runSaturated is the RUN byte encoding the maximum run length (30)
	// in one byte: x=29 in bits [7:3].
	runSaturated = byte((29 << 3) | tagRunValue)

	maxRunPerByte = 30
)

// Biases added to signed diffs before bit-packing (and subtracted again on
// decode).
const (
	biasLuma232Green = 4
	biasLuma232RB    = 2

	biasLuma464Green = 32
	biasLuma464RB    = 8

	biasLuma777 = 64
)

// Descriptor describes an image's shape and how its bytes are interpreted.
type Descriptor struct {
	Width      uint32
	Height     uint32
	Channels   uint8 // 3 (RGB) or 4 (RGBA)
	Colorspace uint8 // 0 = sRGB with linear alpha, 1 = fully linear; informative only
}

// Validate reports whether d describes an encodable image. Colorspace
// values 2 and 3 are accepted for interoperability with a legacy encoding
// that used bit 1 of the colorspace byte to signal "no RLE". The encoder
// in this package copies whichever of the four values it is given into
// the header unchanged, and treats all of them as purely informative
// metadata that does not affect how pixels are packed.
func (d Descriptor) Validate() error {
	if d.Width == 0 || d.Height == 0 {
		return ErrBadDescriptor
	}
	if d.Channels != 3 && d.Channels != 4 {
		return ErrUnsupportedChannels
	}
	if d.Colorspace > 3 {
		return ErrBadDescriptor
	}
	if uint64(d.Height) >= pixelGuard/uint64(d.Width) {
		return ErrOversizeImage
	}
	return nil
}

// PixelCount returns width*height.
func (d Descriptor) PixelCount() uint64 {
	return uint64(d.Width) * uint64(d.Height)
}

// WorstCaseSize returns the largest number of bytes an encode of an image
// matching d could ever produce: header, one worst-case opcode per pixel,
// and the end marker.
func WorstCaseSize(d Descriptor) (int, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	bytesPerPixel := 4 // 3-channel input: RGB op is the worst case, 4 bytes
	if d.Channels == 4 {
		bytesPerPixel = 6 // RGBA op (2) + RGB-family op (4)
	}
	total := d.PixelCount()*uint64(bytesPerPixel) + HeaderSize + uint64(len(EndMarker))
	if total > uint64(^uint(0)>>1) {
		return 0, ErrOversizeImage
	}
	return int(total), nil
}

// writeHeader writes d's 14-byte header to buf[0:14].
func writeHeader(buf []byte, d Descriptor) {
	copy(buf[0:4], Magic)
	binary.BigEndian.PutUint32(buf[4:8], d.Width)
	binary.BigEndian.PutUint32(buf[8:12], d.Height)
	buf[12] = d.Channels
	buf[13] = d.Colorspace
}

// readHeader parses a 14-byte header from buf[0:14].
func readHeader(buf []byte) (Descriptor, error) {
	if len(buf) < HeaderSize {
		return Descriptor{}, ErrInvalidHeader
	}
	if string(buf[0:4]) != Magic {
		return Descriptor{}, ErrInvalidHeader
	}
	d := Descriptor{
		Width:      binary.BigEndian.Uint32(buf[4:8]),
		Height:     binary.BigEndian.Uint32(buf[8:12]),
		Channels:   buf[12],
		Colorspace: buf[13],
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, ErrInvalidHeader
	}
	return d, nil
}
