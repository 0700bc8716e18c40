// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package pngbridge converts between decoded image.Image values (as
// produced by image/png and the other codecs blank-imported by
// cmd/roiconv) and the tightly packed, row-major pixel buffers that
// lib/roi operates on.
//
// It is an incomplete implementation (and hence an internal package),
// only providing what's needed by the github.com/nigeltao/roi module.
package pngbridge

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/nigeltao/roi/lib/roi"
)

var ErrUnsupportedImageType = errors.New("pngbridge: unsupported image type")

// ToPixels converts m into a tightly packed row-major pixel buffer with
// the given channel count (3 or 4) and a matching roi.Descriptor.
// colorspace is copied verbatim into the descriptor; it is otherwise
// uninterpreted here (see lib/roi's Descriptor doc comment).
func ToPixels(m image.Image, channels uint8, colorspace uint8) ([]byte, roi.Descriptor, error) {
	if channels != 3 && channels != 4 {
		return nil, roi.Descriptor{}, fmt.Errorf("pngbridge: ToPixels: %w", ErrUnsupportedImageType)
	}

	b := m.Bounds()
	desc := roi.Descriptor{
		Width:      uint32(b.Dx()),
		Height:     uint32(b.Dy()),
		Channels:   channels,
		Colorspace: colorspace,
	}

	// Fast path: an *image.NRGBA with no border padding is already
	// exactly the layout lib/roi wants for channels==4.
	if nrgba, ok := m.(*image.NRGBA); ok && channels == 4 && nrgba.Stride == b.Dx()*4 {
		return append([]byte(nil), nrgba.Pix...), desc, nil
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(canvas, canvas.Bounds(), m, b.Min, xdraw.Src)

	pixels := make([]byte, int(desc.PixelCount())*int(channels))
	if channels == 4 {
		copy(pixels, canvas.Pix)
		return pixels, desc, nil
	}

	for i := 0; i < int(desc.PixelCount()); i++ {
		pixels[i*3+0] = canvas.Pix[i*4+0]
		pixels[i*3+1] = canvas.Pix[i*4+1]
		pixels[i*3+2] = canvas.Pix[i*4+2]
	}
	return pixels, desc, nil
}

// FromPixels builds an image.Image from a tightly packed row-major pixel
// buffer, suitable for passing to image/png's Encode or any other
// image/draw consumer.
func FromPixels(pixels []byte, desc roi.Descriptor) (image.Image, error) {
	want := int(desc.PixelCount()) * int(desc.Channels)
	if len(pixels) != want {
		return nil, fmt.Errorf("pngbridge: FromPixels: %w: pixel buffer has %d bytes, want %d",
			ErrUnsupportedImageType, len(pixels), want)
	}

	if desc.Channels == 4 {
		return &image.NRGBA{
			Pix:    pixels,
			Stride: int(desc.Width) * 4,
			Rect:   image.Rect(0, 0, int(desc.Width), int(desc.Height)),
		}, nil
	}

	m := image.NewNRGBA(image.Rect(0, 0, int(desc.Width), int(desc.Height)))
	for i := 0; i < int(desc.PixelCount()); i++ {
		m.Pix[i*4+0] = pixels[i*3+0]
		m.Pix[i*4+1] = pixels[i*3+1]
		m.Pix[i*4+2] = pixels[i*3+2]
		m.Pix[i*4+3] = 0xFF
	}
	return m, nil
}

// EncodePNG writes m as a PNG. It exists mainly so callers need not
// import image/png themselves just to round-trip through this package.
func EncodePNG(w io.Writer, m image.Image) error {
	return png.Encode(w, m)
}
