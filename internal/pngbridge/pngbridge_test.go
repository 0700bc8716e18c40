// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package pngbridge

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/nigeltao/roi/lib/roi"
)

func TestToPixelsFastPath(tt *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := range m.Pix {
		m.Pix[i] = byte(i)
	}
	pixels, desc, err := ToPixels(m, 4, 0)
	if err != nil {
		tt.Fatalf("ToPixels: %v", err)
	}
	if desc.Width != 3 || desc.Height != 2 || desc.Channels != 4 {
		tt.Fatalf("got desc %+v", desc)
	}
	if !bytes.Equal(pixels, m.Pix) {
		tt.Errorf("fast path mutated pixel data")
	}
}

func TestToPixelsGenericPath(tt *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 2, 2))
	m.SetGray(0, 0, color.Gray{Y: 10})
	m.SetGray(1, 0, color.Gray{Y: 20})
	m.SetGray(0, 1, color.Gray{Y: 30})
	m.SetGray(1, 1, color.Gray{Y: 40})

	pixels, desc, err := ToPixels(m, 3, 0)
	if err != nil {
		tt.Fatalf("ToPixels: %v", err)
	}
	if len(pixels) != int(desc.PixelCount())*3 {
		tt.Fatalf("got %d bytes, want %d", len(pixels), int(desc.PixelCount())*3)
	}
	if pixels[0] != 10 || pixels[3] != 20 || pixels[6] != 30 || pixels[9] != 40 {
		tt.Errorf("gray->rgb conversion mismatch: % 02X", pixels)
	}
}

func TestFromPixelsRoundTrip(tt *testing.T) {
	desc := roi.Descriptor{Width: 2, Height: 2, Channels: 3}
	pixels := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	img, err := FromPixels(pixels, desc)
	if err != nil {
		tt.Fatalf("FromPixels: %v", err)
	}
	got, gotDesc, err := ToPixels(img, 3, 0)
	if err != nil {
		tt.Fatalf("ToPixels: %v", err)
	}
	if gotDesc.Width != desc.Width || gotDesc.Height != desc.Height {
		tt.Fatalf("dims mismatch: got %+v", gotDesc)
	}
	if !bytes.Equal(got, pixels) {
		tt.Errorf("round trip mismatch: got % 02X, want % 02X", got, pixels)
	}
}

func TestEncodePNG(tt *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	var buf bytes.Buffer
	if err := EncodePNG(&buf, m); err != nil {
		tt.Fatalf("EncodePNG: %v", err)
	}
	if buf.Len() == 0 {
		tt.Errorf("EncodePNG wrote no bytes")
	}
}
