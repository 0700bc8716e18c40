// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package ppm

import (
	"bytes"
	"testing"
)

func TestPPMRoundTrip(tt *testing.T) {
	m := Image{Width: 3, Height: 2, Channels: 3, Pixels: []byte{
		1, 2, 3, 4, 5, 6, 7, 8, 9,
		10, 11, 12, 13, 14, 15, 16, 17, 18,
	}}
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		tt.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		tt.Fatalf("Decode: %v", err)
	}
	if got.Width != m.Width || got.Height != m.Height || got.Channels != m.Channels {
		tt.Fatalf("got %+v, want dims %dx%d channels %d", got, m.Width, m.Height, m.Channels)
	}
	if !bytes.Equal(got.Pixels, m.Pixels) {
		tt.Errorf("pixel mismatch: got % 02X, want % 02X", got.Pixels, m.Pixels)
	}
}

func TestPAMRoundTrip(tt *testing.T) {
	m := Image{Width: 2, Height: 2, Channels: 4, Pixels: []byte{
		1, 2, 3, 255, 4, 5, 6, 128,
		7, 8, 9, 0, 10, 11, 12, 64,
	}}
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		tt.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		tt.Fatalf("Decode: %v", err)
	}
	if got.Channels != 4 {
		tt.Fatalf("got channels %d, want 4", got.Channels)
	}
	if !bytes.Equal(got.Pixels, m.Pixels) {
		tt.Errorf("pixel mismatch: got % 02X, want % 02X", got.Pixels, m.Pixels)
	}
}

func TestDecodeRejectsBadMagic(tt *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("P5 1 1 255\n\x00"))); err != ErrNotAPPMFile {
		tt.Errorf("Decode(P5) = %v, want ErrNotAPPMFile", err)
	}
}

func TestDecodeRejectsTruncatedRaster(tt *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("P6 4 4 255\n\x00\x00"))); err == nil {
		tt.Errorf("Decode(truncated) succeeded, want an error")
	}
}
