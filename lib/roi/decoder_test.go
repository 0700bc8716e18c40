// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package roi

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewDecoderRejectsBadChannels(tt *testing.T) {
	if _, err := NewDecoder(2); !errors.Is(err, ErrUnsupportedChannels) {
		tt.Errorf("NewDecoder(2) = %v, want ErrUnsupportedChannels", err)
	}
}

func TestEncodeRejectsMissingLUT(tt *testing.T) {
	desc := Descriptor{Width: 2, Height: 2, Channels: 3}
	pixels := make([]byte, int(desc.PixelCount())*3)
	if _, err := Encode(pixels, desc, EncodeOptions{Codepath: LUT}); !errors.Is(err, ErrMissingLUT) {
		tt.Errorf("Encode(LUT, nil) = %v, want ErrMissingLUT", err)
	}
}

func TestEncodeRejectsWrongPixelLength(tt *testing.T) {
	desc := Descriptor{Width: 2, Height: 2, Channels: 3}
	if _, err := Encode(make([]byte, 1), desc, EncodeOptions{}); !errors.Is(err, ErrBadDescriptor) {
		tt.Errorf("Encode(short buffer) = %v, want ErrBadDescriptor", err)
	}
}

func TestStreamEncoderRoundTrip(tt *testing.T) {
	desc := Descriptor{Width: 6, Height: 6, Channels: 4}
	pixels := randomPixels(77, int(desc.PixelCount()), 4)

	var out bytes.Buffer
	enc, err := NewStreamEncoder(&out, desc, EncodeOptions{})
	if err != nil {
		tt.Fatalf("NewStreamEncoder: %v", err)
	}
	rowBytes := int(desc.Width) * 4
	for off := 0; off < len(pixels); off += rowBytes {
		if _, err := enc.Write(pixels[off : off+rowBytes]); err != nil {
			tt.Fatalf("Write: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		tt.Fatalf("Close: %v", err)
	}

	got, gotDesc, err := Decode(out.Bytes(), 0)
	if err != nil {
		tt.Fatalf("Decode: %v", err)
	}
	if gotDesc != desc {
		tt.Errorf("descriptor mismatch, got %+v", gotDesc)
	}
	if !bytes.Equal(got, pixels) {
		tt.Errorf("stream round trip mismatch")
	}
}

func TestStreamEncoderCloseRejectsShortWrite(tt *testing.T) {
	desc := Descriptor{Width: 4, Height: 4, Channels: 3}
	var out bytes.Buffer
	enc, err := NewStreamEncoder(&out, desc, EncodeOptions{})
	if err != nil {
		tt.Fatalf("NewStreamEncoder: %v", err)
	}
	if _, err := enc.Write(make([]byte, 3*3)); err != nil { // only 3 of 16 pixels
		tt.Fatalf("Write: %v", err)
	}
	if err := enc.Close(); !errors.Is(err, ErrBadDescriptor) {
		tt.Errorf("Close(after short write) = %v, want ErrBadDescriptor", err)
	}
}

func TestFeedTinyChunks(tt *testing.T) {
	desc := Descriptor{Width: 9, Height: 4, Channels: 4}
	pixels := randomPixels(123, int(desc.PixelCount()), 4)
	encoded, err := Encode(pixels, desc, EncodeOptions{})
	if err != nil {
		tt.Fatalf("Encode: %v", err)
	}

	dec, err := NewDecoder(0)
	if err != nil {
		tt.Fatalf("NewDecoder: %v", err)
	}
	for i := 0; i < len(encoded); i += 3 {
		end := min(i+3, len(encoded))
		if _, err := dec.Feed(encoded[i:end]); err != nil {
			tt.Fatalf("Feed: %v", err)
		}
	}
	if !dec.Done() {
		tt.Fatalf("decoder not Done")
	}
	if !bytes.Equal(dec.Bytes(), pixels) {
		tt.Errorf("3-byte-chunk decode mismatch")
	}
}
