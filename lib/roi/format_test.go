// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package roi

import (
	"errors"
	"testing"
)

func TestDescriptorValidate(tt *testing.T) {
	testCases := []struct {
		name string
		d    Descriptor
		want error
	}{
		{"ok rgb", Descriptor{Width: 4, Height: 4, Channels: 3}, nil},
		{"ok rgba", Descriptor{Width: 4, Height: 4, Channels: 4}, nil},
		{"ok legacy colorspace 3", Descriptor{Width: 4, Height: 4, Channels: 3, Colorspace: 3}, nil},
		{"zero width", Descriptor{Width: 0, Height: 4, Channels: 3}, ErrBadDescriptor},
		{"zero height", Descriptor{Width: 4, Height: 0, Channels: 3}, ErrBadDescriptor},
		{"bad channels", Descriptor{Width: 4, Height: 4, Channels: 2}, ErrUnsupportedChannels},
		{"bad colorspace", Descriptor{Width: 4, Height: 4, Channels: 3, Colorspace: 4}, ErrBadDescriptor},
		{"oversize", Descriptor{Width: 30000, Height: 30000, Channels: 3}, ErrOversizeImage},
	}
	for _, tc := range testCases {
		err := tc.d.Validate()
		if !errors.Is(err, tc.want) {
			tt.Errorf("%s: Validate() = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestWorstCaseSize(tt *testing.T) {
	d3 := Descriptor{Width: 10, Height: 10, Channels: 3}
	size3, err := WorstCaseSize(d3)
	if err != nil {
		tt.Fatalf("WorstCaseSize(3-channel): %v", err)
	}
	if want := 100*4 + HeaderSize + len(EndMarker); size3 != want {
		tt.Errorf("WorstCaseSize(3-channel) = %d, want %d", size3, want)
	}

	d4 := Descriptor{Width: 10, Height: 10, Channels: 4}
	size4, err := WorstCaseSize(d4)
	if err != nil {
		tt.Fatalf("WorstCaseSize(4-channel): %v", err)
	}
	if want := 100*6 + HeaderSize + len(EndMarker); size4 != want {
		tt.Errorf("WorstCaseSize(4-channel) = %d, want %d", size4, want)
	}
}

func TestReadHeaderRejectsBadMagic(tt *testing.T) {
	buf := make([]byte, HeaderSize)
	writeHeader(buf, Descriptor{Width: 1, Height: 1, Channels: 3})
	buf[0] = 'x'
	if _, err := readHeader(buf); !errors.Is(err, ErrInvalidHeader) {
		tt.Errorf("readHeader(bad magic) = %v, want ErrInvalidHeader", err)
	}
}

func TestReadHeaderRejectsShortBuffer(tt *testing.T) {
	if _, err := readHeader(make([]byte, HeaderSize-1)); !errors.Is(err, ErrInvalidHeader) {
		tt.Errorf("readHeader(short buffer) = %v, want ErrInvalidHeader", err)
	}
}
