// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package ppm implements the PPM (P6) and PAM (P7) Netpbm container
// formats, in the narrow shape roiconv needs: 8-bit-per-channel RGB
// (PPM) or RGB/RGBA (PAM) raster images with no comments, no
// non-default maxval and no interleaved metadata beyond the fixed
// header fields.
//
// It is an incomplete implementation (and hence an internal package),
// only providing what's needed by the github.com/nigeltao/roi module.
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	ErrBadArgument = errors.New("ppm: bad argument")
	ErrNotAPPMFile = errors.New("ppm: not a PPM or PAM file")
	ErrUnsupported = errors.New("ppm: unsupported header field")
	ErrTruncated   = errors.New("ppm: truncated file")
)

// Image is a decoded raster: a tightly packed, row-major RGB or RGBA
// pixel buffer.
type Image struct {
	Width, Height int
	Channels      int // 3 or 4
	Pixels        []byte
}

// Decode reads either a P6 (PPM) or P7 (PAM) image from r.
func Decode(r io.Reader) (Image, error) {
	br := bufio.NewReader(r)
	magic, err := readToken(br)
	if err != nil {
		return Image{}, err
	}
	switch magic {
	case "P6":
		return decodePPM(br)
	case "P7":
		return decodePAM(br)
	default:
		return Image{}, ErrNotAPPMFile
	}
}

func decodePPM(br *bufio.Reader) (Image, error) {
	w, err := readInt(br)
	if err != nil {
		return Image{}, err
	}
	h, err := readInt(br)
	if err != nil {
		return Image{}, err
	}
	maxVal, err := readInt(br)
	if err != nil {
		return Image{}, err
	}
	if maxVal != 255 {
		return Image{}, fmt.Errorf("ppm: %w: maxval %d", ErrUnsupported, maxVal)
	}
	// readToken already consumed the single whitespace byte that
	// separates the header from the raster data.

	pixels := make([]byte, w*h*3)
	if _, err := io.ReadFull(br, pixels); err != nil {
		return Image{}, fmt.Errorf("ppm: %w", ErrTruncated)
	}
	return Image{Width: w, Height: h, Channels: 3, Pixels: pixels}, nil
}

func decodePAM(br *bufio.Reader) (Image, error) {
	var w, h, depth, maxVal int
	haveMaxVal := false
	for {
		key, err := readToken(br)
		if err != nil {
			return Image{}, err
		}
		if key == "ENDHDR" {
			break
		}
		val, err := readToken(br)
		if err != nil {
			return Image{}, err
		}
		switch key {
		case "WIDTH":
			w, err = strconv.Atoi(val)
		case "HEIGHT":
			h, err = strconv.Atoi(val)
		case "DEPTH":
			depth, err = strconv.Atoi(val)
		case "MAXVAL":
			maxVal, err = strconv.Atoi(val)
			haveMaxVal = true
		case "TUPLTYPE":
			// RGB or RGB_ALPHA; depth already tells us what we need.
		default:
			return Image{}, fmt.Errorf("ppm: %w: %q", ErrUnsupported, key)
		}
		if err != nil {
			return Image{}, fmt.Errorf("ppm: bad PAM header value for %q: %w", key, err)
		}
	}
	// readToken already consumed the newline after ENDHDR.
	if !haveMaxVal || maxVal != 255 {
		return Image{}, fmt.Errorf("ppm: %w: maxval %d", ErrUnsupported, maxVal)
	}
	if depth != 3 && depth != 4 {
		return Image{}, fmt.Errorf("ppm: %w: depth %d", ErrUnsupported, depth)
	}

	pixels := make([]byte, w*h*depth)
	if _, err := io.ReadFull(br, pixels); err != nil {
		return Image{}, fmt.Errorf("ppm: %w", ErrTruncated)
	}
	return Image{Width: w, Height: h, Channels: depth, Pixels: pixels}, nil
}

// Encode writes m as a P6 (3 channels) or P7 (4 channels) file to w.
func Encode(w io.Writer, m Image) error {
	if m.Channels != 3 && m.Channels != 4 {
		return fmt.Errorf("ppm: Encode: %w", ErrBadArgument)
	}
	if len(m.Pixels) != m.Width*m.Height*m.Channels {
		return fmt.Errorf("ppm: Encode: %w: pixel buffer has %d bytes, want %d",
			ErrBadArgument, len(m.Pixels), m.Width*m.Height*m.Channels)
	}

	if m.Channels == 3 {
		if _, err := fmt.Fprintf(w, "P6 %d %d 255\n", m.Width, m.Height); err != nil {
			return err
		}
	} else {
		tupltype := "RGB_ALPHA"
		if _, err := fmt.Fprintf(w, "P7\nWIDTH %d\nHEIGHT %d\nDEPTH %d\nMAXVAL 255\nTUPLTYPE %s\nENDHDR\n",
			m.Width, m.Height, m.Channels, tupltype); err != nil {
			return err
		}
	}
	_, err := w.Write(m.Pixels)
	return err
}

// readToken reads one whitespace-delimited ASCII token, skipping any
// leading whitespace.
func readToken(br *bufio.Reader) (string, error) {
	var buf []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			if len(buf) > 0 {
				return string(buf), nil
			}
			return "", fmt.Errorf("ppm: %w", ErrTruncated)
		}
		isSpace := b == ' ' || b == '\t' || b == '\n' || b == '\r'
		if isSpace {
			if len(buf) > 0 {
				return string(buf), nil
			}
			continue
		}
		buf = append(buf, b)
	}
}

func readInt(br *bufio.Reader) (int, error) {
	tok, err := readToken(br)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("ppm: bad integer field %q: %w", tok, err)
	}
	return n, nil
}
