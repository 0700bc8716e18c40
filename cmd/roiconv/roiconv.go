// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// roiconv converts between the ROI lossless image file format and other
// raster formats.
package main

import (
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/nigeltao/roi/internal/pngbridge"
	"github.com/nigeltao/roi/internal/ppm"
	"github.com/nigeltao/roi/lib/roi"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	codepathFlag = flag.String("codepath", "scalar", "encoder codepath: scalar, simd or lut")
	channelsFlag = flag.Int("channels", 0, "output channel count when decoding to ppm/pam (0 means use the ROI stream's own count)")
)

const usageStr = `roiconv converts between the ROI lossless image file format and other
raster formats.

Usage:

    roiconv <infile> <outfile>

The input and output formats are chosen from the file extensions:

    .roi          the ROI format this module implements
    .png          decoded with the standard library, encoded likewise
    .ppm/.pam     Netpbm, read as P6 (RGB) or P7 (RGB or RGBA); written
                  as P6 for 3 channels and as P7 for 4 channels
    .bmp/.gif/.jpg/.jpeg/.tiff/.webp   decode-only source formats

Exactly one of the input and output extensions must be .roi.

    -codepath=scalar|simd|lut   which encoder kernel to use (default scalar)
    -channels=0|3|4             requested channel count when decoding
`

var ErrBadArguments = errors.New("roiconv: bad arguments")

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	flag.Usage = func() { os.Stderr.WriteString(usageStr) }
	flag.Parse()

	if flag.NArg() != 2 {
		return ErrBadArguments
	}
	inPath, outPath := flag.Arg(0), flag.Arg(1)

	inFile, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer inFile.Close()

	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if extOf(inPath) == "roi" {
		return decodeROI(inFile, outFile, extOf(outPath))
	}
	if extOf(outPath) == "roi" {
		return encodeROI(inFile, extOf(inPath), outFile)
	}
	return errors.New("roiconv: exactly one of infile and outfile must have a .roi extension")
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(path[i+1:])
}

func codepathFromFlag() (roi.Codepath, error) {
	switch *codepathFlag {
	case "scalar":
		return roi.Scalar, nil
	case "simd":
		return roi.SIMD, nil
	case "lut":
		return roi.LUT, nil
	default:
		return 0, errors.New("roiconv: -codepath must be scalar, simd or lut")
	}
}

func encodeROI(inFile io.Reader, inExt string, outFile io.Writer) error {
	var pixels []byte
	var desc roi.Descriptor

	switch inExt {
	case "ppm", "pam":
		m, err := ppm.Decode(inFile)
		if err != nil {
			return err
		}
		pixels = m.Pixels
		desc = roi.Descriptor{Width: uint32(m.Width), Height: uint32(m.Height), Channels: uint8(m.Channels)}

	default: // png, bmp, gif, jpeg, tiff, webp: anything image.Decode understands.
		img, _, err := image.Decode(inFile)
		if err != nil {
			return err
		}
		channels := uint8(3)
		if hasAlpha(img.ColorModel()) {
			channels = 4
		}
		pixels, desc, err = pngbridge.ToPixels(img, channels, 0)
		if err != nil {
			return err
		}
	}

	codepath, err := codepathFromFlag()
	if err != nil {
		return err
	}
	opts := roi.EncodeOptions{Codepath: codepath}
	if codepath == roi.LUT {
		opts.LUT = roi.BuildLUT()
	}

	encoded, err := roi.Encode(pixels, desc, opts)
	if err != nil {
		return err
	}
	_, err = outFile.Write(encoded)
	return err
}

func decodeROI(inFile io.Reader, outFile io.Writer, outExt string) error {
	data, err := io.ReadAll(inFile)
	if err != nil {
		return err
	}
	requested := uint8(*channelsFlag)
	pixels, desc, err := roi.Decode(data, requested)
	if err != nil {
		return err
	}
	if requested != 0 {
		desc.Channels = requested
	}

	switch outExt {
	case "ppm", "pam":
		return ppm.Encode(outFile, ppm.Image{
			Width: int(desc.Width), Height: int(desc.Height),
			Channels: int(desc.Channels), Pixels: pixels,
		})
	case "png":
		img, err := pngbridge.FromPixels(pixels, desc)
		if err != nil {
			return err
		}
		return png.Encode(outFile, img)
	default:
		return errors.New("roiconv: unsupported output extension: ." + outExt)
	}
}

// hasAlpha reports whether cm's colors can represent partial
// transparency: only the models that are always fully opaque get the
// 3-channel treatment; anything else is conservatively forced to RGBA.
func hasAlpha(cm color.Model) bool {
	switch cm {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return false
	}
	return true
}
