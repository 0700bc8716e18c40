// Copyright 2025 The Roi Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// roilutgen builds the ROI mega-LUT encoder table and serializes it to a
// file, so that programs selecting roi.LUT as their codepath can load it
// once with roi.LoadLUT instead of paying BuildLUT's cost themselves.
//
// roilutgen never runs as part of building this module: it is a
// stand-alone tool a caller runs ahead of time, by hand, rather than
// through `go generate` or the build itself.
package main

import (
	"bufio"
	"encoding/gob"
	"flag"
	"fmt"
	"os"

	"github.com/nigeltao/roi/lib/roi"
)

var outputFlag = flag.String("output", "roi.lut", "path to write the serialized LUT to")

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	flag.Parse()

	lut := roi.BuildLUT()

	f, err := os.Create(*outputFlag)
	if err != nil {
		return fmt.Errorf("os.Create: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := gob.NewEncoder(w)
	if err := enc.Encode(lut); err != nil {
		return fmt.Errorf("gob.Encode: %w", err)
	}
	return w.Flush()
}
