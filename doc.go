// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epaper is a container for the Waveshare 7.5 inch (H) e-paper
// driver and the host side tools around it.
//
// The driver lives in waveshare7in5h. canvas paints text layouts for it,
// screen2d previews them in a terminal and mirror serves a copy of the panel
// over HTTP. cmd/epd7in5h ties them together.
package epaper
