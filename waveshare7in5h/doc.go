// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package waveshare7in5h controls the Waveshare 7.5 inch (H) e-paper display.
//
// Product page:
// https://www.waveshare.com/wiki/7.5inch_e-Paper_HAT_(H)_Manual
//
// The panel has 800×480 pixels, each of which is black, white, yellow or red.
// The controller takes the whole frame at once, 2 bits per pixel, and does not
// support partial refresh. A full refresh takes tens of seconds during which
// the busy line is held low.
//
// The driver keeps a framebuffer in the controller's own layout (see package
// image2bit). Drawing only touches the framebuffer; Update, Draw and Halt wake
// the panel with a hardware reset, send the initialization sequence and the
// frame, refresh, and put the panel back into deep sleep.
package waveshare7in5h
