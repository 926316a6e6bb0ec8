// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mirror serves a copy of an e-paper framebuffer over HTTP.
//
// Clients get the current frame as a four color PNG image and, unless they
// ask for a single image with "?once=1", a new one every time the frame
// changes. The stream uses "multipart/x-mixed-replace" as IP cameras do for
// MJPEG, which browsers render in an <img> tag.
//
// A panel refresh takes long enough that it is convenient to watch the mirror
// while working on a layout.
package mirror

import (
	"image"
	"image/color"
	"image/draw"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/epaper/waveshare7in5h/image2bit"
)

// Options for a Mirror.
type Options struct {
	// Width and height of the framebuffer.
	Width, Height int

	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// Mirror is a display.Drawer keeping the panel content in the panel's own
// four colors.
type Mirror struct {
	log logrus.FieldLogger

	mu       sync.Mutex
	frame    *image2bit.Image
	clients  map[*client]struct{}
	snapshot []byte
}

var _ display.Drawer = (*Mirror)(nil)
var _ http.Handler = (*Mirror)(nil)

// New creates a white Mirror.
func New(opt *Options) *Mirror {
	frame := image2bit.New(image.Rect(0, 0, opt.Width, opt.Height))
	frame.Fill(image2bit.White)

	log := opt.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Mirror{
		log:     log.WithField("device", "mirror"),
		frame:   frame,
		clients: map[*client]struct{}{},
	}
}

// String returns the name of the device.
func (m *Mirror) String() string {
	return "Mirror"
}

// Halt implements conn.Resource and terminates all running client requests
// asynchronously.
func (m *Mirror) Halt() error {
	m.mu.Lock()
	m.terminateClientsLocked()
	m.mu.Unlock()

	return nil
}

// ColorModel implements display.Drawer.
func (m *Mirror) ColorModel() color.Model {
	return image2bit.ColorModel
}

// Bounds implements display.Drawer.
func (m *Mirror) Bounds() image.Rectangle {
	return m.frame.Bounds()
}

// Draw implements display.Drawer. Connected clients are sent the new frame.
func (m *Mirror) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	m.mu.Lock()
	draw.Draw(m.frame, dstRect, src, srcPts, draw.Src)
	m.frameChangedLocked()
	m.mu.Unlock()

	return nil
}

// Clients returns the number of connected streaming clients.
func (m *Mirror) Clients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}
