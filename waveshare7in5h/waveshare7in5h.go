// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5h

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"

	"github.com/GermanBionicSystems/epaper/waveshare7in5h/image2bit"
)

// Commands
const (
	panelSetting            byte = 0x00
	powerOff                byte = 0x02
	powerOn                 byte = 0x04
	boosterSoftStart        byte = 0x06
	deepSleep               byte = 0x07
	dataStartTransmission   byte = 0x10
	displayRefresh          byte = 0x12
	pllControl              byte = 0x30
	temperatureSensorEnable byte = 0x41
	vcomAndDataInterval     byte = 0x50
	tconSetting             byte = 0x60
	resolutionSetting       byte = 0x61
	gateSourceStart         byte = 0x65
	powerSaving             byte = 0xE3
)

// deepSleepCheckCode must follow the deepSleep command, any other value is
// ignored by the controller.
const deepSleepCheckCode byte = 0xA5

const busyPollInterval = 100 * time.Millisecond

// ErrBusyTimeout is returned when the panel keeps the busy line asserted for
// longer than Opts.BusyTimeout.
var ErrBusyTimeout = errors.New("waveshare7in5h: timed out waiting for busy line")

// Watchdog is fed while the driver blocks on the panel or streams the
// framebuffer, so that a supervising watchdog does not reset the host.
type Watchdog interface {
	Feed()
}

// Opts definies the structure of the display configuration.
type Opts struct {
	Width  int
	Height int

	// Writer paints the framebuffer at the start of every Update. It may be
	// nil.
	Writer func(dst draw.Image)

	// Watchdog is optional.
	Watchdog Watchdog

	// BusyTimeout bounds every wait on the busy line. Zero waits forever.
	BusyTimeout time.Duration

	// UpdateInterval is how often the host calls Update. It is only reported
	// by LogConfig.
	UpdateInterval time.Duration

	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// EPD7in5h contains display configuration for the Waveshare 7.5inch (H).
var EPD7in5h = Opts{
	Width:  800,
	Height: 480,
}

// Dev defines the handler which is used to access the display.
type Dev struct {
	c         conn.Conn
	maxTxSize int

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	buffer *image2bit.Image
	opts   *Opts
	log    logrus.FieldLogger
	sleep  func(time.Duration)
}

// New creates new handler which is used to access the display.
//
// cs and rst may be nil when chip select is driven by the SPI port and the
// reset line is not wired.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.Width%4 != 0 {
		return nil, fmt.Errorf("waveshare7in5h: invalid size %dx%d", opts.Width, opts.Height)
	}
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("waveshare7in5h: a DC pin is required")
	}
	if busy == nil || busy == gpio.INVALID {
		return nil, errors.New("waveshare7in5h: a BUSY pin is required")
	}

	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("waveshare7in5h: failed to connect over spi: %w", err)
	}

	// Get the maxTxSize from the conn if it implements the conn.Limits
	// interface, otherwise use 4096 bytes.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize <= 0 {
		maxTxSize = 4096
	}

	if cs == gpio.INVALID {
		cs = nil
	}
	if rst == gpio.INVALID {
		rst = nil
	}

	var log logrus.FieldLogger = opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	d := &Dev{
		c:         c,
		maxTxSize: maxTxSize,
		dc:        dc,
		cs:        cs,
		rst:       rst,
		busy:      busy,
		buffer:    image2bit.New(image.Rect(0, 0, opts.Width, opts.Height)),
		opts:      opts,
		log:       log.WithField("device", "waveshare7in5h"),
		sleep:     time.Sleep,
	}

	return d, nil
}

// NewHat creates new handler which is used to access the display. Default Waveshare Hat configuration is used.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// Init prepares the control lines. The panel itself is configured on every
// Update since it is left in deep sleep afterwards.
func (d *Dev) Init() error {
	d.log.WithField("bytes", len(d.buffer.Pix)).Debug("Allocating buffer...")

	eh := errorHandler{d: d}

	eh.dcOut(gpio.Low)
	eh.csOut(gpio.High)
	eh.rstOut(gpio.High)
	eh.busyIn()

	return eh.err
}

// Update runs Opts.Writer against the framebuffer, then uploads it and
// refreshes the panel. The panel is put to deep sleep afterwards.
func (d *Dev) Update() error {
	d.log.Info("Performing update...")

	if d.opts.Writer != nil {
		d.opts.Writer(d)
	}

	if err := d.flush(); err != nil {
		return err
	}

	d.log.Info("Update complete.")
	return nil
}

// flush wakes the panel, configures it, uploads the framebuffer, refreshes
// and goes back to deep sleep.
func (d *Dev) flush() error {
	if err := d.Reset(); err != nil {
		return err
	}

	eh := errorHandler{d: d}

	initDisplay(&eh, d.opts)
	if eh.err != nil {
		return eh.err
	}
	d.log.Info("Initialization complete.")

	d.log.Info("Sending image data...")
	sendFrame(&eh, d.buffer.Pix)

	if eh.err == nil {
		d.log.Info("Refreshing display...")
	}
	refreshDisplay(&eh)
	enterDeepSleep(&eh)

	return eh.err
}

// Refresh drives the panel with the content of its RAM and blocks until it
// is done.
func (d *Dev) Refresh() error {
	eh := errorHandler{d: d}

	refreshDisplay(&eh)

	return eh.err
}

// Sleep powers the panel off and makes the controller enter deep sleep mode.
// It can be woken up by a hardware reset, which Update does.
func (d *Dev) Sleep() error {
	eh := errorHandler{d: d}

	enterDeepSleep(&eh)

	return eh.err
}

// Reset the hardware. It does nothing when no reset pin is wired.
func (d *Dev) Reset() error {
	if d.rst == nil {
		return nil
	}

	eh := errorHandler{d: d}

	eh.rstOut(gpio.High)
	d.sleep(200 * time.Millisecond)
	eh.rstOut(gpio.Low)
	d.sleep(2 * time.Millisecond)
	eh.rstOut(gpio.High)
	d.sleep(200 * time.Millisecond)

	return eh.err
}

// Fill sets every pixel of the framebuffer to the panel color closest to c.
// Nothing is sent to the display.
func (d *Dev) Fill(c color.Color) {
	v := image2bit.ColorModel.Convert(c).(image2bit.Color)
	d.log.WithField("color", v).Debug("fill")
	d.buffer.Fill(v)
}

// SetPixel sets the pixel at (x, y) in the framebuffer. Coordinates outside of
// the panel are ignored.
func (d *Dev) SetPixel(x, y int, c color.Color) {
	d.buffer.Set(x, y, c)
}

// Set implements draw.Image.
func (d *Dev) Set(x, y int, c color.Color) {
	d.SetPixel(x, y, c)
}

// At implements image.Image.
func (d *Dev) At(x, y int) color.Color {
	return d.buffer.At(x, y)
}

// ColorModel returns the four color model of the panel.
func (d *Dev) ColorModel() color.Model {
	return image2bit.ColorModel
}

// Bounds returns the bounds for the configurated display.
func (d *Dev) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

// Draw draws the given image into the framebuffer and refreshes the whole
// display. The panel does not support partial updates.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	draw.Draw(d.buffer, dstRect, src, srcPts, draw.Src)
	return d.flush()
}

// Halt clears the display to white and leaves it in deep sleep.
func (d *Dev) Halt() error {
	d.buffer.Fill(image2bit.White)
	return d.flush()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.opts.Width, d.opts.Height)
}

// LogConfig logs the wiring and update interval of the display.
func (d *Dev) LogConfig() {
	d.log.WithFields(logrus.Fields{
		"reset":           pinName(d.rst),
		"dc":              pinName(d.dc),
		"busy":            pinName(d.busy),
		"update_interval": d.opts.UpdateInterval,
	}).Info("Waveshare 7.5in (H)")
}

func pinName(p interface{ Name() string }) string {
	if p == nil {
		return "none"
	}
	return p.Name()
}

var _ display.Drawer = &Dev{}
var _ draw.Image = &Dev{}
