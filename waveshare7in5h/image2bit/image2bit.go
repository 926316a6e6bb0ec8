// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image2bit implements a four colour image where each pixel is
// stored as a 2-bit colour code, four pixels per byte.
//
// The layout matches the RAM of four colour e-paper controllers: pixels are
// laid out row after row and the leftmost pixel of each group of four is
// stored in the most significant bits of the byte.
//
//	Pixels:  0      1      2      3
//	Colors:  Black  White  Yellow Red
//	Byte:    0b00_01_10_11
package image2bit

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Color is a 2-bit colour code as understood by the panel.
type Color uint8

// Supported colors.
const (
	Black  Color = 0
	White  Color = 1
	Yellow Color = 2
	Red    Color = 3
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	switch c & 3 {
	case Black:
		return 0, 0, 0, 0xffff
	case Yellow:
		return 0xffff, 0xffff, 0, 0xffff
	case Red:
		return 0xffff, 0, 0, 0xffff
	default:
		return 0xffff, 0xffff, 0xffff, 0xffff
	}
}

func (c Color) String() string {
	switch c & 3 {
	case Black:
		return "Black"
	case Yellow:
		return "Yellow"
	case Red:
		return "Red"
	default:
		return "White"
	}
}

// Set sets the Color to a value represented by the string s. Set implements the flag.Value interface.
func (c *Color) Set(s string) error {
	switch s {
	case "black":
		*c = Black
	case "white":
		*c = White
	case "yellow":
		*c = Yellow
	case "red":
		*c = Red
	default:
		return fmt.Errorf("unknown color %q: expected either black, white, yellow or red", s)
	}
	return nil
}

// Packed returns a byte holding four pixels of color c.
func (c Color) Packed() byte {
	v := byte(c & 3)
	return v<<6 | v<<4 | v<<2 | v
}

// Quantize maps an 8-bit RGB triple to the nearest panel color using fixed
// thresholds. Anything that is not clearly yellow, red or black is white.
func Quantize(r, g, b uint8) Color {
	switch {
	case r > 200 && g > 200 && b < 50:
		return Yellow
	case r > 200 && g < 50 && b < 50:
		return Red
	case r < 50 && g < 50 && b < 50:
		return Black
	default:
		return White
	}
}

// ColorModel converts any color.Color to a Color. Fully transparent colors
// are White, the alpha channel is otherwise ignored.
var ColorModel = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	return toColor(c)
}

func toColor(c color.Color) Color {
	if v, ok := c.(Color); ok {
		return v & 3
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0 {
		return White
	}
	return Quantize(n.R, n.G, n.B)
}

// Image is a 2 bits per pixel four colour image.
type Image struct {
	// Pix holds the packed pixels, four per byte.
	Pix []byte
	// Rect is the image bounds.
	Rect image.Rectangle
}

// New returns an Image with the given bounds. All pixels start out Black.
func New(r image.Rectangle) *Image {
	if r.Empty() {
		return &Image{Rect: r}
	}
	return &Image{
		Pix:  make([]byte, (r.Dx()*r.Dy()+3)/4),
		Rect: r,
	}
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return ColorModel
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image. Points outside the bounds are White.
func (i *Image) At(x, y int) color.Color {
	return i.ColorAt(x, y)
}

// ColorAt returns the Color at (x, y) without going through the color model.
func (i *Image) ColorAt(x, y int) Color {
	if !(image.Point{X: x, Y: y}).In(i.Rect) {
		return White
	}
	offset, shift := i.pixOffset(x, y)
	return Color(i.Pix[offset]>>shift) & 3
}

// Set implements draw.Image.
func (i *Image) Set(x, y int, c color.Color) {
	i.SetColor(x, y, toColor(c))
}

// SetColor sets the pixel at (x, y). It is a no-op outside the bounds.
func (i *Image) SetColor(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}).In(i.Rect) {
		return
	}
	offset, shift := i.pixOffset(x, y)
	i.Pix[offset] = i.Pix[offset]&^(3<<shift) | byte(c&3)<<shift
}

// Fill sets every pixel to c.
func (i *Image) Fill(c Color) {
	v := c.Packed()
	for j := range i.Pix {
		i.Pix[j] = v
	}
}

// pixOffset returns the byte holding (x, y) and the shift of its bit pair.
//
// For widths that are a multiple of four this is (x + y*w)/4 and
// 6 - (x%4)*2.
func (i *Image) pixOffset(x, y int) (int, uint) {
	n := (y-i.Rect.Min.Y)*i.Rect.Dx() + (x - i.Rect.Min.X)
	return n / 4, uint(6 - (n%4)*2)
}

var _ draw.Image = &Image{}
