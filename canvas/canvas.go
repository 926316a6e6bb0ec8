// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package canvas paints a simple text layout for the four color e-paper
// panel.
//
// A Painter renders with anti-aliasing on an RGBA canvas, then copies the
// result into the destination image, whose color model decides the final
// panel color of every pixel. Its Paint method fits waveshare7in5h.Opts.Writer.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Panel colors, in sRGB.
var (
	Black  = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	White  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Yellow = color.NRGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}
	Red    = color.NRGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
)

// Layout describes what gets painted.
type Layout struct {
	// Title is printed in white on a red band at the top. Empty omits the
	// band.
	Title string
	// Lines are printed in black, one per row, below the title.
	Lines []string
	// Footer is a time.Format layout printed at the bottom right when not
	// empty.
	Footer string
	// FontSize of the body in points. The title is 1.5 times larger.
	// Defaults to 32.
	FontSize float64
	// Border draws a yellow frame around the panel.
	Border bool
}

// Painter renders a Layout.
type Painter struct {
	layout Layout
	body   font.Face
	title  font.Face
	now    func() time.Time
}

// New parses the Go fonts and returns a Painter for l.
func New(l *Layout) (*Painter, error) {
	if l == nil {
		return nil, errors.New("canvas: nil layout")
	}
	size := l.FontSize
	if size == 0 {
		size = 32
	}
	if size < 0 {
		return nil, fmt.Errorf("canvas: invalid font size %g", size)
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("canvas: failed to parse font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("canvas: failed to parse font: %w", err)
	}
	p := &Painter{
		layout: *l,
		body:   truetype.NewFace(regular, &truetype.Options{Size: size}),
		title:  truetype.NewFace(bold, &truetype.Options{Size: size * 1.5}),
		now:    time.Now,
	}
	p.layout.FontSize = size
	return p, nil
}

// Render returns the layout painted on a w×h RGBA image.
func (p *Painter) Render(w, h int) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetColor(White)
	dc.Clear()

	padding := p.layout.FontSize / 2
	y := padding

	if p.layout.Title != "" {
		dc.SetFontFace(p.title)
		_, th := dc.MeasureString(p.layout.Title)
		band := th + 2*padding
		dc.SetColor(Red)
		dc.DrawRectangle(0, 0, float64(w), band)
		dc.Fill()
		dc.SetColor(White)
		dc.DrawStringAnchored(p.layout.Title, float64(w)/2, band/2, 0.5, 0.5)
		y = band + padding
	}

	dc.SetFontFace(p.body)
	dc.SetColor(Black)
	lineHeight := dc.FontHeight() * 1.4
	for _, line := range p.layout.Lines {
		dc.DrawStringAnchored(line, padding, y, 0, 1)
		y += lineHeight
	}

	if p.layout.Footer != "" {
		dc.DrawStringAnchored(p.now().Format(p.layout.Footer), float64(w)-padding, float64(h)-padding, 1, 0)
	}

	if p.layout.Border {
		lw := padding / 2
		dc.SetColor(Yellow)
		dc.SetLineWidth(lw)
		dc.DrawRectangle(lw/2, lw/2, float64(w)-lw, float64(h)-lw)
		dc.Stroke()
	}

	return dc.Image()
}

// Paint renders the layout over the whole of dst.
func (p *Painter) Paint(dst draw.Image) {
	b := dst.Bounds()
	draw.Draw(dst, b, p.Render(b.Dx(), b.Dy()), image.Point{}, draw.Src)
}
