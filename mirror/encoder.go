// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mirror

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"github.com/GermanBionicSystems/epaper/waveshare7in5h/image2bit"
)

// palette is indexed by the panel color code.
var palette = color.Palette{
	image2bit.Black,
	image2bit.White,
	image2bit.Yellow,
	image2bit.Red,
}

type pngEncoderBufferPool sync.Pool

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	buf, _ := (*sync.Pool)(p).Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	(*sync.Pool)(p).Put(buf)
}

var pngEncoder = png.Encoder{
	CompressionLevel: png.BestSpeed,
	BufferPool:       &pngEncoderBufferPool{},
}

// encodeFrame writes frame as a paletted PNG, which keeps the file at 2 bits
// per pixel before compression.
func encodeFrame(w io.Writer, frame *image2bit.Image) error {
	b := frame.Bounds()
	p := image.NewPaletted(b, palette)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p.Pix[i] = uint8(frame.ColorAt(x, y))
			i++
		}
	}
	return pngEncoder.Encode(w, p)
}
