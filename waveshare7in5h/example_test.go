// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5h_test

import (
	"image"
	"image/draw"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/epaper/waveshare7in5h"
	"github.com/GermanBionicSystems/epaper/waveshare7in5h/image2bit"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use spireg SPI bus registry to find the first available SPI bus.
	b, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	opts := waveshare7in5h.EPD7in5h
	// Red text on a yellow background, painted before every update.
	opts.Writer = func(dst draw.Image) {
		draw.Draw(dst, dst.Bounds(), &image.Uniform{image2bit.Yellow}, image.Point{}, draw.Src)
		f := basicfont.Face7x13
		drawer := font.Drawer{
			Dst:  dst,
			Src:  &image.Uniform{image2bit.Red},
			Face: f,
			Dot:  fixed.P(10, dst.Bounds().Dy()/2),
		}
		drawer.DrawString("Hello from periph!")
	}

	dev, err := waveshare7in5h.NewHat(b, &opts)
	if err != nil {
		log.Fatalf("Failed to initialize driver: %v", err)
	}

	if err := dev.Init(); err != nil {
		log.Fatalf("Failed to initialize display: %v", err)
	}

	if err := dev.Update(); err != nil {
		log.Fatal(err)
	}
}

func ExampleDev_SetPixel() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	b, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	dev, err := waveshare7in5h.NewHat(b, &waveshare7in5h.EPD7in5h)
	if err != nil {
		log.Fatalf("Failed to initialize driver: %v", err)
	}
	if err := dev.Init(); err != nil {
		log.Fatalf("Failed to initialize display: %v", err)
	}

	// A red diagonal on white. Drawing only touches the framebuffer.
	dev.Fill(image2bit.White)
	r := dev.Bounds()
	for y := 0; y < r.Dy(); y++ {
		dev.SetPixel(y*r.Dx()/r.Dy(), y, image2bit.Red)
	}

	// Send the framebuffer, refresh and go back to deep sleep.
	if err := dev.Update(); err != nil {
		log.Fatal(err)
	}
}
