// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package canvas

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/GermanBionicSystems/epaper/waveshare7in5h/image2bit"
)

// census counts the panel colors found in r.
func census(img *image2bit.Image, r image.Rectangle) map[image2bit.Color]int {
	out := map[image2bit.Color]int{}
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			out[img.ColorAt(x, y)]++
		}
	}
	return out
}

func paint(t *testing.T, l Layout) *image2bit.Image {
	t.Helper()
	p, err := New(&l)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	p.now = func() time.Time {
		return time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)
	}
	img := image2bit.New(image.Rect(0, 0, 800, 480))
	p.Paint(img)
	return img
}

func TestNew(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) succeeded")
	}
	if _, err := New(&Layout{FontSize: -1}); err == nil {
		t.Error("New() with a negative font size succeeded")
	}
	p, err := New(&Layout{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if p.layout.FontSize != 32 {
		t.Errorf("FontSize = %g, want default 32", p.layout.FontSize)
	}
}

func TestPanelColors(t *testing.T) {
	for _, tc := range []struct {
		in   color.NRGBA
		want image2bit.Color
	}{
		{Black, image2bit.Black},
		{White, image2bit.White},
		{Yellow, image2bit.Yellow},
		{Red, image2bit.Red},
	} {
		if got := image2bit.ColorModel.Convert(tc.in); got != tc.want {
			t.Errorf("Convert(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPaintBlank(t *testing.T) {
	img := paint(t, Layout{})

	want := map[image2bit.Color]int{image2bit.White: 800 * 480}
	if diff := cmp.Diff(census(img, img.Bounds()), want); diff != "" {
		t.Errorf("Paint() difference (-got +want):\n%s", diff)
	}
}

func TestPaintTitle(t *testing.T) {
	img := paint(t, Layout{Title: "Weather"})

	if got := img.ColorAt(2, 2); got != image2bit.Red {
		t.Errorf("title band = %v, want red", got)
	}
	band := census(img, image.Rect(0, 0, 800, 40))
	if band[image2bit.White] == 0 {
		t.Error("no title text in the band")
	}
	if got := img.ColorAt(400, 470); got != image2bit.White {
		t.Errorf("bottom = %v, want white", got)
	}
}

func TestPaintLines(t *testing.T) {
	img := paint(t, Layout{Lines: []string{"Hello", "from periph!"}})

	top := census(img, image.Rect(0, 0, 800, 120))
	if top[image2bit.Black] == 0 {
		t.Error("no black text painted")
	}
	if top[image2bit.Red] != 0 || top[image2bit.Yellow] != 0 {
		t.Errorf("unexpected colors in body text: %v", top)
	}
	bottom := census(img, image.Rect(0, 300, 800, 480))
	if bottom[image2bit.White] != 800*180 {
		t.Errorf("bottom of the panel is not blank: %v", bottom)
	}
}

func TestPaintFooter(t *testing.T) {
	corner := image.Rect(400, 400, 800, 480)

	img := paint(t, Layout{Footer: "2006-01-02 15:04"})
	if got := census(img, corner); got[image2bit.Black] == 0 {
		t.Error("footer not painted")
	}

	img = paint(t, Layout{})
	if got := census(img, corner); got[image2bit.Black] != 0 {
		t.Error("footer painted without a layout")
	}
}

func TestPaintBorder(t *testing.T) {
	img := paint(t, Layout{Border: true})

	for _, pt := range []image.Point{{400, 0}, {400, 479}, {0, 240}, {799, 240}, {400, 7}} {
		if got := img.ColorAt(pt.X, pt.Y); got != image2bit.Yellow {
			t.Errorf("border at %v = %v, want yellow", pt, got)
		}
	}
	if got := img.ColorAt(400, 240); got != image2bit.White {
		t.Errorf("center = %v, want white", got)
	}
}

func TestPaintOffsetBounds(t *testing.T) {
	p, err := New(&Layout{Border: true})
	if err != nil {
		t.Fatal(err)
	}
	img := image2bit.New(image.Rect(100, 100, 200, 180))
	p.Paint(img)

	if got := img.ColorAt(150, 100); got != image2bit.Yellow {
		t.Errorf("top edge = %v, want yellow", got)
	}
	if got := img.ColorAt(150, 140); got != image2bit.White {
		t.Errorf("center = %v, want white", got)
	}
}
