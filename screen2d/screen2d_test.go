// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screen2d

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/maruel/ansi256"
)

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name      string
		opts      Opts
		wantErr   bool
		wantCells [2]int
	}{
		{name: "empty", wantErr: true},
		{name: "negative", opts: Opts{Width: -1, Height: 4}, wantErr: true},
		{name: "unscaled", opts: Opts{Width: 8, Height: 4}, wantCells: [2]int{8, 4}},
		{name: "epd7in5h", opts: Opts{Width: 800, Height: 480, Scale: 10}, wantCells: [2]int{80, 48}},
		{name: "rounded up", opts: Opts{Width: 9, Height: 5, Scale: 2}, wantCells: [2]int{5, 3}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.W = &bytes.Buffer{}
			d, err := New(&tc.opts)
			if tc.wantErr {
				if err == nil {
					t.Error("New() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			cols, rows := d.Cells()
			if diff := cmp.Diff([2]int{cols, rows}, tc.wantCells); diff != "" {
				t.Errorf("Cells() difference (-got +want):\n%s", diff)
			}
			if got, want := d.Bounds(), image.Rect(0, 0, tc.opts.Width, tc.opts.Height); got != want {
				t.Errorf("Bounds() = %v, want %v", got, want)
			}
		})
	}
}

func TestDraw(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&Opts{Width: 4, Height: 2, W: &buf})
	if err != nil {
		t.Fatal(err)
	}

	red := color.NRGBA{R: 0xff, A: 0xff}
	if err := d.Draw(image.Rect(2, 0, 4, 2), &image.Uniform{C: red}, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	white := ansi256.Default.Block(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	r := ansi256.Default.Block(red)
	row := white + white + r + r + "\033[0m\n"
	want := "\033[0m" + row + row
	if diff := cmp.Diff(buf.String(), want); diff != "" {
		t.Errorf("Draw() difference (-got +want):\n%s", diff)
	}
}

func TestDrawScaled(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&Opts{Width: 800, Height: 480, Scale: 20, W: &buf})
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Draw(d.Bounds(), image.Black, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	if got, want := strings.Count(buf.String(), "\n"), 24; got != want {
		t.Errorf("printed %d rows, want %d", got, want)
	}
	black := ansi256.Default.Block(color.NRGBA{A: 0xff})
	if got, want := strings.Count(buf.String(), black), 40*24; got != want {
		t.Errorf("printed %d black cells, want %d", got, want)
	}
}

func TestDrawNegativeOrigin(t *testing.T) {
	d, err := New(&Opts{Width: 4, Height: 4, W: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}

	red := color.NRGBA{R: 0xff, A: 0xff}
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	src.SetNRGBA(2, 2, red)

	if err := d.Draw(image.Rect(-2, -2, 2, 2), src, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	if got := d.img.NRGBAAt(0, 0); got != red {
		t.Errorf("At(0, 0) = %v, want %v", got, red)
	}
	if got, want := d.img.NRGBAAt(3, 3), (color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}); got != want {
		t.Errorf("At(3, 3) = %v, want %v", got, want)
	}
}

func TestDrawNil(t *testing.T) {
	d, err := New(&Opts{Width: 4, Height: 4, W: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Draw(d.Bounds(), nil, image.Point{}); err == nil {
		t.Error("Draw(nil) succeeded")
	}
}

func TestHalt(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&Opts{Width: 1, Height: 1, W: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatalf("Halt() failed: %v", err)
	}
	if got, want := buf.String(), "\033[0m\n"; got != want {
		t.Errorf("Halt() wrote %q, want %q", got, want)
	}
}
