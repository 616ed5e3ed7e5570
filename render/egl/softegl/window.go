// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package softegl

import (
	"image"
	"image/draw"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// Window is a host display surface. The host may resize or invalidate it at
// any time, independently of the drawables bound to it.
type Window struct {
	mu     sync.Mutex
	valid  bool
	front  *image.RGBA
	frames int
}

// NewWindow returns a valid window of the given size.
func NewWindow(width, height int) *Window {
	return &Window{
		valid: true,
		front: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Invalidate marks the window as torn down by the host.
func (w *Window) Invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.valid = false
}

// Valid reports whether the host surface is still usable.
func (w *Window) Valid() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.valid
}

// Resize changes the window size; drawables must be recreated to follow it.
func (w *Window) Resize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.front = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Size returns the window size.
func (w *Window) Size() image.Point {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.front.Bounds().Size()
}

// Frames returns how many frames have been presented.
func (w *Window) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// Snapshot returns a copy of the last presented frame.
func (w *Window) Snapshot() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	img := image.NewRGBA(w.front.Bounds())
	draw.Draw(img, img.Bounds(), w.front, image.Point{}, draw.Src)
	return img
}

func (w *Window) state() (image.Point, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.front.Bounds().Size(), w.valid
}

// present copies back onto the window, scaling when the drawable is stale.
func (w *Window) present(back *image.RGBA) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.valid {
		return false
	}
	if back.Bounds().Size() == w.front.Bounds().Size() {
		draw.Draw(w.front, w.front.Bounds(), back, back.Bounds().Min, draw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(w.front, w.front.Bounds(), back, back.Bounds(), xdraw.Src, nil)
	}
	w.frames++
	return true
}
