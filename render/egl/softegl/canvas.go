// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package softegl

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"golang.org/x/image/math/f32"
	"golang.org/x/image/vector"

	"go.autosurface.dev/render/egl"
)

// Canvas is the graphics interface handed out by Device.GL. Drawing calls
// target the drawable currently bound to the canvas' context and are dropped
// with EGL_BAD_CURRENT_SURFACE when there is none.
type Canvas interface {
	// Size returns the size of the bound drawable.
	Size() image.Point
	Clear(c color.Color)
	// FillPolygon fills the closed polygon pts, in pixel coordinates.
	FillPolygon(pts []f32.Vec2, c color.Color)
	// Error returns and clears the last drawing error.
	Error() egl.ErrorCode
}

type canvas struct {
	dev *Device
	ctx egl.Context
	err egl.ErrorCode
}

func (c *canvas) Size() image.Point {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()
	if back := c.dev.backBuffer(c.ctx); back != nil {
		return back.Bounds().Size()
	}
	return image.Point{}
}

func (c *canvas) Clear(col color.Color) {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()
	back := c.dev.backBuffer(c.ctx)
	if back == nil {
		c.err = egl.BadCurrentSurface
		return
	}
	draw.Draw(back, back.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *canvas) FillPolygon(pts []f32.Vec2, col color.Color) {
	if len(pts) < 3 {
		return
	}
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()
	back := c.dev.backBuffer(c.ctx)
	if back == nil {
		c.err = egl.BadCurrentSurface
		return
	}
	size := back.Bounds().Size()
	r := vector.NewRasterizer(size.X, size.Y)
	r.DrawOp = draw.Over
	r.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		r.LineTo(p[0], p[1])
	}
	r.ClosePath()
	r.Draw(back, back.Bounds(), image.NewUniform(col), image.Point{})
}

func (c *canvas) Error() egl.ErrorCode {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()
	err := c.err
	c.err = 0
	if err == 0 {
		return egl.Success
	}
	return err
}

// WrapDebug implements egl.DebugAPI.
func (d *Device) WrapDebug(gl egl.GL, checkErrors bool, log io.Writer) egl.GL {
	inner, ok := gl.(Canvas)
	if !ok {
		return gl
	}
	return &debugCanvas{inner: inner, check: checkErrors, log: log}
}

// debugCanvas logs each call and, when check is set, panics on drawing
// errors the way a GL error-checking wrapper does.
type debugCanvas struct {
	inner Canvas
	check bool
	log   io.Writer
}

func (c *debugCanvas) logf(format string, args ...interface{}) {
	if c.log != nil {
		fmt.Fprintf(c.log, format+"\n", args...)
	}
}

func (c *debugCanvas) checkError(call string) {
	if !c.check {
		return
	}
	if err := c.inner.Error(); err != egl.Success {
		panic(egl.FormatError(call, err))
	}
}

func (c *debugCanvas) Size() image.Point {
	s := c.inner.Size()
	c.logf("glSize() returns %v;", s)
	return s
}

func (c *debugCanvas) Clear(col color.Color) {
	c.logf("glClear(%v);", col)
	c.inner.Clear(col)
	c.checkError("glClear")
}

func (c *debugCanvas) FillPolygon(pts []f32.Vec2, col color.Color) {
	c.logf("glFillPolygon(%d points, %v);", len(pts), col)
	c.inner.FillPolygon(pts, col)
	c.checkError("glFillPolygon")
}

func (c *debugCanvas) Error() egl.ErrorCode {
	return c.inner.Error()
}
