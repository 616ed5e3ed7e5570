// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"image/color"
	"math"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/math/f32"

	"go.autosurface.dev/render/egl"
	"go.autosurface.dev/render/egl/softegl"
)

var (
	background = color.RGBA{R: 0x10, G: 0x10, B: 0x30, A: 0xff}
	foreground = color.RGBA{R: 0xf0, G: 0xa0, B: 0x20, A: 0xff}
)

// spinner draws a triangle turning a little on every frame.
type spinner struct {
	width, height int
	angle         float64
}

func (s *spinner) OnSurfaceCreated(gl egl.GL, config egl.Config) {
	log.WithField("config", config).Info("surface created")
	s.angle = 0
}

func (s *spinner) OnSurfaceChanged(gl egl.GL, width, height int) {
	log.Infof("surface changed %dx%d", width, height)
	s.width, s.height = width, height
}

func (s *spinner) OnDrawFrame(gl egl.GL) {
	canvas, ok := gl.(softegl.Canvas)
	if !ok {
		return
	}
	canvas.Clear(background)

	cx, cy := float64(s.width)/2, float64(s.height)/2
	r := math.Min(cx, cy) * 0.8
	pts := make([]f32.Vec2, 3)
	for i := range pts {
		a := s.angle + float64(i)*2*math.Pi/3
		pts[i] = f32.Vec2{float32(cx + r*math.Cos(a)), float32(cy + r*math.Sin(a))}
	}
	canvas.FillPolygon(pts, foreground)
	s.angle += math.Pi / 90
}
