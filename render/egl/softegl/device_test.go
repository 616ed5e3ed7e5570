// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package softegl

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"

	"go.autosurface.dev/render/egl"
)

func startDevice(t *testing.T) (*Device, egl.Display, egl.Context) {
	dev := New()
	d := dev.GetDisplay(egl.DefaultDisplay)
	_, _, ok := dev.Initialize(d)
	require.True(t, ok)
	ctx := dev.CreateContext(d, egl.Config(2), egl.NoContext, []int32{egl.ContextClientVersion, 2, egl.None})
	require.NotEqual(t, egl.NoContext, ctx)
	return dev, d, ctx
}

func TestChooseConfigCountsAndEnumerates(t *testing.T) {
	dev := New()
	d := dev.GetDisplay(egl.DefaultDisplay)

	_, ok := dev.ChooseConfig(d, []int32{egl.None}, nil)
	assert.False(t, ok)
	assert.Equal(t, egl.NotInitialized, dev.GetError())

	_, _, ok = dev.Initialize(d)
	require.True(t, ok)

	attribs := []int32{egl.DepthSize, 24, egl.RenderableType, egl.OpenGLES3BitKHR, egl.None}
	n, ok := dev.ChooseConfig(d, attribs, nil)
	require.True(t, ok)
	assert.Equal(t, 2, n)

	configs := make([]egl.Config, 1)
	n, ok = dev.ChooseConfig(d, attribs, configs)
	require.True(t, ok)
	assert.Equal(t, 1, n)
	assert.Equal(t, egl.Config(1), configs[0])

	_, ok = dev.ChooseConfig(d, []int32{egl.DepthSize, 24}, nil)
	assert.False(t, ok)
	assert.Equal(t, egl.BadAttribute, dev.GetError())
}

func TestCreateContextVersionMismatch(t *testing.T) {
	dev := New(ConfigSpec{Red: 5, Green: 6, Blue: 5, Depth: 16, Renderable: egl.OpenGLES2Bit})
	d := dev.GetDisplay(egl.DefaultDisplay)
	dev.Initialize(d)

	ctx := dev.CreateContext(d, egl.Config(1), egl.NoContext, []int32{egl.ContextClientVersion, 3, egl.None})
	assert.Equal(t, egl.NoContext, ctx)
	assert.Equal(t, egl.BadMatch, dev.GetError())
}

func TestWindowSurfaceRequiresValidWindow(t *testing.T) {
	dev, d, _ := startDevice(t)

	assert.Equal(t, egl.NoSurface, dev.CreateWindowSurface(d, egl.Config(2), "not a window", nil))
	assert.Equal(t, egl.BadNativeWindow, dev.GetError())

	w := NewWindow(8, 8)
	w.Invalidate()
	assert.Equal(t, egl.NoSurface, dev.CreateWindowSurface(d, egl.Config(2), w, nil))
	assert.Equal(t, egl.BadNativeWindow, dev.GetError())
}

func TestDrawAndSwap(t *testing.T) {
	dev, d, ctx := startDevice(t)
	w := NewWindow(8, 8)
	s := dev.CreateWindowSurface(d, egl.Config(2), w, nil)
	require.NotEqual(t, egl.NoSurface, s)
	require.True(t, dev.MakeCurrent(d, s, s, ctx))

	gl := dev.GL(ctx).(Canvas)
	assert.Equal(t, image.Pt(8, 8), gl.Size())
	gl.Clear(color.RGBA{B: 0xff, A: 0xff})
	gl.FillPolygon([]f32.Vec2{{0, 0}, {8, 0}, {8, 8}, {0, 8}}, color.RGBA{G: 0xff, A: 0xff})
	assert.Equal(t, egl.Success, gl.Error())

	require.True(t, dev.SwapBuffers(d, s))
	assert.Equal(t, 1, dev.Frames())
	assert.Equal(t, 1, w.Frames())
	assert.Equal(t, color.RGBA{G: 0xff, A: 0xff}, w.Snapshot().RGBAAt(4, 4))
}

func TestSwapScalesToResizedWindow(t *testing.T) {
	dev, d, ctx := startDevice(t)
	w := NewWindow(4, 4)
	s := dev.CreateWindowSurface(d, egl.Config(2), w, nil)
	require.True(t, dev.MakeCurrent(d, s, s, ctx))
	dev.GL(ctx).(Canvas).Clear(color.White)

	w.Resize(8, 2)
	require.True(t, dev.SwapBuffers(d, s))
	assert.Equal(t, image.Pt(8, 2), w.Snapshot().Bounds().Size())
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, w.Snapshot().RGBAAt(7, 1))
}

func TestSwapFaults(t *testing.T) {
	dev, d, ctx := startDevice(t)
	w := NewWindow(4, 4)
	s := dev.CreateWindowSurface(d, egl.Config(2), w, nil)
	require.True(t, dev.MakeCurrent(d, s, s, ctx))

	dev.LoseContext()
	assert.False(t, dev.SwapBuffers(d, s))
	assert.Equal(t, egl.ContextLost, dev.GetError())

	dev.FailNextSwap(egl.BadAlloc)
	assert.False(t, dev.SwapBuffers(d, s))
	assert.Equal(t, egl.BadAlloc, dev.GetError())
	assert.True(t, dev.SwapBuffers(d, s))

	w.Invalidate()
	assert.False(t, dev.SwapBuffers(d, s))
	assert.Equal(t, egl.BadNativeWindow, dev.GetError())
	assert.Equal(t, 1, dev.Frames())
}

func TestTeardownBookkeeping(t *testing.T) {
	dev, d, ctx := startDevice(t)
	s := dev.CreateWindowSurface(d, egl.Config(2), NewWindow(4, 4), nil)
	require.True(t, dev.MakeCurrent(d, s, s, ctx))
	assert.Equal(t, 1, dev.LiveSurfaces())
	assert.Equal(t, 1, dev.LiveContexts())

	assert.False(t, dev.MakeCurrent(d, s, s, egl.NoContext))
	assert.Equal(t, egl.BadMatch, dev.GetError())
	require.True(t, dev.MakeCurrent(d, egl.NoSurface, egl.NoSurface, egl.NoContext))
	require.True(t, dev.DestroySurface(d, s))
	require.True(t, dev.DestroyContext(d, ctx))
	assert.False(t, dev.DestroyContext(d, ctx))
	assert.Equal(t, egl.BadContext, dev.GetError())
	require.True(t, dev.Terminate(d))

	assert.Equal(t, 0, dev.LiveSurfaces())
	assert.Equal(t, 0, dev.LiveContexts())
	assert.Equal(t, []string{
		"eglGetDisplay", "eglInitialize", "eglCreateContext", "eglCreateWindowSurface",
		"eglMakeCurrent", "eglMakeCurrent", "eglMakeCurrent",
		"eglDestroySurface", "eglDestroyContext", "eglDestroyContext", "eglTerminate",
	}, dev.Calls())
}

func TestDisplayFaults(t *testing.T) {
	dev := New()
	dev.SetDisplayAvailable(false)
	assert.Equal(t, egl.NoDisplay, dev.GetDisplay(egl.DefaultDisplay))

	dev.SetDisplayAvailable(true)
	d := dev.GetDisplay(egl.DefaultDisplay)
	dev.FailInitialize(true)
	_, _, ok := dev.Initialize(d)
	assert.False(t, ok)
	dev.FailInitialize(false)
	major, minor, ok := dev.Initialize(d)
	assert.True(t, ok)
	assert.Equal(t, int32(1), major)
	assert.Equal(t, int32(4), minor)
}

func TestDebugCanvasLogsCalls(t *testing.T) {
	dev, d, ctx := startDevice(t)
	s := dev.CreateWindowSurface(d, egl.Config(2), NewWindow(4, 4), nil)
	require.True(t, dev.MakeCurrent(d, s, s, ctx))

	var buf bytes.Buffer
	gl := dev.WrapDebug(dev.GL(ctx), true, &buf).(Canvas)
	gl.Clear(color.Black)
	gl.FillPolygon([]f32.Vec2{{0, 0}, {4, 0}, {0, 4}}, color.White)
	assert.Equal(t, "glClear({0});\nglFillPolygon(3 points, {65535});\n", buf.String())

	// Non canvas interfaces are returned unchanged.
	assert.Equal(t, "plain", dev.WrapDebug("plain", true, nil))
}
