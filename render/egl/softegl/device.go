// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package softegl is an in-memory implementation of the egl device API. It
// backs drawables with RGBA images and lets callers inject device faults, so
// the render lifecycle can run without a GPU.
package softegl

import (
	"image"
	"sync"

	"go.autosurface.dev/render/egl"
)

// ConfigSpec describes one framebuffer configuration offered by a Device.
type ConfigSpec struct {
	Red, Green, Blue, Alpha int32
	Depth, Stencil          int32
	// Renderable is the EGL_RENDERABLE_TYPE bit mask.
	Renderable int32
}

// DefaultConfigs mirrors what a typical phone GPU exposes.
var DefaultConfigs = []ConfigSpec{
	{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8, Renderable: egl.OpenGLES2Bit | egl.OpenGLES3BitKHR},
	{Red: 8, Green: 8, Blue: 8, Alpha: 0, Depth: 24, Stencil: 8, Renderable: egl.OpenGLES2Bit | egl.OpenGLES3BitKHR},
	{Red: 8, Green: 8, Blue: 8, Alpha: 0, Depth: 16, Stencil: 0, Renderable: egl.OpenGLES2Bit},
	{Red: 5, Green: 6, Blue: 5, Alpha: 0, Depth: 16, Stencil: 0, Renderable: egl.OpenGLES2Bit},
}

const display egl.Display = 1

type contextState struct {
	config  egl.Config
	version int32
}

type surfaceState struct {
	config egl.Config
	window *Window
	back   *image.RGBA
}

// Device is a software egl.API. The zero value is not usable; use New.
type Device struct {
	mu sync.Mutex

	configs     []ConfigSpec
	initialized bool
	lastErr     egl.ErrorCode
	nextHandle  uintptr

	contexts map[egl.Context]*contextState
	surfaces map[egl.Surface]*surfaceState

	currentCtx  egl.Context
	currentDraw egl.Surface

	noDisplay         bool
	failInitialize    bool
	failCreateContext bool
	loseContext       bool
	swapFailure       egl.ErrorCode

	calls  []string
	frames int
}

// New returns a device offering configs, or DefaultConfigs when none are given.
func New(configs ...ConfigSpec) *Device {
	if len(configs) == 0 {
		configs = DefaultConfigs
	}
	return &Device{
		configs:    append([]ConfigSpec(nil), configs...),
		lastErr:    egl.Success,
		nextHandle: 1,
		contexts:   make(map[egl.Context]*contextState),
		surfaces:   make(map[egl.Surface]*surfaceState),
	}
}

// SetDisplayAvailable controls whether GetDisplay finds a display.
func (d *Device) SetDisplayAvailable(available bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.noDisplay = !available
}

// FailInitialize makes Initialize fail while set.
func (d *Device) FailInitialize(fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failInitialize = fail
}

// FailCreateContext makes CreateContext fail while set.
func (d *Device) FailCreateContext(fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failCreateContext = fail
}

// LoseContext makes the next SwapBuffers report EGL_CONTEXT_LOST.
func (d *Device) LoseContext() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loseContext = true
}

// FailNextSwap makes the next SwapBuffers fail with code.
func (d *Device) FailNextSwap(code egl.ErrorCode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.swapFailure = code
}

// Calls returns the names of the device calls made so far, in order.
func (d *Device) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// LiveContexts returns how many contexts are currently allocated.
func (d *Device) LiveContexts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.contexts)
}

// LiveSurfaces returns how many drawables are currently allocated.
func (d *Device) LiveSurfaces() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.surfaces)
}

// Frames returns the number of successful buffer swaps.
func (d *Device) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

func (d *Device) record(call string) {
	d.calls = append(d.calls, call)
}

func (d *Device) fail(code egl.ErrorCode) {
	d.lastErr = code
}

func (d *Device) handle() uintptr {
	h := d.nextHandle
	d.nextHandle++
	return h
}

func (d *Device) GetDisplay(native egl.NativeDisplay) egl.Display {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("eglGetDisplay")
	if d.noDisplay {
		return egl.NoDisplay
	}
	return display
}

func (d *Device) Initialize(disp egl.Display) (int32, int32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("eglInitialize")
	if disp != display {
		d.fail(egl.BadDisplay)
		return 0, 0, false
	}
	if d.failInitialize {
		d.fail(egl.NotInitialized)
		return 0, 0, false
	}
	d.initialized = true
	return 1, 4, true
}

func (d *Device) Terminate(disp egl.Display) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("eglTerminate")
	if disp != display {
		d.fail(egl.BadDisplay)
		return false
	}
	d.initialized = false
	return true
}

func (d *Device) checkDisplay(disp egl.Display) bool {
	if disp != display {
		d.fail(egl.BadDisplay)
		return false
	}
	if !d.initialized {
		d.fail(egl.NotInitialized)
		return false
	}
	return true
}

func (d *Device) config(c egl.Config) (ConfigSpec, bool) {
	i := int(c) - 1
	if i < 0 || i >= len(d.configs) {
		return ConfigSpec{}, false
	}
	return d.configs[i], true
}

// ChooseConfig matches sizes as minimums and the renderable type as a mask,
// the way eglChooseConfig does.
func (d *Device) ChooseConfig(disp egl.Display, attribs []int32, configs []egl.Config) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("eglChooseConfig")
	if !d.checkDisplay(disp) {
		return 0, false
	}
	want := make(map[int32]int32)
	for i := 0; i+1 < len(attribs) && attribs[i] != egl.None; i += 2 {
		want[attribs[i]] = attribs[i+1]
	}
	if len(attribs)%2 == 0 || attribs[len(attribs)-1] != egl.None {
		d.fail(egl.BadAttribute)
		return 0, false
	}
	n := 0
	for i, spec := range d.configs {
		if !matches(spec, want) {
			continue
		}
		if configs != nil {
			if n == len(configs) {
				break
			}
			configs[n] = egl.Config(i + 1)
		}
		n++
	}
	return n, true
}

func matches(spec ConfigSpec, want map[int32]int32) bool {
	for attr, v := range want {
		switch attr {
		case egl.RenderableType:
			if spec.Renderable&v != v {
				return false
			}
		default:
			if attribValue(spec, attr) < v {
				return false
			}
		}
	}
	return true
}

func attribValue(spec ConfigSpec, attrib int32) int32 {
	switch attrib {
	case egl.RedSize:
		return spec.Red
	case egl.GreenSize:
		return spec.Green
	case egl.BlueSize:
		return spec.Blue
	case egl.AlphaSize:
		return spec.Alpha
	case egl.DepthSize:
		return spec.Depth
	case egl.StencilSize:
		return spec.Stencil
	case egl.RenderableType:
		return spec.Renderable
	}
	return 0
}

func (d *Device) GetConfigAttrib(disp egl.Display, c egl.Config, attrib int32) (int32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.checkDisplay(disp) {
		return 0, false
	}
	spec, ok := d.config(c)
	if !ok {
		d.fail(egl.BadConfig)
		return 0, false
	}
	switch attrib {
	case egl.RedSize, egl.GreenSize, egl.BlueSize, egl.AlphaSize,
		egl.DepthSize, egl.StencilSize, egl.RenderableType:
		return attribValue(spec, attrib), true
	}
	d.fail(egl.BadAttribute)
	return 0, false
}

func (d *Device) CreateContext(disp egl.Display, c egl.Config, share egl.Context, attribs []int32) egl.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("eglCreateContext")
	if !d.checkDisplay(disp) {
		return egl.NoContext
	}
	spec, ok := d.config(c)
	if !ok {
		d.fail(egl.BadConfig)
		return egl.NoContext
	}
	if d.failCreateContext {
		d.fail(egl.BadAlloc)
		return egl.NoContext
	}
	version := int32(1)
	for i := 0; i+1 < len(attribs) && attribs[i] != egl.None; i += 2 {
		if attribs[i] == egl.ContextClientVersion {
			version = attribs[i+1]
		}
	}
	switch {
	case version == 2 && spec.Renderable&egl.OpenGLES2Bit == 0,
		version == 3 && spec.Renderable&egl.OpenGLES3BitKHR == 0:
		d.fail(egl.BadMatch)
		return egl.NoContext
	}
	ctx := egl.Context(d.handle())
	d.contexts[ctx] = &contextState{config: c, version: version}
	return ctx
}

func (d *Device) DestroyContext(disp egl.Display, ctx egl.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("eglDestroyContext")
	if !d.checkDisplay(disp) {
		return false
	}
	if _, ok := d.contexts[ctx]; !ok {
		d.fail(egl.BadContext)
		return false
	}
	delete(d.contexts, ctx)
	if d.currentCtx == ctx {
		d.currentCtx = egl.NoContext
		d.currentDraw = egl.NoSurface
	}
	return true
}

func (d *Device) CreateWindowSurface(disp egl.Display, c egl.Config, win egl.NativeWindow, attribs []int32) egl.Surface {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("eglCreateWindowSurface")
	if !d.checkDisplay(disp) {
		return egl.NoSurface
	}
	if _, ok := d.config(c); !ok {
		d.fail(egl.BadConfig)
		return egl.NoSurface
	}
	w, ok := win.(*Window)
	if !ok || w == nil {
		d.fail(egl.BadNativeWindow)
		return egl.NoSurface
	}
	size, valid := w.state()
	if !valid || size.X <= 0 || size.Y <= 0 {
		d.fail(egl.BadNativeWindow)
		return egl.NoSurface
	}
	s := egl.Surface(d.handle())
	d.surfaces[s] = &surfaceState{
		config: c,
		window: w,
		back:   image.NewRGBA(image.Rectangle{Max: size}),
	}
	return s
}

func (d *Device) DestroySurface(disp egl.Display, s egl.Surface) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("eglDestroySurface")
	if !d.checkDisplay(disp) {
		return false
	}
	if _, ok := d.surfaces[s]; !ok {
		d.fail(egl.BadSurface)
		return false
	}
	delete(d.surfaces, s)
	if d.currentDraw == s {
		d.currentDraw = egl.NoSurface
	}
	return true
}

func (d *Device) MakeCurrent(disp egl.Display, draw, read egl.Surface, ctx egl.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("eglMakeCurrent")
	if !d.checkDisplay(disp) {
		return false
	}
	if ctx == egl.NoContext {
		if draw != egl.NoSurface || read != egl.NoSurface {
			d.fail(egl.BadMatch)
			return false
		}
		d.currentCtx, d.currentDraw = egl.NoContext, egl.NoSurface
		return true
	}
	if _, ok := d.contexts[ctx]; !ok {
		d.fail(egl.BadContext)
		return false
	}
	surf, ok := d.surfaces[draw]
	if !ok {
		d.fail(egl.BadSurface)
		return false
	}
	if _, valid := surf.window.state(); !valid {
		d.fail(egl.BadNativeWindow)
		return false
	}
	d.currentCtx, d.currentDraw = ctx, draw
	return true
}

func (d *Device) SwapBuffers(disp egl.Display, s egl.Surface) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.checkDisplay(disp) {
		return false
	}
	if d.loseContext {
		d.loseContext = false
		d.fail(egl.ContextLost)
		return false
	}
	if d.swapFailure != 0 && d.swapFailure != egl.Success {
		d.fail(d.swapFailure)
		d.swapFailure = 0
		return false
	}
	surf, ok := d.surfaces[s]
	if !ok {
		d.fail(egl.BadSurface)
		return false
	}
	if !surf.window.present(surf.back) {
		d.fail(egl.BadNativeWindow)
		return false
	}
	d.frames++
	return true
}

func (d *Device) GL(ctx egl.Context) egl.GL {
	return &canvas{dev: d, ctx: ctx}
}

// GetError returns and clears the last error.
func (d *Device) GetError() egl.ErrorCode {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.lastErr
	d.lastErr = egl.Success
	return err
}

// backBuffer returns the drawable bound to ctx, if ctx is current.
func (d *Device) backBuffer(ctx egl.Context) *image.RGBA {
	if ctx != d.currentCtx || d.currentDraw == egl.NoSurface {
		return nil
	}
	return d.surfaces[d.currentDraw].back
}
