// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"sync/atomic"

	"go.autosurface.dev/render/egl"
)

// Renderer is the application drawing callback. All methods run on the
// render thread, in order: OnSurfaceCreated once per context, OnSurfaceChanged
// once per size change, OnDrawFrame once per frame.
type Renderer interface {
	OnSurfaceCreated(gl egl.GL, config egl.Config)
	OnSurfaceChanged(gl egl.GL, width, height int)
	OnDrawFrame(gl egl.GL)
}

// ConfigChooser picks the framebuffer configuration.
type ConfigChooser interface {
	ChooseConfig(api egl.API, display egl.Display) (egl.Config, error)
}

// ContextFactory creates and destroys graphics contexts.
type ContextFactory interface {
	CreateContext(api egl.API, display egl.Display, config egl.Config) egl.Context
	DestroyContext(api egl.API, display egl.Display, context egl.Context) error
}

// WindowSurfaceFactory creates and destroys window drawables.
type WindowSurfaceFactory interface {
	CreateWindowSurface(api egl.API, display egl.Display, config egl.Config, win egl.NativeWindow) egl.Surface
	DestroySurface(api egl.API, display egl.Display, surface egl.Surface)
}

// GLWrapper wraps the graphics interface before it reaches the renderer.
type GLWrapper interface {
	Wrap(gl egl.GL) egl.GL
}

// DebugFlags select debug wrapping of the graphics interface.
type DebugFlags int

const (
	// DebugCheckGLError checks for errors after every graphics call.
	DebugCheckGLError DebugFlags = 1 << iota
	// DebugLogGLCalls logs every graphics call at debug level.
	DebugLogGLCalls
)

// Owner is what the render thread needs from the object that created it.
type Owner interface {
	Renderer

	ConfigChooser() ConfigChooser
	ContextFactory() ContextFactory
	WindowSurfaceFactory() WindowSurfaceFactory
	NativeWindow() egl.NativeWindow
	GLWrapper() GLWrapper
	DebugFlags() DebugFlags
	PreserveContextOnPause() bool
}

type ownerHandle struct {
	owner Owner
}

// OwnerRef is the render thread's reference to its owner. The owner clears it
// when it is discarded; the thread then skips renderer callbacks and finishes
// teardown with the factories it already holds.
type OwnerRef struct {
	handle atomic.Pointer[ownerHandle]
}

// NewOwnerRef returns a reference to owner.
func NewOwnerRef(owner Owner) *OwnerRef {
	r := &OwnerRef{}
	r.handle.Store(&ownerHandle{owner: owner})
	return r
}

// Get returns the owner, or nil once cleared.
func (r *OwnerRef) Get() Owner {
	if r == nil {
		return nil
	}
	if h := r.handle.Load(); h != nil {
		return h.owner
	}
	return nil
}

// Clear drops the reference.
func (r *OwnerRef) Clear() {
	r.handle.Store(nil)
}
