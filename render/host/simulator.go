// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package host

import (
	"errors"
	"image"
	"sync"

	"go.autosurface.dev/render/egl/softegl"
	"go.autosurface.dev/render/surfacerenderer"
)

// ErrNoSurface is returned when no simulated surface is attached.
var ErrNoSurface = errors.New("NoSurface")

// Simulator plays the host side on a software device: it creates and tears
// down windows and reports them to a SurfaceCallback.
type Simulator struct {
	mu       sync.Mutex
	callback SurfaceCallback
	renderer func() *surfacerenderer.SurfaceRenderer
	window   *softegl.Window
}

// NewSimulator returns a simulator reporting to controller.
func NewSimulator(controller *Controller) *Simulator {
	return &Simulator{
		callback: controller,
		renderer: controller.ActiveRenderer,
	}
}

// Attach makes a new window of the given size available. A window still
// attached is destroyed first.
func (s *Simulator) Attach(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width <= 0 || height <= 0 {
		return errors.New("surface size must be positive")
	}
	if s.window != nil {
		s.detachLocked()
	}
	s.window = softegl.NewWindow(width, height)
	s.callback.OnSurfaceAvailable(SurfaceContainer{Surface: s.window, Width: width, Height: height})
	s.callback.OnVisibleAreaChanged(image.Rect(0, 0, width, height))
	s.callback.OnStableAreaChanged(image.Rect(0, 0, width, height))
	return nil
}

// Detach destroys the attached window.
func (s *Simulator) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == nil {
		return ErrNoSurface
	}
	s.detachLocked()
	return nil
}

func (s *Simulator) detachLocked() {
	s.callback.OnSurfaceDestroyed(SurfaceContainer{Surface: s.window})
	s.window.Invalidate()
	s.window = nil
}

// Resize changes the window size the way a host does, then tells the
// renderer about it.
func (s *Simulator) Resize(width, height int) error {
	s.mu.Lock()
	w := s.window
	s.mu.Unlock()
	r := s.ActiveRenderer()
	if w == nil || r == nil {
		return ErrNoSurface
	}
	w.Resize(width, height)
	return r.OnWindowResize(width, height)
}

// Frame returns the last frame presented on the attached window.
func (s *Simulator) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == nil {
		return nil, ErrNoSurface
	}
	return s.window.Snapshot(), nil
}

// ActiveRenderer returns the renderer of the attached window, or nil.
func (s *Simulator) ActiveRenderer() *surfacerenderer.SurfaceRenderer {
	return s.renderer()
}
