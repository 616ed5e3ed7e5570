// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package surfacerenderer is the control API of a render thread bound to one
// host surface.
package surfacerenderer

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"go.autosurface.dev/render/chooser"
	"go.autosurface.dev/render/core"
	"go.autosurface.dev/render/core/statejson"
	"go.autosurface.dev/render/egl"
	"go.autosurface.dev/render/factory"
)

// ErrAlreadyCreated is returned by Create on an attached renderer.
var ErrAlreadyCreated = errors.New("AlreadyCreated")

// ErrNotCreated is returned by control calls made before Create.
var ErrNotCreated = errors.New("NotCreated")

// ErrRendererThreadExists is returned when a setting can no longer change
// because the render thread has been created.
var ErrRendererThreadExists = errors.New("RendererThreadExists")

type versioned interface {
	SetContextVersion(version int)
}

// SurfaceRenderer owns the render thread of one host surface. A new
// SurfaceRenderer is created for every surface the host makes available.
type SurfaceRenderer struct {
	api     egl.API
	surface egl.NativeWindow
	width   int
	height  int
	manager *core.ThreadManager

	// mu guards the control state. It is never held while waiting on the
	// render thread, since renderer callbacks may call back into s.
	mu             sync.Mutex
	thread         *core.RenderThread
	ref            *core.OwnerRef
	detached       bool
	renderMode     core.RenderMode
	contextVersion int

	// optMu guards what the render thread reads through core.Owner.
	optMu                  sync.RWMutex
	renderer               core.Renderer
	chooser                core.ConfigChooser
	contextFactory         core.ContextFactory
	surfaceFactory         core.WindowSurfaceFactory
	glWrapper              core.GLWrapper
	debugFlags             core.DebugFlags
	preserveContextOnPause bool
}

// New returns a detached renderer for surface, drawn through api.
func New(api egl.API, surface egl.NativeWindow, width, height int, opts ...Option) *SurfaceRenderer {
	s := &SurfaceRenderer{
		api:            api,
		surface:        surface,
		width:          width,
		height:         height,
		manager:        core.SharedThreadManager(),
		detached:       true,
		renderMode:     core.WhenDirty,
		contextVersion: 2,
		chooser:        chooser.NewSimpleChooser(true),
		contextFactory: factory.NewDefaultContextFactory(),
		surfaceFactory: factory.NewDefaultWindowSurfaceFactory(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ownVersioned()
	s.applyContextVersion(s.contextVersion)
	if s.renderer == nil {
		s.renderer = &loggingRenderer{}
	}
	return s
}

// ownVersioned copies the stock chooser and context factory, so a version
// set on this renderer does not leak into others built from the same options.
func (s *SurfaceRenderer) ownVersioned() {
	if c, ok := s.chooser.(*chooser.ComponentSizeChooser); ok && c != nil {
		own := *c
		s.chooser = &own
	}
	if f, ok := s.contextFactory.(*factory.DefaultContextFactory); ok && f != nil {
		own := *f
		s.contextFactory = &own
	}
}

func (s *SurfaceRenderer) applyContextVersion(version int) {
	if v, ok := s.chooser.(versioned); ok {
		v.SetContextVersion(version)
	}
	if v, ok := s.contextFactory.(versioned); ok {
		v.SetContextVersion(version)
	}
}

// Create starts the render thread and hands it the surface.
func (s *SurfaceRenderer) Create() error {
	s.mu.Lock()
	log.WithField("detached", s.detached).Info("create")
	if !s.detached {
		s.mu.Unlock()
		return ErrAlreadyCreated
	}
	ref := core.NewOwnerRef(s)
	thread := core.NewRenderThread(s.manager, s.api, ref)
	if err := thread.SetRenderMode(s.renderMode); err != nil {
		s.mu.Unlock()
		return err
	}
	s.thread = thread
	s.ref = ref
	s.detached = false
	width, height := s.width, s.height
	s.mu.Unlock()

	thread.Start()
	thread.SurfaceCreated()
	thread.OnWindowResize(width, height)
	return nil
}

// Destroy tells the render thread the surface is gone and waits for it to
// exit. It is a no-op when the renderer is detached.
func (s *SurfaceRenderer) Destroy() error {
	s.mu.Lock()
	thread, ref, detached := s.thread, s.ref, s.detached
	s.mu.Unlock()
	log.WithField("detached", detached).Info("destroy")
	if detached || thread == nil {
		return nil
	}
	if thread.IsRenderThread() {
		return core.ErrCalledFromRenderThread
	}

	thread.SurfaceDestroyed()
	if err := thread.RequestExitAndWait(); err != nil {
		return err
	}

	s.mu.Lock()
	s.detached = true
	s.mu.Unlock()
	ref.Clear()
	return nil
}

func (s *SurfaceRenderer) currentThread() (*core.RenderThread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.thread == nil {
		return nil, ErrNotCreated
	}
	return s.thread, nil
}

// Pause stops drawing and waits until the render thread is paused. The
// context is released too unless preserved on pause.
func (s *SurfaceRenderer) Pause() error {
	thread, err := s.currentThread()
	if err != nil {
		return err
	}
	thread.OnPause()
	return nil
}

// Resume restarts drawing, recreating the context when needed.
func (s *SurfaceRenderer) Resume() error {
	thread, err := s.currentThread()
	if err != nil {
		return err
	}
	thread.OnResume()
	return nil
}

// OnWindowResize sets the drawable size and waits for a frame of that size.
func (s *SurfaceRenderer) OnWindowResize(width, height int) error {
	thread, err := s.currentThread()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
	thread.OnWindowResize(width, height)
	return nil
}

// QueueEvent runs event on the render thread.
func (s *SurfaceRenderer) QueueEvent(event func()) error {
	thread, err := s.currentThread()
	if err != nil {
		return err
	}
	return thread.QueueEvent(event)
}

func (s *SurfaceRenderer) RequestRender() error {
	thread, err := s.currentThread()
	if err != nil {
		return err
	}
	thread.RequestRender()
	return nil
}

// RequestRenderAndNotify asks for a frame and runs finish on the render
// thread once it is drawn.
func (s *SurfaceRenderer) RequestRenderAndNotify(finish func()) error {
	thread, err := s.currentThread()
	if err != nil {
		return err
	}
	thread.RequestRenderAndNotify(finish)
	return nil
}

// SetRenderMode sets the render mode, now and for a thread created later.
func (s *SurfaceRenderer) SetRenderMode(mode core.RenderMode) error {
	if !mode.Valid() {
		return core.ErrInvalidRenderMode
	}
	s.mu.Lock()
	s.renderMode = mode
	thread := s.thread
	s.mu.Unlock()
	if thread != nil {
		return thread.SetRenderMode(mode)
	}
	return nil
}

func (s *SurfaceRenderer) RenderMode() core.RenderMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderMode
}

// SetContextVersion selects the client API version of the context. It must
// be called before Create.
func (s *SurfaceRenderer) SetContextVersion(version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.thread != nil {
		return ErrRendererThreadExists
	}
	s.contextVersion = version
	s.optMu.Lock()
	s.applyContextVersion(version)
	s.optMu.Unlock()
	return nil
}

func (s *SurfaceRenderer) ContextVersion() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextVersion
}

func (s *SurfaceRenderer) SetPreserveContextOnPause(preserve bool) {
	s.optMu.Lock()
	defer s.optMu.Unlock()
	s.preserveContextOnPause = preserve
}

func (s *SurfaceRenderer) SetGLWrapper(w core.GLWrapper) {
	s.optMu.Lock()
	defer s.optMu.Unlock()
	s.glWrapper = w
}

func (s *SurfaceRenderer) SetDebugFlags(flags core.DebugFlags) {
	s.optMu.Lock()
	defer s.optMu.Unlock()
	s.debugFlags = flags
}

// Err returns the error that stopped the render thread, if any.
func (s *SurfaceRenderer) Err() error {
	thread, err := s.currentThread()
	if err != nil {
		return nil
	}
	return thread.Err()
}

// Describe returns a snapshot of the render thread state.
func (s *SurfaceRenderer) Describe() (statejson.InternalStateDescription, error) {
	thread, err := s.currentThread()
	if err != nil {
		return statejson.InternalStateDescription{}, err
	}
	return thread.Describe(), nil
}

// Surface returns the host surface the renderer draws to.
func (s *SurfaceRenderer) Surface() egl.NativeWindow {
	return s.surface
}
