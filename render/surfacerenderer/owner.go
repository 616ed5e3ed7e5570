// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package surfacerenderer

import (
	log "github.com/sirupsen/logrus"

	"go.autosurface.dev/render/core"
	"go.autosurface.dev/render/egl"
)

// SurfaceRenderer implements core.Owner for its render thread.

func (s *SurfaceRenderer) currentRenderer() core.Renderer {
	s.optMu.RLock()
	defer s.optMu.RUnlock()
	return s.renderer
}

func (s *SurfaceRenderer) OnSurfaceCreated(gl egl.GL, config egl.Config) {
	s.currentRenderer().OnSurfaceCreated(gl, config)
}

func (s *SurfaceRenderer) OnSurfaceChanged(gl egl.GL, width, height int) {
	s.currentRenderer().OnSurfaceChanged(gl, width, height)
}

func (s *SurfaceRenderer) OnDrawFrame(gl egl.GL) {
	s.currentRenderer().OnDrawFrame(gl)
}

func (s *SurfaceRenderer) ConfigChooser() core.ConfigChooser {
	s.optMu.RLock()
	defer s.optMu.RUnlock()
	return s.chooser
}

func (s *SurfaceRenderer) ContextFactory() core.ContextFactory {
	s.optMu.RLock()
	defer s.optMu.RUnlock()
	return s.contextFactory
}

func (s *SurfaceRenderer) WindowSurfaceFactory() core.WindowSurfaceFactory {
	s.optMu.RLock()
	defer s.optMu.RUnlock()
	return s.surfaceFactory
}

func (s *SurfaceRenderer) NativeWindow() egl.NativeWindow {
	return s.surface
}

func (s *SurfaceRenderer) GLWrapper() core.GLWrapper {
	s.optMu.RLock()
	defer s.optMu.RUnlock()
	return s.glWrapper
}

func (s *SurfaceRenderer) DebugFlags() core.DebugFlags {
	s.optMu.RLock()
	defer s.optMu.RUnlock()
	return s.debugFlags
}

func (s *SurfaceRenderer) PreserveContextOnPause() bool {
	s.optMu.RLock()
	defer s.optMu.RUnlock()
	return s.preserveContextOnPause
}

// loggingRenderer stands in when the application sets no renderer.
type loggingRenderer struct{}

func (loggingRenderer) OnSurfaceCreated(gl egl.GL, config egl.Config) {
	log.WithField("config", config).Info("onSurfaceCreated")
}

func (loggingRenderer) OnSurfaceChanged(gl egl.GL, width, height int) {
	log.Infof("onSurfaceChanged %d %d", width, height)
}

func (loggingRenderer) OnDrawFrame(gl egl.GL) {
	log.Trace("onDrawFrame")
}
