// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package surfacerenderer

import (
	"go.autosurface.dev/render/core"
)

// Option configures a SurfaceRenderer at construction.
type Option func(*SurfaceRenderer)

// WithRenderer sets the application renderer. Without one, callbacks are logged.
func WithRenderer(r core.Renderer) Option {
	return func(s *SurfaceRenderer) { s.renderer = r }
}

// WithThreadManager coordinates the render thread with m instead of the
// shared manager.
func WithThreadManager(m *core.ThreadManager) Option {
	return func(s *SurfaceRenderer) { s.manager = m }
}

func WithRenderMode(mode core.RenderMode) Option {
	return func(s *SurfaceRenderer) { s.renderMode = mode }
}

func WithContextVersion(version int) Option {
	return func(s *SurfaceRenderer) { s.contextVersion = version }
}

// WithConfigChooser selects the framebuffer config chooser. A
// *chooser.ComponentSizeChooser is copied; other choosers with a
// SetContextVersion method are shared and updated in place.
func WithConfigChooser(c core.ConfigChooser) Option {
	return func(s *SurfaceRenderer) { s.chooser = c }
}

// WithContextFactory selects the context factory. A
// *factory.DefaultContextFactory is copied like the chooser.
func WithContextFactory(f core.ContextFactory) Option {
	return func(s *SurfaceRenderer) { s.contextFactory = f }
}

func WithWindowSurfaceFactory(f core.WindowSurfaceFactory) Option {
	return func(s *SurfaceRenderer) { s.surfaceFactory = f }
}

func WithPreserveContextOnPause(preserve bool) Option {
	return func(s *SurfaceRenderer) { s.preserveContextOnPause = preserve }
}

func WithGLWrapper(w core.GLWrapper) Option {
	return func(s *SurfaceRenderer) { s.glWrapper = w }
}

func WithDebugFlags(flags core.DebugFlags) Option {
	return func(s *SurfaceRenderer) { s.debugFlags = flags }
}
