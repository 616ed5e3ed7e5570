// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package host adapts host surface callbacks to surface renderers.
package host

import (
	"image"
	"sync"

	log "github.com/sirupsen/logrus"

	"go.autosurface.dev/render/core"
	"go.autosurface.dev/render/egl"
	"go.autosurface.dev/render/surfacerenderer"
)

// SurfaceContainer is a host surface together with its size.
type SurfaceContainer struct {
	Surface egl.NativeWindow
	Width   int
	Height  int
}

// SurfaceCallback receives surface lifecycle and gesture notifications from
// the host, on the host's callback thread.
type SurfaceCallback interface {
	OnSurfaceAvailable(container SurfaceContainer)
	OnVisibleAreaChanged(visibleArea image.Rectangle)
	OnStableAreaChanged(stableArea image.Rectangle)
	OnSurfaceDestroyed(container SurfaceContainer)
	OnScroll(distanceX, distanceY float32)
	OnScale(focusX, focusY, scaleFactor float32)
	OnFling(velocityX, velocityY float32)
	OnClick(x, y float32)
}

// Controller is a SurfaceCallback creating a SurfaceRenderer for every
// available surface and destroying it with the surface.
type Controller struct {
	mu       sync.Mutex
	api      egl.API
	opts     []surfacerenderer.Option
	version  int
	mode     core.RenderMode
	active   *surfacerenderer.SurfaceRenderer
	visible  image.Rectangle
	stable   image.Rectangle
	lastErr  error
	surfaces int
}

// NewController returns a controller creating renderers on api with the given
// context version and render mode. opts are passed to every renderer.
func NewController(api egl.API, contextVersion int, mode core.RenderMode, opts ...surfacerenderer.Option) *Controller {
	return &Controller{
		api:     api,
		opts:    opts,
		version: contextVersion,
		mode:    mode,
	}
}

func (c *Controller) OnSurfaceAvailable(container SurfaceContainer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	log.WithFields(log.Fields{"width": container.Width, "height": container.Height}).Info("onSurfaceAvailable")

	if c.active != nil {
		// The host never reported the old surface destroyed.
		log.Warn("surface available while another is active")
		c.destroyLocked()
	}

	r := surfacerenderer.New(c.api, container.Surface, container.Width, container.Height, c.opts...)
	if err := r.SetContextVersion(c.version); err != nil {
		c.lastErr = err
		log.WithError(err).Error("setContextVersion")
		return
	}
	if err := r.SetRenderMode(c.mode); err != nil {
		c.lastErr = err
		log.WithError(err).Error("setRenderMode")
		return
	}
	if err := r.Create(); err != nil {
		c.lastErr = err
		log.WithError(err).Error("create")
		return
	}
	c.active = r
	c.surfaces++
}

func (c *Controller) OnVisibleAreaChanged(visibleArea image.Rectangle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	log.WithField("area", visibleArea).Info("onVisibleAreaChanged")
	c.visible = visibleArea
}

func (c *Controller) OnStableAreaChanged(stableArea image.Rectangle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	log.WithField("area", stableArea).Info("onStableAreaChanged")
	c.stable = stableArea
}

func (c *Controller) OnSurfaceDestroyed(container SurfaceContainer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	log.Info("onSurfaceDestroyed")
	c.destroyLocked()
}

func (c *Controller) destroyLocked() {
	if c.active == nil {
		return
	}
	if err := c.active.Destroy(); err != nil {
		c.lastErr = err
		log.WithError(err).Error("destroy")
	}
	if err := c.active.Err(); err != nil {
		c.lastErr = err
		log.WithError(err).Error("renderer stopped")
	}
	c.active = nil
}

func (c *Controller) OnScroll(distanceX, distanceY float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	log.WithFields(log.Fields{"dx": distanceX, "dy": distanceY}).Debug("onScroll")
}

func (c *Controller) OnScale(focusX, focusY, scaleFactor float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	log.WithFields(log.Fields{"x": focusX, "y": focusY, "factor": scaleFactor}).Debug("onScale")
}

func (c *Controller) OnFling(velocityX, velocityY float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	log.WithFields(log.Fields{"vx": velocityX, "vy": velocityY}).Debug("onFling")
}

func (c *Controller) OnClick(x, y float32) {
	log.WithFields(log.Fields{"x": x, "y": y}).Debug("onClick")
}

// ActiveRenderer returns the renderer of the current surface, or nil.
func (c *Controller) ActiveRenderer() *surfacerenderer.SurfaceRenderer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Areas returns the last visible and stable areas reported by the host.
func (c *Controller) Areas() (visible, stable image.Rectangle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible, c.stable
}

// Err returns the last error met while handling a callback, including the
// error a destroyed renderer's thread stopped with.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Surfaces returns how many surfaces got a renderer so far.
func (c *Controller) Surfaces() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surfaces
}
