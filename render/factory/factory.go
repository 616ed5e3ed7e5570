// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package factory holds the default context and window surface factories.
package factory

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"go.autosurface.dev/render/egl"
	"go.autosurface.dev/render/fatalerror"
)

// DefaultContextFactory creates contexts of the configured client version.
type DefaultContextFactory struct {
	// ContextVersion is the client API version requested. Zero requests the
	// driver default.
	ContextVersion int
}

// NewDefaultContextFactory returns a GLES 2 context factory.
func NewDefaultContextFactory() *DefaultContextFactory {
	return &DefaultContextFactory{ContextVersion: 2}
}

// SetContextVersion implements the version hook the renderer facade uses.
func (f *DefaultContextFactory) SetContextVersion(version int) {
	f.ContextVersion = version
}

func (f *DefaultContextFactory) CreateContext(api egl.API, display egl.Display, config egl.Config) egl.Context {
	var attribs []int32
	if f.ContextVersion != 0 {
		attribs = []int32{egl.ContextClientVersion, int32(f.ContextVersion), egl.None}
	}
	return api.CreateContext(display, config, egl.NoContext, attribs)
}

func (f *DefaultContextFactory) DestroyContext(api egl.API, display egl.Display, context egl.Context) error {
	if !api.DestroyContext(display, context) {
		code := api.GetError()
		log.WithFields(log.Fields{"display": display, "context": context}).Error("eglDestroyContext failed")
		return &fatalerror.DeviceError{
			Type:     fatalerror.ContextDestroyError,
			Function: "eglDestroyContext",
			Code:     code,
		}
	}
	return nil
}

// DefaultWindowSurfaceFactory creates window drawables with no attributes.
type DefaultWindowSurfaceFactory struct{}

// NewDefaultWindowSurfaceFactory returns the default window surface factory.
func NewDefaultWindowSurfaceFactory() *DefaultWindowSurfaceFactory {
	return &DefaultWindowSurfaceFactory{}
}

// CreateWindowSurface returns egl.NoSurface when the native window is no
// longer valid. That happens when the host tore the surface down before
// telling us; the panic guard covers bindings that report it by panicking.
func (f *DefaultWindowSurfaceFactory) CreateWindowSurface(api egl.API, display egl.Display, config egl.Config, win egl.NativeWindow) (surface egl.Surface) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("cause", fmt.Sprint(r)).Error("eglCreateWindowSurface")
			surface = egl.NoSurface
		}
	}()
	return api.CreateWindowSurface(display, config, win, nil)
}

func (f *DefaultWindowSurfaceFactory) DestroySurface(api egl.API, display egl.Display, surface egl.Surface) {
	api.DestroySurface(display, surface)
}
