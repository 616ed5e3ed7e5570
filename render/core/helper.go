// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"go.autosurface.dev/render/egl"
	"go.autosurface.dev/render/fatalerror"
	"go.autosurface.dev/render/logging"
)

// Helper holds the device handles of one render thread and performs the
// device calls on them. Only the render thread uses a Helper.
type Helper struct {
	api   egl.API
	owner *OwnerRef
	log   *log.Entry

	display egl.Display
	surface egl.Surface
	config  egl.Config
	context egl.Context

	// Factories are kept from creation time so resources can be released
	// after the owner is gone.
	contextFactory ContextFactory
	surfaceFactory WindowSurfaceFactory
}

// NewHelper returns a Helper using api on behalf of owner.
func NewHelper(api egl.API, owner *OwnerRef, entry *log.Entry) *Helper {
	return &Helper{api: api, owner: owner, log: entry}
}

// Config returns the chosen config.
func (h *Helper) Config() egl.Config {
	return h.config
}

// Start connects to the default display, chooses a config and creates a
// context. Errors are fatal for the render thread.
func (h *Helper) Start() error {
	h.log.Debug("helper start")

	h.display = h.api.GetDisplay(egl.DefaultDisplay)
	if h.display == egl.NoDisplay {
		return &fatalerror.DeviceError{Type: fatalerror.DeviceNoDisplay, Function: "eglGetDisplay", Err: ErrNoDisplay}
	}

	if _, _, ok := h.api.Initialize(h.display); !ok {
		err := &fatalerror.DeviceError{Type: fatalerror.DeviceInitError, Function: "eglInitialize", Code: h.api.GetError(), Err: ErrInitialize}
		h.display = egl.NoDisplay
		return err
	}

	owner := h.owner.Get()
	if owner == nil {
		h.config = egl.NoConfig
		h.context = egl.NoContext
	} else {
		config, err := owner.ConfigChooser().ChooseConfig(h.api, h.display)
		if err != nil {
			h.Finish()
			return &fatalerror.DeviceError{Type: fatalerror.ConfigMismatch, Function: "chooseConfig", Err: err}
		}
		h.config = config
		h.contextFactory = owner.ContextFactory()
		h.context = h.contextFactory.CreateContext(h.api, h.display, h.config)
	}
	if h.context == egl.NoContext {
		err := &fatalerror.DeviceError{Type: fatalerror.ContextCreateError, Function: "createContext", Code: h.api.GetError(), Err: ErrCreateContext}
		h.Finish()
		return err
	}
	h.log.WithField("context", h.context).Debug("created context")

	h.surface = egl.NoSurface
	return nil
}

// CreateSurface replaces the drawable with one bound to the owner's native
// window and makes the context current on it. A returned error wrapping
// ErrBadSurface is recoverable; any other error is fatal.
func (h *Helper) CreateSurface() error {
	h.log.Debug("helper createSurface")
	if h.display == egl.NoDisplay || h.config == egl.NoConfig {
		return &fatalerror.DeviceError{Type: fatalerror.DeviceNotInitialized, Function: "createSurface", Err: ErrNotStarted}
	}

	// The window size has changed, so a new drawable is needed.
	h.destroySurface()

	if owner := h.owner.Get(); owner != nil {
		h.surfaceFactory = owner.WindowSurfaceFactory()
		h.surface = h.surfaceFactory.CreateWindowSurface(h.api, h.display, h.config, owner.NativeWindow())
	}
	if h.surface == egl.NoSurface {
		code := h.api.GetError()
		if code == egl.BadNativeWindow {
			h.log.Error("createWindowSurface returned EGL_BAD_NATIVE_WINDOW")
		}
		return fmt.Errorf("%w: %s", ErrBadSurface, egl.FormatError("eglCreateWindowSurface", code))
	}

	if !h.api.MakeCurrent(h.display, h.surface, h.surface, h.context) {
		// Most likely the host surface was destroyed underneath us.
		msg := egl.FormatError("eglMakeCurrent", h.api.GetError())
		h.log.Warn(msg)
		return fmt.Errorf("%w: %s", ErrBadSurface, msg)
	}
	return nil
}

// CreateGL returns the graphics interface of the context, wrapped as the
// owner asks.
func (h *Helper) CreateGL() egl.GL {
	gl := h.api.GL(h.context)
	owner := h.owner.Get()
	if owner == nil {
		return gl
	}
	if w := owner.GLWrapper(); w != nil {
		gl = w.Wrap(gl)
	}
	flags := owner.DebugFlags()
	if flags&(DebugCheckGLError|DebugLogGLCalls) == 0 {
		return gl
	}
	debug, ok := h.api.(egl.DebugAPI)
	if !ok {
		h.log.Warn("debug flags set but the device has no debug wrapper")
		return gl
	}
	var sink io.Writer
	if flags&DebugLogGLCalls != 0 {
		sink = logging.NewLogWriter(h.log.WithField("component", "gl"), log.DebugLevel)
	}
	return debug.WrapDebug(gl, flags&DebugCheckGLError != 0, sink)
}

// Swap presents the drawable and returns the device error code.
func (h *Helper) Swap() egl.ErrorCode {
	if !h.api.SwapBuffers(h.display, h.surface) {
		return h.api.GetError()
	}
	return egl.Success
}

// DestroySurface releases the drawable.
func (h *Helper) DestroySurface() {
	h.log.Debug("helper destroySurface")
	h.destroySurface()
}

func (h *Helper) destroySurface() {
	if h.surface == egl.NoSurface {
		return
	}
	h.api.MakeCurrent(h.display, egl.NoSurface, egl.NoSurface, egl.NoContext)
	if h.surfaceFactory != nil {
		h.surfaceFactory.DestroySurface(h.api, h.display, h.surface)
	}
	h.surface = egl.NoSurface
}

// Finish releases the context and the display connection. The handles are
// dropped even when the context factory reports an error.
func (h *Helper) Finish() error {
	h.log.Debug("helper finish")
	var err error
	if h.context != egl.NoContext {
		if h.contextFactory != nil {
			err = h.contextFactory.DestroyContext(h.api, h.display, h.context)
		}
		h.context = egl.NoContext
	}
	if h.display != egl.NoDisplay {
		h.api.Terminate(h.display)
		h.display = egl.NoDisplay
	}
	return err
}
