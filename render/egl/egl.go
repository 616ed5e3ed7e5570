// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package egl describes the device API the render thread drives. The
// concrete driver binding is supplied by the embedder; handles are opaque.
package egl

import (
	"fmt"
	"io"
)

// Display is an opaque connection to a display device.
type Display uintptr

// Config is an opaque framebuffer configuration handle.
type Config uintptr

// Context is an opaque graphics context handle.
type Context uintptr

// Surface is an opaque drawable surface handle.
type Surface uintptr

// NativeDisplay identifies the native display to connect to.
type NativeDisplay uintptr

// NativeWindow is the host-owned display surface a drawable is bound to.
type NativeWindow interface{}

// GL is the raw graphics interface bound to a context. Its shape is owned by
// the driver binding and passed through to the application untouched.
type GL interface{}

const (
	NoDisplay Display = 0
	NoConfig  Config  = 0
	NoContext Context = 0
	NoSurface Surface = 0

	DefaultDisplay NativeDisplay = 0
)

// ErrorCode is a device error code as reported by GetError.
type ErrorCode int32

const (
	Success           ErrorCode = 0x3000
	NotInitialized    ErrorCode = 0x3001
	BadAccess         ErrorCode = 0x3002
	BadAlloc          ErrorCode = 0x3003
	BadAttribute      ErrorCode = 0x3004
	BadConfig         ErrorCode = 0x3005
	BadContext        ErrorCode = 0x3006
	BadCurrentSurface ErrorCode = 0x3007
	BadDisplay        ErrorCode = 0x3008
	BadMatch          ErrorCode = 0x3009
	BadNativePixmap   ErrorCode = 0x300A
	BadNativeWindow   ErrorCode = 0x300B
	BadParameter      ErrorCode = 0x300C
	BadSurface        ErrorCode = 0x300D
	ContextLost       ErrorCode = 0x300E
)

// Attribute names and values used in attribute lists.
const (
	AlphaSize            int32 = 0x3021
	BlueSize             int32 = 0x3022
	GreenSize            int32 = 0x3023
	RedSize              int32 = 0x3024
	DepthSize            int32 = 0x3025
	StencilSize          int32 = 0x3026
	None                 int32 = 0x3038
	RenderableType       int32 = 0x3040
	ContextClientVersion int32 = 0x3098

	OpenGLES2Bit    int32 = 0x0004
	OpenGLES3BitKHR int32 = 0x0040
)

// API is the device entry point set. Calls other than GetError report
// failure through their boolean or sentinel handle results; the cause is
// then available from GetError.
type API interface {
	GetDisplay(native NativeDisplay) Display
	Initialize(d Display) (major, minor int32, ok bool)
	Terminate(d Display) bool

	// ChooseConfig fills configs with configurations matching attribs and
	// returns how many matched. A nil configs only counts.
	ChooseConfig(d Display, attribs []int32, configs []Config) (int, bool)
	GetConfigAttrib(d Display, c Config, attrib int32) (int32, bool)

	CreateContext(d Display, c Config, share Context, attribs []int32) Context
	DestroyContext(d Display, ctx Context) bool

	CreateWindowSurface(d Display, c Config, win NativeWindow, attribs []int32) Surface
	DestroySurface(d Display, s Surface) bool

	MakeCurrent(d Display, draw, read Surface, ctx Context) bool
	SwapBuffers(d Display, s Surface) bool

	// GL returns the graphics interface of ctx.
	GL(ctx Context) GL

	GetError() ErrorCode
}

// DebugAPI is implemented by bindings able to wrap a GL interface with error
// checking and call logging.
type DebugAPI interface {
	WrapDebug(gl GL, checkErrors bool, log io.Writer) GL
}

var errorNames = map[ErrorCode]string{
	Success:           "EGL_SUCCESS",
	NotInitialized:    "EGL_NOT_INITIALIZED",
	BadAccess:         "EGL_BAD_ACCESS",
	BadAlloc:          "EGL_BAD_ALLOC",
	BadAttribute:      "EGL_BAD_ATTRIBUTE",
	BadConfig:         "EGL_BAD_CONFIG",
	BadContext:        "EGL_BAD_CONTEXT",
	BadCurrentSurface: "EGL_BAD_CURRENT_SURFACE",
	BadDisplay:        "EGL_BAD_DISPLAY",
	BadMatch:          "EGL_BAD_MATCH",
	BadNativePixmap:   "EGL_BAD_NATIVE_PIXMAP",
	BadNativeWindow:   "EGL_BAD_NATIVE_WINDOW",
	BadParameter:      "EGL_BAD_PARAMETER",
	BadSurface:        "EGL_BAD_SURFACE",
	ContextLost:       "EGL_CONTEXT_LOST",
}

func (c ErrorCode) String() string {
	if name, ok := errorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", int32(c))
}

// FormatError renders a failed device call the way the driver logs do.
func FormatError(function string, code ErrorCode) string {
	return function + " failed: " + code.String()
}
