// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fatalerror

import (
	"errors"

	"go.autosurface.dev/render/egl"
)

// This package defines the error types a render thread can stop with.
// Separate package for namespacing

// ErrorType classifies a render thread failure.
type ErrorType string

const (
	DeviceNoDisplay      ErrorType = "Device.NoDisplay"      // no display connection available
	DeviceInitError      ErrorType = "Device.InitError"      // display could not be initialized
	DeviceNotInitialized ErrorType = "Device.NotInitialized" // surface requested before device start
	ConfigMismatch       ErrorType = "Config.Mismatch"       // no pixel format satisfies the chooser
	ContextCreateError   ErrorType = "Context.CreateError"
	ContextDestroyError  ErrorType = "Context.DestroyError"
	Unknown              ErrorType = "Unknown"
)

// DeviceError is a failed device call. It wraps the sentinel callers match on.
type DeviceError struct {
	Type     ErrorType
	Function string
	Code     egl.ErrorCode
	Err      error
}

func (e *DeviceError) Error() string {
	switch {
	case e.Code != 0:
		return egl.FormatError(e.Function, e.Code)
	case e.Err != nil:
		return e.Function + " failed: " + e.Err.Error()
	}
	return e.Function + " failed"
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// TypeOf returns the ErrorType carried by err, or Unknown.
func TypeOf(err error) ErrorType {
	var de *DeviceError
	if errors.As(err, &de) {
		return de.Type
	}
	return Unknown
}
