// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import "errors"

var ErrNoDisplay = errors.New("NoDisplay")
var ErrInitialize = errors.New("InitializeFailed")
var ErrCreateContext = errors.New("CreateContextFailed")
var ErrNotStarted = errors.New("DeviceNotStarted")

// ErrBadSurface is returned when a drawable cannot be created or bound. It
// is recovered by waiting for a new host surface.
var ErrBadSurface = errors.New("BadSurface")

var ErrNilEvent = errors.New("NilEvent")
var ErrInvalidRenderMode = errors.New("InvalidRenderMode")
var ErrCalledFromRenderThread = errors.New("CalledFromRenderThread")
