// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"time"
)

// State is the lifecycle state of a render thread, derived from its flags.
type State string

const (
	WaitingForSurface State = "WaitingForSurface"
	ContextAcquired   State = "ContextAcquired"
	SurfaceAcquired   State = "SurfaceAcquired"
	Drawing           State = "Drawing"
	Paused            State = "Paused"
	ReleasingContext  State = "ReleasingContext"
	Exited            State = "Exited"
)

// RenderMode selects when frames are drawn.
type RenderMode int

const (
	// WhenDirty draws only after RequestRender.
	WhenDirty RenderMode = iota
	// Continuous draws on every pass of the render loop.
	Continuous
)

func (m RenderMode) String() string {
	switch m {
	case WhenDirty:
		return "when-dirty"
	case Continuous:
		return "continuous"
	}
	return "invalid"
}

// Valid reports whether m is one of the two render modes.
func (m RenderMode) Valid() bool {
	return m == WhenDirty || m == Continuous
}

// stateLocked derives the current State. The manager must be locked.
func (t *RenderThread) stateLocked() State {
	switch {
	case t.exited:
		return Exited
	case t.shouldReleaseContext:
		return ReleasingContext
	case t.paused:
		return Paused
	case !t.hasSurface || t.waitingForSurface:
		return WaitingForSurface
	case t.ableToDrawLocked():
		return Drawing
	case t.haveSurface:
		return SurfaceAcquired
	case t.haveContext:
		return ContextAcquired
	}
	return WaitingForSurface
}

// noteStateLocked records a change of the derived state.
func (t *RenderThread) noteStateLocked() {
	if s := t.stateLocked(); s != t.state {
		t.log.WithField("from", t.state).Debugf("state %s", s)
		t.state = s
		t.stateModified = time.Now()
	}
}

// ParseRenderMode parses the String form of a RenderMode.
func ParseRenderMode(s string) (RenderMode, error) {
	switch s {
	case "when-dirty":
		return WhenDirty, nil
	case "continuous":
		return Continuous, nil
	}
	return WhenDirty, ErrInvalidRenderMode
}
