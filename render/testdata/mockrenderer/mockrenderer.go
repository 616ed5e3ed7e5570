// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package mockrenderer

import (
	"sync"

	"go.autosurface.dev/render/egl"
)

// Kind of a recorded renderer callback.
type Kind string

const (
	Created Kind = "created"
	Changed Kind = "changed"
	Draw    Kind = "draw"
)

// Event is one recorded callback. Width and Height are the size last reported
// by OnSurfaceChanged.
type Event struct {
	Kind   Kind
	Width  int
	Height int
}

// Recorder implements core.Renderer and records every callback.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	width  int
	height int

	// OnDraw, when set, runs inside OnDrawFrame on the render thread.
	OnDraw func(gl egl.GL)
}

func (r *Recorder) OnSurfaceCreated(gl egl.GL, config egl.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: Created})
}

func (r *Recorder) OnSurfaceChanged(gl egl.GL, width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	r.events = append(r.events, Event{Kind: Changed, Width: width, Height: height})
	r.mu.Unlock()
}

func (r *Recorder) OnDrawFrame(gl egl.GL) {
	r.mu.Lock()
	r.events = append(r.events, Event{Kind: Draw, Width: r.width, Height: r.height})
	hook := r.OnDraw
	r.mu.Unlock()
	if hook != nil {
		hook(gl)
	}
}

// SetOnDraw replaces the draw hook.
func (r *Recorder) SetOnDraw(hook func(gl egl.GL)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.OnDraw = hook
}

// Events returns a copy of the recorded callbacks.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns the number of recorded callbacks of kind k.
func (r *Recorder) Count(k Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Kinds returns the recorded callback kinds with consecutive draws collapsed,
// e.g. [created changed draw].
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kinds []Kind
	for _, e := range r.events {
		if e.Kind == Draw && len(kinds) > 0 && kinds[len(kinds)-1] == Draw {
			continue
		}
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// Reset drops all recorded callbacks.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
