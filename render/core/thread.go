// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"go.autosurface.dev/render/core/statejson"
	"go.autosurface.dev/render/egl"
)

// RenderThread owns the context and drawable of one host surface and drives
// the owner's renderer on a goroutine locked to its OS thread.
type RenderThread struct {
	id      string
	manager *ThreadManager
	owner   *OwnerRef
	helper  *Helper
	log     *log.Entry
	tid     atomic.Int64

	// Guarded by manager.
	shouldExit              bool
	exited                  bool
	requestPaused           bool
	paused                  bool
	hasSurface              bool
	surfaceIsBad            bool
	waitingForSurface       bool
	haveContext             bool
	haveSurface             bool
	finishedCreatingSurface bool
	shouldReleaseContext    bool
	width                   int
	height                  int
	renderMode              RenderMode
	requestRender           bool
	wantRenderNotification  bool
	renderComplete          bool
	eventQueue              []func()
	sizeChanged             bool
	finishDrawing           func()
	err                     error
	state                   State
	stateModified           time.Time
}

// NewRenderThread returns a render thread for owner, coordinated by manager.
// The thread does nothing until Start.
func NewRenderThread(manager *ThreadManager, api egl.API, owner *OwnerRef) *RenderThread {
	id := uuid.New().String()
	entry := log.WithField("thread", id)
	return &RenderThread{
		id:            id,
		manager:       manager,
		owner:         owner,
		helper:        NewHelper(api, owner, entry),
		log:           entry,
		renderMode:    Continuous,
		requestRender: true,
		sizeChanged:   true,
		state:         WaitingForSurface,
		stateModified: time.Now(),
	}
}

// ID returns the thread's unique id.
func (t *RenderThread) ID() string {
	return t.id
}

// Start launches the render goroutine.
func (t *RenderThread) Start() {
	go t.run()
}

func (t *RenderThread) run() {
	// Never unlocked: the thread is discarded with the goroutine so the
	// device's thread-bound state dies with it.
	runtime.LockOSThread()
	tid := currentThreadID()
	t.tid.Store(tid)
	t.log.WithField("tid", tid).Info("starting")

	if err := t.guardedRun(); err != nil {
		t.log.WithError(err).Error("render thread failed")
	}
	t.manager.ThreadExiting(t)
}

// IsRenderThread reports whether the caller runs on this render thread.
func (t *RenderThread) IsRenderThread() bool {
	return t.tid.Load() == currentThreadID()
}

// stopSurfaceLocked must be called with the manager locked.
func (t *RenderThread) stopSurfaceLocked() {
	if t.haveSurface {
		t.haveSurface = false
		t.helper.DestroySurface()
	}
}

// stopContextLocked must be called with the manager locked.
func (t *RenderThread) stopContextLocked() error {
	if !t.haveContext {
		return nil
	}
	err := t.helper.Finish()
	t.haveContext = false
	t.manager.ReleaseContextLocked(t)
	return err
}

func (t *RenderThread) notifyLocked() {
	t.noteStateLocked()
	t.manager.NotifyAllUnsafe()
}

type step int

const (
	stepExit step = iota
	stepEvent
	stepFinishEarly
	stepDraw
)

// pass holds what the render loop carries between passes outside the monitor.
type pass struct {
	gl                     egl.GL
	createContext          bool
	createSurface          bool
	createGL               bool
	lostContext            bool
	sizeChanged            bool
	wantRenderNotification bool
	doRenderNotification   bool
	askedToReleaseContext  bool
	w, h                   int
	event                  func()
	finishDrawing          func()
}

func (t *RenderThread) guardedRun() (err error) {
	defer func() {
		t.manager.Lock()
		defer t.manager.Unlock()
		t.stopSurfaceLocked()
		if cerr := t.stopContextLocked(); err == nil {
			err = cerr
		}
		if err != nil && t.err == nil {
			t.err = err
		}
	}()

	var p pass
	for {
		t.manager.Lock()
		next, err := t.evaluateLocked(&p)
		t.manager.Unlock()
		if err != nil {
			return err
		}

		switch next {
		case stepExit:
			return nil
		case stepEvent:
			event := p.event
			p.event = nil
			event()
			continue
		case stepFinishEarly:
			finish := p.finishDrawing
			p.finishDrawing = nil
			finish()
			continue
		}

		if p.createSurface {
			serr := t.helper.CreateSurface()
			if serr != nil && !errors.Is(serr, ErrBadSurface) {
				return serr
			}
			t.manager.Lock()
			t.finishedCreatingSurface = true
			if serr != nil {
				t.log.WithError(serr).Warn("surface is bad")
				t.surfaceIsBad = true
			}
			t.notifyLocked()
			t.manager.Unlock()
			if serr != nil {
				continue
			}
			p.createSurface = false
		}

		if p.createGL {
			p.gl = t.helper.CreateGL()
			p.createGL = false
		}

		owner := t.owner.Get()
		if p.createContext {
			t.log.Debug("onSurfaceCreated")
			if owner != nil {
				owner.OnSurfaceCreated(p.gl, t.helper.Config())
			}
			p.createContext = false
		}

		if p.sizeChanged {
			t.log.Debugf("onSurfaceChanged(%d, %d)", p.w, p.h)
			if owner != nil {
				owner.OnSurfaceChanged(p.gl, p.w, p.h)
			}
			p.sizeChanged = false
		}

		if owner != nil {
			owner.OnDrawFrame(p.gl)
			if p.finishDrawing != nil {
				p.finishDrawing()
				p.finishDrawing = nil
			}
		}

		switch code := t.helper.Swap(); code {
		case egl.Success:
		case egl.ContextLost:
			t.log.Info("context lost")
			p.lostContext = true
		default:
			// Usually the host surface went away and we have not been told yet.
			t.log.Warn(egl.FormatError("eglSwapBuffers", code))
			t.manager.Lock()
			t.surfaceIsBad = true
			t.notifyLocked()
			t.manager.Unlock()
		}

		if p.wantRenderNotification {
			p.doRenderNotification = true
			p.wantRenderNotification = false
		}
	}
}

// evaluateLocked runs evaluation passes until there is work to do outside the
// monitor. It is the only place the render thread waits.
func (t *RenderThread) evaluateLocked(p *pass) (step, error) {
	for {
		if t.shouldExit {
			return stepExit, nil
		}

		if len(t.eventQueue) > 0 {
			p.event = t.eventQueue[0]
			t.eventQueue[0] = nil
			t.eventQueue = t.eventQueue[1:]
			return stepEvent, nil
		}

		pausing := false
		if t.paused != t.requestPaused {
			pausing = t.requestPaused
			t.paused = t.requestPaused
			t.notifyLocked()
			t.log.Debugf("paused is now %t", t.paused)
		}

		if t.shouldReleaseContext {
			t.log.Debug("releasing context because asked to")
			t.stopSurfaceLocked()
			if err := t.stopContextLocked(); err != nil {
				return stepExit, err
			}
			t.shouldReleaseContext = false
			p.askedToReleaseContext = true
			t.noteStateLocked()
		}

		if p.lostContext {
			t.stopSurfaceLocked()
			if err := t.stopContextLocked(); err != nil {
				return stepExit, err
			}
			p.lostContext = false
		}

		if pausing && t.haveSurface {
			t.log.Debug("releasing surface because paused")
			t.stopSurfaceLocked()
		}

		if pausing && t.haveContext {
			owner := t.owner.Get()
			if owner == nil || !owner.PreserveContextOnPause() {
				t.log.Debug("releasing context because paused")
				if err := t.stopContextLocked(); err != nil {
					return stepExit, err
				}
			}
		}

		if !t.hasSurface && !t.waitingForSurface {
			t.log.Debug("noticed host surface lost")
			t.stopSurfaceLocked()
			t.waitingForSurface = true
			t.surfaceIsBad = false
			t.notifyLocked()
		}

		if t.hasSurface && t.waitingForSurface {
			t.log.Debug("noticed host surface acquired")
			t.waitingForSurface = false
			t.notifyLocked()
		}

		if p.doRenderNotification {
			t.log.Debug("sending render notification")
			t.wantRenderNotification = false
			p.doRenderNotification = false
			t.renderComplete = true
			t.notifyLocked()
		}

		if t.finishDrawing != nil {
			p.finishDrawing = t.finishDrawing
			t.finishDrawing = nil
		}

		if t.readyToDrawLocked() {
			if !t.haveContext {
				if p.askedToReleaseContext {
					p.askedToReleaseContext = false
				} else {
					if err := t.helper.Start(); err != nil {
						t.manager.ReleaseContextLocked(t)
						return stepExit, err
					}
					t.haveContext = true
					p.createContext = true
					t.notifyLocked()
				}
			}

			if t.haveContext && !t.haveSurface {
				t.haveSurface = true
				p.createSurface = true
				p.createGL = true
				p.sizeChanged = true
			}

			if t.haveSurface {
				if t.sizeChanged {
					p.sizeChanged = true
					p.w = t.width
					p.h = t.height
					t.wantRenderNotification = true
					t.log.Debug("want render notification")
					// Destroy and recreate the drawable at the new size.
					p.createSurface = true
					t.sizeChanged = false
				}
				t.requestRender = false
				t.notifyLocked()
				if t.wantRenderNotification {
					p.wantRenderNotification = true
				}
				return stepDraw, nil
			}
		} else if p.finishDrawing != nil {
			t.log.Warn("not ready to draw but waiting for draw finished, reporting early")
			return stepFinishEarly, nil
		}

		t.log.WithFields(log.Fields{
			"haveContext":             t.haveContext,
			"haveSurface":             t.haveSurface,
			"finishedCreatingSurface": t.finishedCreatingSurface,
			"paused":                  t.paused,
			"hasSurface":              t.hasSurface,
			"surfaceIsBad":            t.surfaceIsBad,
			"waitingForSurface":       t.waitingForSurface,
			"width":                   t.width,
			"height":                  t.height,
			"requestRender":           t.requestRender,
			"renderMode":              t.renderMode,
		}).Trace("waiting")
		t.manager.WaitUnsafe()
	}
}

func (t *RenderThread) readyToDrawLocked() bool {
	return !t.paused && t.hasSurface && !t.surfaceIsBad &&
		t.width > 0 && t.height > 0 &&
		(t.requestRender || t.renderMode == Continuous)
}

func (t *RenderThread) ableToDrawLocked() bool {
	return t.haveContext && t.haveSurface && t.readyToDrawLocked()
}

// AbleToDraw reports whether the thread holds a context and drawable and is
// ready to draw.
func (t *RenderThread) AbleToDraw() bool {
	t.manager.Lock()
	defer t.manager.Unlock()
	return t.ableToDrawLocked()
}

// SetRenderMode switches between Continuous and WhenDirty drawing.
func (t *RenderThread) SetRenderMode(mode RenderMode) error {
	if !mode.Valid() {
		return ErrInvalidRenderMode
	}
	t.manager.Lock()
	defer t.manager.Unlock()
	t.renderMode = mode
	t.notifyLocked()
	return nil
}

func (t *RenderThread) RenderMode() RenderMode {
	t.manager.Lock()
	defer t.manager.Unlock()
	return t.renderMode
}

// RequestRender asks for one frame.
func (t *RenderThread) RequestRender() {
	t.manager.Lock()
	defer t.manager.Unlock()
	t.requestRender = true
	t.notifyLocked()
}

// RequestRenderAndNotify asks for one frame and runs finish on the render
// thread once it is drawn, or earlier when no frame can be drawn. Pending
// callbacks are chained. Calls from the render thread itself are ignored; the
// caller returns to the renderer which is drawing anyway.
func (t *RenderThread) RequestRenderAndNotify(finish func()) {
	if t.IsRenderThread() {
		return
	}
	t.manager.Lock()
	defer t.manager.Unlock()
	t.wantRenderNotification = true
	t.requestRender = true
	t.renderComplete = false
	previous := t.finishDrawing
	t.finishDrawing = func() {
		if previous != nil {
			previous()
		}
		if finish != nil {
			finish()
		}
	}
	t.notifyLocked()
}

// SurfaceCreated reports that the host surface is available and waits until
// the thread has tried to create a drawable for it.
func (t *RenderThread) SurfaceCreated() {
	t.manager.Lock()
	defer t.manager.Unlock()
	t.log.Debug("surfaceCreated")
	t.hasSurface = true
	t.finishedCreatingSurface = false
	t.notifyLocked()
	for t.waitingForSurface && !t.finishedCreatingSurface && !t.exited {
		t.manager.WaitUnsafe()
	}
}

// SurfaceDestroyed reports that the host surface is gone and waits until the
// thread has released its drawable.
func (t *RenderThread) SurfaceDestroyed() {
	t.manager.Lock()
	defer t.manager.Unlock()
	t.log.Debug("surfaceDestroyed")
	t.hasSurface = false
	t.notifyLocked()
	for !t.waitingForSurface && !t.exited {
		t.manager.WaitUnsafe()
	}
}

// OnPause waits until the thread has observed the pause.
func (t *RenderThread) OnPause() {
	t.manager.Lock()
	defer t.manager.Unlock()
	t.log.Debug("onPause")
	t.requestPaused = true
	t.notifyLocked()
	for !t.exited && !t.paused {
		t.log.Trace("onPause waiting for paused")
		t.manager.WaitUnsafe()
	}
}

// OnResume waits until the thread has left the paused state or drawn a frame.
func (t *RenderThread) OnResume() {
	t.manager.Lock()
	defer t.manager.Unlock()
	t.log.Debug("onResume")
	t.requestPaused = false
	t.requestRender = true
	t.renderComplete = false
	t.notifyLocked()
	for !t.exited && t.paused && !t.renderComplete {
		t.log.Trace("onResume waiting for !paused")
		t.manager.WaitUnsafe()
	}
}

// OnWindowResize sets the drawable size and waits until a frame of that size
// is drawn, unless the thread cannot draw. Called from the render thread it
// only records the size; the next pass picks it up.
func (t *RenderThread) OnWindowResize(w, h int) {
	t.manager.Lock()
	defer t.manager.Unlock()
	t.width = w
	t.height = h
	t.sizeChanged = true
	t.requestRender = true
	t.renderComplete = false

	if t.IsRenderThread() {
		return
	}

	t.notifyLocked()
	for !t.exited && !t.paused && !t.renderComplete && t.ableToDrawLocked() {
		t.log.Trace("onWindowResize waiting for render complete")
		t.manager.WaitUnsafe()
	}
}

// RequestExitAndWait stops the thread and waits for it to exit.
func (t *RenderThread) RequestExitAndWait() error {
	if t.IsRenderThread() {
		return ErrCalledFromRenderThread
	}
	t.manager.Lock()
	defer t.manager.Unlock()
	t.shouldExit = true
	t.notifyLocked()
	for !t.exited {
		t.manager.WaitUnsafe()
	}
	return nil
}

// RequestReleaseContextLocked asks the thread to give up its context on the
// next pass. The manager must be locked.
func (t *RenderThread) RequestReleaseContextLocked() {
	t.shouldReleaseContext = true
	t.notifyLocked()
}

// QueueEvent runs event on the render thread before the next draw.
func (t *RenderThread) QueueEvent(event func()) error {
	if event == nil {
		return ErrNilEvent
	}
	t.manager.Lock()
	defer t.manager.Unlock()
	t.eventQueue = append(t.eventQueue, event)
	t.notifyLocked()
	return nil
}

// Exited reports whether the thread has exited.
func (t *RenderThread) Exited() bool {
	t.manager.Lock()
	defer t.manager.Unlock()
	return t.exited
}

// Err returns the error that stopped the thread, if any.
func (t *RenderThread) Err() error {
	t.manager.Lock()
	defer t.manager.Unlock()
	return t.err
}

// Describe returns a snapshot of the thread state.
func (t *RenderThread) Describe() statejson.InternalStateDescription {
	t.manager.Lock()
	defer t.manager.Unlock()
	d := statejson.InternalStateDescription{
		Thread: &statejson.RenderThreadDescription{
			ID: t.id,
			State: statejson.StateDescription{
				Name:         string(t.stateLocked()),
				LastModified: t.stateModified.UnixNano() / int64(time.Millisecond),
			},
			RenderMode:           t.renderMode.String(),
			Width:                t.width,
			Height:               t.height,
			HasSurface:           t.hasSurface,
			SurfaceIsBad:         t.surfaceIsBad,
			WaitingForSurface:    t.waitingForSurface,
			HaveContext:          t.haveContext,
			HaveSurface:          t.haveSurface,
			RequestPaused:        t.requestPaused,
			Paused:               t.paused,
			RequestRender:        t.requestRender,
			RenderComplete:       t.renderComplete,
			QueuedEvents:         len(t.eventQueue),
			ShouldReleaseContext: t.shouldReleaseContext,
		},
	}
	if t.err != nil {
		d.FirstFatalError = t.err.Error()
	}
	return d
}
