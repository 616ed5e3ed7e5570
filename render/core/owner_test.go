// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.autosurface.dev/render/chooser"
	"go.autosurface.dev/render/egl"
	"go.autosurface.dev/render/egl/softegl"
	"go.autosurface.dev/render/factory"
	"go.autosurface.dev/render/testdata/mockrenderer"
)

const (
	waitFor = 2 * time.Second
	tick    = time.Millisecond
)

type testOwner struct {
	*mockrenderer.Recorder
	chooser  ConfigChooser
	contexts ContextFactory
	surfaces WindowSurfaceFactory
	window   egl.NativeWindow
	wrapper  GLWrapper
	flags    DebugFlags
	preserve bool
}

func newTestOwner(window egl.NativeWindow) *testOwner {
	return &testOwner{
		Recorder: &mockrenderer.Recorder{},
		chooser:  chooser.NewSimpleChooser(true),
		contexts: factory.NewDefaultContextFactory(),
		surfaces: factory.NewDefaultWindowSurfaceFactory(),
		window:   window,
	}
}

func (o *testOwner) ConfigChooser() ConfigChooser               { return o.chooser }
func (o *testOwner) ContextFactory() ContextFactory             { return o.contexts }
func (o *testOwner) WindowSurfaceFactory() WindowSurfaceFactory { return o.surfaces }
func (o *testOwner) NativeWindow() egl.NativeWindow             { return o.window }
func (o *testOwner) GLWrapper() GLWrapper                       { return o.wrapper }
func (o *testOwner) DebugFlags() DebugFlags                     { return o.flags }
func (o *testOwner) PreserveContextOnPause() bool               { return o.preserve }

type fixture struct {
	dev    *softegl.Device
	window *softegl.Window
	owner  *testOwner
	ref    *OwnerRef
	thread *RenderThread
}

// newFixture returns a started thread whose owner can be adjusted by setup
// before the thread runs.
func newFixture(t *testing.T, setup func(f *fixture)) *fixture {
	f := &fixture{
		dev:    softegl.New(),
		window: softegl.NewWindow(100, 200),
	}
	f.owner = newTestOwner(f.window)
	f.ref = NewOwnerRef(f.owner)
	f.thread = NewRenderThread(NewThreadManager(), f.dev, f.ref)
	if setup != nil {
		setup(f)
	}
	f.thread.Start()
	t.Cleanup(func() {
		require.NoError(t, f.thread.RequestExitAndWait())
	})
	return f
}

// attach hands the host surface to the thread the way the facade does.
func (f *fixture) attach() {
	f.thread.SurfaceCreated()
	f.thread.OnWindowResize(100, 200)
}

func (f *fixture) waitDraws(t *testing.T, n int) {
	require.Eventually(t, func() bool {
		return f.owner.Count(mockrenderer.Draw) >= n
	}, waitFor, tick)
}
