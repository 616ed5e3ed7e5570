// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package core runs the render thread: a goroutine locked to one OS thread that
owns the graphics context and drawable of a host surface and drives the
application renderer.

# Thread manager

All render thread state is guarded by one ThreadManager, a monitor built on a
sync.Cond. The control thread only sets request flags and waits on the
monitor; the render thread evaluates the flags, performs device work and
broadcasts every change it makes.

[control] t.OnPause()
[control] // blocked until the render thread has observed the request

[render]  // evaluation pass: paused = requestPaused, broadcast
[render]  // drawable released, context released unless preserved
[render]  m.Wait()

# Evaluation pass

Each pass runs in a fixed order under the monitor: exit, queued events, pause
transition, requested context release, lost context, pause teardown, host
surface lost, host surface acquired, render notification, finish-drawing
callback, readiness. Waiting on the monitor is the only place the render
thread blocks.

# Helper

Helper performs the device calls for the render thread: display connection,
config choice, context and drawable creation, swap and teardown. The context
is always created before a drawable, and a drawable always destroyed before
its context.
*/
package core
