// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"sync"
)

// ThreadManager is the monitor guarding render thread state. Control calls
// and render thread transitions only touch that state while holding it.
type ThreadManager struct {
	monitor *sync.Cond
}

// NewThreadManager returns a new ThreadManager instance.
func NewThreadManager() *ThreadManager {
	return &ThreadManager{
		monitor: sync.NewCond(&sync.Mutex{}),
	}
}

var sharedThreadManager = NewThreadManager()

// SharedThreadManager returns the process wide manager used by default.
func SharedThreadManager() *ThreadManager {
	return sharedThreadManager
}

// Lock ThreadManager condvar mutex
func (m *ThreadManager) Lock() {
	m.monitor.L.Lock()
}

// Unlock ThreadManager condvar mutex
func (m *ThreadManager) Unlock() {
	m.monitor.L.Unlock()
}

// WaitUnsafe suspends the caller until the next NotifyAllUnsafe. It's marked
// Unsafe because the manager must be locked before WaitUnsafe is called;
// callers re-check their condition after every wake.
func (m *ThreadManager) WaitUnsafe() {
	m.monitor.Wait()
}

// NotifyAllUnsafe wakes every waiter. The manager should be locked.
func (m *ThreadManager) NotifyAllUnsafe() {
	m.monitor.Broadcast()
}

// ThreadExiting marks t exited and wakes all waiters. Called once, by t.
func (m *ThreadManager) ThreadExiting(t *RenderThread) {
	m.Lock()
	defer m.Unlock()
	t.log.Info("exiting")
	t.exited = true
	t.noteStateLocked()
	m.monitor.Broadcast()
}

// ReleaseContextLocked wakes waiters after t released its context so that an
// acquirer can retry. The manager must be locked.
func (m *ThreadManager) ReleaseContextLocked(t *RenderThread) {
	m.monitor.Broadcast()
}
