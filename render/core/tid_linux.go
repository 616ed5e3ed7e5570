// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import "golang.org/x/sys/unix"

// currentThreadID returns the OS thread id of the caller. The render goroutine
// is locked to its thread, so no other goroutine can observe the same id.
func currentThreadID() int64 {
	return int64(unix.Gettid())
}
