// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package statejson

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// StateDescription ...
type StateDescription struct {
	Name         string `json:"name"`
	LastModified int64  `json:"lastModified"`
}

// RenderThreadDescription is a snapshot of the render thread flags.
type RenderThreadDescription struct {
	ID                   string           `json:"id"`
	State                StateDescription `json:"state"`
	RenderMode           string           `json:"renderMode"`
	Width                int              `json:"width"`
	Height               int              `json:"height"`
	HasSurface           bool             `json:"hasSurface"`
	SurfaceIsBad         bool             `json:"surfaceIsBad"`
	WaitingForSurface    bool             `json:"waitingForSurface"`
	HaveContext          bool             `json:"haveContext"`
	HaveSurface          bool             `json:"haveSurface"`
	RequestPaused        bool             `json:"requestPaused"`
	Paused               bool             `json:"paused"`
	RequestRender        bool             `json:"requestRender"`
	RenderComplete       bool             `json:"renderComplete"`
	QueuedEvents         int              `json:"queuedEvents"`
	ShouldReleaseContext bool             `json:"shouldReleaseContext"`
}

// InternalStateDescription describes internal state of the render thread for debugging purposes
type InternalStateDescription struct {
	Thread          *RenderThreadDescription `json:"thread"`
	FirstFatalError string                   `json:"firstFatalError"`
}

func (s *InternalStateDescription) AsJSON() []byte {
	bytes, err := json.Marshal(s)
	if err != nil {
		log.Panicf("Failed to marshall internal states: %s", err)
	}
	return bytes
}
