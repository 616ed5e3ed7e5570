// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"go.autosurface.dev/render/core"
	"go.autosurface.dev/render/rapi/model"
	"go.autosurface.dev/render/surfacerenderer"
)

type controlHandler struct {
	host   Host
	status int
	apply  func(r *surfacerenderer.SurfaceRenderer) error
}

func (h *controlHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	r := activeRenderer(h.host, writer, request)
	if r == nil {
		return
	}
	if err := h.apply(r); err != nil {
		renderError(writer, request, http.StatusConflict, errorTypeRenderer, err)
		return
	}
	renderOK(writer, request, h.status)
}

// NewRenderHandler returns a handler requesting one frame.
func NewRenderHandler(host Host) http.Handler {
	return &controlHandler{host: host, status: http.StatusAccepted, apply: (*surfacerenderer.SurfaceRenderer).RequestRender}
}

// NewPauseHandler returns a handler pausing the renderer. It returns once
// the render thread is paused.
func NewPauseHandler(host Host) http.Handler {
	return &controlHandler{host: host, status: http.StatusOK, apply: (*surfacerenderer.SurfaceRenderer).Pause}
}

// NewResumeHandler returns a handler resuming the renderer.
func NewResumeHandler(host Host) http.Handler {
	return &controlHandler{host: host, status: http.StatusOK, apply: (*surfacerenderer.SurfaceRenderer).Resume}
}

type modeHandler struct {
	host Host
}

func (h *modeHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	var req model.ModeRequest
	if err := render.DecodeJSON(request.Body, &req); err != nil {
		renderError(writer, request, http.StatusBadRequest, errorTypeInvalidRequest, err)
		return
	}
	mode, err := core.ParseRenderMode(req.Mode)
	if err != nil {
		renderError(writer, request, http.StatusBadRequest, errorTypeInvalidMode, err)
		return
	}
	r := activeRenderer(h.host, writer, request)
	if r == nil {
		return
	}
	if err := r.SetRenderMode(mode); err != nil {
		renderError(writer, request, http.StatusConflict, errorTypeRenderer, err)
		return
	}
	renderOK(writer, request, http.StatusOK)
}

// NewModeHandler returns a handler switching the render mode.
func NewModeHandler(host Host) http.Handler {
	return &modeHandler{host: host}
}
