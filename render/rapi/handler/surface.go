// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"errors"
	"fmt"
	"image/png"
	"net/http"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"go.autosurface.dev/render/rapi/model"
)

var errInvalidSize = errors.New("width and height must be positive")

func decodeSize(request *http.Request) (model.SizeRequest, error) {
	var req model.SizeRequest
	if err := render.DecodeJSON(request.Body, &req); err != nil {
		return req, err
	}
	if req.Width <= 0 || req.Height <= 0 {
		return req, fmt.Errorf("%w: %dx%d", errInvalidSize, req.Width, req.Height)
	}
	return req, nil
}

type attachHandler struct {
	host Host
}

func (h *attachHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	size, err := decodeSize(request)
	if err != nil {
		renderError(writer, request, http.StatusBadRequest, errorTypeInvalidRequest, err)
		return
	}
	if err := h.host.Attach(size.Width, size.Height); err != nil {
		renderError(writer, request, http.StatusInternalServerError, errorTypeRenderer, err)
		return
	}
	renderOK(writer, request, http.StatusCreated)
}

// NewAttachHandler returns a handler making a new host surface available.
func NewAttachHandler(host Host) http.Handler {
	return &attachHandler{host: host}
}

type detachHandler struct {
	host Host
}

func (h *detachHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if err := h.host.Detach(); err != nil {
		renderError(writer, request, http.StatusNotFound, errorTypeNoSurface, err)
		return
	}
	renderOK(writer, request, http.StatusOK)
}

// NewDetachHandler returns a handler destroying the host surface.
func NewDetachHandler(host Host) http.Handler {
	return &detachHandler{host: host}
}

type resizeHandler struct {
	host Host
}

func (h *resizeHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	size, err := decodeSize(request)
	if err != nil {
		renderError(writer, request, http.StatusBadRequest, errorTypeInvalidRequest, err)
		return
	}
	if activeRenderer(h.host, writer, request) == nil {
		return
	}
	if err := h.host.Resize(size.Width, size.Height); err != nil {
		renderError(writer, request, http.StatusConflict, errorTypeRenderer, err)
		return
	}
	renderOK(writer, request, http.StatusOK)
}

// NewResizeHandler returns a handler resizing the host surface. It returns
// once a frame of the new size is drawn.
func NewResizeHandler(host Host) http.Handler {
	return &resizeHandler{host: host}
}

type frameHandler struct {
	host Host
}

func (h *frameHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	frame, err := h.host.Frame()
	if err != nil {
		renderError(writer, request, http.StatusNotFound, errorTypeNoSurface, err)
		return
	}
	writer.Header().Set("Content-Type", "image/png")
	if err := png.Encode(writer, frame); err != nil {
		log.WithError(err).Warn("Failed to write frame")
	}
}

// NewFrameHandler returns a handler serving the last presented frame as PNG.
func NewFrameHandler(host Host) http.Handler {
	return &frameHandler{host: host}
}
