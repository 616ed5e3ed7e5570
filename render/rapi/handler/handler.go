// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"image"
	"net/http"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"go.autosurface.dev/render/rapi/model"
	"go.autosurface.dev/render/surfacerenderer"
)

const (
	errorTypeNoSurface      = "Surface.NotAvailable"
	errorTypeInvalidRequest = "Request.Invalid"
	errorTypeInvalidMode    = "RenderMode.Invalid"
	errorTypeRenderer       = "Renderer.Error"
)

// Host is the simulated host surface the handlers drive.
type Host interface {
	ActiveRenderer() *surfacerenderer.SurfaceRenderer
	Attach(width, height int) error
	Detach() error
	Resize(width, height int) error
	Frame() (image.Image, error)
}

func renderError(writer http.ResponseWriter, request *http.Request, status int, errorType string, err error) {
	log.WithError(err).WithField("errorType", errorType).Warn("request failed")
	render.Status(request, status)
	render.JSON(writer, request, &model.ErrorResponse{
		ErrorType:    errorType,
		ErrorMessage: err.Error(),
	})
}

func renderOK(writer http.ResponseWriter, request *http.Request, status int) {
	render.Status(request, status)
	render.JSON(writer, request, &model.StatusResponse{Status: "OK"})
}

// activeRenderer renders an error and returns nil when no surface is attached.
func activeRenderer(host Host, writer http.ResponseWriter, request *http.Request) *surfacerenderer.SurfaceRenderer {
	r := host.ActiveRenderer()
	if r == nil {
		renderError(writer, request, http.StatusNotFound, errorTypeNoSurface, errNoSurface)
	}
	return r
}
