// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rapi

import (
	"net/http"

	"github.com/go-chi/chi"

	"go.autosurface.dev/render/rapi/handler"
	"go.autosurface.dev/render/rapi/middleware"
)

// NewRouter returns a new instance of chi router implementing the
// simulator control API.
func NewRouter(host handler.Host) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.AccessLogMiddleware())

	router.Get("/ping", handler.NewPingHandler().ServeHTTP)
	router.Get("/state", handler.NewStateHandler(host).ServeHTTP)

	router.Post("/render", handler.NewRenderHandler(host).ServeHTTP)
	router.Post("/pause", handler.NewPauseHandler(host).ServeHTTP)
	router.Post("/resume", handler.NewResumeHandler(host).ServeHTTP)
	router.Put("/mode", handler.NewModeHandler(host).ServeHTTP)

	router.Post("/surface", handler.NewAttachHandler(host).ServeHTTP)
	router.Delete("/surface", handler.NewDetachHandler(host).ServeHTTP)
	router.Put("/surface/size", handler.NewResizeHandler(host).ServeHTTP)
	router.Get("/surface/frame.png", handler.NewFrameHandler(host).ServeHTTP)

	return router
}
