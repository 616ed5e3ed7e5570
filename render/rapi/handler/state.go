// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var errNoSurface = errors.New("no surface attached")

type stateHandler struct {
	host Host
}

func (h *stateHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	r := activeRenderer(h.host, writer, request)
	if r == nil {
		return
	}
	description, err := r.Describe()
	if err != nil {
		renderError(writer, request, http.StatusConflict, errorTypeRenderer, err)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	if _, err := writer.Write(description.AsJSON()); err != nil {
		log.WithError(err).Warn("Failed to write state response")
	}
}

// NewStateHandler returns a handler serving the render thread state as JSON.
func NewStateHandler(host Host) http.Handler {
	return &stateHandler{host: host}
}
