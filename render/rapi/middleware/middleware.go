// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RequestIDHeader carries the id the access log is tagged with.
const RequestIDHeader = "X-Request-Id"

// AccessLogMiddleware logs every request at debug level and echoes its
// request id, generating one when the client sent none.
func AccessLogMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, id)
			log.WithField("requestID", id).Debug("API request - ", r.Method, " ", r.URL, ", Headers:", r.Header)
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
