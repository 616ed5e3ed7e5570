// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rapi

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi"

	"go.autosurface.dev/render/rapi/handler"

	log "github.com/sirupsen/logrus"
)

const version1 = "/v1"

// Server is the simulator control API server
type Server struct {
	host     string
	port     int
	server   *http.Server
	listener net.Listener
}

// NewServer creates a new control API Server
//
// Unlike net/http server's ListenAndServe, we separate Listen()
// and Serve(), so the caller can attach the first surface after
// the port is known and before requests are accepted.
//
// When port is 0, OS will dynamically allocate the listening port.
func NewServer(host string, port int, surfaceHost handler.Host) *Server {
	router := chi.NewRouter()
	router.Mount(version1, NewRouter(surfaceHost))

	return &Server{
		host:   host,
		port:   port,
		server: &http.Server{Handler: router},
	}
}

// Listen on port
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.host, fmt.Sprint(s.port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.listener = ln
	if s.port == 0 {
		s.port = ln.Addr().(*net.TCPAddr).Port
		log.WithField("port", s.port).Info("Listening port was dynamically allocated")
	}

	log.Debugf("Control API Server listening on %s:%d", s.host, s.port)

	return nil
}

func (s *Server) IsListening() bool {
	return s.listener != nil
}

// Serve requests and close on cancelation signals
func (s *Server) Serve(ctx context.Context) error {
	defer s.Close()

	select {
	case err := <-s.serveAsync():
		return err

	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) serveAsync() chan error {
	errors := make(chan error, 1)
	go func() {
		errors <- s.server.Serve(s.listener)
	}()

	return errors
}

// Host is server's host
func (s *Server) Host() string {
	return s.host
}

// Port is server's port
func (s *Server) Port() int {
	return s.port
}

// URL is full server url for specified endpoint
func (s *Server) URL(endpoint string) string {
	return fmt.Sprintf("http://%s%s%s", net.JoinHostPort(s.Host(), fmt.Sprint(s.Port())), version1, endpoint)
}

// Close forcefully closes listeners & connections
func (s *Server) Close() error {
	err := s.server.Close()
	if err == nil {
		log.Info("Control API Server closed")
	}
	return err
}

// Shutdown gracefully shuts down server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
