/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package web

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger-labs/peerweb/platform/view/services/server/web/middleware"
	"github.com/pkg/errors"
)

// shutdownTimeout bounds how long Stop waits for in-flight requests.
const shutdownTimeout = 30 * time.Second

type TLS struct {
	Enabled           bool
	CertFile          string
	KeyFile           string
	ClientCACertFiles []string
}

// Config returns the server side TLS configuration, or nil when TLS is disabled.
// Client certificates are verified when given, and required by secure handlers.
func (t TLS) Config() (*tls.Config, error) {
	if !t.Enabled {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed loading key pair [%s, %s]", t.CertFile, t.KeyFile)
	}
	c := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
	}
	if len(t.ClientCACertFiles) == 0 {
		return c, nil
	}
	pool := x509.NewCertPool()
	for _, f := range t.ClientCACertFiles {
		pem, err := os.ReadFile(f)
		if err != nil {
			return nil, errors.Wrapf(err, "failed reading client CA [%s]", f)
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.Errorf("no certificates found in client CA [%s]", f)
		}
	}
	c.ClientCAs = pool
	c.ClientAuth = tls.VerifyClientCertIfGiven
	return c, nil
}

type Logger interface {
	logger
	middleware.Logger
}

type Options struct {
	Logger        Logger
	ListenAddress string
	TLS           TLS
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// Server is an HTTP server runnable as an ifrit process.
type Server struct {
	logger     Logger
	options    Options
	httpServer *http.Server
	mux        *http.ServeMux
	addr       string
}

func NewServer(o Options) *Server {
	server := &Server{
		logger:  o.Logger,
		options: o,
	}

	server.initializeServer()

	return server
}

func (s *Server) Run(signals <-chan os.Signal, ready chan<- struct{}) error {
	err := s.Start()
	if err != nil {
		return err
	}

	close(ready)

	<-signals
	return s.Stop()
}

func (s *Server) Start() error {
	listener, err := s.Listen()
	if err != nil {
		return err
	}
	s.addr = listener.Addr().String()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("http server on [%s] stopped: %s", s.addr, err)
		}
	}()
	s.logger.Infof("listening on [%s]", s.addr)

	return nil
}

// Stop waits for in-flight requests, and the processes they run, to complete.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) initializeServer() {
	s.mux = http.NewServeMux()
	s.httpServer = &http.Server{
		Addr:         s.options.ListenAddress,
		Handler:      s.mux,
		ReadTimeout:  s.options.ReadTimeout,
		WriteTimeout: s.options.WriteTimeout,
	}
}

// HandlerChain wraps h with request ids and access logging, plus client certificate
// checks when secure.
func (s *Server) HandlerChain(h http.Handler, secure bool) http.Handler {
	if secure && len(s.options.TLS.ClientCACertFiles) != 0 {
		return middleware.NewChain(middleware.RequireCert(), middleware.WithRequestID(uuid.NewString), middleware.WithLogging(s.logger)).Handler(h)
	}
	return middleware.NewChain(middleware.WithRequestID(uuid.NewString), middleware.WithLogging(s.logger)).Handler(h)
}

// RegisterHandler registers into the ServeMux a handler chain that borrows
// its security properties from the server.
func (s *Server) RegisterHandler(pattern string, handler http.Handler, secure bool) {
	s.mux.Handle(
		pattern,
		s.HandlerChain(
			handler,
			secure,
		),
	)
}

func (s *Server) Listen() (net.Listener, error) {
	listener, err := net.Listen("tcp", s.options.ListenAddress)
	if err != nil {
		return nil, errors.Wrapf(err, "failed listening on [%s]", s.options.ListenAddress)
	}
	tlsConfig, err := s.options.TLS.Config()
	if err != nil {
		listener.Close()
		return nil, err
	}
	if tlsConfig != nil {
		listener = tls.NewListener(listener, tlsConfig)
	}
	return listener, nil
}

// Addr returns the bound address, available once the server is started.
func (s *Server) Addr() string {
	return s.addr
}
