package stream

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
)

// Server serves a hub over HTTP as a service
type Server struct {
	hub    *Hub
	addr   string
	logger *log.Logger

	listener net.Listener
	srv      *http.Server
}

// NewServer creates a server for hub listening on addr
func NewServer(hub *Hub, addr string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	mux := http.NewServeMux()
	mux.Handle(parameter.StreamPath, hub)
	return &Server{
		hub:    hub,
		addr:   addr,
		logger: logger,
		srv:    &http.Server{Handler: mux},
	}
}

// Name implements service.Service
func (s *Server) Name() string {
	return "stream"
}

// Dependencies implements service.Service
func (s *Server) Dependencies() []string {
	return nil
}

// Init binds the listener so a busy port fails before the game starts
func (s *Server) Init() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("stream: listen %s: %w", s.addr, err)
	}
	s.listener = ln
	return nil
}

// Start serves on the bound listener
func (s *Server) Start() error {
	if s.listener == nil {
		return fmt.Errorf("stream: start before init")
	}
	ln := s.listener
	core.Go(func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("stream: serve: %v", err)
		}
	})
	s.logger.Printf("stream: serving ws://%s%s", ln.Addr(), parameter.StreamPath)
	return nil
}

// Stop closes the listener and every subscriber
func (s *Server) Stop() error {
	s.hub.Close()
	if s.listener == nil {
		return nil
	}
	err := s.srv.Close()
	s.listener = nil
	return err
}

// Addr returns the bound address, nil before Init
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Hub returns the served hub
func (s *Server) Hub() *Hub {
	return s.hub
}
