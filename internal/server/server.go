package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/muurk/av2bridge/internal/device"
	"github.com/muurk/av2bridge/internal/logging"
)

// Config holds the monitor server configuration.
type Config struct {
	Addr string
	// MDNS advertises the API as _av2bridge._tcp on the local network.
	MDNS bool
}

// Server exposes the bridge's state and a small command surface over HTTP
// and WebSocket. It is a read-mostly monitoring aid; the CEC bridge and
// player poller drive the facade directly.
type Server struct {
	config *Config
	facade *device.Facade
	hub    *hub

	httpServer *http.Server
	mdns       *zeroconf.Server
}

// New creates a monitor server over the device facade. State-change
// notifications are subscribed immediately so no transition is missed
// between construction and Start.
func New(config *Config, facade *device.Facade) *Server {
	s := &Server{
		config: config,
		facade: facade,
		hub:    newHub(),
	}

	facade.OnChange(func(prev, next device.State) {
		s.hub.broadcastState(next)
	})
	facade.OnReady(func() {
		s.hub.broadcastState(facade.State())
	})

	return s
}

// Start begins serving. It returns once the listener is up; failures after
// that are logged, not returned.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", promhttp.Handler())

	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}

	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.hub.run()
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Error("Monitor server failed", zap.Error(err))
		}
	}()

	logging.Info("Monitor server listening", zap.String("addr", listener.Addr().String()))

	if s.config.MDNS {
		if err := s.registerMDNS(listener.Addr()); err != nil {
			// Advertisement is a convenience; the server still works
			// without it.
			logging.Warn("mDNS registration failed", zap.Error(err))
		}
	}

	return nil
}

// Shutdown stops the server and withdraws the mDNS advertisement.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.mdns != nil {
		s.mdns.Shutdown()
	}
	s.hub.stop()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) registerMDNS(addr net.Addr) error {
	_, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	s.mdns, err = zeroconf.Register("av2bridge", "_av2bridge._tcp", "local.", port, nil, nil)
	if err != nil {
		return err
	}

	logging.Info("Advertising monitor API over mDNS",
		zap.String("service", "_av2bridge._tcp"),
		zap.Int("port", port),
	)
	return nil
}
