// Package ssh serves the explorer over SSH with wish.
package ssh

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bts "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/pfassina/rovr/internal/config"
	"github.com/pfassina/rovr/internal/session"
)

// HostKeyName is the host key file inside the config directory.
const HostKeyName = "ssh_host_key"

const shutdownTimeout = 10 * time.Second

// Options configures the server.
type Options struct {
	// Listen overrides serve.listen from the config.
	Listen string
	// StartPath is where every session's explorer opens.
	StartPath string
	// HostKeyPath overrides <config dir>/ssh_host_key.
	HostKeyPath string
}

// Server wraps a Wish SSH server.
type Server struct {
	server *ssh.Server
	addr   string
}

// New creates a new SSH server. Every session gets its own copy of cfg.
func New(cfg *config.Config, opts Options) (*Server, error) {
	addr := opts.Listen
	if addr == "" {
		addr = cfg.String("serve.listen", ":2222")
	}
	hostKeyPath := opts.HostKeyPath
	if hostKeyPath == "" {
		hostKeyPath = filepath.Join(config.ConfigDir(), HostKeyName)
	}

	s, err := wish.NewServer(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			logging.Middleware(),
			activeterm.Middleware(),
			closeSessionApp(),
			bts.Middleware(NewHandler(cfg, session.NewStore(), opts.StartPath)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create ssh server: %w", err)
	}

	return &Server{server: s, addr: addr}, nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Serve runs the server until ctx is cancelled, then shuts it down.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting ssh server", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("stopping ssh server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("shutdown ssh server: %w", err)
	}
	return nil
}

// Close stops the SSH server.
func (s *Server) Close() error {
	return s.server.Close()
}
