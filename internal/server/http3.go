package server

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/quic-go/quic-go/http3"
)

// Server serves a handler over HTTP/3.
type Server struct {
	srv  *http3.Server
	pc   net.PacketConn
	addr string

	done     chan struct{}
	stopping atomic.Bool
	err      error // written before done is closed
}

// New creates a server bound to addr with the given TLS config and handler.
func New(addr string, tlsCfg *tls.Config, h http.Handler) *Server {
	return &Server{
		srv:  &http3.Server{Addr: addr, TLSConfig: tlsCfg, Handler: h},
		addr: addr,
	}
}

// Start listens on UDP and serves in the background. It returns the bound
// address, which differs from addr when the port is 0.
func (s *Server) Start() (string, error) {
	if s.srv.TLSConfig == nil || len(s.srv.TLSConfig.Certificates) == 0 && s.srv.TLSConfig.GetCertificate == nil {
		return "", errors.New("serve: TLS certificate required")
	}

	pc, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return "", fmt.Errorf("serve: listen %s: %w", s.addr, err)
	}
	s.pc = pc
	s.done = make(chan struct{})

	go func() {
		err := s.srv.Serve(pc)
		if err != nil && !s.stopping.Load() && !errors.Is(err, http.ErrServerClosed) {
			s.err = fmt.Errorf("serve: %w", err)
		}
		close(s.done)
	}()

	return pc.LocalAddr().String(), nil
}

// Done is closed once serving stops.
func (s *Server) Done() <-chan struct{} { return s.done }

// Err returns the error that ended serving, or nil while serving or after a
// clean Stop.
func (s *Server) Err() error {
	if s.done == nil {
		return nil
	}
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Stop closes the listener and waits briefly for the serve loop to exit. It
// returns the serve error if serving had already failed.
func (s *Server) Stop() error {
	if s.done == nil {
		return nil
	}
	s.stopping.Store(true)
	closeErr := s.srv.Close()
	_ = s.pc.Close()

	select {
	case <-s.done:
	case <-time.After(time.Second):
	}
	if err := s.Err(); err != nil {
		return err
	}
	return closeErr
}

// Client returns an http.Client speaking HTTP/3.
func Client(tlsCfg *tls.Config, timeout time.Duration) *http.Client {
	return &http.Client{Transport: &http3.RoundTripper{TLSClientConfig: tlsCfg}, Timeout: timeout}
}

// CloseClient releases the QUIC connections held by c.
func CloseClient(c *http.Client) {
	if tr, ok := c.Transport.(*http3.RoundTripper); ok {
		_ = tr.Close()
	}
}
