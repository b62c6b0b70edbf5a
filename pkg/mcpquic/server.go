// CLAUDE:SUMMARY MCP JSON-RPC sessions over QUIC streams: magic-byte preamble, newline-delimited messages, one session per connection.
package mcpquic

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/quic-go/quic-go"

	"github.com/hazyhaar/climate-dashboard/pkg/kit"
)

// Handler serves MCP sessions on QUIC connections accepted elsewhere. The
// chassis hands it every connection that negotiated ALPNProtocolMCP.
type Handler struct {
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewHandler creates a Handler dispatching to mcpSrv.
func NewHandler(mcpSrv *server.MCPServer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{mcpServer: mcpSrv, logger: logger}
}

// ServeConn runs one MCP session on the first stream of conn.
func (h *Handler) ServeConn(ctx context.Context, conn *quic.Conn) {
	remote := conn.RemoteAddr().String()

	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		h.logger.Warn("mcp: accept stream", "remote", remote, "error", err)
		conn.CloseWithError(ConnErrorProtocolViolation, "stream accept failed")
		return
	}

	err = h.Serve(ctx, stream)
	switch {
	case errors.Is(err, ErrInvalidMagicBytes):
		stream.CancelRead(StreamErrorProtocolConfusion)
		stream.CancelWrite(StreamErrorProtocolConfusion)
		conn.CloseWithError(ConnErrorProtocolViolation, "invalid magic bytes")
	case errors.Is(err, ErrMessageTooLarge):
		stream.CancelRead(StreamErrorMessageTooLarge)
		conn.CloseWithError(ConnErrorProtocolViolation, "message too large")
	default:
		stream.Close()
		conn.CloseWithError(ConnErrorNoError, "session ended")
	}
	if err != nil {
		h.logger.Warn("mcp: session failed", "remote", remote, "error", err)
	}
}

// Serve validates the preamble then answers newline-delimited JSON-RPC
// messages read from rw until EOF or ctx is done.
func (h *Handler) Serve(ctx context.Context, rw io.ReadWriter) error {
	if err := ValidateMagicBytes(rw); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := newSession("quic_"+uuid.NewString()[:8], rw)
	if err := h.mcpServer.RegisterSession(ctx, sess); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	defer h.mcpServer.UnregisterSession(ctx, sess.id)

	h.logger.Info("mcp: session started", "session", sess.id)
	defer h.logger.Info("mcp: session ended", "session", sess.id)

	ctx = kit.WithTransport(ctx, "mcp_quic")
	ctx = h.mcpServer.WithContext(ctx, sess)
	go sess.forwardNotifications(ctx)

	scanner := bufio.NewScanner(rw)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxMessageSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := h.mcpServer.HandleMessage(ctx, json.RawMessage(line))
		if resp == nil {
			continue
		}
		if err := sess.write(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return ErrMessageTooLarge
		}
		if ctx.Err() == nil {
			return fmt.Errorf("read: %w", err)
		}
	}
	return nil
}

// session implements server.ClientSession for one stream.
type session struct {
	id            string
	notifications chan mcp.JSONRPCNotification
	initialized   atomic.Bool

	mu sync.Mutex
	w  io.Writer
}

func newSession(id string, w io.Writer) *session {
	return &session{
		id:            id,
		notifications: make(chan mcp.JSONRPCNotification, 100),
		w:             w,
	}
}

func (s *session) SessionID() string                                   { return s.id }
func (s *session) NotificationChannel() chan<- mcp.JSONRPCNotification { return s.notifications }
func (s *session) Initialize()                                         { s.initialized.Store(true) }
func (s *session) Initialized() bool                                   { return s.initialized.Load() }

// write sends one message followed by a newline. Responses and
// notifications share the stream.
func (s *session) write(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(data)
	return err
}

func (s *session) forwardNotifications(ctx context.Context) {
	for {
		select {
		case n := <-s.notifications:
			_ = s.write(n)
		case <-ctx.Done():
			return
		}
	}
}
