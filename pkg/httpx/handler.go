package httpx

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fluxorio/webpool/pkg/tcp"
)

// DefaultBufferSize is the most that is read from a request.
const DefaultBufferSize = 1024

// Handler answers one request per connection. It reads once, up to
// BufferSize bytes, with no framing; anything past that is ignored.
type Handler struct {
	Router     *Router
	Pages      PageLoader
	BufferSize int
}

// NewHandler returns a Handler with the default router and buffer size.
func NewHandler(pages PageLoader, sleep time.Duration) *Handler {
	return &Handler{
		Router:     DefaultRouter(sleep),
		Pages:      pages,
		BufferSize: DefaultBufferSize,
	}
}

// Serve is a tcp.ConnectionHandler. A page that cannot be loaded fails the
// connection and nothing is written.
func (h *Handler) Serve(ctx *tcp.ConnContext) error {
	size := h.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	buf := make([]byte, size)
	n, err := ctx.Conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read request: %w", err)
	}

	route := h.Router.Match(buf[:n])
	if route.Delay > 0 {
		ctx.Logger.Debugf("holding worker for %s", route.Delay)
		select {
		case <-time.After(route.Delay):
		case <-ctx.Context.Done():
			return ctx.Context.Err()
		}
	}

	body, err := h.Pages.Load(route.Page)
	if err != nil {
		return fmt.Errorf("load %s: %w", route.Page, err)
	}

	if _, err := ctx.Conn.Write(FormatResponse(route.Status, body)); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	ctx.Logger.Debugf("%s -> %s (%d bytes)", requestLine(buf[:n]), route.Status, len(body))
	return nil
}

// requestLine returns the first line of a request for logging.
func requestLine(b []byte) string {
	for i, c := range b {
		if c == '\r' || c == '\n' {
			return fmt.Sprintf("%q", b[:i])
		}
	}
	return fmt.Sprintf("%q", b)
}
