// Package preview streams rendered frames to a socket.io preview server.
package preview

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"image"
	"net/url"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event frames are emitted under.
const DefaultEvent = "frame"

// Emitter is the part of a socket.io client the publisher needs.
type Emitter interface {
	Emit(event string, args ...any) error
	Connected() bool
}

// Options configure Dial.
type Options struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Frame is the payload of one emitted frame.
type Frame struct {
	Frame  int
	Width  int
	Height int
	PNG    []byte
}

// Map returns the frame in the shape emitted on the wire.
func (f Frame) Map() map[string]any {
	return map[string]any{"frame": f.Frame, "width": f.Width, "height": f.Height, "png": f.PNG}
}

// Publisher is a capture sink that emits every frame as a PNG.
type Publisher struct {
	emitter Emitter
	event   string
	close   func()
	dropped int
}

// NewPublisher wraps an existing emitter.
func NewPublisher(e Emitter, event string) *Publisher {
	if event == "" {
		event = DefaultEvent
	}
	return &Publisher{emitter: e, event: event, close: func() {}}
}

type socketEmitter struct {
	io *socket.Socket
}

func (s socketEmitter) Emit(event string, args ...any) error {
	s.io.Emit(event, args...)
	return nil
}

func (s socketEmitter) Connected() bool { return s.io.Connected() }

// Dial connects to the preview server and waits for the connect event.
func Dial(ctx context.Context, opts Options) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("component", "preview", "url", opts.URL)
	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse preview URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("preview URL %q needs a scheme and a host", opts.URL)
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	sopts := socket.DefaultOptions()
	if parsed.Path != "" {
		sopts.SetPath(parsed.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	namespace := opts.Namespace
	if namespace == "" {
		namespace = "/"
	}
	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host), sopts)
	io := manager.Socket(namespace, sopts)

	connected := make(chan error, 1)
	signal := func(err error) {
		select {
		case connected <- err:
		default:
		}
	}
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Preview connected.", "sid", io.Id())
		signal(nil)
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		signal(err)
	})
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}

	p := NewPublisher(socketEmitter{io: io}, opts.Event)
	p.close = func() {
		logger.Info("Preview disconnected.", "sid", io.Id())
		io.Disconnect()
	}
	return p, nil
}

// WriteFrame implements the capture sink contract. Frames are dropped while
// the connection is down.
func (p *Publisher) WriteFrame(ctx context.Context, frame int, img *image.RGBA) error {
	if !p.emitter.Connected() {
		p.dropped++
		ctxlog.FromContext(ctx).Debug("Preview frame dropped, not connected.", "frame", frame, "dropped", p.dropped)
		return nil
	}
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return fmt.Errorf("encode preview frame: %w", err)
	}
	b := img.Bounds()
	payload := Frame{Frame: frame, Width: b.Dx(), Height: b.Dy(), PNG: buf.Bytes()}
	if err := p.emitter.Emit(p.event, payload.Map()); err != nil {
		return fmt.Errorf("emit preview frame: %w", err)
	}
	return nil
}

// Dropped returns how many frames were skipped while disconnected.
func (p *Publisher) Dropped() int { return p.dropped }

// Close disconnects a dialed publisher.
func (p *Publisher) Close() { p.close() }
