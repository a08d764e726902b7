package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/specialistvlad/prefillgrid/internal/ctxlog"
	"github.com/specialistvlad/prefillgrid/internal/mapping"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// ErrNotConnected is returned by Publish before the socket has connected.
var ErrNotConnected = errors.New("socket.io client not connected")

// SocketIOConfig describes the socket.io endpoint.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// SocketIO publishes mapping events over a socket.io connection. Events are
// emitted as "mapping:<kind>" with a JSON-like object payload.
type SocketIO struct {
	io        *socket.Socket
	connected atomic.Bool
}

// NewSocketIO starts connecting to the endpoint and returns immediately.
func NewSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("component", "notify", "url", cfg.URL, "namespace", cfg.Namespace)

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid notify URL %q: scheme and host are required", cfg.URL)
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	s := &SocketIO{io: manager.Socket(namespace, opts)}

	s.io.On(types.EventName("connect"), func(...any) {
		s.connected.Store(true)
		logger.Info("Notifier connected.", "sid", s.io.Id())
	})
	s.io.On(types.EventName("disconnect"), func(...any) {
		s.connected.Store(false)
		logger.Info("Notifier disconnected.")
	})
	s.io.On(types.EventName("connect_error"), func(errs ...any) {
		logger.Warn("Notifier connection failed.", "error", errs)
	})

	s.io.Connect()
	return s, nil
}

// Publish emits the event. It does not wait for an acknowledgement.
func (s *SocketIO) Publish(ctx context.Context, ev mapping.Event) error {
	if !s.connected.Load() {
		return ErrNotConnected
	}
	name := EventName(ev.Kind)
	ctxlog.FromContext(ctx).Debug("Emitting mapping event.", "event", name)
	s.io.Emit(name, Payload(ev))
	return nil
}

// Close disconnects the socket.
func (s *SocketIO) Close() error {
	s.io.Disconnect()
	return nil
}

// EventName is the socket.io event name for a store event kind.
func EventName(kind mapping.EventKind) string {
	return "mapping:" + string(kind)
}

// Payload is the wire form of an event.
func Payload(ev mapping.Event) map[string]any {
	m := ev.Mapping
	p := map[string]any{
		"targetNodeId":   m.TargetNodeID,
		"targetFieldKey": m.TargetFieldKey,
	}
	if ev.Kind == mapping.EventRemoved {
		p["count"] = ev.Count
		return p
	}
	p["source"] = map[string]any{
		"type":     string(m.Source.Type),
		"id":       m.Source.ID,
		"name":     m.Source.Name,
		"fieldKey": m.Source.FieldKey,
	}
	return p
}
