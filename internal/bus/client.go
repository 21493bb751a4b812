package bus

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Handler receives dispatched messages. Handlers run on the read goroutine
// and must not block.
type Handler func(Message)

// Bus is what the dashboard needs from the messagebus.
type Bus interface {
	Emit(msg Message) error
	On(msgType string, h Handler)
	WaitForResponse(ctx context.Context, msg Message, replyType string) (Message, error)
}

// Ensure Client implements Bus at compile time.
var _ Bus = (*Client)(nil)

// ErrNotConnected is returned by Emit while the websocket is down.
var ErrNotConnected = errors.New("messagebus not connected")

const (
	defaultURL = "ws://127.0.0.1:8181/core"
	// DefaultResponseTimeout bounds WaitForResponse when ctx has no deadline.
	DefaultResponseTimeout = 3 * time.Second
	defaultRetry           = time.Second
	maxBackoff             = 30 * time.Second
	writeTimeout           = 5 * time.Second
)

// Client is a reconnecting websocket client for the messagebus.
type Client struct {
	url        string
	dialer     *websocket.Dialer
	retryDelay time.Duration

	mu       sync.RWMutex
	handlers map[string][]Handler
	waiters  map[string][]chan Message
	conn     *websocket.Conn

	writeMu sync.Mutex
}

// NewClient builds a client for rawURL. An empty URL selects the default
// local bus; a URL without scheme gets ws://.
func NewClient(rawURL string) (*Client, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		url:        u.String(),
		dialer:     &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		retryDelay: defaultRetry,
		handlers:   make(map[string][]Handler),
		waiters:    make(map[string][]chan Message),
	}, nil
}

// URL is the websocket endpoint.
func (c *Client) URL() string {
	return c.url
}

// On registers h for msgType, including the local connected and
// reconnecting events.
func (c *Client) On(msgType string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[msgType] = append(c.handlers[msgType], h)
}

// Connected reports whether a websocket is currently open.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

// Emit sends msg. It fails fast with ErrNotConnected while reconnecting.
func (c *Client) Emit(msg Message) error {
	payload, err := msg.encode()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// WaitForResponse emits msg and waits for the first message of replyType.
// An empty replyType waits for "<type>.response".
func (c *Client) WaitForResponse(ctx context.Context, msg Message, replyType string) (Message, error) {
	if replyType == "" {
		replyType = msg.Type + ".response"
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultResponseTimeout)
		defer cancel()
	}

	ch := make(chan Message, 1)
	c.mu.Lock()
	c.waiters[replyType] = append(c.waiters[replyType], ch)
	c.mu.Unlock()

	if err := c.Emit(msg); err != nil {
		c.dropWaiter(replyType, ch)
		return Message{}, err
	}

	select {
	case reply := <-ch:
		return reply, nil
	case <-ctx.Done():
		c.dropWaiter(replyType, ch)
		return Message{}, fmt.Errorf("wait for %s: %w", replyType, ctx.Err())
	}
}

func (c *Client) dropWaiter(replyType string, ch chan Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.waiters[replyType]
	for i, w := range list {
		if w == ch {
			c.waiters[replyType] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(c.waiters[replyType]) == 0 {
		delete(c.waiters, replyType)
	}
}

func (c *Client) dispatch(msg Message) {
	c.mu.Lock()
	handlers := append([]Handler(nil), c.handlers[msg.Type]...)
	waiters := c.waiters[msg.Type]
	delete(c.waiters, msg.Type)
	c.mu.Unlock()

	for _, w := range waiters {
		w <- msg
	}
	for _, h := range handlers {
		h(msg)
	}
}

// Run keeps a connection open until ctx is cancelled, reconnecting with
// exponential backoff. It returns ctx.Err().
func (c *Client) Run(ctx context.Context) error {
	failures := 0
	for {
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.dispatch(Message{Type: EventReconnecting})
			if !sleep(ctx, calculateBackoff(failures, c.retryDelay)) {
				return ctx.Err()
			}
			failures++
			continue
		}

		failures = 0
		c.setConn(conn)
		c.dispatch(Message{Type: EventConnected})

		stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
		c.readLoop(conn)
		stop()
		c.setConn(nil)
		_ = conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.dispatch(Message{Type: EventReconnecting})
		if !sleep(ctx, c.retryDelay) {
			return ctx.Err()
		}
	}
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := decode(raw)
		if err != nil || msg.Type == "" {
			continue
		}
		c.dispatch(msg)
	}
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func parseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "ws://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse bus url %q: %w", raw, err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("parse bus url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse bus url %q: missing host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
