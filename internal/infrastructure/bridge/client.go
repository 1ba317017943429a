// Package bridge implements the socket client side of the command protocol
// spoken with the plugin running inside Cinema 4D.
//
// The wire format is a single JSON document per direction: the client writes
// {"type": <command>, "params": {...}} and the plugin answers
// {"status": "ok"|"error", "result": {...}, "message": <error text>}. There
// is no length prefix; a response is complete when the accumulated bytes
// parse as valid JSON.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const receiveBufferSize = 8192

// RemoteError is an error reported by the plugin itself, as opposed to a
// transport failure. The connection stays usable after one.
type RemoteError struct {
	Command string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("cinema 4d rejected %q: %s", e.Command, e.Message)
}

// Client is a persistent connection to the in-application socket server.
// A mutex serializes commands: the protocol has no request IDs, so responses
// are matched to requests by ordering alone.
type Client struct {
	addr    string
	timeout time.Duration
	log     zerolog.Logger

	mu   sync.Mutex
	conn net.Conn
}

// New creates a client for the plugin listening at host:port. Commands time
// out after the given duration unless the context expires first.
func New(host string, port int, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		timeout: timeout,
		log:     log,
	}
}

type request struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

type response struct {
	Status  string          `json:"status"`
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
}

// Send issues one command and waits for its response. Transport failures
// invalidate the connection; the next Send reconnects.
func (c *Client) Send(ctx context.Context, command string, params map[string]any) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnLocked(ctx); err != nil {
		return nil, err
	}

	if params == nil {
		params = map[string]any{}
	}

	payload, err := json.Marshal(request{Type: command, Params: params})
	if err != nil {
		return nil, fmt.Errorf("encode %s command: %w", command, err)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		c.dropLocked()
		return nil, err
	}

	c.log.Debug().Str("command", command).Msg("sending command")

	if _, err := c.conn.Write(payload); err != nil {
		c.dropLocked()
		return nil, fmt.Errorf("send %s command: %w", command, err)
	}

	raw, err := readDocument(c.conn, receiveBufferSize)
	if err != nil {
		c.dropLocked()
		return nil, fmt.Errorf("receive %s response: %w", command, err)
	}

	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.dropLocked()
		return nil, fmt.Errorf("decode %s response: %w", command, err)
	}

	if resp.Status == "error" {
		msg := resp.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &RemoteError{Command: command, Message: msg}
	}

	result := map[string]any{}
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &result); err != nil {
			return nil, fmt.Errorf("decode %s result: %w", command, err)
		}
	}

	c.log.Debug().Str("command", command).Int("bytes", len(raw)).Msg("received response")

	return result, nil
}

// Ping checks that the plugin answers. It reconnects if needed.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Send(ctx, "ping", nil)
	return err
}

// Close tears down the connection. The client may be reused afterwards.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) ensureConnLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("connect to cinema 4d at %s (is the plugin running?): %w", c.addr, err)
	}

	c.log.Info().Str("addr", c.addr).Msg("connected to cinema 4d")
	c.conn = conn
	return nil
}

func (c *Client) dropLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// readDocument accumulates reads until the buffer is one complete JSON
// document. An EOF after at least one complete document's worth of bytes is
// not an error; an EOF before any data is.
func readDocument(r io.Reader, bufSize int) ([]byte, error) {
	var doc []byte
	chunk := make([]byte, bufSize)

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			doc = append(doc, chunk[:n]...)
			if json.Valid(doc) {
				return doc, nil
			}
		}
		if err != nil {
			if len(doc) == 0 {
				return nil, fmt.Errorf("connection closed before any data: %w", err)
			}
			if json.Valid(doc) {
				return doc, nil
			}
			return nil, errors.New("incomplete JSON response")
		}
	}
}
