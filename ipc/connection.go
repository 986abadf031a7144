package ipc

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

var ErrUnknownType = errors.New("unknown message type")

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection is one presentation client attached to the sidecar.
// Replies and pushed events may come from different goroutines, so
// writes are serialized.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	writeMu  sync.Mutex
	Client   string
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteEnvelope(c.conn, env)
}

func (c *Connection) Close() error { return c.conn.Close() }

// ReadLoop serves requests until the peer hangs up, then closes the conn.
// Every request gets exactly one reply: the handler's, or an error ack
// when the type is unknown or the handler fails.
func (c *Connection) ReadLoop() {
	defer c.conn.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			slog.Info("connection read ended", "client", c.Client, "error", err)
			return
		}

		resp, err := c.dispatch(env)
		if err != nil {
			slog.Warn("request failed", "type", env.Type, "client", c.Client, "error", err)
			resp, err = errorAck(err)
			if err != nil {
				slog.Error("failed to encode error ack", "error", err)
				continue
			}
		}
		if resp == nil {
			continue
		}
		if err := c.write(*resp); err != nil {
			slog.Error("failed to send response", "type", resp.Type, "error", err)
			return
		}
		slog.Debug("sent response", "type", resp.Type, "client", c.Client)
	}
}

func (c *Connection) dispatch(env Envelope) (*Envelope, error) {
	handler, ok := c.handlers[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	return handler(env)
}

func errorAck(cause error) (*Envelope, error) {
	env, err := NewEnvelope(TypeAck, AckMessage{Status: "error", Error: cause.Error()})
	if err != nil {
		return nil, err
	}
	return &env, nil
}
