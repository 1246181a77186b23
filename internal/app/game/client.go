/*
Package game contains the session core.

This file defines the Client, one live transport connection. Its ReadPump decodes
inbound frames and hands them to the Hub; its WritePump drains the send queue and
keeps the connection alive. The same Client serves TCP and WebSocket transports.
*/
package game

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"mobhub/internal/app/protocol"
	"mobhub/internal/app/user"
	"mobhub/internal/pkg/errs"
	"mobhub/internal/pkg/logx"
)

const (
	// timeout duration for writing one frame.
	writeWait = 10 * time.Second

	// frequency of keepalive pings.
	pingPeriod = 54 * time.Second

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxFrameSize = 8192

	// capacity of the outbound queue.
	sendBuffer = 256
)

// ErrFrameTooLarge is returned by a FrameConn when an inbound frame exceeds maxFrameSize.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// FrameConn is a message-framed transport connection.
type FrameConn interface {
	// ReadFrame blocks until one complete inbound frame is available.
	ReadFrame() ([]byte, error)

	// WriteFrame writes one outbound frame before deadline.
	WriteFrame(frame []byte, deadline time.Time) error

	// Ping writes a keepalive probe before deadline.
	Ping(deadline time.Time) error

	// Network names the transport ("tcp" or "ws").
	Network() string

	RemoteAddr() net.Addr
	Close() error
}

// Client struct represents one live connection and its outbound queue.
type Client struct {
	hub  *Hub
	conn FrameConn

	// endpoint identifies the connection to the registry.
	endpoint user.Endpoint

	// send queues encoded replies for the WritePump.
	send chan []byte

	// done is closed to stop the WritePump.
	done     chan struct{}
	doneOnce sync.Once

	// limiter bounds how many envelopes per second the client may submit.
	limiter *rate.Limiter

	logger zerolog.Logger
}

// NewClient constructs a Client over conn allowing msgRate envelopes per second with burst msgBurst.
func NewClient(hub *Hub, conn FrameConn, msgRate rate.Limit, msgBurst int) *Client {
	endpoint := user.EndpointOf(conn.Network(), conn.RemoteAddr())

	return &Client{
		hub:      hub,
		conn:     conn,
		endpoint: endpoint,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		limiter:  rate.NewLimiter(msgRate, msgBurst),
		logger: logx.Logger().With().
			Str("component", "client").
			Str("network", endpoint.Network).
			Str("remote_ip", logx.AnonymizeIP(endpoint.Host)).
			Str("remote_port", endpoint.Port).
			Logger(),
	}
}

// Endpoint implements user.Conn.
func (c *Client) Endpoint() user.Endpoint {
	return c.endpoint
}

// Send implements user.Conn. It never blocks; when the queue is full the reply is dropped.
func (c *Client) Send(reply protocol.Reply) {
	b, err := reply.Encode()
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling reply")
		return
	}

	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- b:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping reply")
	}
}

// Serve registers the client with the hub and runs both pumps until the connection closes.
func (c *Client) Serve() {
	if !c.hub.Connect(c) {
		c.logger.Warn().Msg("Hub stopped, refusing connection.")
		_ = c.conn.Close()
		return
	}

	go c.WritePump()
	c.ReadPump()
}

// ReadPump reads frames until the connection fails, then tells the hub the client left.
func (c *Client) ReadPump() {
	defer c.hub.Leave(c)

	c.logger.Info().Msg("Client connected.")

	for {
		frame, err := c.conn.ReadFrame()
		if err != nil {
			c.logReadError(err)
			return
		}

		c.processInboundFrame(frame)
	}
}

func (c *Client) logReadError(err error) {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		c.logger.Info().Msg("Client disconnected.")
	case errors.Is(err, ErrFrameTooLarge):
		c.logger.Warn().Err(err).Msg("Client sent an oversized frame, closing connection.")
	default:
		c.logger.Info().Err(err).Msg("Error reading frame, closing connection.")
	}
}

// processInboundFrame decodes one frame and submits it to the hub.
func (c *Client) processInboundFrame(frame []byte) {
	if !c.limiter.Allow() {
		c.Send(protocol.Failure(errs.NewError(errs.ErrRateLimitExceeded)))
		return
	}

	req, err := protocol.Decode(frame)
	if err != nil {
		c.logger.Warn().Err(err).Int("code", errs.CodeOf(err)).Bytes("frame", frame).Msg("Client sent invalid envelope")
		c.Send(protocol.Failure(err))
		return
	}

	c.hub.Submit(c, req)
}

// WritePump writes queued replies and periodic pings until the client is released.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame := <-c.send:
			if err := c.conn.WriteFrame(frame, time.Now().Add(writeWait)); err != nil {
				c.logger.Info().Err(err).Msg("Error writing frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.Ping(time.Now().Add(writeWait)); err != nil {
				c.logger.Info().Err(err).Msg("Error writing ping")
				return
			}

		case <-c.done:
			c.flush()
			return
		}
	}
}

// flush writes whatever is still queued without blocking on new replies.
func (c *Client) flush() {
	for {
		select {
		case frame := <-c.send:
			if err := c.conn.WriteFrame(frame, time.Now().Add(writeWait)); err != nil {
				return
			}
		default:
			return
		}
	}
}

// release stops the WritePump after it has flushed the queue.
func (c *Client) release() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}

// kick closes the connection so the ReadPump unblocks, then releases the client.
func (c *Client) kick() {
	c.logger.Info().Msg("Closing client connection.")

	if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.logger.Warn().Err(err).Msg("Client connection close error")
	}
	c.release()
}
