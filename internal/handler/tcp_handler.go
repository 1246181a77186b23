package handler

import (
	"context"
	"errors"
	"net"
	"time"

	"mobhub/internal/app/game"
	"mobhub/internal/app/protocol"
	"mobhub/internal/pkg/errs"
	"mobhub/internal/pkg/logx"
)

// ServeTCP accepts game connections on ln until ctx is done or ln is closed.
// Each connection speaks newline-delimited JSON.
func ServeTCP(ctx context.Context, ln net.Listener, deps *AppDeps) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-done:
		}
	}()

	logx.Info("Game listener accepting connections", "addr", ln.Addr().String())

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}

			backoff = nextBackoff(backoff)
			logx.Warn("Accept failed, retrying", "error", err.Error(), "backoff", backoff.String())

			select {
			case <-time.After(backoff):
				continue
			case <-ctx.Done():
				return nil
			}
		}
		backoff = 0

		remote := conn.RemoteAddr().String()
		if !deps.ConnLimiter.AllowAddr(remote) {
			logx.Warn("TCP connection rejected: rate limit exceeded.", "ip", logx.AnonymizeIP(remote))
			rejectTCP(conn, errs.NewError(errs.ErrRateLimitExceeded))
			continue
		}

		client := deps.newClient(game.NewLineConn(conn))
		go client.Serve()
	}
}

// rejectTCP writes a single error reply and closes conn.
func rejectTCP(conn net.Conn, err error) {
	if b, encErr := protocol.Failure(err).Encode(); encErr == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
		_, _ = conn.Write(append(b, '\n'))
	}
	_ = conn.Close()
}

func nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return 5 * time.Millisecond
	}
	return min(current*2, time.Second)
}
