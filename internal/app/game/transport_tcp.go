package game

import (
	"bufio"
	"bytes"
	"net"
	"time"
)

// lineConn frames a raw TCP stream as newline-delimited JSON.
type lineConn struct {
	conn   net.Conn
	reader *bufio.Reader
}

// NewLineConn wraps a stream connection so that each line is one frame.
func NewLineConn(conn net.Conn) FrameConn {
	return &lineConn{
		conn:   conn,
		reader: bufio.NewReaderSize(conn, maxFrameSize),
	}
}

// ReadFrame returns the next non-blank line without its terminator.
func (l *lineConn) ReadFrame() ([]byte, error) {
	for {
		line, err := l.reader.ReadSlice('\n')
		if err == bufio.ErrBufferFull {
			return nil, ErrFrameTooLarge
		}

		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			return append([]byte(nil), line...), nil
		}

		if err != nil {
			return nil, err
		}
	}
}

// WriteFrame writes frame followed by a newline.
func (l *lineConn) WriteFrame(frame []byte, deadline time.Time) error {
	if err := l.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}

	buf := make([]byte, 0, len(frame)+1)
	buf = append(buf, frame...)
	buf = append(buf, '\n')

	_, err := l.conn.Write(buf)
	return err
}

// Ping is a no-op; TCP keepalive is left to the operating system.
func (l *lineConn) Ping(time.Time) error {
	return nil
}

func (l *lineConn) Network() string {
	return "tcp"
}

func (l *lineConn) RemoteAddr() net.Addr {
	return l.conn.RemoteAddr()
}

func (l *lineConn) Close() error {
	return l.conn.Close()
}
