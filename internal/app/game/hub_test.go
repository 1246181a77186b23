package game

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"mobhub/internal/app/protocol"
)

func startHub(t *testing.T, settings Settings, src *fakeSource) *Hub {
	t.Helper()

	h := NewHub(settings, src)
	go h.Run()
	t.Cleanup(func() {
		h.Stop()
		<-h.Done()
	})
	return h
}

func listenLines(t *testing.T, h *Hub) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go NewClient(h, NewLineConn(conn), rate.Inf, 0).Serve()
		}
	}()

	return ln.Addr().String()
}

type lineClient struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func dialLines(t *testing.T, addr string) *lineClient {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &lineClient{t: t, conn: conn, r: bufio.NewReader(conn)}
}

func (c *lineClient) send(line string) {
	c.t.Helper()
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

// expect reads replies until one satisfies match.
func (c *lineClient) expect(match func(protocol.Reply) bool) protocol.Reply {
	c.t.Helper()

	_ = c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		line, err := c.r.ReadBytes('\n')
		if err != nil {
			c.t.Fatalf("read: %v", err)
		}

		var reply protocol.Reply
		if err := json.Unmarshal(line, &reply); err != nil {
			c.t.Fatalf("bad reply %q: %v", line, err)
		}
		if match(reply) {
			return reply
		}
	}
}

func (c *lineClient) expectMsg(msg string) {
	c.t.Helper()
	c.expect(func(r protocol.Reply) bool { return r.Msg == msg })
}

// expectClosed reads until the server closes the connection.
func (c *lineClient) expectClosed() {
	c.t.Helper()

	_ = c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		if _, err := c.r.ReadBytes('\n'); err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				c.t.Fatal("connection was not closed")
			}
			return
		}
	}
}

func waitOnline(t *testing.T, h *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for h.Online() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Online = %d, want %d", h.Online(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubSessionOverTCP(t *testing.T) {
	h := startHub(t, Settings{PollInterval: time.Hour, CombatDelay: time.Millisecond, StartingCash: 150}, &fakeSource{})
	addr := listenLines(t, h)

	alice := dialLines(t, addr)
	bob := dialLines(t, addr)

	alice.send(`{"name":"alice"}`)
	alice.expectMsg("Welcome alice!")
	bob.send(`{"name":"bob"}`)
	bob.expectMsg("Welcome bob!")
	waitOnline(t, h, 2)

	alice.send(`{"friend":["bob"]}`)
	bob.expectMsg("You are now alice's friend")
	alice.expectMsg("Done adding friends")

	alice.send(`{"friend":"bob","msg":"hey"}`)
	bob.expectMsg("[alice]:hey")

	bob.send(`{"friend":"alice","amount":25}`)
	alice.expectMsg("Received 25 GPs from bob")
	bob.expectMsg("Transfer completed")

	alice.send(`{"query":"gp"}`)
	alice.expectMsg("GP: 175")

	alice.send(`{"kill":true}`)
	alice.expect(func(r protocol.Reply) bool { return r.Err == "There is no mob to fight." })

	alice.conn.Close()
	bob.expectMsg("Your friend alice has disconnected")
	waitOnline(t, h, 1)

	bob.send(`{"query":"friends"}`)
	bob.expectMsg("<no friends>")
}

func TestHubMobPollAndFight(t *testing.T) {
	// zeroed rolls always match, attacks always miss and hits are always blocked
	h := startHub(t, Settings{PollInterval: 5 * time.Millisecond, CombatDelay: time.Millisecond, StartingCash: 150}, &fakeSource{})
	addr := listenLines(t, h)

	alice := dialLines(t, addr)
	alice.send(`{"name":"alice"}`)
	alice.expectMsg("Welcome alice!")
	alice.expectMsg("Mob detected...")

	alice.send(`{"kill":true}`)
	alice.expectMsg("You have 25 hp remaining. Difficulty is now 2.")
}

func TestHubKeepsConnectionAfterBadEnvelope(t *testing.T) {
	h := startHub(t, Settings{PollInterval: time.Hour, StartingCash: 150}, &fakeSource{})
	alice := dialLines(t, listenLines(t, h))

	alice.send(`{"name":`)
	alice.expect(func(r protocol.Reply) bool { return r.Err != "" })

	alice.send(`{"name":"alice"}`)
	alice.expectMsg("Welcome alice!")
}

func TestHubClosesOversizedFrame(t *testing.T) {
	h := startHub(t, Settings{PollInterval: time.Hour, StartingCash: 150}, &fakeSource{})
	alice := dialLines(t, listenLines(t, h))

	alice.send(`{"name":"alice"}`)
	alice.expectMsg("Welcome alice!")

	_, _ = io.WriteString(alice.conn, strings.Repeat("x", maxFrameSize+1))
	alice.expectClosed()
	waitOnline(t, h, 0)
}

func TestHubStopClosesClients(t *testing.T) {
	h := NewHub(Settings{PollInterval: time.Hour, StartingCash: 150}, &fakeSource{})
	go h.Run()
	alice := dialLines(t, listenLines(t, h))

	alice.send(`{"name":"alice"}`)
	alice.expectMsg("Welcome alice!")

	h.Stop()
	<-h.Done()
	alice.expectClosed()

	h.Stop()
}

type idleFrameConn struct {
	addr net.Addr
}

func (c *idleFrameConn) ReadFrame() ([]byte, error)         { return nil, io.EOF }
func (c *idleFrameConn) WriteFrame([]byte, time.Time) error { return nil }
func (c *idleFrameConn) Ping(time.Time) error               { return nil }
func (c *idleFrameConn) Network() string                    { return "tcp" }
func (c *idleFrameConn) RemoteAddr() net.Addr               { return c.addr }
func (c *idleFrameConn) Close() error                       { return nil }

func TestHubLeaveNeverOvertakesQueuedRequests(t *testing.T) {
	for i := range 50 {
		h := NewHub(Settings{PollInterval: time.Hour, StartingCash: 150}, &fakeSource{})

		addr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 5000 + i}
		c := NewClient(h, &idleFrameConn{addr: addr}, rate.Inf, 0)
		h.clients[c] = struct{}{}

		// both are queued before the loop starts
		h.Submit(c, protocol.Request{Kind: protocol.KindRegister, Name: "ghost"})
		h.Leave(c)

		go h.Run()
		select {
		case <-c.done:
		case <-time.After(2 * time.Second):
			t.Fatal("client was never released")
		}

		h.Stop()
		<-h.Done()

		if h.registry.Len() != 0 || h.Online() != 0 {
			t.Fatalf("iteration %d: record survived its own disconnect", i)
		}
		if len(h.registry.stops) != 0 {
			t.Fatalf("iteration %d: mob poll left running", i)
		}
	}
}
