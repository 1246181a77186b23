package game

import (
	"strings"
	"sync"
	"testing"
	"time"

	"mobhub/internal/app/protocol"
	"mobhub/internal/app/user"
)

type fakeConn struct {
	endpoint user.Endpoint

	mu      sync.Mutex
	replies []protocol.Reply
}

func newFakeConn(port string) *fakeConn {
	return &fakeConn{endpoint: user.Endpoint{Network: "tcp", Host: "127.0.0.1", Port: port}}
}

func (c *fakeConn) Endpoint() user.Endpoint { return c.endpoint }

func (c *fakeConn) Send(reply protocol.Reply) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, reply)
}

func (c *fakeConn) all() []protocol.Reply {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.Reply(nil), c.replies...)
}

func (c *fakeConn) msgs() []string {
	var out []string
	for _, r := range c.all() {
		if r.Msg != "" {
			out = append(out, r.Msg)
		}
	}
	return out
}

func (c *fakeConn) last() protocol.Reply {
	all := c.all()
	if len(all) == 0 {
		return protocol.Reply{}
	}
	return all[len(all)-1]
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = nil
}

// fakeSource replays scripted values. When a script runs out, Hex returns zeros
// and Intn returns 0.
type fakeSource struct {
	hexes []string
	ints  []int
}

func (s *fakeSource) Hex(n int) string {
	if len(s.hexes) == 0 {
		return strings.Repeat("0", n)
	}
	h := s.hexes[0]
	s.hexes = s.hexes[1:]
	return h
}

func (s *fakeSource) Intn(n int) int {
	if len(s.ints) == 0 || n <= 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return min(v, n-1)
}

type testHub struct {
	*Hub
	pending []func()
}

func newTestHub(t *testing.T, src *fakeSource) *testHub {
	t.Helper()

	th := &testHub{Hub: NewHub(Settings{
		PollInterval: time.Hour,
		CombatDelay:  time.Millisecond,
		StartingCash: 150,
	}, src)}
	th.schedule = func(_ time.Duration, f func()) {
		th.pending = append(th.pending, f)
	}

	t.Cleanup(th.Stop)
	return th
}

// fight runs every scheduled combat on the calling goroutine.
func (th *testHub) fight() {
	for _, f := range th.pending {
		f()
		th.finishCombat(<-th.combats)
	}
	th.pending = nil
}

func (th *testHub) join(t *testing.T, name, port string) (*user.Record, *fakeConn) {
	t.Helper()

	conn := newFakeConn(port)
	th.dispatch(conn, protocol.Request{Kind: protocol.KindRegister, Name: name})

	rec, ok := th.registry.FindByName(name)
	if !ok {
		t.Fatalf("%s not registered: %+v", name, conn.all())
	}
	conn.reset()
	return rec, conn
}

func (th *testHub) befriend(a *user.Record, b *user.Record) {
	th.dispatch(a.Conn, protocol.Request{Kind: protocol.KindAddFriends, Names: []string{b.Name}})
	a.Conn.(*fakeConn).reset()
	b.Conn.(*fakeConn).reset()
}
