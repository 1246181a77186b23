package user

import (
	"net"
	"reflect"
	"testing"

	"mobhub/internal/app/protocol"
)

type recordingConn struct {
	endpoint Endpoint
	replies  []protocol.Reply
}

func (c *recordingConn) Endpoint() Endpoint        { return c.endpoint }
func (c *recordingConn) Send(reply protocol.Reply) { c.replies = append(c.replies, reply) }

type directory map[string]*Record

func (d directory) resolve(id string) (*Record, bool) {
	r, ok := d[id]
	return r, ok
}

func (d directory) add(names ...string) []*Record {
	out := make([]*Record, len(names))
	for i, n := range names {
		r := New("id-"+n, n, nil)
		d[r.ID] = r
		out[i] = r
	}
	return out
}

func TestNewRecordDefaults(t *testing.T) {
	r := New("id", "alice", nil)

	if r.Cash != 0 || r.Difficulty != 2 || r.HP != 25 || r.MobCounter != 0 {
		t.Fatalf("unexpected defaults: %+v", r)
	}
	if r.AtkPoints != 10 || r.DefPoints != 10 {
		t.Fatalf("unexpected combat stats: %+v", r)
	}
}

func TestAddFriendIgnoresSelfAndDuplicates(t *testing.T) {
	d := directory{}
	rs := d.add("alice", "bob")
	alice, bob := rs[0], rs[1]

	if alice.AddFriend(alice) {
		t.Fatal("adding self must be a no-op")
	}
	if !alice.AddFriend(bob) {
		t.Fatal("first add should change the list")
	}
	if alice.AddFriend(bob) {
		t.Fatal("second add should be a no-op")
	}
	if alice.FriendCount() != 1 || alice.HasFriend(alice.ID) {
		t.Fatalf("friends = %v", alice.friends)
	}
}

func TestRemoveFriend(t *testing.T) {
	d := directory{}
	rs := d.add("alice", "bob", "carol")
	alice := rs[0]
	alice.AddFriend(rs[1])
	alice.AddFriend(rs[2])

	if alice.RemoveFriend("id-nobody") {
		t.Fatal("removing an absent friend must be a no-op")
	}
	if !alice.RemoveFriend(rs[1].ID) {
		t.Fatal("expected removal")
	}
	if got := alice.ListFriends(d.resolve); got != "carol" {
		t.Fatalf("ListFriends = %q", got)
	}
}

func TestRemoveFriendsByNameHandlesAdjacentEntries(t *testing.T) {
	d := directory{}
	rs := d.add("alice", "bob", "carol", "dave", "erin")
	alice := rs[0]
	for _, r := range rs[1:] {
		alice.AddFriend(r)
	}

	var notified []string
	alice.RemoveFriendsByName([]string{"bob", "carol", "erin", "zed"}, d.resolve, func(r *Record) {
		notified = append(notified, r.Name)
	})

	if !reflect.DeepEqual(notified, []string{"bob", "carol", "erin"}) {
		t.Fatalf("notified = %v", notified)
	}
	if got := alice.ListFriends(d.resolve); got != "dave" {
		t.Fatalf("ListFriends = %q", got)
	}
}

func TestRemoveFriendsByNameDropsDanglingReferences(t *testing.T) {
	d := directory{}
	rs := d.add("alice", "bob", "carol")
	alice := rs[0]
	alice.AddFriend(rs[1])
	alice.AddFriend(rs[2])
	delete(d, rs[1].ID)

	alice.RemoveFriendsByName([]string{"nobody"}, d.resolve, nil)

	if alice.FriendCount() != 1 {
		t.Fatalf("friends = %v", alice.friends)
	}
}

func TestListFriends(t *testing.T) {
	d := directory{}
	rs := d.add("alice", "B", "C")
	alice := rs[0]

	if got := alice.ListFriends(d.resolve); got != NoFriends {
		t.Fatalf("empty list = %q", got)
	}

	alice.AddFriend(rs[1])
	if got := alice.ListFriends(d.resolve); got != "B" {
		t.Fatalf("single = %q", got)
	}

	alice.AddFriend(rs[2])
	if got := alice.ListFriends(d.resolve); got != "B, C" {
		t.Fatalf("pair = %q", got)
	}
}

func TestFindFriendIsCaseSensitive(t *testing.T) {
	d := directory{}
	rs := d.add("alice", "Bob")
	rs[0].AddFriend(rs[1])

	if _, ok := rs[0].FindFriend("bob", d.resolve); ok {
		t.Fatal("lookup must be case-sensitive")
	}
	if f, ok := rs[0].FindFriend("Bob", d.resolve); !ok || f != rs[1] {
		t.Fatal("expected to find Bob")
	}
}

func TestDifficultyFloor(t *testing.T) {
	r := New("id", "alice", nil)

	r.IncreaseDifficulty()
	if r.Difficulty != 4 {
		t.Fatalf("difficulty = %d", r.Difficulty)
	}

	r.DecreaseDifficulty()
	r.DecreaseDifficulty()
	if r.Difficulty != DefaultDifficulty {
		t.Fatalf("difficulty = %d, want floor %d", r.Difficulty, DefaultDifficulty)
	}
}

func TestSendUsesConnection(t *testing.T) {
	conn := &recordingConn{}
	r := New("id", "alice", conn)

	r.Send(protocol.Info("hello"))

	if len(conn.replies) != 1 || conn.replies[0].Msg != "hello" {
		t.Fatalf("replies = %v", conn.replies)
	}
}

func TestEndpointOf(t *testing.T) {
	addr := &net.TCPAddr{IP: net.ParseIP("10.1.2.3"), Port: 5555}

	got := EndpointOf("tcp", addr)
	want := Endpoint{Network: "tcp", Host: "10.1.2.3", Port: "5555"}
	if got != want {
		t.Fatalf("got %+v", got)
	}
	if got.String() != "tcp://10.1.2.3:5555" {
		t.Fatalf("String = %q", got.String())
	}
	if EndpointOf("tcp", nil) != (Endpoint{Network: "tcp"}) {
		t.Fatal("nil addr should only carry the network")
	}
}
