package user

import "strings"

// NoFriends is what ListFriends renders for an empty friend list.
const NoFriends = "<no friends>"

// Resolver looks up a live record by session ID.
type Resolver func(id string) (*Record, bool)

// AddFriend appends other to the friend list. Adding oneself or an existing
// friend is a no-op. It reports whether the list changed.
func (u *Record) AddFriend(other *Record) bool {
	if other == nil || other.ID == u.ID || u.HasFriend(other.ID) {
		return false
	}

	u.friends = append(u.friends, other.ID)
	return true
}

// HasFriend reports whether id is in the friend list.
func (u *Record) HasFriend(id string) bool {
	for _, f := range u.friends {
		if f == id {
			return true
		}
	}
	return false
}

// FriendCount returns the number of friend references held.
func (u *Record) FriendCount() int {
	return len(u.friends)
}

// RemoveFriend drops the reference to the record with the given ID.
// It reports whether anything was removed.
func (u *Record) RemoveFriend(id string) bool {
	for i, f := range u.friends {
		if f == id {
			u.friends = append(u.friends[:i], u.friends[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveFriendsByName drops every friend whose name is in names and calls
// onRemoved for each removed record in friend-list order. References that no
// longer resolve are dropped silently.
func (u *Record) RemoveFriendsByName(names []string, resolve Resolver, onRemoved func(*Record)) {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	kept := u.friends[:0]
	var removed []*Record

	for _, id := range u.friends {
		friend, ok := resolve(id)
		if !ok {
			continue
		}
		if _, hit := wanted[friend.Name]; hit {
			removed = append(removed, friend)
			continue
		}
		kept = append(kept, id)
	}

	clear(u.friends[len(kept):])
	u.friends = kept

	if onRemoved == nil {
		return
	}
	for _, friend := range removed {
		onRemoved(friend)
	}
}

// Friends resolves the friend list into live records, in insertion order.
func (u *Record) Friends(resolve Resolver) []*Record {
	out := make([]*Record, 0, len(u.friends))
	for _, id := range u.friends {
		if friend, ok := resolve(id); ok {
			out = append(out, friend)
		}
	}
	return out
}

// FindFriend returns the friend with the exact given name.
func (u *Record) FindFriend(name string, resolve Resolver) (*Record, bool) {
	for _, friend := range u.Friends(resolve) {
		if friend.Name == name {
			return friend, true
		}
	}
	return nil, false
}

// ListFriends renders the friend names joined by ", ", or NoFriends.
func (u *Record) ListFriends(resolve Resolver) string {
	friends := u.Friends(resolve)
	if len(friends) == 0 {
		return NoFriends
	}

	names := make([]string, len(friends))
	for i, f := range friends {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}
