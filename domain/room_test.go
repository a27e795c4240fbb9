package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeMember struct {
	id   string
	name string

	mu  sync.Mutex
	got []Message
}

func newFakeMember(id, name string) *fakeMember {
	return &fakeMember{id: id, name: name}
}

func (f *fakeMember) ID() string   { return f.id }
func (f *fakeMember) Name() string { return f.name }

func (f *fakeMember) Deliver(msg Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, msg)
}

func (f *fakeMember) received() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.got))
	copy(out, f.got)
	return out
}

func TestRoom_Join_IsIdempotent(t *testing.T) {
	req := require.New(t)
	room := NewRoom("lobby")
	alice := newFakeMember("m1", "alice")

	// When the same member joins twice
	room.Join(alice)
	room.Join(alice)

	// Then the member set holds it once
	req.Equal(1, room.Size())
	req.Equal([]string{"alice"}, room.MemberNames())
}

func TestRoom_Leave_AbsentMember_IsNoOp(t *testing.T) {
	req := require.New(t)
	room := NewRoom("lobby")
	alice := newFakeMember("m1", "alice")
	bob := newFakeMember("m2", "bob")

	// Given only alice is a member
	room.Join(alice)

	// When a non-member leaves
	room.Leave(bob)

	// Then nothing changed
	req.Equal([]string{"alice"}, room.MemberNames())
}

func TestRoom_JoinLeave_SetSemantics(t *testing.T) {
	req := require.New(t)
	room := NewRoom("lobby")
	alice := newFakeMember("m1", "alice")
	bob := newFakeMember("m2", "bob")
	carol := newFakeMember("m3", "carol")

	// When members join and one leaves
	room.Join(alice)
	room.Join(bob)
	room.Join(carol)
	room.Leave(bob)

	// Then the set equals joined-and-not-left, in join order
	req.Equal([]string{"alice", "carol"}, room.MemberNames())
}

func TestRoom_Broadcast_DeliversToEveryMemberExactlyOnce(t *testing.T) {
	req := require.New(t)
	room := NewRoom("lobby")
	alice := newFakeMember("m1", "alice")
	bob := newFakeMember("m2", "bob")
	carol := newFakeMember("m3", "carol")
	room.Join(alice)
	room.Join(bob)
	room.Join(carol)

	// When a message is broadcast
	msg := NewChat("alice", "hi")
	room.Broadcast(msg)

	// Then each member, sender included, received it exactly once
	for _, m := range []*fakeMember{alice, bob, carol} {
		req.Equal([]Message{msg}, m.received())
	}
}

func TestRoom_Member_FirstMatchByJoinOrder(t *testing.T) {
	req := require.New(t)
	room := NewRoom("lobby")
	first := newFakeMember("m1", "bob")
	second := newFakeMember("m2", "bob")
	room.Join(first)
	room.Join(second)

	// When looking up a duplicated display name
	found, ok := room.Member("bob")

	// Then the earliest joined member wins
	req.True(ok)
	req.Same(first, found)
}

func TestRoom_Member_NotFound(t *testing.T) {
	req := require.New(t)
	room := NewRoom("lobby")
	room.Join(newFakeMember("m1", "alice"))

	// When looking up an absent name
	found, ok := room.Member("bob")

	// Then the miss is an explicit outcome, not a nil target
	req.False(ok)
	req.Nil(found)
}

func TestRoom_Broadcast_ConcurrentWithMembershipChanges(t *testing.T) {
	req := require.New(t)
	room := NewRoom("lobby")

	var wg sync.WaitGroup
	members := make([]*fakeMember, 10)
	for i := range members {
		members[i] = newFakeMember(string(rune('a'+i)), "user")
	}

	// When joins and broadcasts race
	for _, m := range members {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room.Join(m)
			room.Broadcast(NewNote("ping"))
		}()
	}
	wg.Wait()

	// Then membership is intact and nothing crashed
	req.Equal(len(members), room.Size())
}
