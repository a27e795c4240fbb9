package domain

import (
	"sync"

	"github.com/samber/lo"
)

// Member is a non-owning handle to a connected session. The room never
// controls a member's lifetime; a member that goes away removes itself
// through Leave.
type Member interface {
	// ID identifies the member uniquely for membership bookkeeping.
	ID() string
	// Name is the display name, empty until the member has joined.
	Name() string
	// Deliver hands a message to the member's transport, best-effort.
	// It never blocks on a slow recipient and never reports failure.
	Deliver(msg Message)
}

// Room is a named broadcast domain. Members are kept in join order,
// which fixes the iteration order for member listings and lookups.
//
// Membership mutations and the broadcast snapshot are mutually
// exclusive under the room lock; delivery happens outside the lock so
// one blocked recipient cannot stall membership changes.
type Room struct {
	Name string

	mu      sync.RWMutex
	members []Member
}

func NewRoom(name string) *Room {
	return &Room{Name: name}
}

// Join adds a member. Joining twice is a no-op, set semantics by ID.
func (r *Room) Join(m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.members {
		if existing.ID() == m.ID() {
			return
		}
	}
	r.members = append(r.members, m)
}

// Leave removes a member if present, a no-op otherwise.
func (r *Room) Leave(m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.members {
		if existing.ID() == m.ID() {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return
		}
	}
}

// Broadcast delivers msg to every member present when the call starts.
// A member joining or leaving mid-broadcast may or may not see msg.
// Delivery is best-effort per member: one unreachable recipient never
// prevents delivery to the others.
func (r *Room) Broadcast(msg Message) {
	r.mu.RLock()
	snapshot := make([]Member, len(r.members))
	copy(snapshot, r.members)
	r.mu.RUnlock()

	for _, m := range snapshot {
		m.Deliver(msg)
	}
}

// Member returns the first member carrying the given display name, in
// join order. Display names are not unique; first match wins.
func (r *Room) Member(name string) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// MemberNames lists display names in join order.
func (r *Room) MemberNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Map(r.members, func(m Member, _ int) string {
		return m.Name()
	})
}

// Size reports the current member count.
func (r *Room) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
