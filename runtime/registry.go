// Package runtime wires sessions to rooms and drives the per-session
// command loop. It contains no wire format and no transport code.
package runtime

import (
	"sync"

	"chat-relay/contract"
	"chat-relay/domain"
)

// Registry is the process-wide room directory. It is constructed empty
// at startup and passed explicitly to whatever builds sessions; there
// is no package-level instance.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*domain.Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*domain.Room)}
}

// GetOrCreate returns the room for name, creating it on first lookup.
// The lock makes get-or-create atomic: two concurrent lookups of the
// same name always observe the same instance. Rooms live for the
// process lifetime and are never destroyed.
func (r *Registry) GetOrCreate(name string) *domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[name]; ok {
		return room
	}
	room := domain.NewRoom(name)
	r.rooms[name] = room
	return room
}

// Stats counts rooms and their current members.
func (r *Registry) Stats() contract.RegistryStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := contract.RegistryStats{Rooms: len(r.rooms)}
	for _, room := range r.rooms {
		stats.Sessions += room.Size()
	}
	return stats
}
