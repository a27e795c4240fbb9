package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"chat-relay/contract"
	"chat-relay/domain"
	chaterrors "chat-relay/errors"
	"chat-relay/moderation"
	"chat-relay/protocol"
)

// Fixed author names for system-generated chat messages, matching what
// clients of the original service expect.
const (
	jokeAuthor    = "icanhazdadjoke"
	membersAuthor = "List of room members"
)

// Session is the server-side state for one client connection. It is
// bound to exactly one room for its whole lifetime; the display name is
// empty until a join command is processed and immutable afterwards.
//
// All commands of a session are processed one at a time, in arrival
// order, by the single goroutine running Run. The joke fetch is the one
// operation allowed to overlap: it runs in its own goroutine and its
// result re-enters the loop through jokeResults, so a slow joke service
// never blocks later commands and never holds a room lock.
type Session struct {
	id        string
	room      *domain.Room
	sink      contract.Sink
	jokes     contract.JokeProvider
	moderator *moderation.Moderator
	log       *slog.Logger

	jokeTimeout time.Duration
	inbox       chan domain.Command
	jokeResults chan jokeResult

	mu   sync.RWMutex
	name string

	closeOnce sync.Once
	done      chan struct{}
}

type jokeResult struct {
	text string
	err  error
}

func NewSession(log *slog.Logger, room *domain.Room, sink contract.Sink,
	jokes contract.JokeProvider, moderator *moderation.Moderator,
	jokeTimeout time.Duration, inboxSize int) *Session {
	s := &Session{
		id:          uuid.NewString(),
		room:        room,
		sink:        sink,
		jokes:       jokes,
		moderator:   moderator,
		log:         log,
		jokeTimeout: jokeTimeout,
		inbox:       make(chan domain.Command, inboxSize),
		jokeResults: make(chan jokeResult, 1),
		done:        make(chan struct{}),
	}
	log.Debug("Session created", "session_id", s.id, "room", room.Name)
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Deliver implements domain.Member. Send failures are logged and
// discarded here, and only here: one dead recipient must not disturb
// the broadcaster or the other members. The sink error stays visible
// to reviewers and tests even though it is dropped.
func (s *Session) Deliver(msg domain.Message) {
	raw, err := protocol.Encode(msg)
	if err != nil {
		s.log.Error("Failed to encode outbound message", "session_id", s.id, "error", err)
		return
	}
	if err := s.sink.Send(string(raw)); err != nil {
		s.log.Debug("Dropping message for unreachable member",
			"session_id", s.id, "room", s.room.Name, "error", err)
	}
}

// HandleInbound parses one raw payload and queues the command for the
// session loop. A parse failure is returned to the transport; the
// session itself stays usable.
func (s *Session) HandleInbound(raw []byte) error {
	cmd, err := protocol.Parse(raw)
	if err != nil {
		return err
	}
	select {
	case s.inbox <- cmd:
		return nil
	case <-s.done:
		return chaterrors.ErrSessionClosed
	}
}

// Run processes commands and joke results until ctx is canceled or the
// session is closed. Command failures are reported back to this client
// as a note and never tear the loop down.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case cmd := <-s.inbox:
			if err := s.dispatch(ctx, cmd); err != nil {
				s.log.Warn("Command failed",
					"session_id", s.id, "room", s.room.Name, "error", err)
				s.Deliver(domain.NewNote(err.Error()))
			}
		case res := <-s.jokeResults:
			s.deliverJoke(res)
		}
	}
}

// dispatch matches on the closed command set. A kind missing here is a
// compile-visible gap, not a silently ignored message.
func (s *Session) dispatch(ctx context.Context, cmd domain.Command) error {
	switch c := cmd.(type) {
	case domain.JoinCommand:
		return s.handleJoin(c)
	case domain.ChatCommand:
		s.handleChat(c)
		return nil
	case domain.JokeCommand:
		s.handleJoke(ctx)
		return nil
	case domain.MembersCommand:
		s.handleMembers()
		return nil
	case domain.PrivateCommand:
		return s.handlePrivate(c)
	default:
		return fmt.Errorf("%w: unsupported kind %d", chaterrors.ErrBadMessage, cmd.Kind())
	}
}

func (s *Session) handleJoin(c domain.JoinCommand) error {
	s.mu.Lock()
	if s.name != "" {
		current := s.name
		s.mu.Unlock()
		return fmt.Errorf("%w: already joined as %q", chaterrors.ErrAlreadyJoined, current)
	}
	s.name = c.Name
	s.mu.Unlock()

	s.room.Join(s)
	s.room.Broadcast(domain.NewNotef("%s joined %q.", c.Name, s.room.Name))
	return nil
}

func (s *Session) handleChat(c domain.ChatCommand) {
	text := c.Text
	if s.moderator != nil {
		text = s.moderator.Censor(text)
	}
	// The sender is a member like any other and receives its own chat.
	s.room.Broadcast(domain.NewChat(s.Name(), text))
}

// handleJoke starts the fetch outside the loop; the result or failure
// comes back through jokeResults and is delivered to this client only.
func (s *Session) handleJoke(ctx context.Context) {
	go func() {
		fetchCtx, cancel := context.WithTimeout(ctx, s.jokeTimeout)
		defer cancel()

		text, err := s.jokes.FetchJoke(fetchCtx)
		select {
		case s.jokeResults <- jokeResult{text: text, err: err}:
		case <-s.done:
		}
	}()
}

func (s *Session) deliverJoke(res jokeResult) {
	if res.err != nil {
		s.log.Warn("Joke fetch failed", "session_id", s.id, "error", res.err)
		s.Deliver(domain.NewNote("No joke available right now, try again later."))
		return
	}
	s.Deliver(domain.NewChat(jokeAuthor, res.text))
}

func (s *Session) handleMembers() {
	names := s.room.MemberNames()
	s.Deliver(domain.NewChat(membersAuthor, strings.Join(names, ", ")))
}

func (s *Session) handlePrivate(c domain.PrivateCommand) error {
	target, ok := s.room.Member(c.Username)
	if !ok {
		return fmt.Errorf("%w: %q in room %q", chaterrors.ErrMemberNotFound, c.Username, s.room.Name)
	}
	target.Deliver(domain.NewChat(s.Name(), c.Text))
	return nil
}

// Close removes the session from its room and announces the departure.
// Safe to call more than once. A session that never joined leaves
// silently; there is no name worth announcing.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.room.Leave(s)
		if name := s.Name(); name != "" {
			s.room.Broadcast(domain.NewNotef("%s left %s.", name, s.room.Name))
		}
		s.log.Debug("Session closed", "session_id", s.id, "room", s.room.Name)
	})
}
