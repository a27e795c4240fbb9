package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"chat-relay/domain"
	"chat-relay/runtime"
)

type stubJokes struct{}

func (stubJokes) FetchJoke(_ context.Context) (string, error) {
	return "What do you call a fish with no eyes? A fsh.", nil
}

func newTestServer(t *testing.T) string {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := runtime.NewRegistry()
	handler := NewHandler(log, registry, stubJokes{}, nil, nil, 16, 8, time.Second)

	mux := http.NewServeMux()
	mux.Handle("GET /chat/{room}", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, wsURL, room string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL+"/chat/"+room, nil)
	require.NoError(t, err)
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
}

func read(t *testing.T, conn *websocket.Conn) domain.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg domain.Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestHandler_JoinAndChatAcrossConnections(t *testing.T) {
	req := require.New(t)
	wsURL := newTestServer(t)

	// Given alice connected to lobby
	alice := dial(t, wsURL, "lobby")
	send(t, alice, `{"type":"join","name":"alice"}`)
	req.Equal(domain.NewNote(`alice joined "lobby".`), read(t, alice))

	// When bob joins the same room
	bob := dial(t, wsURL, "lobby")
	send(t, bob, `{"type":"join","name":"bob"}`)

	// Then both connections hear about it
	req.Equal(domain.NewNote(`bob joined "lobby".`), read(t, alice))
	req.Equal(domain.NewNote(`bob joined "lobby".`), read(t, bob))

	// When alice chats
	send(t, alice, `{"type":"chat","text":"hi"}`)

	// Then the chat reaches bob and alice herself
	want := domain.NewChat("alice", "hi")
	req.Equal(want, read(t, bob))
	req.Equal(want, read(t, alice))
}

func TestHandler_JokeOverWebsocket(t *testing.T) {
	req := require.New(t)
	wsURL := newTestServer(t)

	alice := dial(t, wsURL, "lobby")
	send(t, alice, `{"type":"join","name":"alice"}`)
	req.Equal(domain.NewNote(`alice joined "lobby".`), read(t, alice))

	// When alice asks for a joke
	send(t, alice, `{"type":"joke"}`)

	// Then the joke comes back attributed to the service
	req.Equal(
		domain.NewChat("icanhazdadjoke", "What do you call a fish with no eyes? A fsh."),
		read(t, alice))
}

func TestHandler_BadMessage_AnsweredWithNote(t *testing.T) {
	req := require.New(t)
	wsURL := newTestServer(t)

	alice := dial(t, wsURL, "lobby")

	// When garbage arrives
	send(t, alice, `{"type":"bogus"}`)

	// Then the connection survives and the client is told why
	msg := read(t, alice)
	req.Equal(domain.Note, msg.Type)
	req.Contains(msg.Text, "bad message")

	// And the session is still usable afterwards
	send(t, alice, `{"type":"join","name":"alice"}`)
	req.Equal(domain.NewNote(`alice joined "lobby".`), read(t, alice))
}

func TestHandler_Departure_AnnouncedToSurvivors(t *testing.T) {
	req := require.New(t)
	wsURL := newTestServer(t)

	alice := dial(t, wsURL, "lobby")
	send(t, alice, `{"type":"join","name":"alice"}`)
	req.Equal(domain.NewNote(`alice joined "lobby".`), read(t, alice))

	bob := dial(t, wsURL, "lobby")
	send(t, bob, `{"type":"join","name":"bob"}`)
	req.Equal(domain.NewNote(`bob joined "lobby".`), read(t, alice))

	// When bob's connection closes
	req.NoError(bob.Close())

	// Then alice hears the departure
	req.Equal(domain.NewNote("bob left lobby."), read(t, alice))
}
