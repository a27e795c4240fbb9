package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-relay/domain"
	chaterrors "chat-relay/errors"
)

func TestParse_ValidCommands(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.Command
	}{
		{"join", `{"type":"join","name":"alice"}`, domain.JoinCommand{Name: "alice"}},
		{"chat", `{"type":"chat","text":"hi"}`, domain.ChatCommand{Text: "hi"}},
		{"joke", `{"type":"joke"}`, domain.JokeCommand{}},
		{"members", `{"type":"members"}`, domain.MembersCommand{}},
		{"private", `{"type":"private","text":"hey","username":"bob"}`,
			domain.PrivateCommand{Text: "hey", Username: "bob"}},
		{"irrelevant fields ignored", `{"type":"chat","text":"hi","username":"bob"}`,
			domain.ChatCommand{Text: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			cmd, err := Parse([]byte(tt.raw))
			req.NoError(err)
			req.Equal(tt.want, cmd)
		})
	}
}

func TestParse_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown type", `{"type":"bogus"}`},
		{"missing type", `{"text":"hi"}`},
		{"not json", `hello there`},
		{"join without name", `{"type":"join"}`},
		{"chat without text", `{"type":"chat"}`},
		{"private without username", `{"type":"private","text":"hey"}`},
		{"private without text", `{"type":"private","username":"bob"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			cmd, err := Parse([]byte(tt.raw))
			req.ErrorIs(err, chaterrors.ErrBadMessage)
			req.Nil(cmd)
		})
	}
}

func TestParse_ErrorNamesTheBadType(t *testing.T) {
	req := require.New(t)

	_, err := Parse([]byte(`{"type":"bogus"}`))

	req.ErrorIs(err, chaterrors.ErrBadMessage)
	req.Contains(err.Error(), `"bogus"`)
}

func TestEncode_NoteOmitsName(t *testing.T) {
	req := require.New(t)

	raw, err := Encode(domain.NewNote("alice joined \"lobby\"."))

	req.NoError(err)
	req.JSONEq(`{"type":"note","text":"alice joined \"lobby\"."}`, string(raw))
	req.NotContains(string(raw), `"name"`)
}

func TestEncode_ChatCarriesNameAndText(t *testing.T) {
	req := require.New(t)

	raw, err := Encode(domain.NewChat("alice", "hi"))

	req.NoError(err)
	req.JSONEq(`{"type":"chat","name":"alice","text":"hi"}`, string(raw))
}
