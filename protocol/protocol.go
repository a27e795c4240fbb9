// Package protocol translates between raw transport payloads and domain
// commands and messages. It is the only place the wire format lives.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"chat-relay/domain"
	chaterrors "chat-relay/errors"
)

var validate = validator.New()

// envelope is the inbound wire shape. Only the fields relevant to the
// declared type are read; the rest are ignored.
type envelope struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Text     string `json:"text"`
	Username string `json:"username"`
}

// Parse decodes one raw payload into a command. Unparseable payloads,
// unknown types and missing required fields all wrap ErrBadMessage so
// the transport can treat every protocol error uniformly.
func Parse(raw []byte) (domain.Command, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", chaterrors.ErrBadMessage, err)
	}

	var cmd domain.Command
	switch env.Type {
	case "join":
		cmd = domain.JoinCommand{Name: env.Name}
	case "chat":
		cmd = domain.ChatCommand{Text: env.Text}
	case "joke":
		cmd = domain.JokeCommand{}
	case "members":
		cmd = domain.MembersCommand{}
	case "private":
		cmd = domain.PrivateCommand{Text: env.Text, Username: env.Username}
	default:
		return nil, fmt.Errorf("%w: %q", chaterrors.ErrBadMessage, env.Type)
	}

	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %q is missing required fields", chaterrors.ErrBadMessage, env.Type)
	}
	return cmd, nil
}

// Encode serializes an outbound message. The name field is omitted for
// notes, which carry only text.
func Encode(msg domain.Message) ([]byte, error) {
	return json.Marshal(msg)
}
