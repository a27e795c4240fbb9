// Package domain contains core concepts of the chat system.
// This file defines outbound Message values and their closed type set.
// Messages are immutable once built.
package domain

import "fmt"

// MessageType is the closed enumeration of outbound message kinds.
type MessageType string

const (
	// Note is a system-generated announcement (joins, departures, errors).
	Note MessageType = "note"
	// Chat is a user-authored message carrying an author name.
	Chat MessageType = "chat"
)

// Message is the uniform outbound shape delivered to room members.
// A note carries only text; a chat carries an author name and text.
type Message struct {
	Type MessageType `json:"type"`
	Name string      `json:"name,omitempty"`
	Text string      `json:"text"`
}

func NewNote(text string) Message {
	return Message{Type: Note, Text: text}
}

func NewNotef(format string, args ...any) Message {
	return NewNote(fmt.Sprintf(format, args...))
}

func NewChat(name, text string) Message {
	return Message{Type: Chat, Name: name, Text: text}
}
