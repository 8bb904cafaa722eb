// Package chat holds the transport-neutral view of an incoming message and
// the operations handlers need to answer it.
package chat

import (
	"context"
	"strings"
	"time"
)

type Message struct {
	ID         int
	ChatID     int64
	SenderID   int64
	SenderName string
	Text       string
	Date       time.Time

	// Peer is transport state needed to answer in the same chat.
	Peer any
}

// Span is a run of text with optional bold styling.
type Span struct {
	Text string
	Bold bool
}

type Text []Span

func Plain(s string) Text {
	return Text{{Text: s}}
}

func Bold(s string) Span {
	return Span{Text: s, Bold: true}
}

func (t Text) String() string {
	var b strings.Builder
	for _, s := range t {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Messenger is implemented by each Telegram transport.
type Messenger interface {
	Reply(ctx context.Context, to *Message, text Text) (*Message, error)
	Edit(ctx context.Context, msg *Message, text string) error
	Delete(ctx context.Context, msg *Message) error
	SendVideo(ctx context.Context, to *Message, path string) error
	SendDocument(ctx context.Context, to *Message, path string) error
}
