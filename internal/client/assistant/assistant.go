// Package assistant is the chat widget client: an in-memory transcript
// relayed to the backend assistant endpoint. It is not persisted across
// runs and never surfaces an error to its caller; failures become an
// apology entry in the transcript.
package assistant

import (
	"context"
	"time"

	"github.com/galleryhub/galleryhub/internal/client/api"
	"github.com/galleryhub/galleryhub/internal/models"
)

const (
	greeting = "Hello! I'm your AI assistant. I can help you with file management, " +
		"answer questions about your storage, and provide guidance. How can I help you today?"

	apology = "I'm sorry, I'm having trouble connecting right now. Please try again in a moment."
)

// Sender identifies who produced a transcript entry.
type Sender string

const (
	// SenderUser marks an entry typed by the user.
	SenderUser Sender = "user"
	// SenderBot marks an entry produced by the assistant.
	SenderBot Sender = "bot"
)

// Entry is one line of the transcript.
type Entry struct {
	Text        string
	Sender      Sender
	Timestamp   time.Time
	Suggestions []string
	IsAI        bool
	IsError     bool
}

// ChatAPI is the slice of the REST client the widget needs.
type ChatAPI interface {
	Chat(ctx context.Context, message string, user models.User) (api.ChatReply, error)
}

// Widget holds the transcript for one chat session.
type Widget struct {
	client  ChatAPI
	user    models.User
	entries []Entry
}

// New creates a widget seeded with the greeting entry.
func New(client ChatAPI, user models.User) *Widget {
	return &Widget{
		client: client,
		user:   user,
		entries: []Entry{{
			Text:      greeting,
			Sender:    SenderBot,
			Timestamp: time.Now(),
		}},
	}
}

// Entries returns the transcript so far.
func (w *Widget) Entries() []Entry { return w.entries }

// Send appends the user message, relays it to the backend, and appends
// the reply. On any failure a fixed apology entry flagged as an error
// is appended instead; Send never fails. No retry, no backoff.
func (w *Widget) Send(ctx context.Context, text string) Entry {
	w.entries = append(w.entries, Entry{
		Text:      text,
		Sender:    SenderUser,
		Timestamp: time.Now(),
	})

	reply, err := w.client.Chat(ctx, text, w.user)
	var entry Entry
	if err != nil {
		entry = Entry{
			Text:      apology,
			Sender:    SenderBot,
			Timestamp: time.Now(),
			IsError:   true,
		}
	} else {
		entry = Entry{
			Text:        reply.Response,
			Sender:      SenderBot,
			Timestamp:   time.Now(),
			Suggestions: reply.Suggestions,
			IsAI:        reply.IsAI,
		}
	}
	w.entries = append(w.entries, entry)
	return entry
}
