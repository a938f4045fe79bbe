package whatsappmock

import (
	"context"
	"sync"

	"lendbox/internal/infrastructure/whatsapp"
)

var _ whatsapp.Sender = (*Sender)(nil)

type Sent struct {
	Phone   string
	Message whatsapp.Message
}

// Sender records every message; SendFn, when set, decides the outcome.
type Sender struct {
	SendFn func(ctx context.Context, phone string, msg whatsapp.Message) (whatsapp.Result, error)

	mu   sync.Mutex
	sent []Sent
}

func (m *Sender) Send(ctx context.Context, phone string, msg whatsapp.Message) (whatsapp.Result, error) {
	m.mu.Lock()
	m.sent = append(m.sent, Sent{Phone: phone, Message: msg})
	m.mu.Unlock()
	if m.SendFn != nil {
		return m.SendFn(ctx, phone, msg)
	}
	return whatsapp.Result{MessageID: "mock"}, nil
}

func (m *Sender) Sent() []Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Sent, len(m.sent))
	copy(out, m.sent)
	return out
}

// Last returns the most recent message, or false when nothing was sent.
func (m *Sender) Last() (Sent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return Sent{}, false
	}
	return m.sent[len(m.sent)-1], true
}
