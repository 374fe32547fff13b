package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
)

// mockService implements Service for responder tests.
type mockService struct {
	mu        sync.Mutex
	sent      []struct{ To, Body string }
	sendErr   error
	sentCh    chan struct{}
	receipts  chan models.Receipt
	responses chan models.Response
}

func newMockService() *mockService {
	return &mockService{
		sentCh:    make(chan struct{}, DefaultChannelBufferSize),
		receipts:  make(chan models.Receipt, DefaultChannelBufferSize),
		responses: make(chan models.Response, DefaultChannelBufferSize),
	}
}

func (m *mockService) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	return canonicalizePhoneNumber(recipient)
}

func (m *mockService) SendMessage(ctx context.Context, to string, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	m.sent = append(m.sent, struct{ To, Body string }{to, body})
	m.mu.Unlock()
	m.sentCh <- struct{}{}
	return nil
}

func (m *mockService) sentMessages() []struct{ To, Body string } {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]struct{ To, Body string }, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *mockService) Start(ctx context.Context) error     { return nil }
func (m *mockService) Stop() error                         { return nil }
func (m *mockService) Receipts() <-chan models.Receipt     { return m.receipts }
func (m *mockService) Responses() <-chan models.Response   { return m.responses }

// mockProcessor implements MessageProcessor for responder tests.
type mockProcessor struct {
	reply string
	err   error
	calls []struct{ ContactKey, Body string }
}

func (m *mockProcessor) ProcessMessage(ctx context.Context, contactKey, body string) (string, error) {
	m.calls = append(m.calls, struct{ ContactKey, Body string }{contactKey, body})
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func TestResponder_ProcessResponse(t *testing.T) {
	svc := newMockService()
	proc := &mockProcessor{reply: "Nice! Logged your lunch 🍛"}
	rh := NewResponder(svc, proc)

	resp := models.Response{From: "whatsapp:+919876543210", Body: "2 roti and dal", Time: 1700000000}
	if err := rh.ProcessResponse(context.Background(), resp); err != nil {
		t.Fatalf("ProcessResponse returned error: %v", err)
	}

	if len(proc.calls) != 1 {
		t.Fatalf("expected 1 processor call, got %d", len(proc.calls))
	}
	if proc.calls[0].ContactKey != "919876543210" {
		t.Errorf("expected canonical contact key, got %q", proc.calls[0].ContactKey)
	}
	if proc.calls[0].Body != "2 roti and dal" {
		t.Errorf("unexpected body: %q", proc.calls[0].Body)
	}

	if len(svc.sent) != 1 {
		t.Fatalf("expected 1 sent reply, got %d", len(svc.sent))
	}
	if svc.sent[0].Body != "Nice! Logged your lunch 🍛" {
		t.Errorf("unexpected reply body: %q", svc.sent[0].Body)
	}
}

func TestResponder_InvalidSender(t *testing.T) {
	svc := newMockService()
	proc := &mockProcessor{reply: "hi"}
	rh := NewResponder(svc, proc)

	err := rh.ProcessResponse(context.Background(), models.Response{From: "abc", Body: "hello"})
	if err == nil {
		t.Fatal("expected error for invalid sender")
	}
	if len(proc.calls) != 0 {
		t.Errorf("processor should not be called for invalid sender")
	}
}

func TestResponder_ProcessorError(t *testing.T) {
	svc := newMockService()
	proc := &mockProcessor{err: errors.New("boom")}
	rh := NewResponder(svc, proc)

	err := rh.ProcessResponse(context.Background(), models.Response{From: "919876543210", Body: "hello"})
	if err == nil {
		t.Fatal("expected error from processor")
	}
	if len(svc.sent) != 0 {
		t.Errorf("no reply should be sent when processor fails")
	}
}

func TestResponder_EmptyReplyNotSent(t *testing.T) {
	svc := newMockService()
	proc := &mockProcessor{reply: ""}
	rh := NewResponder(svc, proc)

	if err := rh.ProcessResponse(context.Background(), models.Response{From: "919876543210", Body: "hello"}); err != nil {
		t.Fatalf("ProcessResponse returned error: %v", err)
	}
	if len(svc.sent) != 0 {
		t.Errorf("expected no sent messages for empty reply, got %d", len(svc.sent))
	}
}

func TestResponder_StartConsumesChannel(t *testing.T) {
	svc := newMockService()
	proc := &mockProcessor{reply: "done"}
	rh := NewResponder(svc, proc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rh.Start(ctx)

	svc.responses <- models.Response{From: "919876543210", Body: "kitna paani"}

	select {
	case <-svc.sentCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reply")
	}

	sent := svc.sentMessages()
	if sent[0].Body != "done" {
		t.Errorf("unexpected reply: %q", sent[0].Body)
	}
}
