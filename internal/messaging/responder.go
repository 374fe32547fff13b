package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
)

// MessageProcessor produces a reply for an inbound message. It is implemented
// by the conversation coach.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, contactKey, body string) (string, error)
}

// Responder routes incoming responses from a messaging Service to a
// MessageProcessor and sends the resulting reply back to the sender.
type Responder struct {
	msgService Service
	processor  MessageProcessor
}

// NewResponder creates a new Responder wiring the given service and processor.
func NewResponder(msgService Service, processor MessageProcessor) *Responder {
	return &Responder{
		msgService: msgService,
		processor:  processor,
	}
}

// Start consumes the service's Responses channel until the context is
// cancelled or the channel is closed. It runs in its own goroutine.
func (rh *Responder) Start(ctx context.Context) {
	go func() {
		slog.Debug("Responder.Start: response loop starting")
		for {
			select {
			case <-ctx.Done():
				slog.Debug("Responder.Start: stopping due to context cancellation")
				return
			case response, ok := <-rh.msgService.Responses():
				if !ok {
					slog.Debug("Responder.Start: responses channel closed")
					return
				}
				if err := rh.ProcessResponse(ctx, response); err != nil {
					slog.Error("Responder.Start: failed to process response", "error", err, "from", response.From)
				}
			}
		}
	}()
}

// ProcessResponse processes a single incoming response: it canonicalizes the
// sender, asks the processor for a reply, and sends it back.
func (rh *Responder) ProcessResponse(ctx context.Context, response models.Response) error {
	canonicalFrom, err := rh.msgService.ValidateAndCanonicalizeRecipient(response.From)
	if err != nil {
		slog.Error("Responder.ProcessResponse: validation failed", "error", err, "from", response.From)
		return fmt.Errorf("invalid sender: %w", err)
	}

	slog.Debug("Responder.ProcessResponse: processing", "from", canonicalFrom, "body_length", len(response.Body))

	reply, err := rh.processor.ProcessMessage(ctx, canonicalFrom, response.Body)
	if err != nil {
		slog.Error("Responder.ProcessResponse: processor failed", "error", err, "from", canonicalFrom)
		return fmt.Errorf("process message: %w", err)
	}
	if reply == "" {
		slog.Debug("Responder.ProcessResponse: empty reply, nothing to send", "from", canonicalFrom)
		return nil
	}

	if err := rh.msgService.SendMessage(ctx, canonicalFrom, reply); err != nil {
		slog.Error("Responder.ProcessResponse: failed to send reply", "error", err, "from", canonicalFrom)
		return fmt.Errorf("send reply: %w", err)
	}

	slog.Info("Responder.ProcessResponse: reply sent", "from", canonicalFrom, "reply_length", len(reply))
	return nil
}
