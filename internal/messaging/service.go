// Package messaging provides pluggable WhatsApp message delivery for the diet coach.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
)

// Constants for messaging service configuration
const (
	// DefaultChannelBufferSize defines the default buffer size for receipt and response channels
	DefaultChannelBufferSize = 100
	// DefaultChannelTimeout defines the default timeout for non-blocking channel operations
	DefaultChannelTimeout = 1 * time.Second
	// MinPhoneNumberDigits is the minimum number of digits for a valid phone number
	MinPhoneNumberDigits = 6
)

// ErrServiceStopped is returned when an operation is attempted on a stopped service.
var ErrServiceStopped = errors.New("messaging service is stopped")

// phoneNumberRegex matches everything that is not a digit, for canonicalization.
var phoneNumberRegex = regexp.MustCompile(`[^0-9]`)

// Redirect replies sent for non-text inbound messages. Only text is understood;
// anything else gets a nudge back toward typing.
const (
	PhotoRedirectReply = "Photo mila! 📸 Abhi sirf text se kaam chala lo — batao kya khaya, main track kar lunga!"
	VoiceRedirectReply = "Voice note support aa raha hai jaldi! 🎤 Filhaal text mein batao kya khaya?"
	OtherRedirectReply = "Hey! Mujhe text mein batao kya khaya ya kya khana hai 😊"
)

// Service defines a pluggable message delivery abstraction.
// It supports sending messages, and provides channels for receipt and response events.
type Service interface {
	// ValidateAndCanonicalizeRecipient validates and canonicalizes a recipient identifier.
	// Returns the canonicalized recipient and an error if validation fails.
	// This allows each service to implement its own recipient validation rules.
	ValidateAndCanonicalizeRecipient(recipient string) (string, error)

	// SendMessage sends a message to a recipient.
	SendMessage(ctx context.Context, to string, body string) error

	// Start begins any background processing (e.g., polling for events).
	Start(ctx context.Context) error

	// Stop stops background processing and cleans up resources.
	Stop() error

	// Receipts returns a channel of receipt events (sent, delivered, read).
	Receipts() <-chan models.Receipt

	// Responses returns a channel of incoming user responses.
	Responses() <-chan models.Response
}

// canonicalizePhoneNumber strips all non-digit characters and validates the
// result has at least MinPhoneNumberDigits digits.
func canonicalizePhoneNumber(recipient string) (string, error) {
	if recipient == "" {
		return "", errors.New("recipient cannot be empty")
	}
	canonical := phoneNumberRegex.ReplaceAllString(recipient, "")
	if canonical == "" {
		return "", fmt.Errorf("invalid phone number: no digits found in recipient %q", recipient)
	}
	if len(canonical) < MinPhoneNumberDigits {
		return "", fmt.Errorf("invalid phone number: %q is too short (minimum %d digits required)", canonical, MinPhoneNumberDigits)
	}
	return canonical, nil
}
