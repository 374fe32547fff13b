package twiliowhatsapp

import (
	"context"
	"testing"
)

func TestMockClient_SendMessage(t *testing.T) {
	ctx := context.Background()
	mock := NewMockClient()

	err := mock.SendMessage(ctx, "12345", "Hello Test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.SentMessages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.SentMessages))
	}

	if mock.SentMessages[0].Body != "Hello Test" {
		t.Errorf("expected body %q, got %q", "Hello Test", mock.SentMessages[0].Body)
	}
}

func TestOptionsApplied(t *testing.T) {
	opts := &Opts{}

	WithAccountSID("AC123")(opts)
	WithAuthToken("secret")(opts)
	WithFromWhats("whatsapp:+14155238886")(opts)

	if opts.AccountSID != "AC123" {
		t.Errorf("expected AccountSID %q, got %q", "AC123", opts.AccountSID)
	}
	if opts.AuthToken != "secret" {
		t.Errorf("expected AuthToken %q, got %q", "secret", opts.AuthToken)
	}
	if opts.FromWhats != "whatsapp:+14155238886" {
		t.Errorf("expected FromWhats %q, got %q", "whatsapp:+14155238886", opts.FromWhats)
	}
}

func TestNewClientMissingCredentials(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "")
	t.Setenv("TWILIO_AUTH_TOKEN", "")
	t.Setenv("TWILIO_FROM_NUMBER", "")

	if _, err := NewClient(); err == nil {
		t.Fatal("expected error when credentials are missing")
	}
}
