// Package flow orchestrates diet coach conversations: it classifies
// incoming messages, maintains profiles and logs through the store,
// and assembles context for LLM completions.
package flow

import (
	"log/slog"
	"time"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/coach"
	"github.com/rakesh1308/whatsapp-diet-coach/internal/genai"
	"github.com/rakesh1308/whatsapp-diet-coach/internal/store"
)

// DefaultHistoryLimit is the number of recent turns included in each
// completion request.
const DefaultHistoryLimit = 15

// Opts holds configuration options for the conversation coach.
type Opts struct {
	Timezone     string
	HistoryLimit int
	Clock        func() time.Time
}

// Option defines a configuration option for the conversation coach.
type Option func(*Opts)

// WithTimezone sets the IANA timezone used for meal typing, time
// context, and civil dates.
func WithTimezone(tz string) Option {
	return func(o *Opts) {
		o.Timezone = tz
	}
}

// WithHistoryLimit sets how many recent turns are sent to the model.
func WithHistoryLimit(n int) Option {
	return func(o *Opts) {
		o.HistoryLimit = n
	}
}

// WithClock overrides the time source (for tests).
func WithClock(clock func() time.Time) Option {
	return func(o *Opts) {
		o.Clock = clock
	}
}

// Coach routes each inbound message to the right handler and produces
// the outbound reply text.
type Coach struct {
	store        store.Store
	genai        genai.ClientInterface
	location     *time.Location
	historyLimit int
	clock        func() time.Time
}

// NewCoach creates a conversation coach backed by the given store and
// completion client.
func NewCoach(st store.Store, genaiClient genai.ClientInterface, opts ...Option) *Coach {
	cfg := Opts{
		HistoryLimit: DefaultHistoryLimit,
		Clock:        time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	loc := coach.LoadLocation(cfg.Timezone)
	slog.Debug("Coach.NewCoach: coach initialized", "timezone", loc.String(), "historyLimit", cfg.HistoryLimit)
	return &Coach{
		store:        st,
		genai:        genaiClient,
		location:     loc,
		historyLimit: cfg.HistoryLimit,
		clock:        cfg.Clock,
	}
}

// now returns the current time in the coach timezone.
func (c *Coach) now() time.Time {
	return c.clock().In(c.location)
}

// today returns the current civil date in the coach timezone.
func (c *Coach) today() string {
	return c.now().Format("2006-01-02")
}
