package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openai/openai-go"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
	"github.com/rakesh1308/whatsapp-diet-coach/internal/store"
)

// fakeGenAI implements genai.ClientInterface for testing.
type fakeGenAI struct {
	reply         string
	err           error
	messagesCalls int
	promptCalls   int
	lastMessages  []openai.ChatCompletionMessageParamUnion
	lastSystem    string
}

func (f *fakeGenAI) GenerateWithMessages(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	f.messagesCalls++
	f.lastMessages = messages
	return f.reply, f.err
}

func (f *fakeGenAI) GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.promptCalls++
	f.lastSystem = systemPrompt
	return f.reply, f.err
}

func fixedClock() func() time.Time {
	// 13:30 IST on a fixed date.
	loc, _ := time.LoadLocation("Asia/Kolkata")
	now := time.Date(2025, 6, 1, 13, 30, 0, 0, loc)
	return func() time.Time { return now }
}

func newTestCoach(g *fakeGenAI) (*Coach, *store.InMemoryStore) {
	st := store.NewInMemoryStore()
	return NewCoach(st, g, WithClock(fixedClock())), st
}

func TestProcessMessage_EmptyInputs(t *testing.T) {
	c, _ := newTestCoach(&fakeGenAI{})
	if _, err := c.ProcessMessage(context.Background(), "", "hi"); err != models.ErrEmptyContactKey {
		t.Errorf("expected ErrEmptyContactKey, got %v", err)
	}
	if _, err := c.ProcessMessage(context.Background(), "+91111", "   "); err != models.ErrEmptyMessageBody {
		t.Errorf("expected ErrEmptyMessageBody, got %v", err)
	}
}

func TestProcessMessage_HelpSkipsCompletion(t *testing.T) {
	g := &fakeGenAI{reply: "should not be used"}
	c, st := newTestCoach(g)

	reply, err := c.ProcessMessage(context.Background(), "+91111", "help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != HelpText {
		t.Errorf("help reply wrong: %q", reply)
	}
	if g.messagesCalls != 0 || g.promptCalls != 0 {
		t.Errorf("help should not call the completion service")
	}
	// Both the user turn and the help reply are stored.
	count, _ := st.GetMessageCount("+91111")
	if count != 2 {
		t.Errorf("expected 2 stored turns, got %d", count)
	}
}

func TestProcessMessage_WaterBranches(t *testing.T) {
	g := &fakeGenAI{}
	c, _ := newTestCoach(g)
	ctx := context.Background()

	// Default goal 3L = 12 glasses. 8 logged: below the 70% mark.
	reply, err := c.ProcessMessage(ctx, "+91111", "drank 8 glasses of water")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "8 glasses so far") || !strings.Contains(reply, "About 4 more") {
		t.Errorf("below-goal reply wrong: %q", reply)
	}

	// 12 total: goal hit.
	reply, err = c.ProcessMessage(ctx, "+91111", "4 glasses water")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "12 glasses today") || !strings.Contains(reply, "hit your goal") {
		t.Errorf("goal-hit reply wrong: %q", reply)
	}

	if g.messagesCalls != 0 {
		t.Errorf("water logging should not call the completion service")
	}
}

func TestProcessMessage_WaterNearGoal(t *testing.T) {
	c, _ := newTestCoach(&fakeGenAI{})
	ctx := context.Background()

	c.ProcessMessage(ctx, "+91111", "5 glasses of water")
	reply, err := c.ProcessMessage(ctx, "+91111", "4 glasses of water")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 9 of 12 is past the 70% mark but short of the goal.
	if !strings.Contains(reply, "9 glasses done") || !strings.Contains(reply, "Almost at your goal") {
		t.Errorf("near-goal reply wrong: %q", reply)
	}
}

func TestParseGlasses(t *testing.T) {
	cases := []struct {
		body string
		want int
	}{
		{"water", 1},
		{"drank 3 glasses of water", 3},
		{"water 15", 10},
		{"0 water", 1},
		{"had 2 glasses and then 5 more", 2},
	}
	for _, c := range cases {
		if got := parseGlasses(c.body); got != c.want {
			t.Errorf("parseGlasses(%q) = %d, want %d", c.body, got, c.want)
		}
	}
}

func TestProcessMessage_FoodLogPersistedVerbatim(t *testing.T) {
	g := &fakeGenAI{reply: "**Nice** meal! Keep it up."}
	c, st := newTestCoach(g)

	msg := "ate 2 rotis and dal for lunch"
	reply, err := c.ProcessMessage(context.Background(), "+91111", msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Nice meal! Keep it up." {
		t.Errorf("reply not cleaned: %q", reply)
	}

	logs, _ := st.GetTodayFoodLogs("+91111", "2025-06-01")
	if len(logs) != 1 {
		t.Fatalf("expected 1 food log, got %d", len(logs))
	}
	if logs[0].Description != msg {
		t.Errorf("food description altered: %q", logs[0].Description)
	}
	if logs[0].MealType != models.MealLunch {
		t.Errorf("meal type = %q, want lunch", logs[0].MealType)
	}
	if logs[0].ClockTime != "13:30" {
		t.Errorf("clock time = %q, want 13:30", logs[0].ClockTime)
	}

	if g.messagesCalls != 1 {
		t.Errorf("expected 1 completion call, got %d", g.messagesCalls)
	}
	// System context plus at least the user turn.
	if len(g.lastMessages) < 2 {
		t.Errorf("expected system + history messages, got %d", len(g.lastMessages))
	}
}

func TestProcessMessage_CompletionFailureFallback(t *testing.T) {
	g := &fakeGenAI{err: errors.New("api down")}
	c, st := newTestCoach(g)

	reply, err := c.ProcessMessage(context.Background(), "+91111", "kya khau breakfast me?")
	if err != nil {
		t.Fatalf("fallback path should not surface an error, got %v", err)
	}
	if reply != FallbackReply {
		t.Errorf("expected fallback reply, got %q", reply)
	}
	// Only the user turn is stored; the fallback is never persisted.
	turns, _ := st.GetRecentTurns("+91111", 10)
	if len(turns) != 1 || turns[0].Role != models.RoleUser {
		t.Errorf("fallback should not be stored as a turn: %+v", turns)
	}
}

func TestProcessMessage_SummaryRecapAndAssessment(t *testing.T) {
	g := &fakeGenAI{reply: "Solid day overall, add some protein at dinner."}
	c, _ := newTestCoach(g)
	ctx := context.Background()

	c.ProcessMessage(ctx, "+91111", "ate poha for breakfast")
	c.ProcessMessage(ctx, "+91111", "3 glasses of water")

	reply, err := c.ProcessMessage(ctx, "+91111", "today's log")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "• Breakfast") || !strings.Contains(reply, "ate poha for breakfast") {
		t.Errorf("recap missing food entry: %q", reply)
	}
	if !strings.Contains(reply, "💧 Water: 3 glasses") {
		t.Errorf("recap missing water line: %q", reply)
	}
	if !strings.Contains(reply, "Solid day overall") {
		t.Errorf("assessment missing: %q", reply)
	}
	if g.promptCalls != 1 {
		t.Errorf("expected 1 assessment call, got %d", g.promptCalls)
	}
}

func TestProcessMessage_SummaryDegradesOnCompletionFailure(t *testing.T) {
	g := &fakeGenAI{reply: "ok"}
	c, _ := newTestCoach(g)
	ctx := context.Background()

	c.ProcessMessage(ctx, "+91111", "ate poha for breakfast")

	g.err = errors.New("api down")
	reply, err := c.ProcessMessage(ctx, "+91111", "today's log")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The recap still goes out without the assessment.
	if !strings.Contains(reply, "• Breakfast") {
		t.Errorf("recap missing: %q", reply)
	}
	if strings.Contains(reply, FallbackReply) {
		t.Errorf("summary should degrade to recap, not fallback: %q", reply)
	}
}

func TestProcessMessage_SummaryEmptyDay(t *testing.T) {
	c, _ := newTestCoach(&fakeGenAI{})
	reply, err := c.ProcessMessage(context.Background(), "+91111", "summary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "haven't logged any meals") {
		t.Errorf("empty-day summary wrong: %q", reply)
	}
}

func TestProcessMessage_OnboardingProgression(t *testing.T) {
	g := &fakeGenAI{reply: "Welcome!"}
	c, st := newTestCoach(g)
	ctx := context.Background()

	c.ProcessMessage(ctx, "+91111", "my name is Rahul")
	u, _ := st.GetUser("+91111")
	if u.Name != "Rahul" {
		t.Fatalf("name not captured: %+v", u)
	}
	if u.OnboardingComplete {
		t.Error("onboarding complete too early")
	}

	c.ProcessMessage(ctx, "+91111", "I am vegetarian")
	u, _ = st.GetUser("+91111")
	if u.DietPreference != models.DietVegetarian {
		t.Fatalf("diet not captured: %+v", u)
	}

	c.ProcessMessage(ctx, "+91111", "I want to lose weight")
	u, _ = st.GetUser("+91111")
	if u.HealthGoal != models.GoalLoseWeight {
		t.Fatalf("goal not captured: %+v", u)
	}
	// Name, diet, and goal are set; cuisine is not required.
	if !u.OnboardingComplete {
		t.Error("onboarding should be complete after name+diet+goal")
	}
	if u.RegionalCuisine != "" {
		t.Errorf("cuisine unexpectedly set: %q", u.RegionalCuisine)
	}
}

func TestProcessMessage_ProfileFirstWriteWins(t *testing.T) {
	g := &fakeGenAI{reply: "ok"}
	c, st := newTestCoach(g)
	ctx := context.Background()

	c.ProcessMessage(ctx, "+91111", "my name is Rahul")
	c.ProcessMessage(ctx, "+91111", "I am vegetarian")
	c.ProcessMessage(ctx, "+91111", "actually I eat chicken and mutton now")

	u, _ := st.GetUser("+91111")
	if u.DietPreference != models.DietVegetarian {
		t.Errorf("diet was overwritten: %q", u.DietPreference)
	}
}
