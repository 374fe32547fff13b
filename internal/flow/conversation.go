package flow

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/openai/openai-go"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/coach"
	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
)

// HelpText is the static capability overview sent for help commands.
const HelpText = "Hey! Here's what I can do 😊\n\n" +
	"🍽️ Tell me what you ate — I'll track it and give tips\n" +
	"💧 Say 'water' — I'll log your hydration\n" +
	"🤔 Ask 'what should I eat' — I'll suggest meals\n" +
	"📊 Say 'summary' — I'll show your weekly eating patterns\n" +
	"📋 Say 'today's log' — I'll recap what you ate today\n\n" +
	"Or just chat with me about anything food related!"

// FallbackReply is sent when the completion service fails. It is not
// stored as an assistant turn so history stays clean.
const FallbackReply = "Ek second, thoda issue ho gaya 🙈 Please try again?"

// HydrationReminder is the scheduled nudge sent to onboarded users
// when reminders are enabled.
const HydrationReminder = "Paani break! 💧 Kitne glass ho gaye aaj? Reply karo, main track kar lunga 😊"

// ProcessMessage handles one inbound message end to end and returns
// the reply to send back.
func (c *Coach) ProcessMessage(ctx context.Context, contactKey, body string) (string, error) {
	if contactKey == "" {
		return "", models.ErrEmptyContactKey
	}
	if strings.TrimSpace(body) == "" {
		return "", models.ErrEmptyMessageBody
	}

	existing, err := c.store.GetUser(contactKey)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	isNew := existing == nil
	if isNew {
		if err := c.store.CreateUserIfAbsent(contactKey); err != nil {
			return "", fmt.Errorf("failed to create user: %w", err)
		}
		existing, err = c.store.GetUser(contactKey)
		if err != nil || existing == nil {
			return "", fmt.Errorf("failed to load user after create: %w", err)
		}
		slog.Info("Coach.ProcessMessage: new user", "contactKey", contactKey)
	}
	user := *existing

	if err := c.store.AppendTurn(contactKey, models.RoleUser, body); err != nil {
		return "", fmt.Errorf("failed to store user turn: %w", err)
	}

	set := coach.Classify(body)
	intent := coach.ResolveIntent(set)
	slog.Debug("Coach.ProcessMessage: classified", "contactKey", contactKey, "intent", intent,
		"food", set.FoodLog, "water", set.WaterLog)

	switch intent {
	case coach.IntentHelp:
		return c.finishReply(contactKey, HelpText)
	case coach.IntentWater:
		return c.handleWaterLog(contactKey, body, user)
	case coach.IntentSummary:
		return c.handleSummary(ctx, contactKey, user)
	default:
		return c.handleChat(ctx, contactKey, body, user, isNew, set)
	}
}

// finishReply stores the assistant turn and touches activity before
// returning the reply.
func (c *Coach) finishReply(contactKey, reply string) (string, error) {
	if err := c.store.AppendTurn(contactKey, models.RoleAssistant, reply); err != nil {
		slog.Error("Coach.finishReply: failed to store assistant turn", "error", err, "contactKey", contactKey)
	}
	if err := c.store.TouchLastActive(contactKey); err != nil {
		slog.Error("Coach.finishReply: failed to touch last active", "error", err, "contactKey", contactKey)
	}
	return reply, nil
}

// mealLabel renders a meal type for user-facing text ("late_night"
// becomes "Late Night").
func mealLabel(m models.MealType) string {
	words := strings.Split(strings.ReplaceAll(string(m), "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var digitsRe = regexp.MustCompile(`\d+`)

// parseGlasses extracts the glass count from a water message. Counts
// outside the valid range are clamped into it; no number means one
// glass.
func parseGlasses(body string) int {
	m := digitsRe.FindString(body)
	if m == "" {
		return 1
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 1
	}
	if n < models.MinGlassesPerLog {
		return models.MinGlassesPerLog
	}
	if n > models.MaxGlassesPerLog {
		return models.MaxGlassesPerLog
	}
	return n
}

func (c *Coach) handleWaterLog(contactKey, body string, user models.UserProfile) (string, error) {
	glasses := parseGlasses(body)
	today := c.today()

	if err := c.store.AppendWaterLog(contactKey, glasses, today); err != nil {
		return "", fmt.Errorf("failed to log water: %w", err)
	}
	total, err := c.store.GetTodayWaterTotal(contactKey, today)
	if err != nil {
		return "", fmt.Errorf("failed to total water: %w", err)
	}

	goal := user.WaterGoalLiters
	if goal <= 0 {
		goal = models.DefaultWaterGoalLiters
	}
	goalGlasses := int(goal * 4)

	var reply string
	switch {
	case total >= goalGlasses:
		reply = fmt.Sprintf("💧 Logged! You've had %d glasses today — you've hit your goal! Awesome 👏", total)
	case float64(total) >= float64(goalGlasses)*0.7:
		reply = fmt.Sprintf("💧 Nice! %d glasses done today. Almost at your goal of %d! Keep going 💪", total, goalGlasses)
	default:
		remaining := goalGlasses - total
		reply = fmt.Sprintf("💧 Logged! %d glasses so far today. About %d more to hit your goal. You got this!", total, remaining)
	}
	slog.Info("Coach.handleWaterLog: water logged", "contactKey", contactKey, "glasses", glasses, "total", total)
	return c.finishReply(contactKey, reply)
}

func (c *Coach) handleSummary(ctx context.Context, contactKey string, user models.UserProfile) (string, error) {
	today := c.today()
	logs, err := c.store.GetTodayFoodLogs(contactKey, today)
	if err != nil {
		return "", fmt.Errorf("failed to load food logs: %w", err)
	}
	if len(logs) == 0 {
		return c.finishReply(contactKey, "You haven't logged any meals today yet! Batao kya khaya aaj? 😊")
	}

	parts := []string{"Here's what you've eaten today 📋\n"}
	for _, l := range logs {
		parts = append(parts, fmt.Sprintf("• %s (%s): %s", mealLabel(l.MealType), l.ClockTime, l.Description))
	}
	water, err := c.store.GetTodayWaterTotal(contactKey, today)
	if err != nil {
		return "", fmt.Errorf("failed to total water: %w", err)
	}
	parts = append(parts, fmt.Sprintf("\n💧 Water: %d glasses", water))
	recap := strings.Join(parts, "\n")

	// Best-effort assessment; the recap alone is a valid reply.
	assessmentPrompt := fmt.Sprintf(
		"%s\n\n%s\n\n[TODAY'S COMPLETE FOOD LOG]\n%s\n\n"+
			"[INSTRUCTION: Give a brief, warm 2-3 sentence assessment of today's eating. "+
			"Highlight one good thing and one gentle improvement suggestion. "+
			"Don't repeat the food list — the user already sees it above your message.]",
		coach.SystemPrompt, coach.BuildUserContext(user, false), recap)

	reply := recap
	assessment, err := c.genai.GeneratePrompt(ctx, assessmentPrompt, "How did I eat today?")
	if err != nil {
		slog.Error("Coach.handleSummary: assessment failed, sending recap only", "error", err, "contactKey", contactKey)
	} else {
		reply = recap + "\n\n" + coach.CleanReply(assessment)
	}
	return c.finishReply(contactKey, reply)
}

func (c *Coach) handleChat(ctx context.Context, contactKey, body string, user models.UserProfile, isNew bool, set coach.IntentSet) (string, error) {
	now := c.now()
	today := c.today()

	if set.FoodLog {
		log := models.FoodLog{
			ContactKey:  contactKey,
			MealType:    coach.MealTypeForMessage(body, now),
			Description: body,
			Date:        today,
			ClockTime:   now.Format("15:04"),
		}
		if err := c.store.AppendFoodLog(log); err != nil {
			slog.Error("Coach.handleChat: failed to store food log", "error", err, "contactKey", contactKey)
		} else {
			slog.Info("Coach.handleChat: food logged", "contactKey", contactKey, "mealType", log.MealType)
		}
	}

	messages, err := c.buildMessages(contactKey, user, isNew, set, today)
	if err != nil {
		return "", err
	}

	raw, err := c.genai.GenerateWithMessages(ctx, messages)
	if err != nil {
		slog.Error("Coach.handleChat: completion failed", "error", err, "contactKey", contactKey)
		// The fallback is not stored as an assistant turn.
		if touchErr := c.store.TouchLastActive(contactKey); touchErr != nil {
			slog.Error("Coach.handleChat: failed to touch last active", "error", touchErr, "contactKey", contactKey)
		}
		return FallbackReply, nil
	}
	reply := coach.CleanReply(raw)

	if err := c.store.AppendTurn(contactKey, models.RoleAssistant, reply); err != nil {
		slog.Error("Coach.handleChat: failed to store assistant turn", "error", err, "contactKey", contactKey)
	}
	c.extractProfile(contactKey, body, user)
	if err := c.store.TouchLastActive(contactKey); err != nil {
		slog.Error("Coach.handleChat: failed to touch last active", "error", err, "contactKey", contactKey)
	}
	return reply, nil
}

// buildMessages assembles the completion request: persona, time and
// profile context, today's logs, any intent instructions, then the
// recent conversation history.
func (c *Coach) buildMessages(contactKey string, user models.UserProfile, isNew bool, set coach.IntentSet, today string) ([]openai.ChatCompletionMessageParamUnion, error) {
	foodLogs, err := c.store.GetTodayFoodLogs(contactKey, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load food logs: %w", err)
	}
	water, err := c.store.GetTodayWaterTotal(contactKey, today)
	if err != nil {
		return nil, fmt.Errorf("failed to total water: %w", err)
	}
	goal := user.WaterGoalLiters
	if goal <= 0 {
		goal = models.DefaultWaterGoalLiters
	}

	parts := []string{
		coach.SystemPrompt,
		coach.TimeContext(c.now()),
		coach.BuildUserContext(user, isNew),
		coach.BuildFoodContext(foodLogs),
		coach.BuildWaterContext(water, goal),
	}
	if set.FoodLog {
		parts = append(parts,
			"\n[INSTRUCTION: User just logged food. This has been saved. "+
				"Acknowledge the meal positively, assess it briefly, and give ONE helpful suggestion. "+
				"Keep it short and warm.]")
	}
	if set.MealSuggestion {
		parts = append(parts,
			"\n[INSTRUCTION: User wants a meal suggestion. Consider the time of day, "+
				"their diet preference, regional cuisine, and what they've already eaten today. "+
				"Suggest ONE specific, practical Indian meal.]")
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(strings.Join(parts, "\n")),
	}

	history, err := c.store.GetRecentTurns(contactKey, c.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	for _, turn := range history {
		switch turn.Role {
		case models.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	return messages, nil
}

// extractProfile runs heuristic profile extraction on the user message
// and persists at most one field, flipping the onboarding flag once
// the gating fields are all set.
func (c *Coach) extractProfile(contactKey, body string, user models.UserProfile) {
	count, err := c.store.GetMessageCount(contactKey)
	if err != nil {
		slog.Error("Coach.extractProfile: failed to count messages", "error", err, "contactKey", contactKey)
		return
	}
	upd := coach.ExtractUpdate(body, user, count)
	if upd == nil {
		return
	}
	if err := c.store.UpdateProfile(contactKey, upd.Update()); err != nil {
		slog.Error("Coach.extractProfile: failed to update profile", "error", err, "contactKey", contactKey, "field", upd.Field)
		return
	}
	slog.Info("Coach.extractProfile: profile field captured", "contactKey", contactKey, "field", upd.Field)

	if user.OnboardingComplete {
		return
	}
	updated, err := c.store.GetUser(contactKey)
	if err != nil || updated == nil {
		slog.Error("Coach.extractProfile: failed to reload profile", "error", err, "contactKey", contactKey)
		return
	}
	if coach.OnboardingComplete(*updated) {
		done := true
		if err := c.store.UpdateProfile(contactKey, models.ProfileUpdate{OnboardingComplete: &done}); err != nil {
			slog.Error("Coach.extractProfile: failed to mark onboarding complete", "error", err, "contactKey", contactKey)
			return
		}
		slog.Info("Coach.extractProfile: onboarding complete", "contactKey", contactKey)
	}
}
