// Package models defines the core data structures for the diet coach.
//
// It includes user profiles, food/water logs, conversation turns, and
// transport-level message events shared across modules.
package models

import (
	"errors"
	"time"
)

// DietPreference is the closed set of dietary preference tags inferred
// from free-form messages during onboarding.
type DietPreference string

const (
	DietUnset         DietPreference = ""
	DietVegetarian    DietPreference = "vegetarian"
	DietNonVegetarian DietPreference = "non-vegetarian"
	DietEggetarian    DietPreference = "eggetarian"
	DietVegan         DietPreference = "vegan"
	DietJain          DietPreference = "jain"
)

// IsValidDietPreference checks if the given diet preference is supported.
func IsValidDietPreference(d DietPreference) bool {
	switch d {
	case DietVegetarian, DietNonVegetarian, DietEggetarian, DietVegan, DietJain:
		return true
	default:
		return false
	}
}

// HealthGoal is the closed set of health goal tags.
type HealthGoal string

const (
	GoalUnset           HealthGoal = ""
	GoalEatHealthier    HealthGoal = "eat healthier"
	GoalLoseWeight      HealthGoal = "lose weight"
	GoalGainMuscle      HealthGoal = "gain muscle"
	GoalMoreEnergy      HealthGoal = "more energy"
	GoalManageSugar     HealthGoal = "manage sugar"
	GoalGeneralWellness HealthGoal = "general wellness"
)

// IsValidHealthGoal checks if the given health goal is supported.
func IsValidHealthGoal(g HealthGoal) bool {
	switch g {
	case GoalEatHealthier, GoalLoseWeight, GoalGainMuscle, GoalMoreEnergy, GoalManageSugar, GoalGeneralWellness:
		return true
	default:
		return false
	}
}

// MealType categorizes a food log entry by meal slot.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnack     MealType = "snack"
	MealDinner    MealType = "dinner"
	MealLateNight MealType = "late_night"
)

// Role identifies who authored a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Validation constants for user profiles and messages.
const (
	// DefaultWaterGoalLiters is the hydration goal assigned to new users.
	DefaultWaterGoalLiters = 3.0
	// MinGlassesPerLog and MaxGlassesPerLog bound a single water log entry.
	MinGlassesPerLog = 1
	MaxGlassesPerLog = 10
	// MaxReplyLength is the maximum outbound message length (WhatsApp caps
	// messages at 4096 chars; we trim earlier to leave headroom).
	MaxReplyLength = 4000
)

// Error variables for better error handling and testability.
var (
	ErrEmptyContactKey        = errors.New("contact key cannot be empty")
	ErrEmptyMessageBody       = errors.New("message body cannot be empty")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidGlassCount      = errors.New("glass count out of range")
	ErrCompletionUnavailable  = errors.New("completion service unavailable")
	ErrMalformedInboundPayload = errors.New("malformed inbound payload")
)

// UserProfile holds per-user state gathered through onboarding.
// The contact key (phone number) is the immutable identity; all other
// fields are filled incrementally and are first-write-wins during
// onboarding.
type UserProfile struct {
	ContactKey         string         `json:"contact_key"`
	Name               string         `json:"name,omitempty"`
	DietPreference     DietPreference `json:"diet_preference,omitempty"`
	RegionalCuisine    string         `json:"regional_cuisine,omitempty"`
	Allergies          string         `json:"allergies,omitempty"`
	HealthGoal         HealthGoal     `json:"health_goal,omitempty"`
	WaterGoalLiters    float64        `json:"water_goal_liters"`
	OnboardingComplete bool           `json:"onboarding_complete"`
	CreatedAt          time.Time      `json:"created_at"`
	LastActive         time.Time      `json:"last_active"`
}

// ProfileUpdate is a partial profile write. Nil fields are left
// untouched by the store; this is how the extractor persists exactly
// one field at a time.
type ProfileUpdate struct {
	Name               *string         `json:"name,omitempty"`
	DietPreference     *DietPreference `json:"diet_preference,omitempty"`
	RegionalCuisine    *string         `json:"regional_cuisine,omitempty"`
	Allergies          *string         `json:"allergies,omitempty"`
	HealthGoal         *HealthGoal     `json:"health_goal,omitempty"`
	WaterGoalLiters    *float64        `json:"water_goal_liters,omitempty"`
	OnboardingComplete *bool           `json:"onboarding_complete,omitempty"`
}

// IsEmpty reports whether the update carries no field writes.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.DietPreference == nil && u.RegionalCuisine == nil &&
		u.Allergies == nil && u.HealthGoal == nil && u.WaterGoalLiters == nil &&
		u.OnboardingComplete == nil
}

// FoodLog is one detected meal report. Immutable once created.
type FoodLog struct {
	ID          int64    `json:"id"`
	ContactKey  string   `json:"contact_key"`
	MealType    MealType `json:"meal_type"`
	Description string   `json:"description"`
	// Date and ClockTime are in the user's local civil calendar,
	// formatted "2006-01-02" and "15:04".
	Date      string `json:"date"`
	ClockTime string `json:"clock_time"`
	Analysis  string `json:"analysis,omitempty"`
}

// WaterLog is one logged hydration event. Multiple entries per day are
// summed for the daily total.
type WaterLog struct {
	ID         int64  `json:"id"`
	ContactKey string `json:"contact_key"`
	Glasses    int    `json:"glasses"`
	Date       string `json:"date"`
}

// ConversationTurn is one message in a conversation, tagged with the
// role of its author. Turns are append-only and ordered by the
// store-assigned sequence.
type ConversationTurn struct {
	Seq        int64     `json:"seq"`
	ContactKey string    `json:"contact_key"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// WeeklyAggregates summarize the trailing seven days of logs for the
// weekly summary and admin views.
type WeeklyAggregates struct {
	MealCounts      map[MealType]int `json:"meal_counts"`
	TotalMeals      int              `json:"total_meals_logged"`
	ActiveDays      int              `json:"active_days"`
	AvgWaterGlasses float64          `json:"avg_water_glasses"`
	Foods           []FoodLog        `json:"foods"`
}

// UserSummary is one row of the admin user listing: profile highlights
// plus the stored turn count.
type UserSummary struct {
	ContactKey         string         `json:"contact_key"`
	Name               string         `json:"name,omitempty"`
	DietPreference     DietPreference `json:"diet_preference,omitempty"`
	RegionalCuisine    string         `json:"regional_cuisine,omitempty"`
	HealthGoal         HealthGoal     `json:"health_goal,omitempty"`
	OnboardingComplete bool           `json:"onboarding_complete"`
	LastActive         time.Time      `json:"last_active"`
	TurnCount          int            `json:"message_count"`
}

// Stats holds aggregate service counters for the admin stats endpoint.
type Stats struct {
	TotalUsers    int `json:"total_users"`
	TotalTurns    int `json:"total_messages"`
	TotalFoodLogs int `json:"total_food_logs"`
	ActiveToday   int `json:"active_today"`
}

// Response represents an incoming message from a participant at the
// transport layer.
type Response struct {
	From string `json:"from"`
	Body string `json:"body"`
	Time int64  `json:"time"`
}

// StatusType describes delivery receipt states.
type StatusType string

const (
	StatusTypeSent      StatusType = "sent"
	StatusTypeDelivered StatusType = "delivered"
	StatusTypeRead      StatusType = "read"
)

// Receipt represents a delivery/read receipt event from the transport.
type Receipt struct {
	To     string     `json:"to"`
	Status StatusType `json:"status"`
	Time   int64      `json:"time"`
}
