package coach

import (
	"fmt"
	"strings"
	"time"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
)

// Period is a coarse time-of-day label derived from the local hour.
type Period string

const (
	PeriodEarlyMorning Period = "early_morning"
	PeriodMorning      Period = "morning"
	PeriodPreLunch     Period = "pre_lunch"
	PeriodLunch        Period = "lunch"
	PeriodAfternoon    Period = "afternoon"
	PeriodEvening      Period = "evening"
	PeriodDinner       Period = "dinner"
	PeriodLateNight    Period = "late_night"
)

// DefaultTimezone is the civil calendar used when no location is
// configured. The coaching voice and meal vocabulary assume India.
const DefaultTimezone = "Asia/Kolkata"

// LoadLocation resolves an IANA timezone name, falling back to
// DefaultTimezone when empty and to UTC when the name is invalid.
func LoadLocation(tz string) *time.Location {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// periodGuidance maps each period to the situational sentence included
// in the time context block.
var periodGuidance = map[Period]string{
	PeriodEarlyMorning: "It's early morning in India. User might be waking up. Focus on hydration and breakfast planning.",
	PeriodMorning:      "It's morning in India. Breakfast time or just after. Good time for a morning meal check.",
	PeriodPreLunch:     "It's approaching lunch time. User might be thinking about lunch or feeling mid-morning hunger.",
	PeriodLunch:        "It's lunch time in India. User is likely eating or has just eaten lunch.",
	PeriodAfternoon:    "It's afternoon. Chai time, evening snack time. Energy might be dipping. Good time for smart snacking advice.",
	PeriodEvening:      "It's evening in India. User might be thinking about dinner or having an evening snack.",
	PeriodDinner:       "It's dinner time. Focus on light, balanced dinner suggestions. Early dinner is better for digestion.",
	PeriodLateNight:    "It's late night. If user is eating, don't guilt them. Suggest lighter options. Mention sleep quality gently.",
}

// PeriodFor maps a local hour onto one of the eight periods. The
// mapping is total over [0,24) with half-open intervals, lower bound
// inclusive: 5,8,11,13,15,17,20,22 each start a new bucket.
func PeriodFor(hour int) Period {
	switch {
	case hour >= 5 && hour < 8:
		return PeriodEarlyMorning
	case hour >= 8 && hour < 11:
		return PeriodMorning
	case hour >= 11 && hour < 13:
		return PeriodPreLunch
	case hour >= 13 && hour < 15:
		return PeriodLunch
	case hour >= 15 && hour < 17:
		return PeriodAfternoon
	case hour >= 17 && hour < 20:
		return PeriodEvening
	case hour >= 20 && hour < 22:
		return PeriodDinner
	default:
		return PeriodLateNight
	}
}

// MealTypeForHour infers the meal slot for a food log created at the
// given local hour, used when the message does not name a meal.
func MealTypeForHour(hour int) models.MealType {
	switch {
	case hour >= 5 && hour < 11:
		return models.MealBreakfast
	case hour >= 11 && hour < 15:
		return models.MealLunch
	case hour >= 15 && hour < 18:
		return models.MealSnack
	case hour >= 18 && hour < 22:
		return models.MealDinner
	default:
		return models.MealLateNight
	}
}

// explicitMealPhrases map meal mentions in the message itself to a meal
// slot; an explicit mention wins over the clock.
var explicitMealPhrases = []struct {
	phrase string
	meal   models.MealType
}{
	{"for breakfast", models.MealBreakfast},
	{"breakfast:", models.MealBreakfast},
	{"breakfast -", models.MealBreakfast},
	{"for lunch", models.MealLunch},
	{"lunch:", models.MealLunch},
	{"lunch -", models.MealLunch},
	{"for dinner", models.MealDinner},
	{"dinner:", models.MealDinner},
	{"dinner -", models.MealDinner},
	{"for snack", models.MealSnack},
	{"snack:", models.MealSnack},
	{"snack -", models.MealSnack},
}

// MealTypeForMessage returns the meal slot named in the message, if
// any, falling back to the local-hour inference.
func MealTypeForMessage(text string, now time.Time) models.MealType {
	msg := normalize(text)
	for _, p := range explicitMealPhrases {
		if strings.Contains(msg, p.phrase) {
			return p.meal
		}
	}
	return MealTypeForHour(now.Hour())
}

// TimeContext renders the dated time-context block handed to the
// completion interface.
func TimeContext(now time.Time) string {
	period := PeriodFor(now.Hour())
	return fmt.Sprintf("[TIME CONTEXT] Date: %s | Hour: %d:00 | Period: %s\n%s",
		now.Format("2006-01-02"), now.Hour(), period, periodGuidance[period])
}
