package coach

import (
	"strings"
	"testing"
	"time"
)

func TestPeriodFor_CoversAllHours(t *testing.T) {
	// Every hour of the day must map to exactly one period.
	for hour := 0; hour < 24; hour++ {
		p := PeriodFor(hour)
		if p == "" {
			t.Errorf("PeriodFor(%d) returned empty period", hour)
		}
		if _, ok := periodGuidance[p]; !ok {
			t.Errorf("PeriodFor(%d) = %q has no guidance text", hour, p)
		}
	}
}

func TestPeriodFor_Boundaries(t *testing.T) {
	cases := []struct {
		hour int
		want Period
	}{
		{4, PeriodLateNight},
		{5, PeriodEarlyMorning},
		{7, PeriodEarlyMorning},
		{8, PeriodMorning},
		{11, PeriodPreLunch},
		{13, PeriodLunch},
		{15, PeriodAfternoon},
		{17, PeriodEvening},
		{20, PeriodDinner},
		{21, PeriodDinner},
		{22, PeriodLateNight},
		{23, PeriodLateNight},
		{0, PeriodLateNight},
	}
	for _, c := range cases {
		if got := PeriodFor(c.hour); got != c.want {
			t.Errorf("PeriodFor(%d) = %v, want %v", c.hour, got, c.want)
		}
	}
}

func TestMealTypeForHour(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{5, "breakfast"},
		{10, "breakfast"},
		{11, "lunch"},
		{14, "lunch"},
		{15, "snack"},
		{17, "snack"},
		{18, "dinner"},
		{21, "dinner"},
		{22, "late_night"},
		{2, "late_night"},
	}
	for _, c := range cases {
		if got := string(MealTypeForHour(c.hour)); got != c.want {
			t.Errorf("MealTypeForHour(%d) = %q, want %q", c.hour, got, c.want)
		}
	}
}

func TestMealTypeForMessage_ExplicitWinsOverClock(t *testing.T) {
	// 9 PM by the clock, but the message says lunch.
	now := time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC)
	if got := string(MealTypeForMessage("had rajma chawal for lunch", now)); got != "lunch" {
		t.Errorf("explicit meal mention ignored, got %q", got)
	}
	// No explicit mention falls back to the clock.
	if got := string(MealTypeForMessage("had rajma chawal", now)); got != "dinner" {
		t.Errorf("clock fallback failed, got %q", got)
	}
}

func TestTimeContext_Format(t *testing.T) {
	now := time.Date(2025, 6, 1, 13, 30, 0, 0, time.UTC)
	out := TimeContext(now)
	if !strings.Contains(out, "[TIME CONTEXT]") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "Date: 2025-06-01") {
		t.Errorf("missing date: %q", out)
	}
	if !strings.Contains(out, "Hour: 13:00") {
		t.Errorf("missing hour: %q", out)
	}
	if !strings.Contains(out, string(PeriodLunch)) {
		t.Errorf("missing period: %q", out)
	}
}
