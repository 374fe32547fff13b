package coach

import (
	"strings"
	"testing"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
)

func TestBuildUserContext_NewUser(t *testing.T) {
	out := BuildUserContext(models.UserProfile{}, true)
	if !strings.Contains(out, "Start onboarding") {
		t.Errorf("new user context missing onboarding cue: %q", out)
	}
}

func TestBuildUserContext_PartialProfile(t *testing.T) {
	p := models.UserProfile{
		Name:           "Rahul",
		DietPreference: models.DietVegetarian,
	}
	out := BuildUserContext(p, false)

	if !strings.Contains(out, "Name: Rahul") {
		t.Errorf("missing name: %q", out)
	}
	if !strings.Contains(out, "Diet: vegetarian") {
		t.Errorf("missing diet: %q", out)
	}
	if !strings.Contains(out, "Still need:") {
		t.Errorf("incomplete profile missing still-need marker: %q", out)
	}
	if !strings.Contains(out, "health goal") {
		t.Errorf("still-need list should include health goal: %q", out)
	}
	if strings.Contains(out, "Still need: name") {
		t.Errorf("captured field listed as missing: %q", out)
	}
}

func TestBuildUserContext_CompleteProfile(t *testing.T) {
	p := models.UserProfile{
		Name:               "Rahul",
		DietPreference:     models.DietVegetarian,
		RegionalCuisine:    "South Indian",
		HealthGoal:         models.GoalLoseWeight,
		OnboardingComplete: true,
	}
	out := BuildUserContext(p, false)
	if strings.Contains(out, "Still need") || strings.Contains(out, "ONBOARDING") {
		t.Errorf("complete profile should carry no onboarding markers: %q", out)
	}
	if !strings.Contains(out, "Goal: lose weight") {
		t.Errorf("missing goal: %q", out)
	}
}

func TestMissingFields_Order(t *testing.T) {
	missing := MissingFields(models.UserProfile{})
	if len(missing) != 4 {
		t.Fatalf("expected 4 missing fields, got %v", missing)
	}
	if missing[0] != "name" {
		t.Errorf("name should be asked first, got %v", missing)
	}
}

func TestOnboardingComplete(t *testing.T) {
	p := models.UserProfile{
		Name:           "Rahul",
		DietPreference: models.DietVegetarian,
		HealthGoal:     models.GoalLoseWeight,
	}
	// Cuisine is not required for completion.
	if !OnboardingComplete(p) {
		t.Errorf("profile with name+diet+goal should be complete")
	}
	p.HealthGoal = models.GoalUnset
	if OnboardingComplete(p) {
		t.Errorf("profile without goal should not be complete")
	}
}

func TestBuildFoodContext(t *testing.T) {
	if out := BuildFoodContext(nil); !strings.Contains(out, "No meals logged") {
		t.Errorf("empty log context wrong: %q", out)
	}

	logs := []models.FoodLog{
		{MealType: models.MealBreakfast, ClockTime: "08:30", Description: "poha with chai"},
		{MealType: models.MealLateNight, ClockTime: "23:10", Description: "maggi"},
	}
	out := BuildFoodContext(logs)
	if !strings.Contains(out, "- Breakfast (08:30): poha with chai") {
		t.Errorf("breakfast entry malformed: %q", out)
	}
	if !strings.Contains(out, "- Late Night (23:10): maggi") {
		t.Errorf("late night entry malformed: %q", out)
	}
}

func TestBuildWaterContext(t *testing.T) {
	out := BuildWaterContext(5, 3.0)
	if !strings.Contains(out, "5 glasses") || !strings.Contains(out, "~12 glasses / 3L") {
		t.Errorf("water context malformed: %q", out)
	}
}
