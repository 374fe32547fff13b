package coach

import (
	"fmt"
	"strings"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
)

// BuildUserContext renders the profile block injected into the system
// message. isNew marks a contact with no stored profile at all.
func BuildUserContext(p models.UserProfile, isNew bool) string {
	if isNew {
		return "\n[USER: New user, no profile yet. Start onboarding.]"
	}

	parts := []string{"\n[USER PROFILE]"}

	if p.Name != "" {
		parts = append(parts, "Name: "+p.Name)
	} else {
		parts = append(parts, "Name: Unknown (ask for their name)")
	}
	if p.DietPreference != models.DietUnset {
		parts = append(parts, "Diet: "+string(p.DietPreference))
	}
	if p.RegionalCuisine != "" {
		parts = append(parts, "Regional cuisine: "+p.RegionalCuisine)
	}
	if p.Allergies != "" {
		parts = append(parts, "Allergies/restrictions: "+p.Allergies)
	}
	if p.HealthGoal != models.GoalUnset {
		parts = append(parts, "Goal: "+string(p.HealthGoal))
	}

	if !p.OnboardingComplete {
		if missing := MissingFields(p); len(missing) > 0 {
			parts = append(parts, fmt.Sprintf(
				"[ONBOARDING INCOMPLETE — Still need: %s. Ask for the NEXT missing item naturally, ONE at a time.]",
				strings.Join(missing, ", ")))
		} else {
			parts = append(parts, "[ONBOARDING COMPLETE — All info gathered. Mark as complete.]")
		}
	}

	return strings.Join(parts, "\n")
}

// BuildFoodContext renders today's food log block.
func BuildFoodContext(logs []models.FoodLog) string {
	if len(logs) == 0 {
		return "\n[TODAY'S FOOD LOG: No meals logged yet today.]"
	}

	parts := []string{"\n[TODAY'S FOOD LOG]"}
	for _, l := range logs {
		meal := titleCase(strings.ReplaceAll(string(l.MealType), "_", " "))
		parts = append(parts, fmt.Sprintf("- %s (%s): %s", meal, l.ClockTime, l.Description))
	}
	return strings.Join(parts, "\n")
}

// BuildWaterContext renders the hydration block. goalLiters converts
// to glasses at 250ml per glass.
func BuildWaterContext(glassesToday int, goalLiters float64) string {
	goalGlasses := int(goalLiters * 4)
	return fmt.Sprintf("\n[HYDRATION] Water today: %d glasses (goal: ~%d glasses / %gL)",
		glassesToday, goalGlasses, goalLiters)
}
