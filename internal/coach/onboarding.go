package coach

import "github.com/rakesh1308/whatsapp-diet-coach/internal/models"

// MissingFields lists the onboarding fields not yet captured, in the
// order the coach asks for them. Cuisine is listed so the model keeps
// asking for it, but it does not gate completion.
func MissingFields(p models.UserProfile) []string {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.DietPreference == models.DietUnset {
		missing = append(missing, "diet preference (veg/non-veg/egg-only/vegan)")
	}
	if p.HealthGoal == models.GoalUnset {
		missing = append(missing, "health goal")
	}
	if p.RegionalCuisine == "" {
		missing = append(missing, "regional cuisine preference")
	}
	return missing
}

// OnboardingComplete reports whether the profile has the three gating
// fields: name, diet preference, and health goal. Once a stored
// profile is marked complete it stays complete; callers only ever
// upgrade the flag.
func OnboardingComplete(p models.UserProfile) bool {
	return p.Name != "" &&
		p.DietPreference != models.DietUnset &&
		p.HealthGoal != models.GoalUnset
}
