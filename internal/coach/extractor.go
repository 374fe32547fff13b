package coach

import (
	"strings"
	"unicode"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/models"
)

// ProfileField names the profile field a FieldUpdate writes.
type ProfileField string

const (
	FieldName    ProfileField = "name"
	FieldDiet    ProfileField = "diet_preference"
	FieldCuisine ProfileField = "regional_cuisine"
	FieldGoal    ProfileField = "health_goal"
)

// FieldUpdate is one proposed profile field write. MatchedTrigger
// carries the raw phrase that fired, for logging and tests; only the
// canonical value is persisted.
type FieldUpdate struct {
	Field          ProfileField
	Name           string
	Diet           models.DietPreference
	Cuisine        string
	Goal           models.HealthGoal
	MatchedTrigger string
}

// Update converts the field update into the partial store write.
func (u *FieldUpdate) Update() models.ProfileUpdate {
	switch u.Field {
	case FieldName:
		return models.ProfileUpdate{Name: &u.Name}
	case FieldDiet:
		return models.ProfileUpdate{DietPreference: &u.Diet}
	case FieldCuisine:
		return models.ProfileUpdate{RegionalCuisine: &u.Cuisine}
	case FieldGoal:
		return models.ProfileUpdate{HealthGoal: &u.Goal}
	}
	return models.ProfileUpdate{}
}

// Name extraction bounds.
const (
	minNameLen = 2
	maxNameLen = 20
	// nameFallbackMaxMessages: a bare short message this early in the
	// conversation is most likely the answer to "what's your name?".
	nameFallbackMaxMessages = 4
	nameFallbackMaxWords    = 2
)

var nameTriggers = []string{
	"my name is ", "i'm ", "i am ", "mera naam ",
	"this is ", "call me ", "naam ", "name is ",
}

// dietPatterns map canonical diet tags to their trigger phrases. The
// per-tag trigger sets do not overlap, so at most one tag can fire.
var dietPatterns = []struct {
	diet     models.DietPreference
	patterns []string
}{
	{models.DietVegetarian, []string{"vegetarian", "veg ", "pure veg", "shakahari"}},
	{models.DietNonVegetarian, []string{"non veg", "non-veg", "nonveg", "i eat meat", "chicken", "mutton", "fish", "non vegetarian"}},
	{models.DietEggetarian, []string{"egg only", "eggetarian", "egg but no meat", "anda"}},
	{models.DietVegan, []string{"vegan", "no dairy", "plant based"}},
	{models.DietJain, []string{"jain", "jain food"}},
}

var cuisinePatterns = []struct {
	cuisine  string
	patterns []string
}{
	{"North Indian", []string{"north indian", "punjabi", "delhi", "up food", "rajasthani"}},
	{"South Indian", []string{"south indian", "tamil", "kerala", "karnataka", "andhra", "telugu", "dosa", "idli lover"}},
	{"Maharashtrian", []string{"maharashtrian", "marathi", "maharashtra", "mumbai food"}},
	{"Gujarati", []string{"gujarati", "gujrati", "gujarat"}},
	{"Bengali", []string{"bengali", "bangla", "kolkata food"}},
	{"Hyderabadi", []string{"hyderabadi", "hyderabad"}},
	{"Mixed / All", []string{"mixed", "everything", "all types", "sab kuch", "no preference"}},
}

var goalPatterns = []struct {
	goal     models.HealthGoal
	patterns []string
}{
	{models.GoalEatHealthier, []string{"eat healthy", "eat healthier", "healthy eating", "improve diet", "better diet", "clean eating"}},
	{models.GoalLoseWeight, []string{"lose weight", "weight loss", "fat loss", "slim", "weight kam", "vajan kam", "pet kam"}},
	{models.GoalGainMuscle, []string{"gain muscle", "build muscle", "bulk", "mass gain", "muscle bana", "body bana"}},
	{models.GoalMoreEnergy, []string{"more energy", "energy", "stamina", "tired", "fatigue", "thakaan", "active rehna"}},
	{models.GoalManageSugar, []string{"sugar", "diabetes", "blood sugar", "sugar control"}},
	{models.GoalGeneralWellness, []string{"general", "overall", "wellness", "fit rehna"}},
}

// ExtractUpdate scans a message against the still-unset fields of the
// profile, in priority order name → diet → cuisine → goal, and returns
// at most one proposed update. messageCount is the user's total stored
// message count, used by the bare-name fallback. Fields already set are
// never proposed again (first-write-wins).
func ExtractUpdate(message string, profile models.UserProfile, messageCount int) *FieldUpdate {
	msg := normalize(message)

	if profile.Name == "" {
		if u := extractName(message, msg, messageCount); u != nil {
			return u
		}
	}

	if profile.DietPreference == models.DietUnset {
		for _, p := range dietPatterns {
			if t, ok := matchAny(msg, p.patterns); ok {
				return &FieldUpdate{Field: FieldDiet, Diet: p.diet, MatchedTrigger: t}
			}
		}
	}

	if profile.RegionalCuisine == "" {
		for _, p := range cuisinePatterns {
			if t, ok := matchAny(msg, p.patterns); ok {
				return &FieldUpdate{Field: FieldCuisine, Cuisine: p.cuisine, MatchedTrigger: t}
			}
		}
	}

	if profile.HealthGoal == models.GoalUnset {
		for _, p := range goalPatterns {
			if t, ok := matchAny(msg, p.patterns); ok {
				return &FieldUpdate{Field: FieldGoal, Goal: p.goal, MatchedTrigger: t}
			}
		}
	}

	return nil
}

// extractName tries trigger phrases first, then the early-conversation
// bare-name fallback. The original casing of the message is used for
// the captured name; matching happens on the normalized form.
func extractName(original, msg string, messageCount int) *FieldUpdate {
	for _, trigger := range nameTriggers {
		idx := strings.Index(msg, trigger)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(original[idx+len(trigger):])
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		name := strings.Trim(fields[0], ".,!?")
		if isAlphabetic(name) && len(name) >= minNameLen && len(name) <= maxNameLen {
			return &FieldUpdate{Field: FieldName, Name: titleCase(name), MatchedTrigger: trigger}
		}
	}

	// Short message early in the conversation is likely a bare name.
	trimmed := strings.TrimSpace(original)
	if messageCount <= nameFallbackMaxMessages &&
		len(strings.Fields(trimmed)) <= nameFallbackMaxWords &&
		len(trimmed) <= maxNameLen {
		name := strings.Trim(trimmed, ".,!?")
		if isAlphabetic(name) && len(name) >= minNameLen {
			return &FieldUpdate{Field: FieldName, Name: titleCase(name)}
		}
	}

	return nil
}

func matchAny(msg string, patterns []string) (string, bool) {
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return p, true
		}
	}
	return "", false
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// titleCase capitalizes the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
