// Package coach implements the deterministic conversation core: intent
// classification, profile extraction, onboarding progression, time-of-day
// context, prompt assembly, and reply post-processing. Everything in this
// package is a pure function of its inputs.
package coach

import "strings"

// IntentSet holds the independent boolean classification results for a
// single message. Multiple intents may match; precedence among them is
// the orchestrator's concern (see ResolveIntent).
type IntentSet struct {
	FoodLog        bool
	WaterLog       bool
	SummaryRequest bool
	MealSuggestion bool
	HelpRequest    bool
}

// Intent is the single resolved intent the orchestrator dispatches on.
type Intent string

const (
	IntentHelp    Intent = "help"
	IntentWater   Intent = "water"
	IntentSummary Intent = "summary"
	// IntentChat covers the general path: free-form chat, food logging,
	// and meal suggestions all go through context assembly + completion.
	IntentChat Intent = "chat"
)

// maxShortFoodWords is the word-count ceiling under which a bare food
// item name ("poha") counts as a food log without a trigger phrase.
const maxShortFoodWords = 8

// foodTriggers are phrases whose presence marks a message as a meal
// report. English and transliterated Hindi forms.
var foodTriggers = []string{
	"ate ", "had ", "eaten ", "i ate", "i had", "i eaten",
	"khaya", "khayi", "khali", "kha liya", "kha li",
	"for breakfast", "for lunch", "for dinner", "for snack",
	"breakfast:", "lunch:", "dinner:", "snack:",
	"breakfast -", "lunch -", "dinner -", "snack -",
	"morning me", "dopahar me", "raat ko", "shaam ko",
	"just had", "just ate", "finished eating",
	"abhi khaya", "abhi khayi",
}

// foodItems is a vocabulary of common Indian food nouns used by the
// short-message heuristic.
var foodItems = []string{
	"dosa", "idli", "upma", "poha", "paratha", "roti", "chapati",
	"rice", "chawal", "dal", "daal", "sabzi", "sabji", "curry",
	"biryani", "pulao", "khichdi", "maggi", "noodles", "pasta",
	"sandwich", "burger", "pizza", "samosa", "pakora", "vada",
	"paneer", "chicken", "egg", "omelette", "omlette",
	"curd", "dahi", "raita", "lassi", "buttermilk", "chaas",
	"chai", "tea", "coffee", "milk", "doodh",
	"fruit", "banana", "apple", "mango", "papaya",
	"salad", "soup", "smoothie", "juice",
	"biscuit", "cookie", "cake", "mithai", "sweet",
	"puri", "bhaji", "chole", "rajma", "aloo",
	"thali", "dabba", "tiffin",
}

var waterTriggers = []string{
	"water", "paani", "pani", "drank water", "had water",
	"glass of water", "glass water", "hydrat",
	"paani piya", "pani piya", "pani pi",
}

var summaryTriggers = []string{
	"summary", "weekly summary", "week summary",
	"what did i eat", "today's log", "todays log",
	"my log", "show log", "food log", "today log",
	"kya khaya aaj", "aaj kya khaya",
	"this week", "is hafte",
}

var suggestionTriggers = []string{
	"what should i eat", "what to eat", "suggest",
	"kya khau", "kya khaun", "kya khana",
	"meal idea", "food idea", "recipe",
	"breakfast idea", "lunch idea", "dinner idea",
	"what can i have", "what can i eat",
	"hungry", "bhookh", "bhook",
	"feeling like eating", "craving",
}

// helpCommands are matched exactly (after normalization), not by
// substring, so that "help me plan dinner" routes to chat.
var helpCommands = []string{
	"help", "?", "commands", "kya kar sakte ho", "what can you do",
}

// Classify pattern-matches normalized text against the trigger tables.
// Each category is computed independently; no side effects.
func Classify(text string) IntentSet {
	msg := normalize(text)
	return IntentSet{
		FoodLog:        isFoodLog(msg),
		WaterLog:       containsAny(msg, waterTriggers),
		SummaryRequest: containsAny(msg, summaryTriggers),
		MealSuggestion: containsAny(msg, suggestionTriggers),
		HelpRequest:    isHelpCommand(msg),
	}
}

// ResolveIntent applies the named precedence policy: help beats
// everything; water is honored only when food did not also match (a
// message reporting both is treated as a food log and hydration is
// handled in context); summary next; everything else flows through the
// chat path where food logging and meal suggestions act as side
// effects rather than short-circuits.
func ResolveIntent(s IntentSet) Intent {
	switch {
	case s.HelpRequest:
		return IntentHelp
	case s.WaterLog && !s.FoodLog:
		return IntentWater
	case s.SummaryRequest:
		return IntentSummary
	default:
		return IntentChat
	}
}

func isFoodLog(msg string) bool {
	if containsAny(msg, foodTriggers) {
		return true
	}
	// Short bare replies like "poha" still count as meal reports.
	if len(strings.Fields(msg)) <= maxShortFoodWords {
		return containsAny(msg, foodItems)
	}
	return false
}

func isHelpCommand(msg string) bool {
	for _, cmd := range helpCommands {
		if msg == cmd {
			return true
		}
	}
	return false
}

func containsAny(msg string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(msg, t) {
			return true
		}
	}
	return false
}

// normalize lowercases and trims a message before table matching.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
