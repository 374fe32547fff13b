package coach

import "testing"

func TestClassify_FoodTriggers(t *testing.T) {
	cases := []struct {
		msg  string
		food bool
	}{
		{"ate 2 rotis and dal for lunch", true},
		{"just had poha", true},
		{"abhi khaya rajma chawal", true},
		{"breakfast: idli sambar", true},
		{"dosa", true},
		{"I demolished a whole thali at the wedding", true},
		{"how is the weather", false},
		{"thanks!", false},
	}
	for _, c := range cases {
		got := Classify(c.msg)
		if got.FoodLog != c.food {
			t.Errorf("Classify(%q).FoodLog = %v, want %v", c.msg, got.FoodLog, c.food)
		}
	}
}

func TestClassify_ShortFoodItemOnly(t *testing.T) {
	// A bare food item counts only in short messages.
	short := "maggi again"
	long := "my friend once told me a very long story about how maggi was banned in India back then"
	if !Classify(short).FoodLog {
		t.Errorf("short food-item message should classify as food log")
	}
	if Classify(long).FoodLog {
		t.Errorf("long message mentioning a food item should not classify as food log")
	}
}

func TestClassify_Water(t *testing.T) {
	for _, msg := range []string{"drank water", "paani piya", "2 glasses of water", "had water just now"} {
		if !Classify(msg).WaterLog {
			t.Errorf("Classify(%q).WaterLog = false, want true", msg)
		}
	}
	if Classify("ate watermelon").WaterLog {
		// "watermelon" contains "water"; substring matching accepts this
		// and food precedence in ResolveIntent routes it to chat anyway.
		t.Log("watermelon matches the water trigger, resolved by precedence")
	}
}

func TestClassify_SummaryAndSuggestion(t *testing.T) {
	if !Classify("weekly summary please").SummaryRequest {
		t.Errorf("summary request not detected")
	}
	if !Classify("aaj kya khaya maine?").SummaryRequest {
		t.Errorf("hindi summary request not detected")
	}
	if !Classify("what should i eat for dinner").MealSuggestion {
		t.Errorf("meal suggestion request not detected")
	}
	if !Classify("feeling like eating something sweet").MealSuggestion {
		t.Errorf("craving message not detected as suggestion request")
	}
}

func TestClassify_HelpExactMatch(t *testing.T) {
	for _, msg := range []string{"help", "HELP", " ? ", "commands", "what can you do"} {
		if !Classify(msg).HelpRequest {
			t.Errorf("Classify(%q).HelpRequest = false, want true", msg)
		}
	}
	// Help must be the whole message, not a substring.
	if Classify("help me figure out lunch").HelpRequest {
		t.Errorf("embedded 'help' should not classify as help command")
	}
}

func TestResolveIntent_Precedence(t *testing.T) {
	cases := []struct {
		msg  string
		want Intent
	}{
		{"help", IntentHelp},
		{"drank 3 glasses of water", IntentWater},
		// Food wins over water when both match.
		{"had dal and a glass of water with lunch", IntentChat},
		{"weekly summary", IntentSummary},
		{"hello there", IntentChat},
		{"ate 2 rotis", IntentChat},
	}
	for _, c := range cases {
		got := ResolveIntent(Classify(c.msg))
		if got != c.want {
			t.Errorf("ResolveIntent(%q) = %v, want %v", c.msg, got, c.want)
		}
	}
}

func TestResolveIntent_PaaniRoutesToWater(t *testing.T) {
	s := Classify("paani")
	if !s.WaterLog || s.FoodLog {
		t.Fatalf("bare 'paani' should be water-only, got %+v", s)
	}
	if got := ResolveIntent(s); got != IntentWater {
		t.Errorf("ResolveIntent = %v, want IntentWater", got)
	}
}
