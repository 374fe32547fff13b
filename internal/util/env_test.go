package util

import "testing"

func TestParseBoolEnv(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{"unset uses default true", "", true, true},
		{"unset uses default false", "", false, false},
		{"true", "true", false, true},
		{"one", "1", false, true},
		{"yes", "yes", false, true},
		{"on", "on", false, true},
		{"false", "false", true, false},
		{"zero", "0", true, false},
		{"no", "no", true, false},
		{"off", "off", true, false},
		{"mixed case", "TRUE", false, true},
		{"whitespace", " true ", false, true},
		{"invalid uses default", "maybe", true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			const key = "UTIL_TEST_BOOL"
			if tc.value != "" {
				t.Setenv(key, tc.value)
			}
			if got := ParseBoolEnv(key, tc.def); got != tc.expected {
				t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tc.value, tc.def, got, tc.expected)
			}
		})
	}
}
