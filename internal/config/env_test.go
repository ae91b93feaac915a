package config

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("SHOOTER_TEST_SET", "value")
	t.Setenv("SHOOTER_TEST_EMPTY", "")

	tests := []struct {
		key, fallback, want string
	}{
		{"SHOOTER_TEST_SET", "fb", "value"},
		{"SHOOTER_TEST_EMPTY", "fb", ""},
		{"SHOOTER_TEST_UNSET", "fb", "fb"},
	}
	for _, tt := range tests {
		if got := GetEnv(tt.key, tt.fallback); got != tt.want {
			t.Errorf("GetEnv(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("SHOOTER_TEST_NUM", "-1.5")
	t.Setenv("SHOOTER_TEST_BAD", "loud")

	tests := []struct {
		key  string
		want float64
	}{
		{"SHOOTER_TEST_NUM", -1.5},
		{"SHOOTER_TEST_BAD", 2},
		{"SHOOTER_TEST_UNSET", 2},
	}
	for _, tt := range tests {
		if got := GetEnvFloat(tt.key, 2); got != tt.want {
			t.Errorf("GetEnvFloat(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
