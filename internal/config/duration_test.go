package config

import "testing"

func TestParseDurationBareInteger(t *testing.T) {
	got, err := ParseDuration("3900")
	if err != nil || got != 3900 {
		t.Fatalf("expected 3900, got %d err=%v", got, err)
	}
}

func TestParseDurationUnitSuffix(t *testing.T) {
	got, err := ParseDuration("1h")
	if err != nil || got != 3600 {
		t.Fatalf("expected 3600, got %d err=%v", got, err)
	}
	got, err = ParseDuration("30m")
	if err != nil || got != 1800 {
		t.Fatalf("expected 1800, got %d err=%v", got, err)
	}
}

func TestParseDurationEmptyOrInvalid(t *testing.T) {
	if _, err := ParseDuration(""); err == nil {
		t.Fatalf("expected an error for an empty literal")
	}
	if _, err := ParseDuration("not-a-duration"); err == nil {
		t.Fatalf("expected an error for a malformed literal")
	}
}

func TestParseBoolRelaxed(t *testing.T) {
	truthy := []string{"true", "1", "yes", "on", "TRUE", " Yes "}
	for _, s := range truthy {
		if !ParseBoolRelaxed(s) {
			t.Errorf("expected %q to parse as true", s)
		}
	}
	falsy := []string{"false", "0", "no", "off", "", "garbage"}
	for _, s := range falsy {
		if ParseBoolRelaxed(s) {
			t.Errorf("expected %q to parse as false", s)
		}
	}
}
