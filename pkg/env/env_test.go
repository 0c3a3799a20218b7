package env

import "testing"

func TestGetFallsBack(t *testing.T) {
	t.Setenv("RESELLER_TEST_EMPTY", "  ")
	if got := Get("RESELLER_TEST_EMPTY", "x"); got != "x" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("RESELLER_TEST_SET", "value")
	if got := Get("RESELLER_TEST_SET", "x"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
}

func TestGetFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("RESELLER_TEST_A", "")
	t.Setenv("RESELLER_TEST_B", "b")
	t.Setenv("RESELLER_TEST_C", "c")
	if got := GetFirst("none", "RESELLER_TEST_A", "RESELLER_TEST_B", "RESELLER_TEST_C"); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if got := GetFirst("none", "RESELLER_TEST_MISSING"); got != "none" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
