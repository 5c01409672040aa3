package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("BRAZZAEATS_ENV_TEST", "set")
	if got := Get("BRAZZAEATS_ENV_TEST", "fallback"); got != "set" {
		t.Fatalf("expected set, got %s", got)
	}
	t.Setenv("BRAZZAEATS_ENV_TEST", "")
	if got := Get("BRAZZAEATS_ENV_TEST", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %s", got)
	}
}

func TestFirstHonoursKeyOrder(t *testing.T) {
	t.Setenv("BRAZZAEATS_ENV_A", "")
	t.Setenv("BRAZZAEATS_ENV_B", "b")
	t.Setenv("BRAZZAEATS_ENV_C", "c")
	if got := First("none", "BRAZZAEATS_ENV_A", "BRAZZAEATS_ENV_B", "BRAZZAEATS_ENV_C"); got != "b" {
		t.Fatalf("expected b, got %s", got)
	}
	if got := First("none", "BRAZZAEATS_ENV_A"); got != "none" {
		t.Fatalf("expected fallback, got %s", got)
	}
}
