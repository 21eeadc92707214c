package gate_test

import (
	"io"
	"log"
	"testing"

	"github.com/BrandonDHaskell/Cardea/internal/cardea/gate"
)

func silentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestAttempt_WrongThenRight(t *testing.T) {
	g := gate.New("abc", silentLogger())

	if g.Attempt("xyz") {
		t.Error("expected wrong secret to fail")
	}
	if g.Unlocked() {
		t.Error("expected locked after failed attempt")
	}

	if !g.Attempt("abc") {
		t.Error("expected correct secret to unlock")
	}
	if !g.Unlocked() {
		t.Error("expected unlocked after correct attempt")
	}

	// Once unlocked, any candidate succeeds (idempotent).
	if !g.Attempt("xyz") {
		t.Error("expected attempt to succeed once already unlocked")
	}
	if !g.Unlocked() {
		t.Error("expected flag to stay unlocked")
	}
}

func TestAttempt_EmptySecret_PermanentLock(t *testing.T) {
	g := gate.New("", silentLogger())

	for _, candidate := range []string{"", "abc", "  ", "password"} {
		if g.Attempt(candidate) {
			t.Errorf("expected candidate %q to fail against empty secret", candidate)
		}
	}
	if g.Unlocked() {
		t.Error("expected gate with no secret to stay locked")
	}
}

func TestAttempt_EmptyCandidate_FailsAgainstRealSecret(t *testing.T) {
	g := gate.New("abc", silentLogger())

	if g.Attempt("") {
		t.Error("expected empty candidate to fail")
	}
	if g.Unlocked() {
		t.Error("expected locked after empty candidate")
	}
}

func TestUnlocked_InitiallyFalse(t *testing.T) {
	g := gate.New("abc", silentLogger())
	if g.Unlocked() {
		t.Error("expected a fresh gate to be locked")
	}
}
