// Package gate holds the single shared switch behind every admin
// capability: a one-way SHA-256 digest of the configured secret and a
// boolean unlock flag.
//
// The unlock protocol is deliberately minimal: no rate limiting, no
// attempt counter, no re-lock.  A caller can guess without bound; this is
// a known weakness of the protocol being implemented, kept rather than
// silently hardened.
package gate

import (
	"crypto/sha256"
	"crypto/subtle"
	"log"
	"sync"
)

// Gate gates admin capabilities for one running agent instance.  The flag
// starts locked, flips to unlocked on the first matching Attempt, and
// stays unlocked until the instance stops.
type Gate struct {
	mu       sync.Mutex
	unlocked bool
	digest   []byte // nil when no secret is configured: permanent lock
	logger   *log.Logger
}

// New derives the digest from secret.  An empty secret yields a gate that
// no candidate can ever open.
func New(secret string, logger *log.Logger) *Gate {
	g := &Gate{logger: logger}
	if secret == "" {
		logger.Printf("admin secret is not configured; elevation will always fail")
		return g
	}
	sum := sha256.Sum256([]byte(secret))
	g.digest = sum[:]
	return g
}

// Attempt tries to unlock with candidate.  Returns true if the gate is
// already unlocked (idempotent) or the candidate's digest matches the
// configured one.  Failed attempts have no side effect.
func (g *Gate) Attempt(candidate string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.unlocked {
		return true
	}
	if g.digest == nil {
		return false
	}

	sum := sha256.Sum256([]byte(candidate))
	if subtle.ConstantTimeCompare(sum[:], g.digest) != 1 {
		return false
	}

	g.unlocked = true
	g.logger.Printf("admin privileges unlocked")
	return true
}

// Unlocked reports the current state of the flag.
func (g *Gate) Unlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unlocked
}
