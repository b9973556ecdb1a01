// Package idgen generates collision-checked short IDs per entity kind.
//
// Grounded on internal/car.GenerateID/generateUniqueID in the teacher
// (crypto/rand token, retry on collision against the persisted set),
// generalized to every entity-kind prefix (all sharing one token length)
// and an 8-attempt-then-monotonic-counter fallback rather than the
// teacher's fixed 2-attempt retry.
package idgen

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync/atomic"
)

// Kind identifies which entity's ID format to generate.
type Kind string

const (
	Story   Kind = "US"
	Task    Kind = "TASK"
	Bug     Kind = "BUG"
	Sprint  Kind = "SPRINT"
	Epic    Kind = "EPIC"
	Roadmap Kind = "ROADMAP"
)

// alphabet is the character set IDs are drawn from: [A-Z0-9].
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// tokenLen is the fixed token length named by spec §4.2 ("6-character
// random token") for every entity kind.
const tokenLen = 6

// maxAttempts is the retry ceiling before falling back to a monotonic
// counter suffix, per spec §4.2 ("N >= 8").
const maxAttempts = 8

var fallbackCounter uint64

// Exists reports whether an ID is already present for a given kind. Callers
// (internal/store) supply this so idgen stays free of persistence concerns.
type Exists func(id string) bool

// Generate produces a new unique ID of the given kind. exists is consulted
// after each candidate; on maxAttempts consecutive collisions, a monotonic
// counter suffix is appended so generation can never fail outright.
func Generate(kind Kind, exists Exists) (string, error) {
	if exists == nil {
		exists = func(string) bool { return false }
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		token, err := randomToken(tokenLen)
		if err != nil {
			return "", fmt.Errorf("idgen: generate token: %w", err)
		}
		id := fmt.Sprintf("%s-%s", kind, token)
		if !exists(id) {
			return id, nil
		}
	}

	// Fallback: monotonic counter suffix guarantees uniqueness even under
	// sustained collision (e.g. a weak RNG source in a constrained sandbox).
	n := atomic.AddUint64(&fallbackCounter, 1)
	token, err := randomToken(tokenLen - minCounterDigits(n))
	if err != nil {
		return "", fmt.Errorf("idgen: generate fallback token: %w", err)
	}
	id := fmt.Sprintf("%s-%s%0*d", kind, token, minCounterDigits(n), n)
	if exists(id) {
		return "", fmt.Errorf("idgen: failed to generate unique %s ID after %d attempts and a counter fallback", kind, maxAttempts)
	}
	return id, nil
}

func minCounterDigits(n uint64) int {
	digits := len(fmt.Sprintf("%d", n))
	if digits < 2 {
		return 2
	}
	return digits
}

func randomToken(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(n)
	for _, v := range raw {
		b.WriteByte(alphabet[int(v)%len(alphabet)])
	}
	return b.String(), nil
}
