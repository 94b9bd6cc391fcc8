// Package password hashes and verifies user credentials with bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	dErrors "carehub/pkg/domain-errors"
)

// DefaultCost is the bcrypt work factor used for every stored credential.
const DefaultCost = 12

// Hasher is configured once at startup; callers never pick the cost per call.
type Hasher struct {
	cost int
}

// NewHasher returns a bcrypt hasher. A cost outside bcrypt's accepted range
// falls back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost reports the configured work factor.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a bcrypt hash with a fresh random salt, so two calls with the
// same plaintext produce different strings.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.Wrap(err, dErrors.CodeHashing, "password exceeds 72 bytes")
		}
		return "", dErrors.Wrap(err, dErrors.CodeHashing, "could not hash password")
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. A mismatch is (false, nil);
// an error is returned only when hash is not a usable bcrypt hash.
func (h *Hasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, dErrors.Wrap(err, dErrors.CodeHashing, "stored password hash is malformed")
	}
}
