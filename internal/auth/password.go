// Package auth holds the credential primitives: bcrypt password hashing and
// signed bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordCost is the bcrypt work factor for stored passwords.
const PasswordCost = 10

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// BcryptHasher hashes and verifies passwords. At most maxConcurrent bcrypt
// computations run at once; callers beyond that wait or give up when their
// context ends.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

func NewBcryptHasher(maxConcurrent int64) *BcryptHasher {
	if maxConcurrent <= 0 {
		maxConcurrent = int64(runtime.GOMAXPROCS(0))
	}
	return &BcryptHasher{cost: PasswordCost, sem: semaphore.NewWeighted(maxConcurrent)}
}

// Hash returns a salted bcrypt hash. Repeated calls with the same password
// return different hashes.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash. A mismatch is (false, nil);
// an error means the check could not be made at all.
func (h *BcryptHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}
