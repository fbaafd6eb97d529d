// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package password hashes, verifies and validates user passwords.
package password

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultCost matches the cost used by existing accounts.
const DefaultCost = 10

// Hasher runs bcrypt on a bounded pool so concurrent logins cannot occupy
// every CPU at once.
type Hasher struct {
	cost  int
	sem   *semaphore.Weighted
	dummy string
}

// NewHasher creates a Hasher with the given bcrypt cost. A cost outside
// bcrypt's range falls back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	// Built up front so no login pays for it.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), cost)
	return &Hasher{
		cost:  cost,
		sem:   semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
		dummy: string(dummy),
	}
}

// Cost returns the configured bcrypt cost.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt encoding of plaintext with a fresh salt.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A malformed hash or a
// cancelled context yields false.
func (h *Hasher) Verify(ctx context.Context, plaintext, hash string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// Dummy returns a valid hash at the configured cost that no user password
// matches. Verifying against it costs the same as a real verification.
func (h *Hasher) Dummy() string {
	return h.dummy
}
