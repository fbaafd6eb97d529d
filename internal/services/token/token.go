// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package token issues opaque, time-limited tokens for account workflows.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// Length is the number of random bytes in a token.
	Length = 20
	// DefaultTTL is how long reset tokens are valid.
	DefaultTTL = time.Hour
)

// Token is a freshly issued token. Only Hash is persisted; Plaintext goes
// into the link mailed to the user.
type Token struct {
	Plaintext string
	Hash      string
	Expiry    time.Time
}

// Issuer creates tokens. It holds no state besides its TTL and clock.
type Issuer struct {
	ttl time.Duration
	now func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// NewIssuer creates an Issuer whose tokens expire after ttl.
// A non-positive ttl falls back to DefaultTTL.
func NewIssuer(ttl time.Duration, opts ...Option) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	i := &Issuer{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// TTL returns the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue generates a new token.
func (i *Issuer) Issue() (Token, error) {
	bytes := make([]byte, Length)
	if _, err := rand.Read(bytes); err != nil {
		return Token{}, fmt.Errorf("failed to generate random bytes: %w", err)
	}

	plaintext := hex.EncodeToString(bytes)
	return Token{
		Plaintext: plaintext,
		Hash:      HashToken(plaintext),
		Expiry:    i.now().Add(i.ttl),
	}, nil
}

// HashToken computes the SHA256 hash of a token.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
