// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package token_test

import (
	"encoding/hex"
	"testing"
	"time"

	"codeberg.org/oliverandrich/uptask/internal/services/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := token.NewIssuer(time.Hour, token.WithClock(func() time.Time { return now }))

	tok, err := issuer.Issue()

	require.NoError(t, err)
	assert.Len(t, tok.Plaintext, 2*token.Length)
	_, err = hex.DecodeString(tok.Plaintext)
	assert.NoError(t, err)
	assert.Equal(t, token.HashToken(tok.Plaintext), tok.Hash)
	assert.Len(t, tok.Hash, 64)
	assert.NotEqual(t, tok.Plaintext, tok.Hash)
	assert.Equal(t, now.Add(time.Hour), tok.Expiry)
}

func TestIssue_Unique(t *testing.T) {
	issuer := token.NewIssuer(time.Hour)
	seen := make(map[string]struct{})

	for range 100 {
		tok, err := issuer.Issue()
		require.NoError(t, err)
		_, dup := seen[tok.Plaintext]
		require.False(t, dup)
		seen[tok.Plaintext] = struct{}{}
	}
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	assert.Equal(t, token.DefaultTTL, token.NewIssuer(0).TTL())
	assert.Equal(t, 30*time.Minute, token.NewIssuer(30*time.Minute).TTL())
}

func TestHashToken(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		token.HashToken(""))
	assert.Equal(t, token.HashToken("abc"), token.HashToken("abc"))
	assert.NotEqual(t, token.HashToken("abc"), token.HashToken("abd"))
}
