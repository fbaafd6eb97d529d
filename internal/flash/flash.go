// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package flash carries one-shot messages across a redirect in a signed cookie.
package flash

import (
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"
)

const cookieName = "_flash"

// Kind is the severity of a flash message.
type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

// Message is a translated message shown once.
type Message struct {
	Kind Kind   `json:"k"`
	Text string `json:"t"`
}

// Store reads and writes flash cookies.
type Store struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewStore creates a flash store. blockKey may be nil.
func NewStore(hashKey, blockKey []byte, secure bool) *Store {
	codec := securecookie.New(hashKey, blockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(300)
	return &Store{codec: codec, secure: secure}
}

// Add appends a message to the flash cookie. Messages added earlier in the
// same request are kept.
func (s *Store) Add(c echo.Context, kind Kind, text string) error {
	messages := append(s.pending(c), Message{Kind: kind, Text: text})

	value, err := s.codec.Encode(cookieName, messages)
	if err != nil {
		return err
	}
	c.Set(cookieName, messages)
	c.SetCookie(s.cookie(value, 0))
	return nil
}

// Pop returns the messages of the incoming request and clears the cookie.
func (s *Store) Pop(c echo.Context) []Message {
	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	c.SetCookie(s.cookie("", -1))

	var messages []Message
	if err := s.codec.Decode(cookieName, cookie.Value, &messages); err != nil {
		return nil
	}
	return messages
}

func (s *Store) pending(c echo.Context) []Message {
	if messages, ok := c.Get(cookieName).([]Message); ok {
		return messages
	}
	return nil
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
