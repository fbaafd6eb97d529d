// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

// Identity is the authenticated-user reference carried by a request.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}
