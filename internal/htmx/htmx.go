// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package htmx answers htmx requests so that redirects after form posts
// replace the whole page.
package htmx

import (
	"net/http"
)

const (
	HeaderRequest  = "HX-Request"
	HeaderBoosted  = "HX-Boosted"
	HeaderRedirect = "HX-Redirect"
)

// IsRequest reports whether r was issued by htmx.
func IsRequest(r *http.Request) bool {
	return r.Header.Get(HeaderRequest) == "true"
}

// IsBoosted reports whether r comes from an hx-boost link or form. Boosted
// requests follow plain redirects.
func IsBoosted(r *http.Request) bool {
	return r.Header.Get(HeaderBoosted) == "true"
}

// Redirect sends the client to url. Non-boosted htmx requests get an
// HX-Redirect header so the browser performs a full navigation; all others
// get a 303.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsRequest(r) && !IsBoosted(r) {
		w.Header().Set(HeaderRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
