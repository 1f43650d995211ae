// Package identity abstracts the session provider the stores are scoped by.
// The core treats "not authenticated" as empty read-only state; handlers
// must resolve a user before any store is touched.
package identity

import (
	"errors"
	"net/http"
	"strings"
)

// ErrNotAuthenticated means no user identity could be resolved for the
// request.
var ErrNotAuthenticated = errors.New("not authenticated")

// Provider resolves the current user identity for a request. The returned
// id (an email in practice) is the persistence scoping key.
type Provider interface {
	CurrentUser(r *http.Request) (string, error)
}

// DefaultUserHeader is where the front proxy puts the authenticated email.
const DefaultUserHeader = "X-User-Email"

// HeaderProvider reads the user identity from a request header, with an
// optional static fallback for single-user deployments.
type HeaderProvider struct {
	Header   string
	Fallback string
}

func (p HeaderProvider) CurrentUser(r *http.Request) (string, error) {
	header := p.Header
	if header == "" {
		header = DefaultUserHeader
	}
	user := strings.TrimSpace(r.Header.Get(header))
	if user == "" {
		user = p.Fallback
	}
	if user == "" {
		return "", ErrNotAuthenticated
	}
	return user, nil
}
