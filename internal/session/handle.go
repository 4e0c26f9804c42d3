// Package session owns the signed-in state of one client. A Handle is passed explicitly
// to every component that calls the API; only Manager mutates it.
package session

import (
	"sync"

	"github.com/Brownie44l1/sellerhub/internal/models"
)

// Handle is one client's session. It satisfies apiclient.Credentials.
type Handle struct {
	clientID string

	mu   sync.RWMutex
	sess models.Session
}

// NewHandle returns an anonymous handle for clientID.
func NewHandle(clientID string) *Handle {
	return &Handle{clientID: clientID}
}

func (h *Handle) ClientID() string {
	return h.clientID
}

// BearerToken returns the current token, empty when signed out.
func (h *Handle) BearerToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sess.Token
}

func (h *Handle) Authenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sess.Authenticated()
}

func (h *Handle) Role() models.Role {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sess.Role
}

// User returns a copy of the profile snapshot, or nil.
func (h *Handle) User() *models.UserProfile {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.sess.User == nil {
		return nil
	}
	u := *h.sess.User
	return &u
}

// Snapshot returns a copy of the whole session.
func (h *Handle) Snapshot() models.Session {
	return models.Session{Token: h.BearerToken(), Role: h.Role(), User: h.User()}
}

func (h *Handle) set(s models.Session) {
	h.mu.Lock()
	h.sess = s
	h.mu.Unlock()
}

func (h *Handle) setUser(u *models.UserProfile) {
	h.mu.Lock()
	h.sess.User = u
	h.mu.Unlock()
}
