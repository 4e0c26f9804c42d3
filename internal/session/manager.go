package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Brownie44l1/sellerhub/internal/apiclient"
	"github.com/Brownie44l1/sellerhub/internal/auth"
	"github.com/Brownie44l1/sellerhub/internal/logging"
	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/Brownie44l1/sellerhub/internal/store"
	"github.com/sirupsen/logrus"
)

// API is the part of the remote API the session needs.
type API interface {
	Login(ctx context.Context, role models.Role, req models.LoginRequest) (*models.LoginResponse, error)
	Profile(ctx context.Context, cred apiclient.Credentials) (*models.UserProfile, error)
}

// Manager is the single update path for sessions.
type Manager struct {
	api   API
	store store.Store
	now   func() time.Time
	log   *logrus.Entry
}

func NewManager(api API, st store.Store) *Manager {
	return &Manager{api: api, store: st, now: time.Now, log: logging.For("session")}
}

// Load restores the session stored for clientID. A token whose exp has passed is
// removed from storage and the handle comes back anonymous.
func (m *Manager) Load(ctx context.Context, clientID string) (*Handle, error) {
	h := NewHandle(clientID)

	var role models.Role
	err := m.store.Get(ctx, clientID, models.StorageKeyRole, &role)
	if errors.Is(err, store.ErrNotFound) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load role: %w", err)
	}
	if !role.Valid() {
		role = models.RoleUser
	}

	var token string
	err = m.store.Get(ctx, clientID, role.TokenKey(), &token)
	if errors.Is(err, store.ErrNotFound) || (err == nil && token == "") {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}

	if auth.Expired(token, m.now()) {
		m.log.WithField("client_id", clientID).Info("dropping expired session token")
		if err := m.clear(ctx, clientID, role); err != nil {
			return nil, err
		}
		return h, nil
	}

	var profile models.UserProfile
	var user *models.UserProfile
	err = m.store.Get(ctx, clientID, models.StorageKeyProfile, &profile)
	switch {
	case err == nil:
		user = &profile
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load profile: %w", err)
	}

	h.set(models.Session{Token: token, Role: role, User: user})
	return h, nil
}

// Login authenticates against the API and persists the session under the role's key.
func (m *Manager) Login(ctx context.Context, h *Handle, role models.Role, req models.LoginRequest) error {
	if !role.Valid() {
		return models.ErrInvalidRole
	}
	if req.Email == "" || req.Password == "" {
		return models.ErrMissingCredentials
	}

	start := time.Now()
	log := m.log.WithFields(logrus.Fields{"client_id": h.ClientID(), "role": role})
	log.Info("[LOGIN] Started")

	resp, err := m.api.Login(ctx, role, req)
	if err != nil {
		log.WithError(err).Warn("[LOGIN] Failed")
		return err
	}
	if resp.Token == "" {
		log.Warn("[LOGIN] Failed - empty token")
		return &apiclient.APIError{Status: http.StatusBadGateway, Message: "login returned no token"}
	}

	// Only one role is signed in per client.
	other := models.RoleAdmin
	if role == models.RoleAdmin {
		other = models.RoleUser
	}
	if err := m.store.Delete(ctx, h.ClientID(), other.TokenKey()); err != nil {
		return err
	}
	if err := m.store.Set(ctx, h.ClientID(), models.StorageKeyRole, role); err != nil {
		return err
	}
	if err := m.store.Set(ctx, h.ClientID(), role.TokenKey(), resp.Token); err != nil {
		return err
	}
	profile := resp.Profile()
	if profile != nil {
		err = m.store.Set(ctx, h.ClientID(), models.StorageKeyProfile, profile)
	} else {
		err = m.store.Delete(ctx, h.ClientID(), models.StorageKeyProfile)
	}
	if err != nil {
		return err
	}

	h.set(models.Session{Token: resp.Token, Role: role, User: profile})
	log.WithField("duration", time.Since(start)).Info("[LOGIN] Success")
	return nil
}

// Logout destroys the session. It is not an error to log out twice.
func (m *Manager) Logout(ctx context.Context, h *Handle) error {
	role := h.Role()
	if !role.Valid() {
		role = models.RoleUser
	}
	if err := m.clear(ctx, h.ClientID(), role); err != nil {
		return err
	}
	h.set(models.Session{})
	return nil
}

// RefreshProfile re-fetches the profile after a mutating wallet call. A 401 means the
// API no longer accepts the token, so the session is cleared.
func (m *Manager) RefreshProfile(ctx context.Context, h *Handle) (*models.UserProfile, error) {
	if !h.Authenticated() {
		return nil, models.ErrNotAuthenticated
	}

	profile, err := m.api.Profile(ctx, h)
	if apiclient.IsStatus(err, http.StatusUnauthorized) {
		if lerr := m.Logout(ctx, h); lerr != nil {
			return nil, lerr
		}
		return nil, models.ErrTokenExpired
	}
	if err != nil {
		return nil, err
	}

	if err := m.ApplyProfile(ctx, h, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ApplyProfile stores a profile the API returned alongside a mutation.
func (m *Manager) ApplyProfile(ctx context.Context, h *Handle, profile *models.UserProfile) error {
	if !h.Authenticated() {
		return models.ErrNotAuthenticated
	}
	if profile == nil {
		return nil
	}
	if err := m.store.Set(ctx, h.ClientID(), models.StorageKeyProfile, profile); err != nil {
		return err
	}
	h.setUser(profile)
	return nil
}

func (m *Manager) clear(ctx context.Context, clientID string, role models.Role) error {
	err := m.store.Delete(ctx, clientID, models.StorageKeyRole, role.TokenKey(), models.StorageKeyProfile)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
