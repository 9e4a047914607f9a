package session

import (
	"context"
	"errors"
	"fmt"

	"farmeradmin/api"
	"farmeradmin/logger"
)

var ErrMissingToken = errors.New("login response carried no access token")

// Authenticator is the part of the backend client the session needs.
type Authenticator interface {
	Login(ctx context.Context, in api.LoginRequest) (*api.LoginResponse, error)
	Me(ctx context.Context) (*api.Farmer, error)
	Logout(ctx context.Context) error
}

type Manager struct {
	store  *Store
	auth   Authenticator
	logger logger.Logger
}

func NewManager(store *Store, auth Authenticator, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{store: store, auth: auth, logger: log}
}

func (m *Manager) Store() *Store {
	return m.store
}

// Login exchanges credentials for a token, stores it, then refreshes the
// cached profile. A failed profile fetch does not fail the login.
func (m *Manager) Login(ctx context.Context, phone, password string) error {
	resp, err := m.auth.Login(ctx, api.LoginRequest{Phone: phone, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if resp.AccessToken == "" {
		return ErrMissingToken
	}

	if err := m.store.SetToken(resp.AccessToken); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	m.logger.Info("Logged in as %s", phone)

	if err := m.FetchUserInfo(ctx); err != nil {
		m.logger.Error("Failed to fetch user info: %v", err)
		if resp.Farmer.ID != "" {
			if err := m.store.SetUser(userInfoFrom(&resp.Farmer)); err != nil {
				m.logger.Error("Failed to save user info: %v", err)
			}
		}
	}
	return nil
}

// FetchUserInfo reloads the profile from the backend into the store.
func (m *Manager) FetchUserInfo(ctx context.Context) error {
	farmer, err := m.auth.Me(ctx)
	if err != nil {
		return err
	}
	return m.store.SetUser(userInfoFrom(farmer))
}

// Logout tells the backend and always clears local state; only a failure to
// clear is returned.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.auth.Logout(ctx); err != nil {
		m.logger.Warn("Logout error: %v", err)
	}
	return m.store.Clear()
}

func userInfoFrom(f *api.Farmer) UserInfo {
	tier := f.Tier
	if tier == "" {
		tier = TIER_FREE
	}
	return UserInfo{
		ID:            f.ID,
		Name:          f.Name,
		Phone:         f.Phone,
		Avatar:        f.Avatar,
		Tier:          tier,
		ServicesCount: f.ServicesCount,
		APICallsToday: f.APICallsToday,
	}
}
