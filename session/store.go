package session

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"farmeradmin/api"
	"farmeradmin/utils"
)

const (
	TIER_FREE         = api.TIER_FREE
	TIER_BASIC        = api.TIER_BASIC
	TIER_PROFESSIONAL = api.TIER_PROFESSIONAL
)

var premiumTiers = []string{TIER_BASIC, TIER_PROFESSIONAL}

// UserInfo is the locally cached profile of the signed-in farmer.
type UserInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Avatar        string `json:"avatar"`
	Tier          string `json:"tier"`
	ServicesCount int    `json:"services_count"`
	APICallsToday int    `json:"api_calls_today"`
}

func DefaultUserInfo() UserInfo {
	return UserInfo{Tier: TIER_FREE}
}

// record is the JSON structure persisted to disk.
type record struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// Store holds the token and user info. It hydrates from its file on Open and
// writes through on every change. An empty path keeps the session in memory.
type Store struct {
	mu   sync.RWMutex
	path string
	data record
}

// Open loads the session at path. A missing file is an empty session.
func Open(path string) (*Store, error) {
	s := &Store{data: record{User: DefaultUserInfo()}}
	if path == "" {
		return s, nil
	}

	expanded, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	s.path = expanded

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load session from %s: %w", s.path, err)
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

// Token satisfies api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

func (s *Store) User() UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.User
}

func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}

func (s *Store) IsPremium() bool {
	return slices.Contains(premiumTiers, s.User().Tier)
}

func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Token = token
	return s.flush()
}

func (s *Store) SetUser(user UserInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.User = user
	return s.flush()
}

// Clear resets token and user info and removes the session file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = record{User: DefaultUserInfo()}

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if r.User.Tier == "" {
		r.User.Tier = TIER_FREE
	}
	s.data = r
	return nil
}

// flush writes the session to disk. Callers hold the write lock.
func (s *Store) flush() error {
	if s.path == "" {
		return nil
	}

	if err := utils.MkdirIfNotExists(s.path); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	// write to a temp file then rename over the old session
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
