package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const (
	keyAPIURL       = "api_url"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// SessionStore persists the access and refresh tokens of one profile in an
// ini file. Each profile is a section; the default profile is DEFAULT.
type SessionStore struct {
	mu      sync.Mutex
	path    string
	profile string
	cfg     *ini.File
}

func NewSessionStore(path, profile string) (*SessionStore, error) {
	cfg, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load session file %s: %w", path, err)
	}
	if profile == "" {
		profile = ini.DefaultSection
	}
	return &SessionStore{path: path, profile: profile, cfg: cfg}, nil
}

func (s *SessionStore) Profiles(_ context.Context) ([]domain.ConfigProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var profiles []domain.ConfigProfile
	for _, section := range s.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, domain.ConfigProfile{
				Name:   section.Name(),
				APIURL: section.Key(keyAPIURL).String(),
			})
		}
	}
	return profiles, nil
}

func (s *SessionStore) Tokens(_ context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	section, err := s.cfg.GetSection(s.profile)
	if err != nil {
		return domain.Session{}, nil
	}
	return domain.Session{
		AccessToken:  section.Key(keyAccessToken).String(),
		RefreshToken: section.Key(keyRefreshToken).String(),
	}, nil
}

func (s *SessionStore) SetTokens(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	section := s.cfg.Section(s.profile)
	section.Key(keyAccessToken).SetValue(session.AccessToken)
	if session.RefreshToken != "" {
		section.Key(keyRefreshToken).SetValue(session.RefreshToken)
	}
	return s.flush()
}

func (s *SessionStore) ClearTokens(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	section, err := s.cfg.GetSection(s.profile)
	if err != nil {
		return nil
	}
	section.DeleteKey(keyAccessToken)
	section.DeleteKey(keyRefreshToken)
	return s.flush()
}

// SetAPIURL records which backend the profile's tokens belong to.
func (s *SessionStore) SetAPIURL(_ context.Context, apiURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.Section(s.profile).Key(keyAPIURL).SetValue(apiURL)
	return s.flush()
}

func (s *SessionStore) flush() error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil && !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}
	if err := s.cfg.SaveTo(s.path); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return os.Chmod(s.path, 0o600)
}
