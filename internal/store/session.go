// Package store holds the client-side state that mirrors the registry
// server: the session (who is logged in) and the catalog (segments, brands,
// vehicles plus their edit drafts). Stores mutate only through intents;
// remote effects resolve in resolution order, last write wins.
package store

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"vehicleregistry/internal/domain"
)

// Session tracks the authenticated user's profile and owns the token vault
// writes. Login and registration are independent round trips; neither
// implies the other.
type Session struct {
	mu      sync.Mutex
	gateway domain.AccountGateway
	vault   domain.TokenVault
	log     *logrus.Logger
	profile domain.Profile
}

func NewSession(gw domain.AccountGateway, v domain.TokenVault, log *logrus.Logger) *Session {
	return &Session{gateway: gw, vault: v, log: log}
}

// Login exchanges credentials for a token and persists it in the vault.
// On failure the vault is left untouched and an *AuthError is returned.
func (s *Session) Login(ctx context.Context, creds domain.Credentials) error {
	token, err := s.gateway.Login(ctx, creds)
	if err != nil {
		s.log.WithField("username", creds.Username).Warn("login rejected")
		return &AuthError{Err: err}
	}
	if err := s.vault.Set(token); err != nil {
		return &AuthError{Err: err}
	}
	s.log.WithField("username", creds.Username).Debug("login ok")
	return nil
}

// Register creates the account. Callers wanting a session must Login
// afterwards; registration success does not imply login success.
func (s *Session) Register(ctx context.Context, creds domain.Credentials) error {
	if _, err := s.gateway.Register(ctx, creds); err != nil {
		s.log.WithField("username", creds.Username).Warn("registration rejected")
		return &AuthError{Err: err}
	}
	return nil
}

// FetchProfile replaces the stored profile on success. On failure the
// previous profile is kept and a *FetchError is returned.
func (s *Session) FetchProfile(ctx context.Context) (domain.Profile, error) {
	p, err := s.gateway.FetchProfile(ctx)
	if err != nil {
		return domain.Profile{}, &FetchError{Err: err}
	}
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
	return p, nil
}

// Logout clears the vault and resets the profile. No server round trip.
func (s *Session) Logout() error {
	if err := s.vault.Clear(); err != nil {
		return err
	}
	s.mu.Lock()
	s.profile = domain.Profile{}
	s.mu.Unlock()
	return nil
}

func (s *Session) Profile() domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}
