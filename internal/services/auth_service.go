package services

import (
	"context"
	"errors"
	"sync"

	"velora/internal/domain"
	applog "velora/internal/log"
	"velora/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

// AuthRemote is the slice of the commerce API the auth flow needs.
type AuthRemote interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// AuthService holds the device session: the bearer token and the signed-in
// user. It is the Session implementation every other service consults and
// the TokenSource the API client reads.
type AuthService struct {
	Remote   AuthRemote
	Sessions *repos.SessionRepo

	mu    sync.RWMutex
	token string
	user  *domain.User
}

// Resume restores a persisted session so the companion stays signed in
// across restarts. Missing state is not an error.
func (s *AuthService) Resume() {
	if s.Sessions == nil {
		return
	}
	tok, err := s.Sessions.Token()
	if err != nil {
		applog.Error(nil, "auth.resume.fail", err, nil)
		return
	}
	u, err := s.Sessions.User()
	if err != nil {
		applog.Error(nil, "auth.resume.fail", err, nil)
		return
	}
	s.mu.Lock()
	s.token, s.user = tok, u
	s.mu.Unlock()
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	tok, u, err := s.Remote.Login(ctx, email, password)
	if err != nil {
		return nil, ErrBadCreds
	}
	s.mu.Lock()
	s.token, s.user = tok, u
	s.mu.Unlock()
	if s.Sessions != nil {
		if err := s.Sessions.SaveToken(tok); err != nil {
			applog.Error(nil, "auth.persist.fail", err, nil)
		}
		if u != nil {
			if err := s.Sessions.SaveUser(u); err != nil {
				applog.Error(nil, "auth.persist.fail", err, nil)
			}
		}
	}
	return u, nil
}

// Logout drops the session locally. The token is bearer-style; there is no
// server-side revocation call.
func (s *AuthService) Logout() {
	s.mu.Lock()
	s.token, s.user = "", nil
	s.mu.Unlock()
	if s.Sessions != nil {
		if err := s.Sessions.Clear(); err != nil {
			applog.Error(nil, "auth.persist.fail", err, nil)
		}
	}
}

func (s *AuthService) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token implements the API client's TokenSource.
func (s *AuthService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *AuthService) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
