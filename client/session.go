package client

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Credential is a router session token and the user it was issued to.
type Credential struct {
	Token    string
	Username string
}

// LoginFunc authenticates against the router and returns a fresh credential.
type LoginFunc func(ctx context.Context) (Credential, error)

// Session holds the one process-wide router credential.
//
// Readers see either no credential or a complete one. All logins go through a
// single singleflight key, so concurrent callers that find the slot empty or
// stale share one login and its result.
type Session struct {
	login LoginFunc

	mu   sync.RWMutex
	cred *Credential

	group  singleflight.Group
	logins atomic.Int64
}

// NewSession creates an empty session that authenticates with login.
func NewSession(login LoginFunc) *Session {
	return &Session{login: login}
}

// Current returns the cached credential, if any.
func (s *Session) Current() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return Credential{}, false
	}
	return *s.cred, true
}

// Ensure returns the cached credential, logging in first if there is none.
func (s *Session) Ensure(ctx context.Context) (Credential, error) {
	if cred, ok := s.Current(); ok {
		return cred, nil
	}
	return s.do(ctx, nil)
}

// Refresh replaces stale after the router rejected it. If another caller has
// already replaced it, the newer credential is returned without a login.
func (s *Session) Refresh(ctx context.Context, stale Credential) (Credential, error) {
	return s.do(ctx, &stale)
}

// Logins reports how many login attempts the session has made.
func (s *Session) Logins() int64 {
	return s.logins.Load()
}

// Close drops the cached credential.
func (s *Session) Close() {
	s.mu.Lock()
	s.cred = nil
	s.mu.Unlock()
}

func (s *Session) do(ctx context.Context, stale *Credential) (Credential, error) {
	v, err, _ := s.group.Do("login", func() (any, error) {
		if cur, ok := s.Current(); ok && (stale == nil || cur.Token != stale.Token) {
			return cur, nil
		}

		s.Close()
		s.logins.Add(1)
		// The login is shared by every waiter, so one caller's cancellation
		// must not fail the others.
		cred, err := s.login(context.WithoutCancel(ctx))
		if err != nil {
			return Credential{}, err
		}

		s.mu.Lock()
		s.cred = &cred
		s.mu.Unlock()
		return cred, nil
	})
	if err != nil {
		return Credential{}, err
	}
	return v.(Credential), nil
}
