// Package services contains the application services of the portal client.
// This file defines the session store: a state machine over the current
// authenticated identity, driving the login, phone-verification, registration
// and logout flows against the remote API.
package services

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/cdcsn/portal/internal/common"
	"github.com/cdcsn/portal/internal/logging"
	"github.com/cdcsn/portal/internal/portal/api"
	"github.com/cdcsn/portal/internal/portal/models"
	sessionrepo "github.com/cdcsn/portal/internal/portal/repositories/session"
)

// Operation kinds for the in-flight guard. A second call of the same kind
// while one is pending fails with common.ErrOperationInProgress; calls of
// different kinds may interleave, last write wins.
const (
	opLogin    = "login"
	opVerify   = "verify"
	opRegister = "register"
	opLogout   = "logout"
)

// Requester is the transport surface the session store needs; *api.Client
// satisfies it.
type Requester interface {
	Request(ctx context.Context, path string, opts api.Options, out any) error
}

// SessionStore owns the Session record. Every operation follows the same
// rule: loading is set and the last error cleared on entry; on success the
// relevant fields are updated; on failure the resolved message is stored on
// the session and the error is returned to the caller. The store is safe for
// concurrent use; readers only ever see snapshots.
type SessionStore struct {
	api    Requester
	repo   sessionrepo.Repository
	logger logging.Logger
	device string

	mu       sync.Mutex
	current  models.Session
	pending  models.LoginCredentials
	inflight map[string]bool
}

// NewSessionStore builds a store bound to the given transport and
// persistence. deviceName is sent with every credential exchange so the
// backend can label issued tokens.
func NewSessionStore(apiClient Requester, repo sessionrepo.Repository, logger logging.Logger, deviceName string) *SessionStore {
	return &SessionStore{
		api:      apiClient,
		repo:     repo,
		logger:   logger,
		device:   deviceName,
		inflight: make(map[string]bool),
	}
}

// Restore loads the persisted session record, if any. Call once at startup,
// before the first operation. A record violating the token/user invariant is
// discarded rather than half-applied.
func (s *SessionStore) Restore(ctx context.Context) error {
	rec, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.Token != "" && rec.User != nil {
		s.current.Token = rec.Token
		s.current.User = rec.User
		s.current.IsAuthenticated = true
	}
	return nil
}

// Session returns a snapshot of the current state.
func (s *SessionStore) Session() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.current
	snap.User = s.current.User.Clone()
	return snap
}

// HasPendingVerification reports whether a login is waiting for an OTP.
func (s *SessionStore) HasPendingVerification() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.pending.IsZero()
}

// ClearPending drops the remembered credentials of a verification that is no
// longer wanted, e.g. when the user switches between email and phone login.
func (s *SessionStore) ClearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = models.LoginCredentials{}
}

// ClearError resets the last error without touching the rest of the state.
func (s *SessionStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.LastError = ""
}

// Login exchanges credentials for a token. Two success shapes exist: a fully
// authenticated response (token and user present) updates the session, while
// a requires_phone_verification response leaves the session unauthenticated,
// remembers the credentials for the OTP step, and is returned unchanged so
// the caller can transition to code entry.
func (s *SessionStore) Login(ctx context.Context, creds models.LoginCredentials) (*models.AuthResponse, error) {
	if creds.IsZero() {
		return nil, common.ErrMissingIdentifier
	}
	if err := s.begin(opLogin); err != nil {
		return nil, err
	}

	var resp models.AuthResponse
	err := s.api.Request(ctx, "/auth/login", api.Options{
		Method: http.MethodPost,
		Body:   s.loginBody(creds),
	}, &resp)
	if err != nil {
		s.finish(opLogin, err)
		return nil, err
	}

	s.mu.Lock()
	if resp.Authenticated() {
		s.applyAuthLocked(&resp)
	} else if resp.RequiresPhoneVerification {
		s.pending = creds
	}
	s.mu.Unlock()

	if resp.Authenticated() {
		s.persist(ctx)
	}
	s.finish(opLogin, nil)
	return &resp, nil
}

// VerifyPhone submits the OTP for the pending login. A response carrying a
// token and user completes authentication exactly like a direct login; a
// wrong or expired code surfaces as an error with no state change beyond
// LastError.
func (s *SessionStore) VerifyPhone(ctx context.Context, code string) (*models.AuthResponse, error) {
	s.mu.Lock()
	pending := s.pending
	s.mu.Unlock()
	if pending.IsZero() {
		return nil, common.ErrNoPendingVerification
	}

	if err := s.begin(opVerify); err != nil {
		return nil, err
	}

	body := verifyRequest{Code: code, DeviceName: s.device}
	if email, ok := pending.Email(); ok {
		body.Email = email
	}
	if phone, ok := pending.Phone(); ok {
		body.Telephone = phone
	}

	var resp models.AuthResponse
	err := s.api.Request(ctx, "/auth/phone/verify", api.Options{
		Method: http.MethodPost,
		Body:   body,
	}, &resp)
	if err != nil {
		s.finish(opVerify, err)
		return nil, err
	}

	if resp.Authenticated() {
		s.mu.Lock()
		s.applyAuthLocked(&resp)
		s.pending = models.LoginCredentials{}
		s.mu.Unlock()
		s.persist(ctx)
	}
	s.finish(opVerify, nil)
	return &resp, nil
}

// ResendCode re-invokes login with the remembered pending credentials. There
// is no dedicated resend endpoint; the backend issues a fresh code for every
// login attempt against an unverified phone.
func (s *SessionStore) ResendCode(ctx context.Context) (*models.AuthResponse, error) {
	s.mu.Lock()
	pending := s.pending
	s.mu.Unlock()
	if pending.IsZero() {
		return nil, common.ErrNoPendingVerification
	}
	return s.Login(ctx, pending)
}

// Register creates a new portal account. It never authenticates the caller;
// the response says which verifications are still outstanding. Field
// validation is authoritative on the API side and surfaces here as a regular
// request error.
func (s *SessionStore) Register(ctx context.Context, reg models.Registration) (*models.RegisterResponse, error) {
	if err := s.begin(opRegister); err != nil {
		return nil, err
	}

	var resp models.RegisterResponse
	err := s.api.Request(ctx, "/auth/register", api.Options{
		Method: http.MethodPost,
		Body:   reg,
	}, &resp)
	s.finish(opRegister, err)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the current token on the backend on a best-effort basis and
// unconditionally clears the local session. Network failures are logged and
// swallowed; local sign-out must succeed regardless.
func (s *SessionStore) Logout(ctx context.Context) error {
	if err := s.begin(opLogout); err != nil {
		return err
	}

	s.mu.Lock()
	token := s.current.Token
	s.mu.Unlock()

	if token != "" {
		err := s.api.Request(ctx, "/auth/logout", api.Options{
			Method: http.MethodPost,
			Token:  token,
		}, nil)
		if err != nil {
			s.logger.Warn(ctx, "logout request failed, clearing session anyway", "error", err)
		}
	}

	s.mu.Lock()
	s.current.Token = ""
	s.current.User = nil
	s.current.IsAuthenticated = false
	s.pending = models.LoginCredentials{}
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Warn(ctx, "failed to clear persisted session", "error", err)
	}
	s.finish(opLogout, nil)
	return nil
}

// applyAuthLocked stores an authenticated response. Caller holds s.mu.
func (s *SessionStore) applyAuthLocked(resp *models.AuthResponse) {
	s.current.Token = resp.Token
	s.current.User = resp.User
	s.current.IsAuthenticated = true
	s.pending = models.LoginCredentials{}
}

// persist writes the durable subset of the session. Failures are logged and
// never surfaced; the in-memory session stays authoritative for the process.
func (s *SessionStore) persist(ctx context.Context) {
	s.mu.Lock()
	rec := sessionrepo.Record{
		Token:           s.current.Token,
		User:            s.current.User,
		IsAuthenticated: s.current.IsAuthenticated,
	}
	s.mu.Unlock()

	if err := s.repo.Save(ctx, rec); err != nil {
		s.logger.Warn(ctx, "failed to persist session", "error", err)
	}
}

func (s *SessionStore) begin(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[op] {
		return common.ErrOperationInProgress
	}
	s.inflight[op] = true
	s.current.Loading = true
	s.current.LastError = ""
	return nil
}

func (s *SessionStore) finish(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, op)
	s.current.Loading = len(s.inflight) > 0
	if err != nil {
		s.current.LastError = resolveMessage(err)
	}
}

// resolveMessage picks the human-readable message for LastError: the API
// error's message when present, the plain error text otherwise.
func resolveMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

type loginRequest struct {
	Email      string `json:"email,omitempty"`
	Telephone  string `json:"telephone,omitempty"`
	Password   string `json:"password"`
	DeviceName string `json:"device_name"`
}

type verifyRequest struct {
	Code       string `json:"code"`
	DeviceName string `json:"device_name"`
	Email      string `json:"email,omitempty"`
	Telephone  string `json:"telephone,omitempty"`
}

func (s *SessionStore) loginBody(creds models.LoginCredentials) loginRequest {
	body := loginRequest{Password: creds.Password(), DeviceName: s.device}
	if email, ok := creds.Email(); ok {
		body.Email = email
	}
	if phone, ok := creds.Phone(); ok {
		body.Telephone = phone
	}
	return body
}
