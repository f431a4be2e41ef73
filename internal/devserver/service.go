package devserver

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cdcsn/portal/internal/logging"
	"github.com/cdcsn/portal/internal/portal/models"
)

const envProduction = "production"

// RequestError is a failure the handler maps to a non-success HTTP response
// with a {message} body.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func badRequest(status int, message string) *RequestError {
	return &RequestError{Status: status, Message: message}
}

// Service implements the auth flows over a Repository.
type Service struct {
	repo     Repository
	logger   logging.Logger
	secret   []byte
	env      string
	otpTTL   time.Duration
	tokenTTL time.Duration

	mu   sync.Mutex
	otps map[string]otpEntry // account ID -> pending code
}

type otpEntry struct {
	code    string
	expires time.Time
}

func NewService(repo Repository, logger logging.Logger, cfg Config) *Service {
	return &Service{
		repo:     repo,
		logger:   logger,
		secret:   []byte(cfg.TokenSecret),
		env:      cfg.Env,
		otpTTL:   cfg.OTPTTL,
		tokenTTL: cfg.TokenTTL,
		otps:     make(map[string]otpEntry),
	}
}

// LoginInput mirrors the POST /auth/login body.
type LoginInput struct {
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	Password   string `json:"password"`
	DeviceName string `json:"device_name"`
}

// Login checks the credentials. An account with an unverified phone gets a
// fresh one-time code instead of a token; every login attempt against such an
// account issues a new code, which is also how the client resends one.
func (s *Service) Login(ctx context.Context, in LoginInput) (*models.AuthResponse, error) {
	acc, err := s.findAccount(ctx, in.Email, in.Telephone)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(in.Password)) != nil {
		return nil, badRequest(http.StatusUnauthorized, "Identifiants invalides")
	}

	if !acc.PhoneVerified {
		code, err := s.issueOTP(acc.ID)
		if err != nil {
			return nil, err
		}
		s.logger.Info(ctx, "otp issued", "account", acc.ID, "device", in.DeviceName)

		resp := &models.AuthResponse{
			RequiresPhoneVerification: true,
			Message:                   "Un code de vérification a été envoyé sur votre téléphone.",
		}
		if s.env != envProduction {
			resp.OTPPreview = code
		}
		return resp, nil
	}

	return s.authenticated(ctx, acc, in.DeviceName)
}

// VerifyInput mirrors the POST /auth/phone/verify body.
type VerifyInput struct {
	Code       string `json:"code"`
	DeviceName string `json:"device_name"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
}

// VerifyPhone redeems a pending one-time code and completes authentication.
func (s *Service) VerifyPhone(ctx context.Context, in VerifyInput) (*models.AuthResponse, error) {
	acc, err := s.findAccount(ctx, in.Email, in.Telephone)
	if err != nil {
		return nil, err
	}

	if !s.redeemOTP(acc.ID, in.Code) {
		return nil, badRequest(http.StatusUnprocessableEntity, "Code invalide")
	}

	if err := s.repo.MarkPhoneVerified(ctx, acc.ID); err != nil {
		return nil, err
	}
	acc.PhoneVerified = true

	return s.authenticated(ctx, acc, in.DeviceName)
}

// Register creates an account. Validation here is authoritative: the client
// forwards the form as-is.
func (s *Service) Register(ctx context.Context, reg models.Registration) (*models.RegisterResponse, error) {
	if reg.LastName == "" || reg.FirstName == "" || reg.Email == "" || reg.Phone == "" || reg.Password == "" {
		return nil, badRequest(http.StatusUnprocessableEntity, "Champs requis manquants")
	}
	if reg.Password != reg.PasswordConfirmation {
		return nil, badRequest(http.StatusUnprocessableEntity, "Les mots de passe ne correspondent pas")
	}

	accountType := reg.AccountType
	if accountType == "" {
		accountType = models.AccountIndividual
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	acc := Account{
		ID:               uuid.New().String(),
		LastName:         reg.LastName,
		FirstName:        reg.FirstName,
		Email:            reg.Email,
		Phone:            reg.Phone,
		PasswordHash:     hash,
		AccountType:      accountType,
		OrganizationName: reg.OrganizationName,
		OrganizationType: reg.OrganizationType,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, acc); err != nil {
		if errors.Is(err, ErrAccountExists) {
			return nil, badRequest(http.StatusUnprocessableEntity, "Un compte existe déjà avec cet email ou ce téléphone")
		}
		return nil, err
	}

	return &models.RegisterResponse{
		Message:                   "Compte créé. Vérifiez votre email et votre téléphone.",
		RequiresEmailVerification: true,
		RequiresPhoneVerification: true,
		User:                      acc.User(),
	}, nil
}

// Logout revokes nothing (tokens are stateless here) but validates the bearer
// so the endpoint behaves like production.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	userID, err := UserIDFromToken(tokenString, s.secret)
	if err != nil {
		return badRequest(http.StatusUnauthorized, "Token invalide")
	}
	s.logger.Info(ctx, "logout", "account", userID)
	return nil
}

func (s *Service) findAccount(ctx context.Context, email, phone string) (Account, error) {
	var (
		acc Account
		err error
	)
	switch {
	case email != "":
		acc, err = s.repo.FindByEmail(ctx, email)
	case phone != "":
		acc, err = s.repo.FindByPhone(ctx, phone)
	default:
		return Account{}, badRequest(http.StatusUnprocessableEntity, "Email ou téléphone requis")
	}
	if errors.Is(err, ErrAccountNotFound) {
		return Account{}, badRequest(http.StatusUnauthorized, "Identifiants invalides")
	}
	return acc, err
}

func (s *Service) authenticated(ctx context.Context, acc Account, device string) (*models.AuthResponse, error) {
	token, err := GenerateToken(acc.ID, device, s.secret, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		User:      acc.User(),
		Message:   "Connexion réussie",
	}, nil
}

func (s *Service) issueOTP(accountID string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	s.otps[accountID] = otpEntry{code: code, expires: time.Now().Add(s.otpTTL)}
	s.mu.Unlock()
	return code, nil
}

func (s *Service) redeemOTP(accountID, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.otps[accountID]
	if !ok || entry.code != code || time.Now().After(entry.expires) {
		return false
	}
	delete(s.otps, accountID)
	return true
}
