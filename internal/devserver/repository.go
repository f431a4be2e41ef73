// Package devserver implements a local stand-in for the portal backend's
// auth endpoints, for development and end-to-end testing of the client. It
// keeps accounts in memory and mimics the production API's JSON contract,
// including the French validation messages.
package devserver

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cdcsn/portal/internal/portal/models"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// Account is a stored portal account.
type Account struct {
	ID               string
	LastName         string
	FirstName        string
	Email            string
	Phone            string
	PasswordHash     []byte
	AccountType      string
	OrganizationName string
	OrganizationType string
	EmailVerified    bool
	PhoneVerified    bool
	CreatedAt        time.Time
}

// User converts the account to its wire representation.
func (a *Account) User() *models.User {
	return &models.User{
		ID:            a.ID,
		LastName:      a.LastName,
		FirstName:     a.FirstName,
		Email:         a.Email,
		Phone:         a.Phone,
		EmailVerified: a.EmailVerified,
		PhoneVerified: a.PhoneVerified,
		AccountType:   a.AccountType,
	}
}

// Repository stores accounts.
type Repository interface {
	Create(ctx context.Context, acc Account) error
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByPhone(ctx context.Context, phone string) (Account, error)
	MarkPhoneVerified(ctx context.Context, id string) error
}

// MemoryRepository is the in-memory Repository used by the dev server.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[string]Account)}
}

func (r *MemoryRepository) Create(ctx context.Context, acc Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == acc.Email || existing.Phone == acc.Phone {
			return ErrAccountExists
		}
	}
	r.accounts[acc.ID] = acc
	return nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acc := range r.accounts {
		if acc.Email == email {
			return acc, nil
		}
	}
	return Account{}, ErrAccountNotFound
}

func (r *MemoryRepository) FindByPhone(ctx context.Context, phone string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acc := range r.accounts {
		if acc.Phone == phone {
			return acc, nil
		}
	}
	return Account{}, ErrAccountNotFound
}

func (r *MemoryRepository) MarkPhoneVerified(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	acc.PhoneVerified = true
	r.accounts[id] = acc
	return nil
}
