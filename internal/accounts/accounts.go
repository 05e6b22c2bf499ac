// Package accounts implements username/password accounts on top of a
// whole-list backend: every mutation loads all records, changes them in
// memory and saves the full list back.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountNotFound    = errors.New("account not found")
)

// Account is one stored user. ID never changes; Username does on rename.
type Account struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// Store is the capability the HTTP layer and the browser depend on.
type Store interface {
	CreateAccount(ctx context.Context, username, password string) error
	VerifyCredentials(ctx context.Context, username, password string) (*Account, error)
	RenameAccount(ctx context.Context, oldUsername, newUsername string) error
	Lookup(ctx context.Context, username string) (*Account, error)
	Get(ctx context.Context, id string) (*Account, error)
}

// Backend persists the complete account list.
type Backend interface {
	Load(ctx context.Context) ([]Account, error)
	Save(ctx context.Context, accounts []Account) error
}

type Service struct {
	backend Backend
	cost    int
	mu      sync.Mutex
}

type Option func(*Service)

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(backend Backend, opts ...Option) *Service {
	s := &Service{backend: backend, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateAccount(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: all fields required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	if indexOf(list, username) >= 0 {
		return ErrDuplicateUsername
	}

	list = append(list, Account{ID: uuid.NewString(), Username: username, PasswordHash: string(hash)})
	if err := s.backend.Save(ctx, list); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

func (s *Service) VerifyCredentials(ctx context.Context, username, password string) (*Account, error) {
	acc, err := s.Lookup(ctx, username)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return acc, nil
}

func (s *Service) RenameAccount(ctx context.Context, oldUsername, newUsername string) error {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	if indexOf(list, newUsername) >= 0 {
		return ErrDuplicateUsername
	}
	i := indexOf(list, oldUsername)
	if i < 0 {
		return ErrAccountNotFound
	}

	list[i].Username = newUsername
	if err := s.backend.Save(ctx, list); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

func (s *Service) Lookup(ctx context.Context, username string) (*Account, error) {
	username = strings.TrimSpace(username)
	return s.find(ctx, func(a Account) bool { return a.Username == username })
}

// Get returns the account with the given ID, whatever its current username.
func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	if id == "" {
		return nil, ErrAccountNotFound
	}
	return s.find(ctx, func(a Account) bool { return a.ID == id })
}

func (s *Service) find(ctx context.Context, match func(Account) bool) (*Account, error) {
	s.mu.Lock()
	list, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, a := range list {
		if match(a) {
			return &a, nil
		}
	}
	return nil, ErrAccountNotFound
}

// load reads the list and gives IDs to records written before accounts had
// them. Callers hold s.mu.
func (s *Service) load(ctx context.Context) ([]Account, error) {
	list, err := s.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	missing := false
	for i := range list {
		if list[i].ID == "" {
			list[i].ID = uuid.NewString()
			missing = true
		}
	}
	if missing {
		if err := s.backend.Save(ctx, list); err != nil {
			return nil, fmt.Errorf("save accounts: %w", err)
		}
	}
	return list, nil
}

func indexOf(list []Account, username string) int {
	for i := range list {
		if list[i].Username == username {
			return i
		}
	}
	return -1
}
