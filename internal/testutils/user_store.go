package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/storybridge/storybridge-api/internal/domain"
	"github.com/storybridge/storybridge-api/internal/store"
)

// FakeUserStore is an in-memory store.UserStore. It mirrors the
// postgres implementation's behavior of hashing the plaintext password
// on Create, using a cheap reversible scheme instead of bcrypt.
type FakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

var _ store.UserStore = (*FakeUserStore)(nil)

// NewFakeUserStore creates an empty fake user store.
func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{users: make(map[uuid.UUID]domain.User)}
}

// FakeHashPassword produces the fake hash FakeUserStore stores.
// FakePasswordVerifier accepts exactly this form.
func FakeHashPassword(password string) string {
	return "fakehash:" + password
}

func (s *FakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	user.HashedPassword = FakeHashPassword(user.Password)
	user.Password = ""
	s.users[user.ID] = *user
	return nil
}

func (s *FakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

func (s *FakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *FakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// FakePasswordVerifier accepts passwords hashed by FakeHashPassword.
type FakePasswordVerifier struct{}

func (FakePasswordVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != FakeHashPassword(password) {
		return fmt.Errorf("password mismatch")
	}
	return nil
}
