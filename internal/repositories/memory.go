package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/rohits-web03/chatterbox/internal/models"
)

// MemoryUserStore keeps users in process. Uniqueness is enforced under the
// write lock, so concurrent creates behave like a unique index.
type MemoryUserStore struct {
	mu         sync.RWMutex
	byID       map[string]models.User
	byUsername map[string]string
	byEmail    map[string]string
	now        func() time.Time
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:       make(map[string]models.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(s.byUsername[username])
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(s.byEmail[email])
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(id)
}

func (s *MemoryUserStore) lookup(id string) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *MemoryUserStore) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[user.Username]; taken {
		return ErrUserExists
	}
	if _, taken := s.byEmail[user.Email]; taken {
		return ErrUserExists
	}

	user.Prepare(s.now())
	if _, taken := s.byID[user.ID]; taken {
		return ErrUserExists
	}

	s.byID[user.ID] = *user
	s.byUsername[user.Username] = user.ID
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryUserStore) Close(context.Context) error { return nil }
