package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rohits-web03/chatterbox/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists reports a unique-index violation on username or email.
	ErrUserExists = errors.New("user already exists")
)

// UserStore persists users. Find methods return ErrUserNotFound when no
// record matches; Create assigns the id and timestamps.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Close(ctx context.Context) error
}

// OpenUserStore picks the backend from the URL scheme: mongodb and
// mongodb+srv open MongoDB, postgres and postgresql open PostgreSQL through
// gorm, memory keeps everything in process.
func OpenUserStore(ctx context.Context, dbURL, mongoDatabase string) (UserStore, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		return NewMongoUserStore(ctx, dbURL, mongoDatabase)
	case "postgres", "postgresql":
		return ConnectDatabase(dbURL)
	case "memory":
		return NewMemoryUserStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
}
