package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/rohits-web03/chatterbox/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GormUserStore struct {
	db *gorm.DB
}

// ConnectDatabase opens PostgreSQL and migrates the users table.
func ConnectDatabase(dsn string) (*GormUserStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}
	return NewGormUserStore(db), nil
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findBy(ctx, "username", username)
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findBy(ctx, "email", email)
}

func (s *GormUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findBy(ctx, "id", id)
}

func (s *GormUserStore) findBy(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(column+" = ?", value).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrUserNotFound
	default:
		return nil, fmt.Errorf("db error: %w", err)
	}
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	return translateGormError(s.db.WithContext(ctx).Create(user).Error)
}

func (s *GormUserStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrUserExists, err)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
