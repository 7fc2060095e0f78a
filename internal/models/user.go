package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPictureURL is used when a user signs up without a profile picture.
const DefaultPictureURL = "https://img.icons8.com/?size=100&id=kDoeg22e5jUY&format=png&color=000000"

// User is stored as a gorm row or a mongo document. Password holds the
// bcrypt hash and is never serialised to clients.
type User struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey" bson:"_id"`
	Username   string    `json:"username" gorm:"uniqueIndex;not null" bson:"username"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null" bson:"email"`
	Password   string    `json:"-" gorm:"not null" bson:"password"`
	PictureURL string    `json:"pictureUrl" gorm:"not null" bson:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime" bson:"updatedAt"`
}

// Prepare fills the store-owned fields of a new record.
func (u *User) Prepare(now time.Time) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.PictureURL == "" {
		u.PictureURL = DefaultPictureURL
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = u.CreatedAt
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Prepare(time.Now().UTC())
	return nil
}
