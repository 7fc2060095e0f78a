package repositories

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestTranslateMongoError(t *testing.T) {
	assert.NoError(t, translateMongoError(nil))

	dup := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error collection: chat.users index: username_1"}},
	}
	assert.ErrorIs(t, translateMongoError(dup), ErrUserExists)

	other := translateMongoError(errors.New("server selection timeout"))
	assert.NotErrorIs(t, other, ErrUserExists)
	assert.Contains(t, other.Error(), "db error")
}
