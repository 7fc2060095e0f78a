package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rohits-web03/chatterbox/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const usersCollection = "users"

type MongoUserStore struct {
	client *mongo.Client
	users  *mongo.Collection
}

// NewMongoUserStore connects, pings the primary and ensures the unique
// indexes on username and email exist.
func NewMongoUserStore(ctx context.Context, uri, database string) (*MongoUserStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	users := client.Database(database).Collection(usersCollection)
	_, err = users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create user indexes: %w", err)
	}

	return &MongoUserStore{client: client, users: users}, nil
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, filter).Decode(&user)
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, ErrUserNotFound
	default:
		return nil, fmt.Errorf("db error: %w", err)
	}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	user.Prepare(time.Now().UTC())
	_, err := s.users.InsertOne(ctx, user)
	return translateMongoError(err)
}

func (s *MongoUserStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrUserExists, err)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
