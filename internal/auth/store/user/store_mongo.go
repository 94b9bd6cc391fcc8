package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carehub/internal/auth/models"
	id "carehub/pkg/domain"
	"carehub/pkg/platform/sentinel"
)

// UsersCollection holds one document per user. Medications are embedded in
// the same document under "medications".
const UsersCollection = "users"

// userDocument is the stored shape of a user. The password hash is kept under
// "password" to stay compatible with existing documents.
type userDocument struct {
	ID           string    `bson:"_id"`
	FirstName    string    `bson:"firstName"`
	LastName     string    `bson:"lastName"`
	Email        string    `bson:"email"`
	IDNumber     string    `bson:"idNumber"`
	PhoneNumber  string    `bson:"phoneNumber"`
	Address      string    `bson:"address"`
	PasswordHash string    `bson:"password"`
	Medications  bson.A    `bson:"medications"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// MongoStore persists users in a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongo constructs a MongoDB-backed user store over db.
func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(UsersCollection)}
}

// EnsureIndexes creates the unique indexes the store relies on for conflict detection.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_email_key")},
		{Keys: bson.D{{Key: "idNumber", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_id_number_key")},
	})
	if err != nil {
		return oops.In("user_store").With("operation", "ensure_indexes").Wrapf(err, "create user indexes")
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	doc := toUserDocument(user)
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user already exists: %w", sentinel.ErrConflict)
		}
		return oops.In("user_store").With("operation", "create").Wrapf(err, "insert user")
	}
	return nil
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}}, "find_by_email")
}

func (s *MongoStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: userID.String()}}, "find_by_id")
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D, operation string) (*models.User, error) {
	// Medications are never needed to authenticate; keep them off the wire.
	opts := options.FindOne().SetProjection(bson.D{{Key: "medications", Value: 0}})

	var doc userDocument
	if err := s.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
		}
		return nil, oops.In("user_store").With("operation", operation).Wrapf(err, "find user")
	}
	return doc.toModel()
}

func toUserDocument(u *models.User) userDocument {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return userDocument{
		ID:           u.ID.String(),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		IDNumber:     u.IDNumber,
		PhoneNumber:  u.PhoneNumber,
		Address:      u.Address,
		PasswordHash: u.PasswordHash,
		Medications:  bson.A{},
		CreatedAt:    createdAt,
	}
}

func (d userDocument) toModel() (*models.User, error) {
	parsed, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, oops.In("user_store").With("document_id", d.ID).Wrapf(err, "decode user id")
	}
	return &models.User{
		ID:           id.UserID(parsed),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		IDNumber:     d.IDNumber,
		PhoneNumber:  d.PhoneNumber,
		Address:      d.Address,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
	}, nil
}
