package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	userstore "carehub/internal/auth/store/user"
	"carehub/internal/medication/models"
	id "carehub/pkg/domain"
	"carehub/pkg/platform/sentinel"
)

// medicationDocument is one element of a user document's "medications" array.
type medicationDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"medicationName"`
	Dosage    string    `bson:"dosage"`
	Frequency string    `bson:"frequency"`
	Reminders []string  `bson:"reminders"`
	CreatedAt time.Time `bson:"createdAt"`
}

type medicationsProjection struct {
	Medications []medicationDocument `bson:"medications"`
}

// MongoStore keeps medications embedded in their owner's user document.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongo constructs a MongoDB-backed medication store over db.
func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(userstore.UsersCollection)}
}

func (s *MongoStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Medication, error) {
	opts := options.FindOne().SetProjection(bson.D{{Key: "medications", Value: 1}})

	var doc medicationsProjection
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: userID.String()}}, opts).Decode(&doc)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, oops.In("medication_store").With("operation", "list").With("user_id", userID.String()).Wrapf(err, "list medications")
	}

	meds := make([]*models.Medication, 0, len(doc.Medications))
	for _, d := range doc.Medications {
		med, err := d.toModel(userID)
		if err != nil {
			return nil, err
		}
		meds = append(meds, med)
	}
	slices.SortStableFunc(meds, func(a, b *models.Medication) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return meds, nil
}

func (s *MongoStore) Create(ctx context.Context, med *models.Medication) error {
	if med == nil {
		return fmt.Errorf("medication is required")
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: med.UserID.String()}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "medications", Value: toMedicationDocument(med)}}}},
	)
	if err != nil {
		return oops.In("medication_store").With("operation", "create").Wrapf(err, "push medication")
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("owner not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

// Update sets the editable fields of the matching array element through the
// positional operator and returns the element as stored afterwards.
func (s *MongoStore) Update(ctx context.Context, med *models.Medication) (*models.Medication, error) {
	if med == nil {
		return nil, fmt.Errorf("medication is required")
	}
	filter := bson.D{
		{Key: "_id", Value: med.UserID.String()},
		{Key: "medications._id", Value: med.ID.String()},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "medications.$.medicationName", Value: med.Name},
		{Key: "medications.$.dosage", Value: med.Dosage},
		{Key: "medications.$.frequency", Value: med.Frequency},
		{Key: "medications.$.reminders", Value: reminders(med.Reminders)},
	}}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "medications", Value: bson.D{
			{Key: "$elemMatch", Value: bson.D{{Key: "_id", Value: med.ID.String()}}},
		}}})

	var doc medicationsProjection
	if err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("medication not found: %w", sentinel.ErrNotFound)
		}
		return nil, oops.In("medication_store").With("operation", "update").With("medication_id", med.ID.String()).Wrapf(err, "update medication")
	}
	if len(doc.Medications) == 0 {
		return nil, fmt.Errorf("medication not found: %w", sentinel.ErrNotFound)
	}
	return doc.Medications[0].toModel(med.UserID)
}

func (s *MongoStore) Delete(ctx context.Context, userID id.UserID, medID id.MedicationID) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.D{
			{Key: "_id", Value: userID.String()},
			{Key: "medications._id", Value: medID.String()},
		},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "medications", Value: bson.D{{Key: "_id", Value: medID.String()}}}}}},
	)
	if err != nil {
		return oops.In("medication_store").With("operation", "delete").With("medication_id", medID.String()).Wrapf(err, "pull medication")
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("medication not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func toMedicationDocument(m *models.Medication) medicationDocument {
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return medicationDocument{
		ID:        m.ID.String(),
		Name:      m.Name,
		Dosage:    m.Dosage,
		Frequency: m.Frequency,
		Reminders: reminders(m.Reminders),
		CreatedAt: createdAt,
	}
}

func (d medicationDocument) toModel(userID id.UserID) (*models.Medication, error) {
	parsed, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, oops.In("medication_store").With("document_id", d.ID).Wrapf(err, "decode medication id")
	}
	return &models.Medication{
		ID:        id.MedicationID(parsed),
		UserID:    userID,
		Name:      d.Name,
		Dosage:    d.Dosage,
		Frequency: d.Frequency,
		Reminders: reminders(d.Reminders),
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}
