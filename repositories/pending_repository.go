package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careerlanka/careerlink_backend/config"
	"github.com/careerlanka/careerlink_backend/models"
	"github.com/careerlanka/careerlink_backend/services"
)

// PendingRepository stores PendingVerification records. The collection has a
// unique index on email, which serializes concurrent issue/verify calls for
// one address, and a TTL index on expiresAt for automatic expiry.
type PendingRepository struct {
	collection *mongo.Collection
}

func NewPendingRepository(db *mongo.Client) *PendingRepository {
	return &PendingRepository{
		collection: config.GetCollection(db, "pending_verifications"),
	}
}

// Put upserts on email so a reissue replaces the previous record atomically
func (r *PendingRepository) Put(ctx context.Context, pending *models.PendingVerification) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"email": pending.Email},
		pending,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *PendingRepository) Get(ctx context.Context, email string) (*models.PendingVerification, error) {
	var pending models.PendingVerification
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&pending)
	if err == mongo.ErrNoDocuments {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

func (r *PendingRepository) Delete(ctx context.Context, email string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"email": email})
	return err
}

// IncrementAttempts bumps the failed-attempt counter atomically and returns
// the new count.
func (r *PendingRepository) IncrementAttempts(ctx context.Context, email string) (int, error) {
	var updated models.PendingVerification
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"email": email},
		bson.M{"$inc": bson.M{"attempts": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return 0, services.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return updated.Attempts, nil
}
