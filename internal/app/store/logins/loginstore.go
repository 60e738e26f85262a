// internal/app/store/logins/loginstore.go
package loginstore

import (
	"context"
	"time"

	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store appends sign-in history records. History is append-only; there
// is no update path.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("login_history")}
}

// EnsureIndexes creates the account+time index used for recent-activity
// queries.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "at", Value: -1}},
		Options: options.Index().SetName("idx_logins_account_at"),
	})
	return err
}

// Record appends one sign-in record.
func (s *Store) Record(ctx context.Context, rec models.LoginRecord) error {
	rec.ID = primitive.NewObjectID()
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// Recent returns the latest sign-ins across all accounts, newest first.
func (s *Store) Recent(ctx context.Context, limit int64) ([]models.LoginRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.LoginRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// CountSince returns the number of sign-ins at or after the given time.
func (s *Store) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"at": bson.M{"$gte": since}})
}
