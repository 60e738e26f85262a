// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/eyemusician1/pacsmin/internal/app/system/htmlsanitize"
	"github.com/eyemusician1/pacsmin/internal/app/system/normalize"
	"github.com/eyemusician1/pacsmin/internal/app/system/paging"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errMissingTitle = errors.New("event title is required")

// Store provides access to the events collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// EnsureIndexes creates the date index used by the public listing.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetName("idx_events_date"),
	})
	return err
}

func sanitizeEvent(e *models.Event) error {
	e.Title = normalize.Name(e.Title)
	e.TitleCI = text.Fold(e.Title)
	e.Description = htmlsanitize.Sanitize(e.Description)
	e.Location = normalize.Name(e.Location)
	if e.Title == "" {
		return errMissingTitle
	}
	return nil
}

// Create inserts a new event.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	if err := sanitizeEvent(&e); err != nil {
		return models.Event{}, err
	}
	e.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Update replaces the mutable fields of an event and returns the
// updated document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, e models.Event) (models.Event, error) {
	if err := sanitizeEvent(&e); err != nil {
		return models.Event{}, err
	}

	set := bson.M{
		"title":       e.Title,
		"title_ci":    e.TitleCI,
		"description": e.Description,
		"date":        e.Date,
		"location":    e.Location,
		"attendees":   e.Attendees,
		"updated_at":  time.Now().UTC(),
	}

	var updated models.Event
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return models.Event{}, err
	}
	return updated, nil
}

// GetByID loads one event.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns one page of events sorted by date ascending, plus the
// total count.
func (s *Store) List(ctx context.Context, page paging.Page) ([]models.Event, int64, error) {
	return s.list(ctx, bson.M{}, page)
}

// ListUpcoming returns events dated now or later, soonest first.
func (s *Store) ListUpcoming(ctx context.Context, page paging.Page) ([]models.Event, int64, error) {
	filter := bson.M{"date": bson.M{"$gte": time.Now().UTC()}}
	return s.list(ctx, filter, page)
}

func (s *Store) list(ctx context.Context, filter bson.M, page paging.Page) ([]models.Event, int64, error) {
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(page.Offset).
		SetLimit(page.Limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Delete removes an event by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the number of event documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
