// internal/app/store/storeitems/itemstore.go
package itemstore

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

var (
	errMissingName  = errors.New("item name is required")
	errInvalidPrice = errors.New("price must be zero or more")
)

// Store provides access to the store_items (merchandise) collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("store_items")}
}

// EnsureIndexes creates the name index used by the storefront listing.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name_ci", Value: 1}},
		Options: options.Index().SetName("idx_items_name"),
	})
	return err
}

func sanitizeItem(it *models.StoreItem) error {
	it.Name = normalize.Name(it.Name)
	it.NameCI = text.Fold(it.Name)
	it.Description = htmlsanitize.Sanitize(it.Description)
	it.PaymentLink = normalize.QueryParam(it.PaymentLink)
	if it.Name == "" {
		return errMissingName
	}
	if it.PriceCents < 0 {
		return errInvalidPrice
	}
	return nil
}

// Create inserts a new merchandise item.
func (s *Store) Create(ctx context.Context, it models.StoreItem) (models.StoreItem, error) {
	if err := sanitizeItem(&it); err != nil {
		return models.StoreItem{}, err
	}
	it.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	it.CreatedAt = now
	it.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, it); err != nil {
		return models.StoreItem{}, err
	}
	return it, nil
}

// Update replaces the mutable fields of an item and returns the
// updated document.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, it models.StoreItem) (models.StoreItem, error) {
	if err := sanitizeItem(&it); err != nil {
		return models.StoreItem{}, err
	}

	set := bson.M{
		"name":         it.Name,
		"name_ci":      it.NameCI,
		"description":  it.Description,
		"price_cents":  it.PriceCents,
		"payment_link": it.PaymentLink,
		"updated_at":   time.Now().UTC(),
	}

	var updated models.StoreItem
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return models.StoreItem{}, err
	}
	return updated, nil
}

// GetByID loads one item.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.StoreItem, error) {
	var it models.StoreItem
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&it); err != nil {
		return nil, err
	}
	return &it, nil
}

// List returns one page of items sorted by folded name, plus the total
// count.
func (s *Store) List(ctx context.Context, page paging.Page) ([]models.StoreItem, int64, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(page.Offset).
		SetLimit(page.Limit)

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var items []models.StoreItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Delete removes an item by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the number of item documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
