// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/eyemusician1/pacsmin/internal/app/system/normalize"
	"github.com/eyemusician1/pacsmin/internal/app/system/paging"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateAccount is returned when a profile already exists for
	// the account. Exactly one profile per account.
	ErrDuplicateAccount = errors.New("a profile for this account already exists")

	errBadRole        = errors.New(`role must be "user"|"admin"`)
	errMissingProfile = errors.New("first name, last name, email, and account id are required")
)

// Store provides access to the users (profile) collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique account_id index that backs the
// one-profile-per-account invariant, plus the list sort index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_users_account"),
		},
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}},
			Options: options.Index().SetName("idx_users_name"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByID loads a profile by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByAccountID loads the single profile linked to an account.
// Returns mongo.ErrNoDocuments when the account has no profile.
func (s *Store) GetByAccountID(ctx context.Context, accountID primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new profile after normalizing and validating fields.
// Role defaults to "user" when empty.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FirstName = normalize.Name(u.FirstName)
	u.LastName = normalize.Name(u.LastName)
	u.Email = normalize.Email(u.Email)
	u.Phone = normalize.Phone(u.Phone)
	u.FullNameCI = text.Fold(u.FullName())

	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if !models.ValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if u.FirstName == "" || u.LastName == "" || u.Email == "" || u.AccountID.IsZero() {
		return models.User{}, errMissingProfile
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateAccount
		}
		return models.User{}, err
	}
	return u, nil
}

// List returns one page of profiles sorted by folded full name, along
// with the total count across all pages.
func (s *Store) List(ctx context.Context, page paging.Page) ([]models.User, int64, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(page.Offset).
		SetLimit(page.Limit)

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateRole persists a new role on the target profile and returns the
// updated document. The caller is responsible for the admin precondition.
func (s *Store) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) (models.User, error) {
	role = normalize.Role(role)
	if !models.ValidRole(role) {
		return models.User{}, errBadRole
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// ProfileUpdate holds the mutable profile fields.
type ProfileUpdate struct {
	FirstName  string
	LastName   string
	Phone      string
	University string
	ImageURL   string
}

// UpdateProfile updates display fields. Role and account linkage are
// untouched; role changes go through UpdateRole only.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	first := normalize.Name(upd.FirstName)
	last := normalize.Name(upd.LastName)
	full := first
	if last != "" {
		if full != "" {
			full += " "
		}
		full += last
	}
	set := bson.M{
		"first_name":   first,
		"last_name":    last,
		"full_name_ci": text.Fold(full),
		"phone":        normalize.Phone(upd.Phone),
		"university":   normalize.Name(upd.University),
		"image_url":    upd.ImageURL,
		"updated_at":   time.Now().UTC(),
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// Delete removes a profile by ID. Returns the number of documents
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the number of profile documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
