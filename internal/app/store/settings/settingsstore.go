// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"time"

	"github.com/eyemusician1/pacsmin/internal/app/system/normalize"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The site settings collection holds a single document keyed by a fixed
// ID so concurrent saves upsert the same record.
const settingsDocID = "site"

// Store provides access to the site settings singleton.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("site_settings")}
}

// defaults is what Get returns before an admin has saved anything.
func defaults() models.SiteSettings {
	return models.SiteSettings{ID: settingsDocID, SiteName: models.DefaultSiteName}
}

// Get returns the current site settings. When no document exists yet,
// defaults are returned without error.
func (s *Store) Get(ctx context.Context) (models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.c.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return defaults(), nil
	}
	if err != nil {
		return models.SiteSettings{}, err
	}
	if settings.SiteName == "" {
		settings.SiteName = models.DefaultSiteName
	}
	return settings, nil
}

// Save upserts the settings document and stamps who changed it.
func (s *Store) Save(ctx context.Context, settings models.SiteSettings) error {
	now := time.Now().UTC()
	settings.ID = settingsDocID
	settings.SiteName = normalize.Name(settings.SiteName)
	settings.ContactEmail = normalize.Email(settings.ContactEmail)
	settings.UpdatedAt = &now

	_, err := s.c.ReplaceOne(ctx,
		bson.M{"_id": settingsDocID},
		settings,
		options.Replace().SetUpsert(true),
	)
	return err
}
