// internal/domain/models/sitesettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultSiteName is used until an admin saves site settings.
const DefaultSiteName = "PACSMIN"

// SiteSettings is a singleton document (one per deployment) holding
// site-wide display values editable from the admin area. The ID is a
// fixed string key, not an ObjectID, so every save targets the same
// document.
type SiteSettings struct {
	ID           string `bson:"_id" json:"id"`
	SiteName     string `bson:"site_name" json:"site_name"`
	ContactEmail string `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	FacebookURL  string `bson:"facebook_url,omitempty" json:"facebook_url,omitempty"`
	InstagramURL string `bson:"instagram_url,omitempty" json:"instagram_url,omitempty"`

	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}
