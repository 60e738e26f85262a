// internal/domain/models/storeitem.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoreItem is merchandise sold by the organization. Price is stored in
// centavos to avoid floating-point money. PaymentLink points at the
// external checkout page for the item.
type StoreItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Description string             `bson:"description" json:"description"`
	PriceCents  int64              `bson:"price_cents" json:"price_cents"`
	PaymentLink string             `bson:"payment_link" json:"payment_link"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PriceDisplay formats the price in whole currency units for templates,
// e.g. 14950 -> "149.50".
func (s StoreItem) PriceDisplay() string {
	return fmt.Sprintf("%d.%02d", s.PriceCents/100, s.PriceCents%100)
}
