// internal/app/store/storeitems/itemstore_test.go
package itemstore

import (
	"errors"
	"testing"

	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

func TestSanitizeItem_Trims(t *testing.T) {
	it := models.StoreItem{
		Name:        "  Org Shirt  ",
		PaymentLink: " https://pay.example.com/shirt ",
		PriceCents:  35000,
	}
	if err := sanitizeItem(&it); err != nil {
		t.Fatalf("sanitizeItem: %v", err)
	}
	if it.Name != "Org Shirt" {
		t.Errorf("name = %q", it.Name)
	}
	if it.NameCI != text.Fold(it.Name) {
		t.Errorf("name_ci = %q, want folded name", it.NameCI)
	}
	if it.PaymentLink != "https://pay.example.com/shirt" {
		t.Errorf("payment link = %q", it.PaymentLink)
	}
}

func TestSanitizeItem_RequiresName(t *testing.T) {
	it := models.StoreItem{Name: " ", PriceCents: 100}
	if err := sanitizeItem(&it); !errors.Is(err, errMissingName) {
		t.Fatalf("err = %v, want errMissingName", err)
	}
}

func TestSanitizeItem_RejectsNegativePrice(t *testing.T) {
	it := models.StoreItem{Name: "Sticker", PriceCents: -1}
	if err := sanitizeItem(&it); !errors.Is(err, errInvalidPrice) {
		t.Fatalf("err = %v, want errInvalidPrice", err)
	}
}

func TestPriceDisplay(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{14950, "149.50"},
		{35000, "350.00"},
	}
	for _, tc := range cases {
		it := models.StoreItem{PriceCents: tc.cents}
		if got := it.PriceDisplay(); got != tc.want {
			t.Errorf("PriceDisplay(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
