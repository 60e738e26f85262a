// internal/app/store/settings/settingsstore_test.go
package settingsstore

import (
	"testing"

	"github.com/eyemusician1/pacsmin/internal/domain/models"
)

// The settings document is a singleton keyed by a fixed string ID, so
// every save and every read hit the same record.
func TestDefaults(t *testing.T) {
	d := defaults()
	if d.ID != settingsDocID {
		t.Errorf("ID = %q, want %q", d.ID, settingsDocID)
	}
	if d.SiteName != models.DefaultSiteName {
		t.Errorf("SiteName = %q, want %q", d.SiteName, models.DefaultSiteName)
	}

	var key string = d.ID // the singleton key is a plain string
	if key == "" {
		t.Error("singleton key must not be empty")
	}
}
