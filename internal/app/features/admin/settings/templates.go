// internal/app/features/admin/settings/templates.go
package settings

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "admin_settings",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
