// internal/app/features/admin/events/templates.go
package events

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "admin_events",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
