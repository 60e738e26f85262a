// internal/app/features/admin/storeitems/templates.go
package storeitems

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "admin_store",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
