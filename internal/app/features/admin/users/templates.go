// internal/app/features/admin/users/templates.go
package users

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "admin_users",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
