// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/eyemusician1/pacsmin/internal/app/resources"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	return seedInitialAdmin(ctx, appCfg, deps.MongoDatabase, logger)
}
