// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	accountstore "github.com/eyemusician1/pacsmin/internal/app/store/accounts"
	eventstore "github.com/eyemusician1/pacsmin/internal/app/store/events"
	loginstore "github.com/eyemusician1/pacsmin/internal/app/store/logins"
	itemstore "github.com/eyemusician1/pacsmin/internal/app/store/storeitems"
	userstore "github.com/eyemusician1/pacsmin/internal/app/store/users"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before the app continues booting.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("mongo connect failed", zap.Error(err))
		return DBDeps{}, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("mongo ping failed", zap.Error(err))
		_ = client.Disconnect(ctx)
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes the stores rely on, including the
// unique indexes backing one-profile-per-account and unique emails.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	type indexer interface {
		EnsureIndexes(ctx context.Context) error
	}

	for name, s := range map[string]indexer{
		"accounts":    accountstore.New(db),
		"users":       userstore.New(db),
		"events":      eventstore.New(db),
		"store_items": itemstore.New(db),
		"logins":      loginstore.New(db),
	} {
		if err := s.EnsureIndexes(ctx); err != nil {
			logger.Error("ensure indexes failed", zap.String("collection", name), zap.Error(err))
			return err
		}
	}

	logger.Info("database indexes ensured")
	return nil
}
