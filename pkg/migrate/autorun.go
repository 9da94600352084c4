package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/polly-storefront/pkg/config"
	"github.com/angelmondragon/polly-storefront/pkg/db"
	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	"github.com/angelmondragon/polly-storefront/pkg/logger"
	"gorm.io/gorm"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled. SQLite connections are migrated from the gorm models.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if !cfg.App.IsDev() && !cfg.FeatureFlags.UseSQLite {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect()})

	if client.Dialect() != "postgres" {
		logg.Info(ctx, "auto-migrating models")
		if err := AutoMigrateModels(ctx, client.DB()); err != nil {
			return err
		}
		logg.Info(ctx, "model migration completed")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running embedded goose migrations")

	if err := Run(ctx, sqlDB, "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}

// AutoMigrateModels creates or updates the storefront tables from the gorm models.
func AutoMigrateModels(ctx context.Context, conn *gorm.DB) error {
	if err := conn.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate models: %w", err)
	}
	return nil
}
