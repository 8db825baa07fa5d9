package migrate

import (
	"context"
	"fmt"

	"github.com/avelasquez/stridemart-backend/pkg/config"
	"github.com/avelasquez/stridemart-backend/pkg/db"
	"github.com/avelasquez/stridemart-backend/pkg/logger"
)

// MaybeRunDev brings the schema up to date on boot. Production deploys run
// migrations explicitly; this fires only in dev with the auto-migrate flag on.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("unwrapping sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "applying pending migrations")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return err
	}

	logg.Info(ctx, "schema up to date")
	return nil
}
