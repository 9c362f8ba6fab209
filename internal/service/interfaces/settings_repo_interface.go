package interfaces

import (
	"context"

	"busfee/internal/pkg/store/models"
)

type SettingsRepoInterface interface {
	// GetOrCreateSettings inserts defaults when no settings document exists yet.
	GetOrCreateSettings(ctx context.Context, defaults models.Settings) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) (*models.Settings, error)
}
