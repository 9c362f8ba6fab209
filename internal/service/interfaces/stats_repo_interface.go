package interfaces

import (
	"context"

	"busfee/internal/pkg/store/models"
)

type StatsRepoInterface interface {
	IncrementTotalCollected(ctx context.Context, amount float64) (*models.Stats, error)
	GetStats(ctx context.Context) (*models.Stats, error)
	ResetTotalCollected(ctx context.Context) error
}
