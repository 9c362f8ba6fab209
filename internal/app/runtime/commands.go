package runtime

import (
	"context"
	"log/slog"
	"os"
	"time"

	"busfee/internal/pkg/logger"
	"busfee/internal/service/export"
	"busfee/internal/service/rollover"

	"github.com/google/uuid"
)

// RunRollover runs one rollover sweep outside the scheduler.
func (a *App) RunRollover(ctx context.Context) *rollover.RolloverResponse {
	ctx = logger.WithTraceID(ctx, uuid.NewString())
	if a.Cfg.Rollover.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Cfg.Rollover.Timeout)
		defer cancel()
	}
	return a.Services.Rollover.RunMonthlyRollover(ctx, time.Now())
}

// ExportStudents writes the students workbook to outPath when set and, with
// deliver, pushes it to the configured SFTP drop and bucket.
func (a *App) ExportStudents(ctx context.Context, outPath string, deliver bool) (*export.DeliveryResult, error) {
	ctx = logger.WithTraceID(ctx, uuid.NewString())

	if outPath != "" {
		data, err := a.Services.Export.ExportStudents(ctx)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return nil, err
		}
		logger.CtxInfo(ctx, "Students export written", slog.String("path", outPath), slog.Int("size", len(data)))
	}

	if !deliver {
		return nil, nil
	}
	return a.Services.Export.DeliverExport(ctx)
}
