package services

import (
	"context"

	"sortd/internal/domain/models"
)

// AnalyticsService derives health and throughput statistics from a log
// snapshot. Nothing is persisted; every call recomputes from the log.
type AnalyticsService interface {
	// Report computes status counts, the throughput histogram and per-rule
	// health in one pass over the log
	Report(ctx context.Context) (*models.ActivityReport, error)
}
