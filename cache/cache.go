// Package cache keeps a short-lived snapshot of the feedback analytics report.
package cache

import (
	"context"

	"medmind-server/models"
)

// NoVersion is returned by Get when the generation could not be read. Set
// ignores snapshots taken at NoVersion.
const NoVersion int64 = -1

// AnalyticsCache stores the last computed analytics report. Every
// Invalidate bumps a generation; Set only stores a report computed at the
// generation Get returned, so a report that raced a submission is dropped.
// Implementations treat backend failures as misses; callers never see cache
// errors.
type AnalyticsCache interface {
	Get(ctx context.Context) (report *models.FeedbackAnalytics, version int64, ok bool)
	Set(ctx context.Context, report *models.FeedbackAnalytics, version int64)
	Invalidate(ctx context.Context)
	Close() error
}

// Noop is used when no cache backend is configured.
type Noop struct{}

func (Noop) Get(context.Context) (*models.FeedbackAnalytics, int64, bool) {
	return nil, NoVersion, false
}
func (Noop) Set(context.Context, *models.FeedbackAnalytics, int64) {}
func (Noop) Invalidate(context.Context)                            {}
func (Noop) Close() error                                          { return nil }
