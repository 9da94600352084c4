package db

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/polly-storefront/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// queryLogger forwards GORM's trace hook to the service logger. Only failed
// and slow statements are reported; record-not-found is an expected outcome
// for lookups and stays quiet.
type queryLogger struct {
	logg *logger.Logger
	slow time.Duration
}

func newQueryLogger(logg *logger.Logger, slow time.Duration) gormlogger.Interface {
	if logg == nil {
		return gormlogger.Discard
	}
	return &queryLogger{logg: logg, slow: slow}
}

func (q *queryLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface { return q }

func (q *queryLogger) Info(ctx context.Context, msg string, _ ...any) { q.logg.Debug(ctx, msg) }

func (q *queryLogger) Warn(ctx context.Context, msg string, _ ...any) { q.logg.Warn(ctx, msg) }

func (q *queryLogger) Error(ctx context.Context, msg string, _ ...any) {
	q.logg.Error(ctx, msg, nil)
}

func (q *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := q.slow > 0 && elapsed >= q.slow
	if !failed && !slow {
		return
	}

	sql, rows := fc()
	ctx = q.logg.WithFields(ctx, map[string]any{
		"sql":         sql,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})
	if failed {
		// callers map these to typed errors; a conflict is not an outage
		q.logg.Warn(q.logg.WithField(ctx, "error", err.Error()), "db.query_failed")
		return
	}
	q.logg.Warn(ctx, "db.slow_query")
}
