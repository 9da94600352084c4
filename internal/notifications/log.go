package notifications

import (
	"context"

	"github.com/angelmondragon/polly-storefront/pkg/logger"
)

// LogSink records notifications in the structured log.
type LogSink struct {
	logg *logger.Logger
}

func NewLogSink(logg *logger.Logger) *LogSink {
	return &LogSink{logg: logg}
}

func (s *LogSink) Notify(ctx context.Context, n Notification) {
	if s == nil || s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"notification_title":   n.Title,
		"notification_variant": n.Variant.String(),
	})
	s.logg.Debug(ctx, n.Description)
}
