package templateprobe

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/angeloszaimis/join-gateway/internal/metrics"
)

// Run periodically checks that the join template at path is available and
// reports status changes. The first check happens immediately so the metrics
// snapshot is accurate right after startup. Run blocks until ctx is done.
func Run(
	ctx context.Context,
	path string,
	interval time.Duration,
	collector *metrics.Collector,
	logger *slog.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	available := check(path)
	report(collector, logger, path, available, true)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Template probe stopped",
				slog.String("template", path))
			return

		case <-ticker.C:
			current := check(path)
			if current != available {
				available = current
				report(collector, logger, path, available, false)
			}
		}
	}
}

func check(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

func report(collector *metrics.Collector, logger *slog.Logger, path string, available, initial bool) {
	if available {
		if initial {
			logger.Info("Join template available",
				slog.String("template", path))
		} else {
			logger.Info("Join template is back",
				slog.String("template", path))
		}
	} else {
		logger.Warn("Join template missing",
			slog.String("template", path))
	}

	collector.Emit(metrics.MetricEvent{
		Type:       metrics.EventTemplateChanged,
		Timestamp:  time.Now(),
		TemplateOK: available,
	})
}
