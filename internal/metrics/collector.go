package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventRequestReceived   EventType = "request_received"
	EventResponseCompleted EventType = "response_completed"
	EventTemplateChanged   EventType = "template_changed"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Route      Route
	Duration   time.Duration
	StatusCode int
	TemplateOK bool
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

// Emit sends an event without blocking. Events are dropped when the buffer
// is full.
func (c *Collector) Emit(event MetricEvent) {
	if c == nil {
		return
	}

	select {
	case c.eventCh <- event:
	default:
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventRequestReceived:
		c.metrics.IncrementRequests(event.Route)

	case EventResponseCompleted:
		c.metrics.RecordResponse(event.Route, event.Duration, event.StatusCode)

	case EventTemplateChanged:
		c.metrics.UpdateTemplateStatus(event.TemplateOK)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot(mode string) Snapshot {
	return c.metrics.Snapshot(mode)
}
