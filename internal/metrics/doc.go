// Package metrics provides real-time metrics collection for the join gateway.
//
// It uses a channel-based event pipeline to asynchronously collect metrics about:
//   - Request counts per route class (join redirect, join page, static)
//   - Response times with percentile calculations (P50, P95, P99)
//   - HTTP status code distribution
//   - Join template availability
//
// The collector runs in a dedicated goroutine and processes events without
// blocking the request path. Events are sent via buffered channels with
// non-blocking semantics so a slow collector never delays a response.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	// Emit events during request handling
//	collector.Emit(metrics.MetricEvent{
//		Type:       metrics.EventResponseCompleted,
//		Route:      metrics.RouteJoinRedirect,
//		Duration:   2 * time.Millisecond,
//		StatusCode: 302,
//	})
//
//	// Get metrics snapshot
//	snapshot := collector.Snapshot("redirect")
package metrics
