package metrics_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/join-gateway/internal/metrics"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		log       *slog.Logger
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelError, // Suppress logs in tests
		}))
		ctx, cancel = context.WithCancel(context.Background())
		collector = metrics.NewCollector(100, log)
	})

	AfterEach(func() {
		cancel()
		time.Sleep(10 * time.Millisecond) // Allow goroutine to finish
	})

	Describe("NewCollector", func() {
		It("should create a collector with specified buffer size", func() {
			c := metrics.NewCollector(500, log)
			Expect(c).NotTo(BeNil())
		})
	})

	Describe("Start and event processing", func() {
		It("should process EventRequestReceived", func() {
			collector.Start(ctx)

			collector.Emit(metrics.MetricEvent{
				Type:      metrics.EventRequestReceived,
				Timestamp: time.Now(),
				Route:     metrics.RouteJoinRedirect,
			})

			Eventually(func() int64 {
				return collector.Snapshot("redirect").Routes[metrics.RouteJoinRedirect].Requests
			}).Should(Equal(int64(1)))
		})

		It("should process EventResponseCompleted", func() {
			collector.Start(ctx)

			collector.Emit(metrics.MetricEvent{
				Type:       metrics.EventResponseCompleted,
				Timestamp:  time.Now(),
				Route:      metrics.RouteStatic,
				Duration:   5 * time.Millisecond,
				StatusCode: 200,
			})

			Eventually(func() int64 {
				return collector.Snapshot("redirect").Routes[metrics.RouteStatic].StatusCodes[200]
			}).Should(Equal(int64(1)))
		})

		It("should process EventTemplateChanged", func() {
			collector.Start(ctx)

			collector.Emit(metrics.MetricEvent{
				Type:       metrics.EventTemplateChanged,
				Timestamp:  time.Now(),
				TemplateOK: false,
			})

			Eventually(func() *bool {
				return collector.Snapshot("serve").TemplateAvailable
			}).Should(HaveValue(BeFalse()))
		})

		It("should drain pending events on shutdown", func() {
			collector.Start(ctx)

			for i := 0; i < 10; i++ {
				collector.Emit(metrics.MetricEvent{
					Type:  metrics.EventRequestReceived,
					Route: metrics.RouteStatic,
				})
			}
			cancel()

			Eventually(func() int64 {
				return collector.Snapshot("redirect").Routes[metrics.RouteStatic].Requests
			}).Should(Equal(int64(10)))
		})
	})

	Describe("Emit", func() {
		It("should not block when the buffer is full", func() {
			// Collector not started: events pile up in the buffer and
			// the rest must be dropped, not block.
			small := metrics.NewCollector(1, log)
			done := make(chan struct{})

			go func() {
				for i := 0; i < 10; i++ {
					small.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived, Route: metrics.RouteStatic})
				}
				close(done)
			}()

			Eventually(done).Should(BeClosed())
		})

		It("should be safe on a nil collector", func() {
			var c *metrics.Collector
			Expect(func() {
				c.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived})
			}).NotTo(Panic())
		})
	})

	Describe("Handler", func() {
		It("should serve a JSON snapshot", func() {
			collector.Start(ctx)

			collector.Emit(metrics.MetricEvent{
				Type:  metrics.EventRequestReceived,
				Route: metrics.RouteJoinRedirect,
			})

			Eventually(func() int64 {
				return collector.Snapshot("redirect").TotalRequests
			}).Should(Equal(int64(1)))

			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			rec := httptest.NewRecorder()
			collector.Handler("redirect").ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))

			var snap metrics.Snapshot
			Expect(json.Unmarshal(rec.Body.Bytes(), &snap)).To(Succeed())
			Expect(snap.Mode).To(Equal("redirect"))
			Expect(snap.TotalRequests).To(Equal(int64(1)))
		})

		It("should serve snapshots while events stream in", func() {
			collector.Start(ctx)

			done := make(chan struct{})
			go func() {
				defer close(done)
				for i := 0; i < 1000; i++ {
					collector.Emit(metrics.MetricEvent{
						Type:       metrics.EventResponseCompleted,
						Route:      metrics.RouteStatic,
						Duration:   time.Millisecond,
						StatusCode: 200 + i%3,
					})
				}
			}()

			for i := 0; i < 100; i++ {
				req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
				rec := httptest.NewRecorder()
				collector.Handler("redirect").ServeHTTP(rec, req)
				Expect(rec.Code).To(Equal(http.StatusOK))
			}

			Eventually(done).Should(BeClosed())
		})
	})
})
