package metrics

import (
	"sort"
	"sync"
	"time"
)

// Route classifies how a request was answered.
type Route string

const (
	RouteJoinRedirect Route = "join_redirect"
	RouteJoinPage     Route = "join_page"
	RouteStatic       Route = "static"
)

type Metrics struct {
	mutex         sync.RWMutex
	requests      map[Route]int64
	responseTimes map[Route][]time.Duration
	statusCodes   map[Route]map[int]int64
	templateOK    *bool // nil until the probe reports for the first time
	startTime     time.Time
}

type Snapshot struct {
	TotalRequests int64                  `json:"total_requests"`
	Uptime        time.Duration          `json:"uptime"`
	Routes        map[Route]RouteMetrics `json:"routes"`
	Mode          string                 `json:"mode"`

	// TemplateAvailable is only present in serve mode, where the template
	// probe reports it.
	TemplateAvailable *bool `json:"template_available,omitempty"`
}

type RouteMetrics struct {
	Requests    int64         `json:"requests"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
	StatusCodes map[int]int64 `json:"status_codes"`
}

func (m *Metrics) IncrementRequests(route Route) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests[route]++
}

func (m *Metrics) RecordResponse(route Route, duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.responseTimes[route] = append(m.responseTimes[route], duration)

	if len(m.responseTimes[route]) > 1000 {
		m.responseTimes[route] = m.responseTimes[route][1:]
	}

	if m.statusCodes[route] == nil {
		m.statusCodes[route] = make(map[int]int64)
	}
	m.statusCodes[route][statusCode]++
}

func (m *Metrics) UpdateTemplateStatus(available bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.templateOK = &available
}

func (m *Metrics) Snapshot(mode string) Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime: time.Since(m.startTime),
		Routes: make(map[Route]RouteMetrics),
		Mode:   mode,
	}

	if m.templateOK != nil {
		available := *m.templateOK
		snap.TemplateAvailable = &available
	}

	allRoutes := make(map[Route]bool)
	for route := range m.requests {
		allRoutes[route] = true
	}
	for route := range m.responseTimes {
		allRoutes[route] = true
	}

	for route := range allRoutes {
		snap.TotalRequests += m.requests[route]

		// Copy the status code map; the live one keeps changing after
		// the lock is released.
		var codes map[int]int64
		if src := m.statusCodes[route]; src != nil {
			codes = make(map[int]int64, len(src))
			for status, count := range src {
				codes[status] = count
			}
		}

		rm := RouteMetrics{
			Requests:    m.requests[route],
			StatusCodes: codes,
		}

		durations := m.responseTimes[route]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			rm.AvgResponse = average(sorted)
			rm.P50Response = percentile(sorted, 0.50)
			rm.P95Response = percentile(sorted, 0.95)
			rm.P99Response = percentile(sorted, 0.99)
		}

		snap.Routes[route] = rm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests:      make(map[Route]int64),
		responseTimes: make(map[Route][]time.Duration),
		statusCodes:   make(map[Route]map[int]int64),
		startTime:     time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
