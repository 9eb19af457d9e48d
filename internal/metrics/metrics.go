package metrics

import (
	"sort"
	"sync"
	"time"
)

type RequestSample struct {
	Route     string        `json:"route"`
	Method    string        `json:"method"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
	Timestamp time.Time     `json:"timestamp"`
}

type RouteSummary struct {
	Route        string  `json:"route"`
	Method       string  `json:"method"`
	Count        int     `json:"count"`
	Errors       int     `json:"errors"`
	AvgLatencyMS float64 `json:"avgLatencyMs"`
	MaxLatencyMS float64 `json:"maxLatencyMs"`
}

type Snapshot struct {
	Routes []RouteSummary  `json:"routes"`
	Recent []RequestSample `json:"recent"`
}

type routeKey struct {
	method string
	route  string
}

type routeAgg struct {
	count  int
	errors int
	total  time.Duration
	max    time.Duration
}

// Recorder keeps per-route aggregates and a ring of the most recent samples.
type Recorder struct {
	mu     sync.Mutex
	recent []RequestSample
	next   int
	full   bool
	routes map[routeKey]*routeAgg
}

func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 100
	}
	return &Recorder{
		recent: make([]RequestSample, capacity),
		routes: map[routeKey]*routeAgg{},
	}
}

func (r *Recorder) Record(s RequestSample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.recent[r.next] = s
	r.next = (r.next + 1) % len(r.recent)
	if r.next == 0 {
		r.full = true
	}

	key := routeKey{method: s.Method, route: s.Route}
	agg, ok := r.routes[key]
	if !ok {
		agg = &routeAgg{}
		r.routes[key] = agg
	}
	agg.count++
	if s.Status >= 500 {
		agg.errors++
	}
	agg.total += s.Latency
	if s.Latency > agg.max {
		agg.max = s.Latency
	}
}

// Snapshot returns route summaries sorted by route and the recent samples newest first.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	routes := make([]RouteSummary, 0, len(r.routes))
	for key, agg := range r.routes {
		routes = append(routes, RouteSummary{
			Route:        key.route,
			Method:       key.method,
			Count:        agg.count,
			Errors:       agg.errors,
			AvgLatencyMS: ms(agg.total) / float64(agg.count),
			MaxLatencyMS: ms(agg.max),
		})
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Route == routes[j].Route {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Route < routes[j].Route
	})

	size := r.next
	if r.full {
		size = len(r.recent)
	}
	recent := make([]RequestSample, 0, size)
	for i := 1; i <= size; i++ {
		idx := (r.next - i + len(r.recent)) % len(r.recent)
		recent = append(recent, r.recent[idx])
	}
	return Snapshot{Routes: routes, Recent: recent}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
