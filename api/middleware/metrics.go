package middleware

import (
	"net/http"
	"time"

	"github.com/lcorp/storefront/pkg/metrics"
)

// Metrics records request counts and latency by chi route pattern so that
// path ids do not explode label cardinality.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			route := chiPattern(r)
			if route == "" {
				route = "unmatched"
			}
			m.Observe(r.Method, route, defaultStatus(rec.status), time.Since(start))
		})
	}
}
