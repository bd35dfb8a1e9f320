package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewJobMetrics(reg)
	job := "session-purge"
	metrics.ObserveDuration(job, 250*time.Millisecond)
	metrics.IncSuccess(job)
	metrics.IncFailure(job)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "storefront_job_success_total", map[string]string{"job": job}); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "storefront_job_failure_total", map[string]string{"job": job}); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "storefront_job_duration_seconds", map[string]string{"job": job}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCheckoutMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)
	m.ObserveStep("create_order", OutcomeSuccess)
	m.ObserveStep("create_payment", OutcomeFailure)
	m.ObserveSequence(OutcomeFailure, time.Second)
	m.IncRejected("in_flight")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	got, err := fetchCounterValue(mfs, "storefront_checkout_steps_total", map[string]string{"step": "create_payment", "outcome": OutcomeFailure})
	if err != nil || got != 1 {
		t.Fatalf("expected one failed create_payment step, got %f (%v)", got, err)
	}
	got, err = fetchCounterValue(mfs, "storefront_checkout_rejected_total", map[string]string{"reason": "in_flight"})
	if err != nil || got != 1 {
		t.Fatalf("expected one rejection, got %f (%v)", got, err)
	}
	sum, err := fetchHistogramSum(mfs, "storefront_checkout_duration_seconds", map[string]string{"outcome": OutcomeFailure})
	if err != nil || sum != 1 {
		t.Fatalf("expected duration sum 1, got %f (%v)", sum, err)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var c *CheckoutMetrics
	c.ObserveStep("x", OutcomeSuccess)
	c.ObserveSequence(OutcomeSuccess, time.Second)
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Millisecond)
	NewJobMetrics(nil).IncSuccess("x")
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	reg := NewRegistry()
	NewHTTPMetrics(reg).Observe(http.MethodGet, "/api/customer/cart", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `storefront_http_requests_total{method="GET",route="/api/customer/cart",status="200"} 1`) {
		t.Fatalf("request counter missing from output:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatal("expected runtime collector output")
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
