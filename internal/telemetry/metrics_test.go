package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveFetch("attendance", 10*time.Millisecond, nil)
	m.ObserveFetch("attendance", 10*time.Millisecond, errors.New("boom"))
	m.ObserveFetch("fees", time.Millisecond, nil)
	m.ObserveSubmission(nil)
	m.ObserveSessionEvent("signout")
	m.ObserveRateLimited()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("attendance", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("attendance", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionEvents.WithLabelValues("signout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited))
	assert.Equal(t, 2, testutil.CollectAndCount(m.fetchDuration))
}
