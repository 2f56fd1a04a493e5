package prommetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromMetrics_CountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	pm, err := New(reg, "vortex", "redisconn")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	pm.InitObserved("cluster", "success", 2*time.Millisecond)
	pm.InitObserved("standalone", "error", time.Millisecond)
	pm.InitObserved("standalone", "error", time.Millisecond)

	pm.PingObserved("success")
	pm.CloseObserved("success")
	pm.CloseObserved("error")

	if got, want := testutil.ToFloat64(pm.initTotal.WithLabelValues("cluster", "success")), 1.0; got != want {
		t.Fatalf("init_total{cluster,success}=%v want %v", got, want)
	}
	if got, want := testutil.ToFloat64(pm.initTotal.WithLabelValues("standalone", "error")), 2.0; got != want {
		t.Fatalf("init_total{standalone,error}=%v want %v", got, want)
	}
	if got, want := testutil.ToFloat64(pm.pingTotal.WithLabelValues("success")), 1.0; got != want {
		t.Fatalf("ping_total{success}=%v want %v", got, want)
	}
	if got, want := testutil.ToFloat64(pm.closeTotal.WithLabelValues("error")), 1.0; got != want {
		t.Fatalf("close_total{error}=%v want %v", got, want)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("reg.Gather err: %v", err)
	}

	var found bool
	for _, mf := range mfs {
		if mf.GetName() == "vortex_redisconn_init_duration_seconds" {
			found = true
			if len(mf.Metric) == 0 || mf.Metric[0].Histogram == nil || mf.Metric[0].Histogram.GetSampleCount() != 3 {
				t.Fatalf("histogram exists but sample count is wrong")
			}
			break
		}
	}
	if !found {
		t.Fatalf("histogram vortex_redisconn_init_duration_seconds not found")
	}
}

func TestPromMetrics_NilRegistry(t *testing.T) {
	_, err := New(nil, "vortex", "redisconn")
	if err == nil {
		t.Fatal("expected error for nil registry")
	}
}

func TestPromMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()

	if _, err := New(reg, "vortex", "redisconn"); err != nil {
		t.Fatalf("first New() error: %v", err)
	}
	if _, err := New(reg, "vortex", "redisconn"); err != nil {
		t.Fatalf("second New() should tolerate AlreadyRegisteredError, got: %v", err)
	}
}

func TestPromMetrics_NilReceiverIsSafe(t *testing.T) {
	var pm *PromMetrics
	pm.InitObserved("standalone", "success", time.Millisecond)
	pm.PingObserved("success")
	pm.CloseObserved("success")
}
