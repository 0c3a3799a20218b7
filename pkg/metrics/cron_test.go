package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	m.now = func() time.Time { return time.Unix(1_760_000_000, 0) }

	m.ObserveRun("upload-retention", 250*time.Millisecond, nil)
	m.ObserveRun("upload-retention", time.Second, errors.New("db down"))
	m.ObserveRun("upload-retention", time.Second, errors.New("db down"))

	mfs, err := reg.Gather()
	require.NoError(t, err)

	runs := findMetricFamily(mfs, "reseller_cron_job_runs_total")
	require.NotNil(t, runs)
	require.Equal(t, 1.0, valueWith(runs, map[string]string{"job": "upload-retention", "outcome": "success"}))
	require.Equal(t, 2.0, valueWith(runs, map[string]string{"job": "upload-retention", "outcome": "failure"}))

	last := findMetricFamily(mfs, "reseller_cron_job_last_success_timestamp_seconds")
	require.NotNil(t, last)
	require.Equal(t, 1_760_000_000.0, last.GetMetric()[0].GetGauge().GetValue())

	duration := findMetricFamily(mfs, "reseller_cron_job_duration_seconds")
	require.NotNil(t, duration)
	require.EqualValues(t, 3, duration.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestNilCronMetricsAreSafe(t *testing.T) {
	var m *CronJobMetrics
	m.ObserveRun("trial-expiry", time.Second, nil)
	NewCronJobMetrics(nil).ObserveRun("", time.Second, errors.New("boom"))
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

// valueWith returns the counter value of the series carrying every label in want.
func valueWith(mf *dto.MetricFamily, want map[string]string) float64 {
	for _, metric := range mf.GetMetric() {
		matched := 0
		for _, label := range metric.GetLabel() {
			if want[label.GetName()] == label.GetValue() {
				matched++
			}
		}
		if matched == len(want) {
			return metric.GetCounter().GetValue()
		}
	}
	return -1
}
