// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramSamples returns the sample count and sum of a histogram.
func histogramSamples(t *testing.T, h prometheus.Histogram) (count uint64, sum float64) {
	t.Helper()
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum()
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"deadline", context.DeadlineExceeded, errorTypeTimeout},
		{"wrapped deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), errorTypeTimeout},
		{"canceled", context.Canceled, errorTypeCanceled},
		{"other", errors.New("connection refused"), errorTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "metrics_test", errorTypeTimeout))

	RecordDBQuery("select", "metrics_test", 5*time.Millisecond, nil)
	RecordDBQuery("select", "metrics_test", 5*time.Millisecond, context.DeadlineExceeded)

	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "metrics_test", errorTypeTimeout))
	if after-before != 1 {
		t.Errorf("DBQueryErrors delta = %v, want 1", after-before)
	}
}

func TestRecordInteraction(t *testing.T) {
	before := testutil.ToFloat64(InteractionsLearned.WithLabelValues("favorite"))
	RecordInteraction("favorite", 0.8)
	if got := testutil.ToFloat64(InteractionsLearned.WithLabelValues("favorite")) - before; got != 1 {
		t.Errorf("InteractionsLearned delta = %v, want 1", got)
	}
}

func TestRecordGenerator(t *testing.T) {
	before := testutil.ToFloat64(GeneratorFailures.WithLabelValues("trending"))

	RecordGenerator("trending", 4, nil)
	RecordGenerator("trending", 0, errors.New("breaker open"))

	if got := testutil.ToFloat64(GeneratorFailures.WithLabelValues("trending")) - before; got != 1 {
		t.Errorf("GeneratorFailures delta = %v, want 1", got)
	}
}

func TestRecordDecaySweep(t *testing.T) {
	okBefore := testutil.ToFloat64(DecaySweepUsers.WithLabelValues("success"))
	errBefore := testutil.ToFloat64(DecaySweepUsers.WithLabelValues("error"))
	rowsBefore := testutil.ToFloat64(DecayedRows)

	RecordDecaySweep(2*time.Second, 10, 2, 37)

	if got := testutil.ToFloat64(DecaySweepUsers.WithLabelValues("success")) - okBefore; got != 8 {
		t.Errorf("success users delta = %v, want 8", got)
	}
	if got := testutil.ToFloat64(DecaySweepUsers.WithLabelValues("error")) - errBefore; got != 2 {
		t.Errorf("error users delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(DecayedRows) - rowsBefore; got != 37 {
		t.Errorf("DecayedRows delta = %v, want 37", got)
	}
}

func TestRecordRecommendation(t *testing.T) {
	durationBefore, _ := histogramSamples(t, RecommendationDuration)
	returnedBefore, sumBefore := histogramSamples(t, RecommendationsReturned)

	RecordRecommendation(15*time.Millisecond, 7)

	if n, _ := histogramSamples(t, RecommendationDuration); n-durationBefore != 1 {
		t.Errorf("duration samples delta = %d, want 1", n-durationBefore)
	}
	n, sum := histogramSamples(t, RecommendationsReturned)
	if n-returnedBefore != 1 || sum-sumBefore != 7 {
		t.Errorf("returned delta = (%d, %v), want (1, 7)", n-returnedBefore, sum-sumBefore)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 1 {
		t.Errorf("after inc delta = %v, want 1", got)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 0 {
		t.Errorf("after dec delta = %v, want 0", got)
	}
}

// TestMetricGathering checks that the registered metrics pass promlint.
func TestMetricGathering(t *testing.T) {
	RecordAPIRequest("GET", "/api/v1/users/{userID}/recommendations", "200", time.Millisecond)
	RecordRecommendation(20*time.Millisecond, 10)
	RecordNATSMessage("learned", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s: %s", p.Metric, p.Text)
	}
}
