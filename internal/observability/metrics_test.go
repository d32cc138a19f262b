package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTTSRequestCountsByStatus(t *testing.T) {
	successBefore := testutil.ToFloat64(ttsRequests.WithLabelValues("acme", "success"))
	errorBefore := testutil.ToFloat64(ttsRequests.WithLabelValues("acme", "error"))

	RecordTTSRequest("acme", 120*time.Millisecond, true)
	RecordTTSRequest("acme", 80*time.Millisecond, true)
	RecordTTSRequest("acme", 500*time.Millisecond, false)

	successAfter := testutil.ToFloat64(ttsRequests.WithLabelValues("acme", "success"))
	errorAfter := testutil.ToFloat64(ttsRequests.WithLabelValues("acme", "error"))

	if successAfter-successBefore != 2 {
		t.Errorf("Expected 2 success requests recorded, got %v", successAfter-successBefore)
	}
	if errorAfter-errorBefore != 1 {
		t.Errorf("Expected 1 error request recorded, got %v", errorAfter-errorBefore)
	}
}

func TestRecordTTSRequestObservesLatency(t *testing.T) {
	before := testutil.CollectAndCount(ttsLatency)

	RecordTTSRequest("latency-check", 50*time.Millisecond, true)

	// A fresh provider label creates its own histogram series.
	after := testutil.CollectAndCount(ttsLatency)
	if after != before+1 {
		t.Errorf("Expected latency histogram to gain a series, had %d now %d", before, after)
	}
}

func TestRecordAudioBytes(t *testing.T) {
	before := testutil.ToFloat64(audioBytesProduced)

	RecordAudioBytes(1024)
	RecordAudioBytes(0)
	RecordAudioBytes(4096)

	after := testutil.ToFloat64(audioBytesProduced)
	if after-before != 5120 {
		t.Errorf("Expected 5120 bytes recorded, got %v", after-before)
	}
}

func TestRecordSummaryResult(t *testing.T) {
	successBefore := testutil.ToFloat64(summaryRequests.WithLabelValues("success"))
	fallbackBefore := testutil.ToFloat64(summaryRequests.WithLabelValues("fallback"))

	RecordSummaryResult(true)
	RecordSummaryResult(false)
	RecordSummaryResult(false)

	if d := testutil.ToFloat64(summaryRequests.WithLabelValues("success")) - successBefore; d != 1 {
		t.Errorf("Expected 1 success recorded, got %v", d)
	}
	if d := testutil.ToFloat64(summaryRequests.WithLabelValues("fallback")) - fallbackBefore; d != 2 {
		t.Errorf("Expected 2 fallbacks recorded, got %v", d)
	}
}
