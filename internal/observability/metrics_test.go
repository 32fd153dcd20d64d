package observability

import (
	"testing"
	"time"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/queue/join", "POST", 201, 5*time.Millisecond)
	m.RecordRequest("/queue/join", "POST", 201, 7*time.Millisecond)
	m.RecordError("/queue/join", "POST", "CONFLICT")

	snapshot := m.Snapshot()
	if got := snapshot.Requests["/queue/join|POST|201"]; got != 2 {
		t.Fatalf("request count = %d, want 2", got)
	}
	if got := snapshot.Errors["/queue/join|POST|CONFLICT"]; got != 1 {
		t.Fatalf("error count = %d, want 1", got)
	}

	// The snapshot is detached from the live counters.
	snapshot.Requests["/queue/join|POST|201"] = 99
	if got := m.Snapshot().Requests["/queue/join|POST|201"]; got != 2 {
		t.Fatalf("live count = %d after mutating snapshot, want 2", got)
	}
}

func TestMetricsSnapshotNilReceiver(t *testing.T) {
	var m *Metrics
	snapshot := m.Snapshot()
	if len(snapshot.Requests) != 0 || len(snapshot.Errors) != 0 {
		t.Fatalf("snapshot = %+v, want empty", snapshot)
	}
}
