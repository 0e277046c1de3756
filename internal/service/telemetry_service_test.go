package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gator-scheduler/schedule-api/pkg/config"
)

func TestTelemetryDeliversEvent(t *testing.T) {
	received := make(chan SelectionEvent, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event SelectionEvent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		received <- event
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	svc := NewTelemetryService(config.TelemetryConfig{
		Enabled:  true,
		Endpoint: server.URL,
		Timeout:  time.Second,
		Workers:  1,
		Buffer:   4,
	}, nil, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.RecordCourseSelected(SelectionEvent{PlannerID: "alice", CourseCode: "MAC2311"})

	select {
	case event := <-received:
		assert.Equal(t, "alice", event.PlannerID)
		assert.Equal(t, "MAC2311", event.CourseCode)
		assert.False(t, event.OccurredAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("telemetry event never arrived")
	}
}

func TestTelemetryDisabledIsNoop(t *testing.T) {
	svc := NewTelemetryService(config.TelemetryConfig{Enabled: false}, nil, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	// Must not panic or block with no workers running.
	svc.RecordCourseSelected(SelectionEvent{PlannerID: "alice", CourseCode: "COP3502"})
}

func TestTelemetryFailureStaysSilent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewTelemetryService(config.TelemetryConfig{
		Enabled:  true,
		Endpoint: server.URL,
		Timeout:  time.Second,
		Workers:  1,
		Buffer:   1,
	}, nil, nil)
	svc.Start(context.Background())

	// Failed deliveries are logged and dropped; the caller never sees them.
	svc.RecordCourseSelected(SelectionEvent{PlannerID: "alice", CourseCode: "MAC2311"})
	svc.Stop()
}
