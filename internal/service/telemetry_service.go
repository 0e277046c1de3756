package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gator-scheduler/schedule-api/pkg/config"
	"github.com/gator-scheduler/schedule-api/pkg/jobs"
)

// SelectionEvent is the fire-and-forget payload emitted the first time a
// course gains a selected section.
type SelectionEvent struct {
	PlannerID  string    `json:"plannerId"`
	CourseCode string    `json:"courseCode"`
	CourseName string    `json:"courseName"`
	OccurredAt time.Time `json:"occurredAt"`
}

// TelemetryService ships selection events to an external endpoint on a
// best-effort basis. A full buffer or a failed delivery never surfaces
// to the caller; selection flow must not depend on telemetry health.
type TelemetryService struct {
	queue    *jobs.Queue
	client   *http.Client
	endpoint string
	enabled  bool
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewTelemetryService constructs the telemetry sink.
func NewTelemetryService(cfg config.TelemetryConfig, metrics *MetricsService, logger *zap.Logger) *TelemetryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TelemetryService{
		client:   &http.Client{Timeout: cfg.Timeout},
		endpoint: cfg.Endpoint,
		enabled:  cfg.Enabled,
		metrics:  metrics,
		logger:   logger,
	}
	s.queue = jobs.NewQueue("telemetry", s.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.Buffer,
		Logger:     logger,
	})
	return s
}

// Start launches the delivery workers.
func (s *TelemetryService) Start(ctx context.Context) {
	if s.enabled {
		s.queue.Start(ctx)
	}
}

// Stop drains the workers.
func (s *TelemetryService) Stop() {
	if s.enabled {
		s.queue.Stop()
	}
}

// RecordCourseSelected enqueues a selection event without blocking.
func (s *TelemetryService) RecordCourseSelected(event SelectionEvent) {
	if s == nil || !s.enabled {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	err := s.queue.TryEnqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "course_selected",
		Payload: event,
	})
	if err != nil {
		s.metrics.RecordTelemetryFailure()
	}
}

func (s *TelemetryService) deliver(ctx context.Context, job jobs.Job) error {
	if s.endpoint == "" {
		s.logger.Sugar().Debugw("telemetry endpoint unset, event discarded", "job_id", job.ID)
		return nil
	}

	payload, err := json.Marshal(job.Payload)
	if err != nil {
		s.metrics.RecordTelemetryFailure()
		return fmt.Errorf("marshal telemetry event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		s.metrics.RecordTelemetryFailure()
		return fmt.Errorf("build telemetry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.RecordTelemetryFailure()
		return fmt.Errorf("post telemetry event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		s.metrics.RecordTelemetryFailure()
		return fmt.Errorf("telemetry endpoint returned %d", resp.StatusCode)
	}
	return nil
}
