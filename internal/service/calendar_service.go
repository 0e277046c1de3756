package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gator-scheduler/schedule-api/internal/meetingtime"
	"github.com/gator-scheduler/schedule-api/internal/models"
)

// CalendarService materializes the weekly calendar projection from the
// flattened combination of selected sections and custom appointments.
// The projection is always rebuilt whole; there is no incremental diff.
type CalendarService struct {
	cache   *StateCache
	gateway snapshotGateway
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewCalendarService constructs the projector.
func NewCalendarService(cache *StateCache, gateway snapshotGateway, metrics *MetricsService, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		cache:   cache,
		gateway: gateway,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// buildCombination flattens the planner's stores into the persisted
// combination shape: one entry per selected section, then every custom
// appointment. Order is deterministic so repeated projections of the
// same state are identical.
func buildCombination(st *plannerState) []models.Section {
	combination := make([]models.Section, 0, len(st.Courses)+len(st.Customs))
	for i := range st.Courses {
		if sel := st.Courses[i].SelectedSection(); sel != nil {
			combination = append(combination, *sel)
		}
	}
	combination = append(combination, st.Customs...)
	return combination
}

// projectCombination expands every (section, meeting time, day letter)
// triple into a dated appointment inside the week containing now.
// Unknown day letters are skipped, not errors. Dates are naive
// concatenations of the week date and the stored clock time; the
// rehydration path normalizes them later.
func projectCombination(combination []models.Section, now time.Time) []models.Appointment {
	appointments := make([]models.Appointment, 0, len(combination))
	for _, section := range combination {
		title := section.CourseName
		if section.CourseCode != "" {
			title = fmt.Sprintf("%s - Section %s", section.CourseCode, section.ClassNumber)
		}
		for _, mt := range section.MeetTimes {
			for _, day := range mt.MeetDays {
				date, ok := meetingtime.DateFor(now, day)
				if !ok {
					continue
				}
				appointments = append(appointments, models.Appointment{
					StartDate: date + "T" + mt.MeetTimeBegin,
					EndDate:   date + "T" + mt.MeetTimeEnd,
					Title:     title,
					Color:     section.Color,
				})
			}
		}
	}
	return appointments
}

// Refresh rebuilds the planner's calendar snapshot from the given state
// and writes it through the gateway. Mutating services call this after
// every store change.
func (s *CalendarService) Refresh(ctx context.Context, plannerID string, st *plannerState) (models.SelectedCalendar, error) {
	started := time.Now()
	calendar := models.SelectedCalendar{
		Combination:  buildCombination(st),
		Appointments: nil,
	}
	calendar.Appointments = projectCombination(calendar.Combination, s.now())
	s.metrics.ObserveProjection(time.Since(started))

	if err := s.gateway.SaveCalendar(ctx, plannerID, calendar); err != nil {
		return models.SelectedCalendar{}, fmt.Errorf("save calendar snapshot: %w", err)
	}
	s.metrics.RecordSnapshotSave()
	return calendar, nil
}

// Current returns the planner's calendar for display. A well-formed
// stored snapshot is rehydrated (appointments re-anchored onto the week
// containing now). A missing snapshot is rebuilt from the stores. A
// malformed snapshot is discarded and replaced with an empty calendar;
// the caller never sees an error for bad stored data.
func (s *CalendarService) Current(ctx context.Context, plannerID string) (models.SelectedCalendar, error) {
	raw, err := s.gateway.LoadCalendarRaw(ctx, plannerID)
	if err != nil {
		return models.SelectedCalendar{}, fmt.Errorf("load calendar snapshot: %w", err)
	}

	if len(raw) == 0 {
		var rebuilt models.SelectedCalendar
		err = s.cache.With(ctx, plannerID, s.gateway, func(st *plannerState) error {
			var refreshErr error
			rebuilt, refreshErr = s.Refresh(ctx, plannerID, st)
			return refreshErr
		})
		if err != nil {
			return models.SelectedCalendar{}, err
		}
		return rebuilt, nil
	}

	calendar, ok := s.rehydrate(raw)
	if !ok {
		s.metrics.RecordSnapshotDiscard()
		s.logger.Sugar().Warnw("discarding unusable calendar snapshot", "planner", plannerID)
		if saveErr := s.gateway.SaveCalendar(ctx, plannerID, calendar); saveErr != nil {
			s.logger.Sugar().Warnw("overwrite of bad snapshot failed", "planner", plannerID, "error", saveErr)
		}
	}
	return calendar, nil
}

// rehydrate shape-checks and re-anchors a stored snapshot. Both fields
// must be JSON arrays and every appointment date must parse; any
// violation rejects the whole snapshot.
func (s *CalendarService) rehydrate(raw []byte) (models.SelectedCalendar, bool) {
	empty := models.SelectedCalendar{Combination: []models.Section{}, Appointments: []models.Appointment{}}
	if len(raw) == 0 {
		return empty, false
	}

	var probe struct {
		Combination  json.RawMessage `json:"combination"`
		Appointments json.RawMessage `json:"appointments"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return empty, false
	}
	if !isJSONArray(probe.Combination) || !isJSONArray(probe.Appointments) {
		return empty, false
	}

	var calendar models.SelectedCalendar
	if err := json.Unmarshal(raw, &calendar); err != nil {
		return empty, false
	}

	now := s.now()
	for i := range calendar.Appointments {
		start, err := meetingtime.ProjectToCurrentWeek(calendar.Appointments[i].StartDate, now)
		if err != nil {
			return empty, false
		}
		end, err := meetingtime.ProjectToCurrentWeek(calendar.Appointments[i].EndDate, now)
		if err != nil {
			return empty, false
		}
		calendar.Appointments[i].StartDate = start
		calendar.Appointments[i].EndDate = end
	}
	return calendar, true
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
