package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gator-scheduler/schedule-api/internal/dto"
	"github.com/gator-scheduler/schedule-api/internal/models"
	appErrors "github.com/gator-scheduler/schedule-api/pkg/errors"
)

var clock24Pattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// AppointmentService owns the custom appointment store. Appointments are
// user-authored sections: same shape as catalog sections, identified by
// a synthetic class number minted at creation.
type AppointmentService struct {
	cache    *StateCache
	gateway  snapshotGateway
	calendar *CalendarService
	validate *validator.Validate
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewAppointmentService constructs the appointment store service.
func NewAppointmentService(cache *StateCache, gateway snapshotGateway, calendar *CalendarService, metrics *MetricsService, logger *zap.Logger) *AppointmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New()
	_ = v.RegisterValidation("clock24", func(fl validator.FieldLevel) bool {
		return clock24Pattern.MatchString(fl.Field().String())
	})
	return &AppointmentService{
		cache:    cache,
		gateway:  gateway,
		calendar: calendar,
		validate: v,
		metrics:  metrics,
		logger:   logger,
	}
}

// Create validates and appends a custom appointment. An invalid request
// never reaches the store.
func (s *AppointmentService) Create(ctx context.Context, plannerID string, req dto.CreateCustomAppointmentRequest) (models.Section, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Section{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid custom appointment")
	}

	section := models.Section{
		ClassNumber: uuid.NewString(),
		CourseName:  req.Name,
		Color:       req.Color,
		Credits:     req.Credits,
		MeetTimes: []models.MeetingTime{{
			MeetDays:      req.MeetDays,
			MeetTimeBegin: req.MeetTimeBegin,
			MeetTimeEnd:   req.MeetTimeEnd,
			MeetBuilding:  req.MeetBuilding,
			MeetRoom:      req.MeetRoom,
		}},
	}

	err := s.cache.With(ctx, plannerID, s.gateway, func(st *plannerState) error {
		st.Customs = append(st.Customs, section)
		return s.persist(ctx, plannerID, st)
	})
	if err != nil {
		return models.Section{}, err
	}
	return section, nil
}

// List returns the planner's custom appointments.
func (s *AppointmentService) List(ctx context.Context, plannerID string) ([]models.Section, error) {
	var result []models.Section
	err := s.cache.With(ctx, plannerID, s.gateway, func(st *plannerState) error {
		result = cloneSections(st.Customs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Remove deletes the appointment with the given synthetic class number.
func (s *AppointmentService) Remove(ctx context.Context, plannerID, appointmentID string) error {
	return s.cache.With(ctx, plannerID, s.gateway, func(st *plannerState) error {
		idx := -1
		for i := range st.Customs {
			if st.Customs[i].ClassNumber == appointmentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "custom appointment not found")
		}
		st.Customs = append(st.Customs[:idx], st.Customs[idx+1:]...)
		return s.persist(ctx, plannerID, st)
	})
}

func (s *AppointmentService) persist(ctx context.Context, plannerID string, st *plannerState) error {
	if err := s.gateway.SaveCustomAppointments(ctx, plannerID, st.Customs); err != nil {
		return fmt.Errorf("save custom appointments: %w", err)
	}
	s.metrics.RecordSnapshotSave()
	if _, err := s.calendar.Refresh(ctx, plannerID, st); err != nil {
		return err
	}
	return nil
}
