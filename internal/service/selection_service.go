package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gator-scheduler/schedule-api/internal/models"
	"github.com/gator-scheduler/schedule-api/internal/repository"
	"github.com/gator-scheduler/schedule-api/pkg/colorhash"
	appErrors "github.com/gator-scheduler/schedule-api/pkg/errors"
)

type catalogReader interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
}

type selectionTelemetry interface {
	RecordCourseSelected(event SelectionEvent)
}

// SelectionService owns the selected-course store. Its one structural
// invariant: a retained course has exactly one section with
// Selected=true. Courses whose last selection is toggled off are removed
// outright, never kept in a zero-selected state.
type SelectionService struct {
	cache     *StateCache
	gateway   snapshotGateway
	catalog   catalogReader
	calendar  *CalendarService
	telemetry selectionTelemetry
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewSelectionService constructs the selection store service.
func NewSelectionService(
	cache *StateCache,
	gateway snapshotGateway,
	catalog catalogReader,
	calendar *CalendarService,
	telemetry selectionTelemetry,
	metrics *MetricsService,
	logger *zap.Logger,
) *SelectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionService{
		cache:     cache,
		gateway:   gateway,
		catalog:   catalog,
		calendar:  calendar,
		telemetry: telemetry,
		metrics:   metrics,
		logger:    logger,
	}
}

// Toggle flips the selection state of one section. Selecting a section
// deselects any sibling; deselecting the active section removes the
// course from the store. Returns the planner's course list after the
// change.
func (s *SelectionService) Toggle(ctx context.Context, plannerID, courseCode, classNumber string) ([]models.Course, error) {
	code := repository.NormalizeCourseCode(courseCode)
	var (
		result         []models.Course
		firstSelection bool
		courseName     string
	)

	err := s.cache.With(ctx, plannerID, s.gateway, func(st *plannerState) error {
		idx := findCourse(st.Courses, code)
		if idx < 0 {
			course, err := s.adoptFromCatalog(ctx, code, classNumber)
			if err != nil {
				return err
			}
			st.Courses = append(st.Courses, course)
			firstSelection = true
			courseName = course.Name
		} else {
			course := &st.Courses[idx]
			courseName = course.Name
			target := -1
			for i := range course.Sections {
				if course.Sections[i].ClassNumber == classNumber {
					target = i
					break
				}
			}
			if target < 0 {
				return appErrors.ErrSectionNotFound
			}

			if course.Sections[target].Selected {
				// Last selected section toggled off: the course goes too.
				st.Courses = append(st.Courses[:idx], st.Courses[idx+1:]...)
			} else {
				firstSelection = course.SelectedSection() == nil
				for i := range course.Sections {
					course.Sections[i].Selected = i == target
				}
			}
		}

		if err := s.persist(ctx, plannerID, st); err != nil {
			return err
		}
		result = cloneCourses(st.Courses)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordToggle()
	if firstSelection {
		s.metrics.RecordCourseSelected()
		if s.telemetry != nil {
			s.telemetry.RecordCourseSelected(SelectionEvent{
				PlannerID:  plannerID,
				CourseCode: code,
				CourseName: courseName,
			})
		}
	}
	return result, nil
}

// RemoveCourse drops the course entirely regardless of which section is
// selected. Removing an absent course is a no-op.
func (s *SelectionService) RemoveCourse(ctx context.Context, plannerID, courseCode string) ([]models.Course, error) {
	code := repository.NormalizeCourseCode(courseCode)
	var result []models.Course

	err := s.cache.With(ctx, plannerID, s.gateway, func(st *plannerState) error {
		idx := findCourse(st.Courses, code)
		if idx >= 0 {
			st.Courses = append(st.Courses[:idx], st.Courses[idx+1:]...)
			if err := s.persist(ctx, plannerID, st); err != nil {
				return err
			}
		}
		result = cloneCourses(st.Courses)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List returns the planner's selected courses.
func (s *SelectionService) List(ctx context.Context, plannerID string) ([]models.Course, error) {
	var result []models.Course
	err := s.cache.With(ctx, plannerID, s.gateway, func(st *plannerState) error {
		result = cloneCourses(st.Courses)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// IsSelected reports whether the given section is the course's active one.
func (s *SelectionService) IsSelected(ctx context.Context, plannerID, courseCode, classNumber string) (bool, error) {
	code := repository.NormalizeCourseCode(courseCode)
	selected := false
	err := s.cache.With(ctx, plannerID, s.gateway, func(st *plannerState) error {
		if idx := findCourse(st.Courses, code); idx >= 0 {
			if sel := st.Courses[idx].SelectedSection(); sel != nil {
				selected = sel.ClassNumber == classNumber
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return selected, nil
}

// TotalCredits sums each stored course's first-section credits. Credits
// are modeled per course rather than per selected section, and the first
// section is the canonical carrier.
func (s *SelectionService) TotalCredits(ctx context.Context, plannerID string) (int, error) {
	total := 0
	err := s.cache.With(ctx, plannerID, s.gateway, func(st *plannerState) error {
		for i := range st.Courses {
			if len(st.Courses[i].Sections) > 0 {
				total += st.Courses[i].Sections[0].Credits
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// adoptFromCatalog copies a catalog course into the store, stamping the
// display color and denormalizing course identity onto every section so
// the flattened combination stays self-describing.
func (s *SelectionService) adoptFromCatalog(ctx context.Context, code, classNumber string) (models.Course, error) {
	found, err := s.catalog.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Course{}, appErrors.ErrCourseNotFound
		}
		return models.Course{}, fmt.Errorf("catalog lookup %s: %w", code, err)
	}

	course := *found
	course.Sections = make([]models.Section, len(found.Sections))
	copy(course.Sections, found.Sections)

	color := colorhash.Hex(course.Identity())
	target := -1
	for i := range course.Sections {
		sec := &course.Sections[i]
		sec.CourseCode = course.Code
		sec.CourseName = course.Name
		sec.Color = color
		sec.Selected = false
		if sec.ClassNumber == classNumber {
			target = i
		}
	}
	if target < 0 {
		return models.Course{}, appErrors.ErrSectionNotFound
	}
	course.Sections[target].Selected = true
	return course, nil
}

// persist writes the selection store through the gateway and refreshes
// the calendar projection in the same logical step.
func (s *SelectionService) persist(ctx context.Context, plannerID string, st *plannerState) error {
	if err := s.gateway.SaveCourses(ctx, plannerID, st.Courses); err != nil {
		return fmt.Errorf("save selected courses: %w", err)
	}
	s.metrics.RecordSnapshotSave()
	if _, err := s.calendar.Refresh(ctx, plannerID, st); err != nil {
		return err
	}
	return nil
}

func findCourse(courses []models.Course, code string) int {
	for i := range courses {
		if courses[i].Code == code {
			return i
		}
	}
	return -1
}

// cloneCourses detaches a course list from the cached planner state.
// Returned snapshots must not share section storage with the cache:
// later toggles rewrite Selected in place, and callers marshal their
// copies outside the cache lock.
func cloneCourses(courses []models.Course) []models.Course {
	out := make([]models.Course, len(courses))
	for i, course := range courses {
		course.Sections = cloneSections(course.Sections)
		out[i] = course
	}
	return out
}

func cloneSections(sections []models.Section) []models.Section {
	out := make([]models.Section, len(sections))
	for i, section := range sections {
		section.MeetTimes = append([]models.MeetingTime(nil), section.MeetTimes...)
		out[i] = section
	}
	return out
}
