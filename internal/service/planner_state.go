package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/gator-scheduler/schedule-api/internal/models"
)

// snapshotGateway is the persistence surface the engine needs. The Redis
// implementation lives in internal/repository.
type snapshotGateway interface {
	SaveCourses(ctx context.Context, plannerID string, courses []models.Course) error
	LoadCourses(ctx context.Context, plannerID string) ([]models.Course, error)
	SaveCustomAppointments(ctx context.Context, plannerID string, customs []models.Section) error
	LoadCustomAppointments(ctx context.Context, plannerID string) ([]models.Section, error)
	SaveCalendar(ctx context.Context, plannerID string, calendar models.SelectedCalendar) error
	LoadCalendarRaw(ctx context.Context, plannerID string) ([]byte, error)
}

// plannerState is the in-memory working copy of one planner's stores.
// Mutations happen here first, then get written through the gateway.
type plannerState struct {
	Courses []models.Course
	Customs []models.Section
}

// StateCache hydrates and serializes access to per-planner state. All
// store mutations run under its lock, which is what upholds the
// single-logical-actor ordering assumption of the stores.
type StateCache struct {
	mu       sync.Mutex
	planners map[string]*plannerState
}

// NewStateCache constructs an empty cache.
func NewStateCache() *StateCache {
	return &StateCache{planners: make(map[string]*plannerState)}
}

// With runs fn against the planner's hydrated state while holding the
// cache lock. The first access for a planner loads both stores from the
// gateway; subsequent accesses reuse the cached copy.
func (c *StateCache) With(ctx context.Context, plannerID string, gateway snapshotGateway, fn func(*plannerState) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.planners[plannerID]
	if !ok {
		courses, err := gateway.LoadCourses(ctx, plannerID)
		if err != nil {
			return fmt.Errorf("hydrate courses for %s: %w", plannerID, err)
		}
		customs, err := gateway.LoadCustomAppointments(ctx, plannerID)
		if err != nil {
			return fmt.Errorf("hydrate appointments for %s: %w", plannerID, err)
		}
		st = &plannerState{Courses: courses, Customs: customs}
		c.planners[plannerID] = st
	}

	return fn(st)
}
