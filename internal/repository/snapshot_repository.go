package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gator-scheduler/schedule-api/internal/models"
)

// snapshotClient is the slice of the key-value API the snapshot store
// touches. Separating it from *redis.Client keeps the version-wipe
// logic testable without a server.
type snapshotClient interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, keys ...string) error
}

type redisSnapshotClient struct {
	client *redis.Client
}

func (c redisSnapshotClient) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (c redisSnapshotClient) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, 0).Err()
}

func (c redisSnapshotClient) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func (c redisSnapshotClient) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// SnapshotRepository persists planner state in a version-gated Redis
// namespace. Three logical keys exist per planner: selectedCourses (the
// source of truth for selections), customAppointments, and
// selectedCalendar (the redraw cache consumed by the map overlay).
//
// A single namespace-wide version marker gates everything: an unseen or
// bumped version wipes the whole namespace on startup. There is no
// field-by-field migration.
type SnapshotRepository struct {
	kv        snapshotClient
	namespace string
	version   int
	logger    *zap.Logger
}

// NewSnapshotRepository constructs the snapshot gateway over Redis.
func NewSnapshotRepository(client *redis.Client, namespace string, version int, logger *zap.Logger) *SnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotRepository{kv: redisSnapshotClient{client: client}, namespace: namespace, version: version, logger: logger}
}

// EnsureVersion wipes the namespace when the stored format version does
// not match the configured one, then records the configured version.
func (r *SnapshotRepository) EnsureVersion(ctx context.Context) error {
	versionKey := r.namespace + ":version"

	stored, ok, err := r.kv.Get(ctx, versionKey)
	if err != nil {
		return fmt.Errorf("read snapshot version: %w", err)
	}
	if ok {
		if v, convErr := strconv.Atoi(string(stored)); convErr == nil && v == r.version {
			return nil
		}
	}

	r.logger.Sugar().Infow("snapshot version changed, wiping namespace",
		"namespace", r.namespace, "stored", string(stored), "current", r.version)

	keys, err := r.kv.ScanKeys(ctx, r.namespace+":*")
	if err != nil {
		return fmt.Errorf("scan snapshot namespace: %w", err)
	}
	if err := r.kv.Del(ctx, keys...); err != nil {
		return fmt.Errorf("wipe snapshot namespace: %w", err)
	}

	if err := r.kv.Set(ctx, versionKey, []byte(strconv.Itoa(r.version))); err != nil {
		return fmt.Errorf("write snapshot version: %w", err)
	}
	return nil
}

// SaveCourses overwrites the planner's selected course list.
func (r *SnapshotRepository) SaveCourses(ctx context.Context, plannerID string, courses []models.Course) error {
	return r.set(ctx, r.key(plannerID, "selectedCourses"), courses)
}

// LoadCourses returns the planner's selected course list. Missing or
// malformed data degrades to an empty list, never an error the caller
// has to surface.
func (r *SnapshotRepository) LoadCourses(ctx context.Context, plannerID string) ([]models.Course, error) {
	var courses []models.Course
	if err := r.get(ctx, r.key(plannerID, "selectedCourses"), &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// SaveCustomAppointments overwrites the planner's custom appointment list.
func (r *SnapshotRepository) SaveCustomAppointments(ctx context.Context, plannerID string, customs []models.Section) error {
	return r.set(ctx, r.key(plannerID, "customAppointments"), customs)
}

// LoadCustomAppointments returns the planner's custom appointments with
// the same degrade-to-empty contract as LoadCourses.
func (r *SnapshotRepository) LoadCustomAppointments(ctx context.Context, plannerID string) ([]models.Section, error) {
	var customs []models.Section
	if err := r.get(ctx, r.key(plannerID, "customAppointments"), &customs); err != nil {
		return nil, err
	}
	return customs, nil
}

// SaveCalendar overwrites the planner's materialized calendar snapshot.
func (r *SnapshotRepository) SaveCalendar(ctx context.Context, plannerID string, calendar models.SelectedCalendar) error {
	return r.set(ctx, r.key(plannerID, "selectedCalendar"), calendar)
}

// LoadCalendarRaw returns the raw stored snapshot bytes so the caller can
// shape-check before trusting them. A missing key yields nil bytes.
func (r *SnapshotRepository) LoadCalendarRaw(ctx context.Context, plannerID string) ([]byte, error) {
	raw, ok, err := r.kv.Get(ctx, r.key(plannerID, "selectedCalendar"))
	if err != nil {
		return nil, fmt.Errorf("redis get calendar: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return raw, nil
}

func (r *SnapshotRepository) key(plannerID, field string) string {
	return fmt.Sprintf("%s:%s:%s", r.namespace, plannerID, field)
}

func (r *SnapshotRepository) set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *SnapshotRepository) get(ctx context.Context, key string, dest interface{}) error {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		r.logger.Sugar().Warnw("discarding malformed snapshot key", "key", key, "error", err)
	}
	return nil
}
