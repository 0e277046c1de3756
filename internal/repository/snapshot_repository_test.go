package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gator-scheduler/schedule-api/internal/models"
)

// memKV is an in-memory snapshotClient.
type memKV struct {
	values map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{values: make(map[string][]byte)}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, ok := m.values[key]
	return raw, ok, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.values[key] = value
	return nil
}

func (m *memKV) ScanKeys(_ context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for key := range m.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (m *memKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func newSnapshotFixture(version int) (*SnapshotRepository, *memKV) {
	kv := newMemKV()
	return &SnapshotRepository{kv: kv, namespace: "schedule", version: version, logger: zap.NewNop()}, kv
}

func TestEnsureVersionFirstRun(t *testing.T) {
	repo, kv := newSnapshotFixture(1)

	require.NoError(t, repo.EnsureVersion(context.Background()))
	assert.Equal(t, []byte("1"), kv.values["schedule:version"])
}

func TestEnsureVersionMatchKeepsData(t *testing.T) {
	repo, kv := newSnapshotFixture(1)
	ctx := context.Background()

	require.NoError(t, repo.SaveCourses(ctx, "alice", []models.Course{{Code: "MAC2311"}}))
	kv.values["schedule:version"] = []byte("1")

	require.NoError(t, repo.EnsureVersion(ctx))
	courses, err := repo.LoadCourses(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, courses, 1)
}

func TestEnsureVersionBumpWipesNamespace(t *testing.T) {
	repo, kv := newSnapshotFixture(2)
	ctx := context.Background()

	require.NoError(t, repo.SaveCourses(ctx, "alice", []models.Course{{Code: "MAC2311"}}))
	require.NoError(t, repo.SaveCustomAppointments(ctx, "alice", []models.Section{{ClassNumber: "c1"}}))
	require.NoError(t, repo.SaveCalendar(ctx, "alice", models.SelectedCalendar{}))
	kv.values["schedule:version"] = []byte("1")
	kv.values["other:alice:selectedCourses"] = []byte("[]")

	require.NoError(t, repo.EnsureVersion(ctx))

	// Every schedule:* key is gone; foreign namespaces survive.
	courses, err := repo.LoadCourses(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, courses)
	raw, err := repo.LoadCalendarRaw(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, raw)
	assert.Contains(t, kv.values, "other:alice:selectedCourses")
	assert.Equal(t, []byte("2"), kv.values["schedule:version"])
}

func TestEnsureVersionUnparseableMarkerWipes(t *testing.T) {
	repo, kv := newSnapshotFixture(1)
	ctx := context.Background()

	require.NoError(t, repo.SaveCourses(ctx, "alice", []models.Course{{Code: "MAC2311"}}))
	kv.values["schedule:version"] = []byte("garbage")

	require.NoError(t, repo.EnsureVersion(ctx))
	courses, err := repo.LoadCourses(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestSnapshotRoundTrip(t *testing.T) {
	repo, _ := newSnapshotFixture(1)
	ctx := context.Background()

	course := models.Course{Code: "COP3502", Name: "Programming Fundamentals 1",
		Sections: []models.Section{{ClassNumber: "22222", Selected: true}}}
	require.NoError(t, repo.SaveCourses(ctx, "alice", []models.Course{course}))

	loaded, err := repo.LoadCourses(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "COP3502", loaded[0].Code)
	assert.True(t, loaded[0].Sections[0].Selected)
}

func TestSnapshotMalformedDegradesToEmpty(t *testing.T) {
	repo, kv := newSnapshotFixture(1)
	ctx := context.Background()

	kv.values["schedule:alice:selectedCourses"] = []byte("{not a list")

	courses, err := repo.LoadCourses(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestSnapshotKeysArePlannerScoped(t *testing.T) {
	repo, kv := newSnapshotFixture(1)
	ctx := context.Background()

	require.NoError(t, repo.SaveCustomAppointments(ctx, "alice", []models.Section{{ClassNumber: "c1"}}))
	assert.Contains(t, kv.values, "schedule:alice:customAppointments")

	customs, err := repo.LoadCustomAppointments(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, customs)
}
