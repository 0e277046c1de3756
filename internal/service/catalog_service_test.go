package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gator-scheduler/schedule-api/internal/dto"
	"github.com/gator-scheduler/schedule-api/internal/models"
	"github.com/gator-scheduler/schedule-api/pkg/config"
	appErrors "github.com/gator-scheduler/schedule-api/pkg/errors"
)

type stubSearcher struct {
	courses []models.Course
	total   int
	calls   int
}

func (s *stubSearcher) Search(_ context.Context, _ string, _, _ int) ([]models.Course, int, error) {
	s.calls++
	return s.courses, s.total, nil
}

type memoryCache struct {
	values map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func catalogTestConfig() config.CatalogConfig {
	return config.CatalogConfig{DefaultPageSize: 20, MaxPageSize: 100, CacheTTL: time.Minute}
}

func TestCatalogSearchCachesResults(t *testing.T) {
	repo := &stubSearcher{courses: []models.Course{{Code: "MAC2311"}}, total: 1}
	cache := &memoryCache{values: make(map[string][]byte)}
	svc := NewCatalogService(repo, cache, catalogTestConfig(), nil, nil)

	query := dto.CatalogSearchQuery{Search: "MAC", Page: 1, Limit: 20}

	first, err := svc.Search(context.Background(), query)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, repo.calls)
	require.Len(t, first.Courses, 1)
	assert.Equal(t, 1, first.Pagination.TotalCount)

	second, err := svc.Search(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, 1, repo.calls, "cached search must not hit the repository")
	assert.Equal(t, first.Courses, second.Courses)
}

func TestCatalogSearchClampsPaging(t *testing.T) {
	repo := &stubSearcher{}
	svc := NewCatalogService(repo, nil, catalogTestConfig(), nil, nil)

	result, err := svc.Search(context.Background(), dto.CatalogSearchQuery{Search: "MAC", Page: -3, Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, 100, result.Pagination.PageSize)

	result, err = svc.Search(context.Background(), dto.CatalogSearchQuery{Search: "MAC"})
	require.NoError(t, err)
	assert.Equal(t, 20, result.Pagination.PageSize)
}

func TestCatalogSearchWithoutCache(t *testing.T) {
	repo := &stubSearcher{courses: []models.Course{{Code: "COP3502"}}, total: 1}
	svc := NewCatalogService(repo, nil, catalogTestConfig(), nil, nil)

	result, err := svc.Search(context.Background(), dto.CatalogSearchQuery{Search: "COP"})
	require.NoError(t, err)
	assert.False(t, result.CacheHit)
	require.Len(t, result.Courses, 1)
}
