package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gator-scheduler/schedule-api/internal/dto"
	"github.com/gator-scheduler/schedule-api/internal/models"
	"github.com/gator-scheduler/schedule-api/pkg/config"
	appErrors "github.com/gator-scheduler/schedule-api/pkg/errors"
)

type catalogSearcher interface {
	Search(ctx context.Context, term string, page, pageSize int) ([]models.Course, int, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CatalogSearchResult bundles a page of courses with its pagination and
// whether it came from cache.
type CatalogSearchResult struct {
	Courses    []models.Course
	Pagination models.Pagination
	CacheHit   bool
}

// CatalogService serves prefix searches over the course catalog with a
// short-lived Redis cache in front of Postgres.
type CatalogService struct {
	repo    catalogSearcher
	cache   cacheStore
	cfg     config.CatalogConfig
	metrics *MetricsService
	logger  *zap.Logger
}

// NewCatalogService constructs the catalog search service.
func NewCatalogService(repo catalogSearcher, cache cacheStore, cfg config.CatalogConfig, metrics *MetricsService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, cfg: cfg, metrics: metrics, logger: logger}
}

// Search runs a paginated prefix search, consulting the cache first.
func (s *CatalogService) Search(ctx context.Context, query dto.CatalogSearchQuery) (CatalogSearchResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.Limit
	if pageSize < 1 {
		pageSize = s.cfg.DefaultPageSize
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}

	key := fmt.Sprintf("catalog:search:%s:%d:%d", query.Search, page, pageSize)
	var cached CatalogSearchResult
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			cached.CacheHit = true
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Sugar().Warnw("catalog cache read failed", "key", key, "error", err)
		}
	}
	s.metrics.RecordCacheLookup(false)

	courses, total, err := s.repo.Search(ctx, query.Search, page, pageSize)
	if err != nil {
		return CatalogSearchResult{}, fmt.Errorf("catalog search: %w", err)
	}

	result := CatalogSearchResult{
		Courses: courses,
		Pagination: models.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalCount: total,
		},
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
			s.logger.Sugar().Warnw("catalog cache write failed", "key", key, "error", err)
		}
	}
	return result, nil
}
