package service

import (
	"context"
	"fmt"
	"time"

	"connectcampus/internal/domain/user/model"
	"connectcampus/pkg/cache"
	"connectcampus/pkg/logger"
	"connectcampus/pkg/metrics"
)

// 缓存键常量
const (
	AuthorCacheKeyPrefix = "author:"
	AuthorCacheTTL       = time.Minute * 5 // 档案改名后最多 5 分钟内展示旧名
)

// CachedAuthorService 带缓存的作者展示服务。
// Resolve 走库（写路径必须拿到最新档案），展示查询走缓存。
type CachedAuthorService struct {
	inner AuthorService
	cache cache.CacheService
}

func NewCachedAuthorService(inner AuthorService, cache cache.CacheService) AuthorService {
	return &CachedAuthorService{
		inner: inner,
		cache: cache,
	}
}

func (s *CachedAuthorService) authorCacheKey(ref model.AuthorRef) string {
	return fmt.Sprintf("%s%s:%s", AuthorCacheKeyPrefix, ref.Kind, ref.ID)
}

func (s *CachedAuthorService) Resolve(userID string, role int) (model.AuthorRef, error) {
	return s.inner.Resolve(userID, role)
}

func (s *CachedAuthorService) GetDisplay(ref model.AuthorRef) model.AuthorDisplay {
	ctx := context.Background()
	cacheKey := s.authorCacheKey(ref)

	var cached model.AuthorDisplay
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		metrics.Default.RecordCacheLookup("author", true)
		return cached
	}
	metrics.Default.RecordCacheLookup("author", false)

	display := s.inner.GetDisplay(ref)

	if err := s.cache.Set(ctx, cacheKey, display, AuthorCacheTTL); err != nil {
		// 缓存失败不影响业务逻辑，只记录日志
		logger.Sugar.Warnf("Failed to cache author display %s: %v", cacheKey, err)
	}

	return display
}

func (s *CachedAuthorService) BatchDisplay(refs []model.AuthorRef) map[model.AuthorRef]model.AuthorDisplay {
	ctx := context.Background()
	result := make(map[model.AuthorRef]model.AuthorDisplay, len(refs))

	var misses []model.AuthorRef
	for _, ref := range refs {
		if _, seen := result[ref]; seen {
			continue
		}

		var cached model.AuthorDisplay
		if err := s.cache.Get(ctx, s.authorCacheKey(ref), &cached); err == nil {
			metrics.Default.RecordCacheLookup("author", true)
			result[ref] = cached
			continue
		}
		metrics.Default.RecordCacheLookup("author", false)
		misses = append(misses, ref)
	}

	if len(misses) == 0 {
		return result
	}

	loaded := s.inner.BatchDisplay(misses)
	for ref, display := range loaded {
		result[ref] = display
		if err := s.cache.Set(ctx, s.authorCacheKey(ref), display, AuthorCacheTTL); err != nil {
			logger.Sugar.Warnf("Failed to cache author display for %s: %v", ref.ID, err)
		}
	}

	return result
}
