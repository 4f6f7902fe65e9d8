package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
)

// TextCache stores extracted text by content key.
type TextCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, text string, ttl time.Duration) error
}

type redisTextCache struct {
	client *redis.Client
	prefix string
}

// NewRedisTextCache connects to redisURL and pings it. Callers treat an
// error as "cache disabled".
func NewRedisTextCache(ctx context.Context, redisURL string) (TextCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}

	return &redisTextCache{client: client, prefix: "rr:text:"}, nil
}

// Get implements TextCache.
func (c *redisTextCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set implements TextCache.
func (c *redisTextCache) Set(ctx context.Context, key, text string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, text, ttl).Err()
}

type cachedTextExtractor struct {
	next   TextExtractor
	cache  TextCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTextExtractor puts cache in front of next. Identical file
// contents share one cache entry regardless of filename. Cache errors are
// logged and bypassed. A nil cache returns next unchanged.
func NewCachedTextExtractor(next TextExtractor, cache TextCache, ttl time.Duration, log *zap.Logger) TextExtractor {
	if cache == nil {
		return next
	}
	return &cachedTextExtractor{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.OrNop(log),
	}
}

// ExtractText implements TextExtractor.
func (c *cachedTextExtractor) ExtractText(ctx context.Context, filePath string) (string, error) {
	key, err := contentKey(filePath)
	if err != nil {
		// Let the wrapped extractor produce the real error.
		return c.next.ExtractText(ctx, filePath)
	}

	text, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Debug("text cache lookup failed", zap.String("file", filePath), zap.Error(err))
	} else if ok {
		c.logger.Debug("text cache hit", zap.String("file", filePath))
		return text, nil
	}

	text, err = c.next.ExtractText(ctx, filePath)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, text, c.ttl); err != nil {
		c.logger.Debug("text cache store failed", zap.String("file", filePath), zap.Error(err))
	}

	return text, nil
}

// contentKey hashes the file bytes; the extension is part of the key
// because it selects the parser.
func contentKey(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x%s", h.Sum(nil), strings.ToLower(filepath.Ext(filePath))), nil
}
