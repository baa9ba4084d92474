package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-seat-map/internal/config"
)

// HeaderCache reports HIT or MISS on cacheable requests.
const HeaderCache = "X-Cache"

// captureWriter tees the response into buf, up to limit bytes.
type captureWriter struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	size      int64
	limit     int64
	truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	switch {
	case cw.limit <= 0:
		cw.buf.Write(b)
	case cw.size+int64(len(b)) <= cw.limit:
		cw.buf.Write(b)
	default:
		cw.truncated = true
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKey hashes the parts of the request selected by cfg.KeyStrategy.
// Keys use the concrete request path so every show has its own entry.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	return cacheKeyFor(cfg, r.Method, r.URL.Path, r.URL.RawQuery)
}

// cacheKeyFor is <prefix>:<hash of path>[:<hash of query>]. Every entry of
// one path shares the first segment so it can be dropped with a SCAN.
func cacheKeyFor(cfg config.CacheConfig, method, path, query string) string {
	key := pathKey(cfg, method, path)
	if strings.ToLower(cfg.KeyStrategy) == "path" {
		return key
	}
	return key + ":" + hash("q", query)
}

func pathKey(cfg config.CacheConfig, method, path string) string {
	if strings.ToLower(cfg.KeyStrategy) == "method_path_query" {
		return cfg.Prefix + ":" + hash("method", method, "path", path)
	}
	return cfg.Prefix + ":" + hash("path", path)
}

func hash(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%x", sum[:])
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdr)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	copy(out[8:], hdr)
	copy(out[8+len(hdr):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// RedisCache replays successful responses from Redis for cfg.TTL. With
// caching disabled or no client it is a no-op.
func RedisCache(logger *logrus.Logger, cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	limit := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg, c)

			bs, err := rdb.Get(ctx, key).Bytes()
			if err != nil && err != redis.Nil {
				logger.WithError(err).WithField("key", key).Warn("cache: redis get failed")
			}
			if err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set(HeaderCache, "HIT")
					c.Response().WriteHeader(status)
					_, err := c.Response().Write(body)
					return err
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: limit}
			c.Response().Writer = cw
			c.Response().Header().Set(HeaderCache, "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated {
				return nil
			}

			hdr := c.Response().Header().Clone()
			hdr.Del(HeaderCache)
			hdr.Del(HeaderRequestID)
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			// the request context may already be done once the body is written
			if err := rdb.SetEx(context.Background(), key, payload, ttl).Err(); err != nil {
				logger.WithError(err).WithField("key", key).Warn("cache: redis set failed")
			}
			return nil
		}
	}
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// CacheInvalidator drops cached GET responses of a path, whatever their
// query string. It is a no-op when caching is off.
type CacheInvalidator struct {
	cfg    config.CacheConfig
	rdb    *redis.Client
	logger *logrus.Logger
}

// NewCacheInvalidator pairs with RedisCache built from the same cfg.
func NewCacheInvalidator(logger *logrus.Logger, cfg config.CacheConfig, rdb *redis.Client) *CacheInvalidator {
	return &CacheInvalidator{cfg: cfg, rdb: rdb, logger: logger}
}

// InvalidatePath deletes every cached entry for path and returns how many
// keys were removed.
func (ci *CacheInvalidator) InvalidatePath(ctx context.Context, path string) (int, error) {
	if ci == nil || !ci.cfg.Enabled || ci.rdb == nil {
		return 0, nil
	}
	base := pathKey(ci.cfg, http.MethodGet, path)
	keys := []string{base}
	iter := ci.rdb.Scan(ctx, 0, base+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan %s: %w", path, err)
	}
	n, err := ci.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("del %s: %w", path, err)
	}
	ci.logger.WithFields(logrus.Fields{"path": path, "keys": n}).Debug("cache: invalidated")
	return int(n), nil
}
