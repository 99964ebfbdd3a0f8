package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Cached memoises translations in Redis and collapses identical concurrent requests into
// a single upstream call. Redis is optional; cache failures only cost a round trip.
type Cached struct {
	next Translator
	rdb  *redis.Client
	ttl  time.Duration
	sf   singleflight.Group
	log  *logrus.Logger
}

func NewCached(next Translator, rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *Cached {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Cached{next: next, rdb: rdb, ttl: ttl, log: log}
}

func cacheKey(text, from, to string) string {
	sum := sha256.Sum256([]byte(text))
	return "translate:" + from + ":" + to + ":" + hex.EncodeToString(sum[:])
}

func (c *Cached) Translate(ctx context.Context, text, from, to string) (string, error) {
	key := cacheKey(text, from, to)
	if c.rdb != nil {
		v, err := c.rdb.Get(ctx, key).Result()
		switch {
		case err == nil:
			return v, nil
		case !errors.Is(err, redis.Nil):
			c.log.WithError(err).Warn("translation cache read failed")
		}
	}

	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		out, err := c.next.Translate(ctx, text, from, to)
		if err != nil {
			return "", err
		}
		if c.rdb != nil {
			if err := c.rdb.Set(ctx, key, out, c.ttl).Err(); err != nil {
				c.log.WithError(err).Warn("translation cache write failed")
			}
		}
		return out, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
