// internal/service/cache.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"aq-insight/internal/common/logger"
	"aq-insight/internal/common/metrics"
	"aq-insight/internal/models"
)

// ForecastCache memoizes annual forecasts in Redis. Misses and Redis
// failures both fall through to recomputation.
type ForecastCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewForecastCache wires a Redis-backed cache.
func NewForecastCache(client *redis.Client, ttl time.Duration, log logger.Logger) *ForecastCache {
	return &ForecastCache{client: client, ttl: ttl, log: log}
}

func forecastKey(country string, year int) string {
	return fmt.Sprintf("forecast:%s:%d", country, year)
}

// Get returns the cached forecast, or nil on miss.
func (c *ForecastCache) Get(ctx context.Context, country string, year int) *models.AnnualForecast {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, forecastKey(country, year)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("forecast cache read failed", map[string]interface{}{"error": err.Error()})
		}
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil
	}

	var result models.AnnualForecast
	if err := json.Unmarshal(raw, &result); err != nil {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.CacheHits.WithLabelValues("hit").Inc()
	return &result
}

// Set stores a forecast, best effort.
func (c *ForecastCache) Set(ctx context.Context, result *models.AnnualForecast) {
	if c == nil || c.client == nil || result == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, forecastKey(result.Country, result.TargetYear), raw, c.ttl).Err(); err != nil {
		c.log.Warn("forecast cache write failed", map[string]interface{}{"error": err.Error()})
	}
}
