package core

import (
	"api/internal/cache"
	"api/internal/models"

	"go.uber.org/zap"
)

func NewCache(config models.CacheConfiguration) cache.ICache {
	switch config.Type {
	case "redis":
		redisCache, err := cache.NewRueidisCache(
			config.Redis.Hosts,
			config.Redis.Password,
			config.Redis.TLSEnabled,
			config.Redis.TLSServerName,
		)
		if err != nil {
			zap.L().Fatal("Failed to connect to cache", zap.Error(err))
		}
		return redisCache
	default:
		zap.L().Fatal("Unknown cache type", zap.String("type", config.Type))
		return nil
	}
}
