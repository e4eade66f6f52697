// cache.go — LRU-кэш закодированных изображений с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ps_image_cache_hits_total",
		Help: "Общее количество попаданий в кэш изображений.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ps_image_cache_misses_total",
		Help: "Общее количество промахов кэша изображений.",
	})
)

// ImageEncoder — источник base64-представления изображения по location.
type ImageEncoder interface {
	Encode(location string) (string, error)
}

// ImageCache — кэш base64 изображений по location.
// Ошибки кодирования не кэшируются.
type ImageCache struct {
	source ImageEncoder
	cache  *expirable.LRU[string, string]
}

// NewImageCache создаёт кэш поверх source. maxSize == 0 отключает кэш:
// каждое обращение читает файл.
func NewImageCache(source ImageEncoder, maxSize int, ttl time.Duration) *ImageCache {
	c := &ImageCache{source: source}
	if maxSize > 0 {
		c.cache = expirable.NewLRU[string, string](maxSize, nil, ttl)
	}
	return c
}

// Encode возвращает base64 изображения из кэша или источника.
func (c *ImageCache) Encode(location string) (string, error) {
	if c.cache != nil {
		if val, ok := c.cache.Get(location); ok {
			cacheHitsTotal.Inc()
			return val, nil
		}
		cacheMissesTotal.Inc()
	}

	encoded, err := c.source.Encode(location)
	if err != nil {
		return "", err
	}
	if c.cache != nil {
		c.cache.Add(location, encoded)
	}
	return encoded, nil
}

// Invalidate удаляет записи кэша для изменённых файлов.
func (c *ImageCache) Invalidate(locations ...string) {
	if c.cache == nil {
		return
	}
	for _, loc := range locations {
		if loc != "" {
			c.cache.Remove(loc)
		}
	}
}
