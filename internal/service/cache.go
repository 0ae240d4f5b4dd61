// cache.go — LRU-кэш карточек с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/casedesk/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cd_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш карточек.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cd_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша карточек.",
	})
)

// CaseCache — LRU-кэш карточек (в форме после нормализации чтения).
// Хранит и отдаёт копии, поэтому вызывающий может менять результат.
type CaseCache struct {
	cache *expirable.LRU[string, *model.Case]
}

// NewCaseCache создаёт кэш на maxSize записей со временем жизни ttl.
func NewCaseCache(maxSize int, ttl time.Duration) *CaseCache {
	return &CaseCache{cache: expirable.NewLRU[string, *model.Case](maxSize, nil, ttl)}
}

// Get возвращает копию карточки из кэша.
func (c *CaseCache) Get(id string) (*model.Case, bool) {
	val, ok := c.cache.Get(id)
	if ok {
		cacheHitsTotal.Inc()
		return val.Clone(), true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет запись в кэше.
func (c *CaseCache) Set(cs *model.Case) {
	c.cache.Add(cs.ID, cs.Clone())
}

// Delete удаляет запись из кэша.
func (c *CaseCache) Delete(id string) {
	c.cache.Remove(id)
}
