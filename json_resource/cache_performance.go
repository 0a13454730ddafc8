package json_resource

import (
	"fmt"
	"sync/atomic"
	"time"
)

// CacheStats is a snapshot of how the cache served loads.
type CacheStats struct {
	Hits          int64
	Misses        int64
	Invalidations int64
	Entries       int
	Since         time.Time
}

// Requests is the number of loads that consulted the cache.
func (s CacheStats) Requests() int64 {
	return s.Hits + s.Misses
}

// HitRate returns the share of requests served from memory, in percent.
func (s CacheStats) HitRate() float64 {
	if s.Requests() == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Requests()) * 100
}

func (s CacheStats) String() string {
	return fmt.Sprintf("%d loads, %d hits (%.1f%%), %d misses, %d invalidated, %d files cached, up %s",
		s.Requests(), s.Hits, s.HitRate(), s.Misses, s.Invalidations, s.Entries,
		time.Since(s.Since).Round(time.Millisecond))
}

type cacheCounters struct {
	hits          atomic.Int64
	misses        atomic.Int64
	invalidations atomic.Int64
	since         time.Time
}

func (cm *CacheManager) recordCacheHit() {
	cm.stats.hits.Add(1)
}

func (cm *CacheManager) recordCacheMiss() {
	cm.stats.misses.Add(1)
}

func (cm *CacheManager) recordInvalidation() {
	cm.stats.invalidations.Add(1)
}

// Stats returns the counters since the cache was created.
func (cm *CacheManager) Stats() CacheStats {
	return CacheStats{
		Hits:          cm.stats.hits.Load(),
		Misses:        cm.stats.misses.Load(),
		Invalidations: cm.stats.invalidations.Load(),
		Entries:       cm.Len(),
		Since:         cm.stats.since,
	}
}
