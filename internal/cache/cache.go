package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ppiankov/strata/internal/model"
)

// keyVersion changes whenever extraction rules change so stale reports are
// never served
const keyVersion = "strata:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the document text and the context window,
// the only inputs the extractors depend on
func Key(text string, window int) string {
	h := sha256.New()
	h.Write([]byte(strconv.Itoa(window)))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return keyVersion + hex.EncodeToString(h.Sum(nil))
}

// ReportCache stores extracted reports as JSON in a backing Cache
type ReportCache struct {
	backend Cache
}

// NewReportCache wraps a backend
func NewReportCache(backend Cache) *ReportCache {
	return &ReportCache{backend: backend}
}

// Get returns the cached report for key. Entries that no longer decode are
// treated as misses.
func (c *ReportCache) Get(key string) (*model.Report, bool) {
	data, ok := c.backend.Get(key)
	if !ok {
		return nil, false
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		_ = c.backend.Delete(key)
		return nil, false
	}
	return &report, true
}

// Put stores report under key with the backend's default TTL
func (c *ReportCache) Put(key string, report *model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return c.backend.Set(key, data, 0)
}

// Clear drops every cached report
func (c *ReportCache) Clear() error {
	return c.backend.Clear()
}
