// Package tally provides the counting tables behind the report: counters that
// remember first-insertion order and rank by descending count, ties broken by
// that order.
package tally

import (
	"sort"

	"github.com/Luiz-Camacho/analyze-logs/internal/model"
)

// Counter maps keys to occurrence counts.
type Counter struct {
	counts map[string]int
	order  []string
}

// NewCounter returns an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Inc adds one to key.
func (c *Counter) Inc(key string) { c.Add(key, 1) }

// Add adds n to key, inserting it on first use.
func (c *Counter) Add(key string, n int) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

// Get returns the count for key, zero when absent.
func (c *Counter) Get(key string) int {
	if c == nil {
		return 0
	}
	return c.counts[key]
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Keys returns the keys in first-insertion order.
func (c *Counter) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Total returns the sum of all counts.
func (c *Counter) Total() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// MostCommon returns up to n entries ordered by descending count. Equal
// counts keep first-insertion order. n <= 0 returns every entry.
func (c *Counter) MostCommon(n int) []model.RankedCount {
	if c.Len() == 0 {
		return nil
	}
	ranked := make([]model.RankedCount, 0, len(c.order))
	for _, key := range c.order {
		ranked = append(ranked, model.RankedCount{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// TopKeys is MostCommon without the counts.
func (c *Counter) TopKeys(n int) []string {
	ranked := c.MostCommon(n)
	keys := make([]string, len(ranked))
	for i, r := range ranked {
		keys[i] = r.Key
	}
	return keys
}
