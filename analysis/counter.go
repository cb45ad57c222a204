package analysis

import (
	"cmp"
	"slices"
)

// counter tallies keys and remembers the order they were first seen in, so that ranking
// ties resolve the same way on every run.
type counter[K cmp.Ordered] struct {
	counts map[K]int
	order  []K
}

func newCounter[K cmp.Ordered]() *counter[K] {
	return &counter[K]{counts: make(map[K]int)}
}

func (c *counter[K]) add(k K, n int) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k] += n
}

func (c *counter[K]) addAll(keys []K) {
	for _, k := range keys {
		c.add(k, 1)
	}
}

func (c *counter[K]) len() int { return len(c.order) }

// mostCommon returns up to n keys by descending count; equal counts keep first-seen order.
// n <= 0 returns every key.
func (c *counter[K]) mostCommon(n int) []K {
	keys := slices.Clone(c.order)
	slices.SortStableFunc(keys, func(a, b K) int {
		return cmp.Compare(c.counts[b], c.counts[a])
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// ranked returns mostCommon(n) as label/count pairs.
func ranked(c *counter[string], n int) []Count {
	keys := c.mostCommon(n)
	out := make([]Count, len(keys))
	for i, k := range keys {
		out[i] = Count{Label: k, Count: c.counts[k]}
	}
	return out
}

// maxSender returns the sender with the largest value, breaking ties alphabetically.
// ok is false for an empty map.
func maxSender[V cmp.Ordered](m map[string]V) (sender string, best V, ok bool) {
	for s, v := range m {
		if !ok || v > best || (v == best && s < sender) {
			sender, best, ok = s, v, true
		}
	}
	return sender, best, ok
}

// minSender is maxSender's counterpart.
func minSender[V cmp.Ordered](m map[string]V) (sender string, best V, ok bool) {
	for s, v := range m {
		if !ok || v < best || (v == best && s < sender) {
			sender, best, ok = s, v, true
		}
	}
	return sender, best, ok
}
