// pkg/schema/histogram.go
package schema

import (
	"fmt"

	"github.com/hershd23/query-optimization/pkg/types"
)

// Default histogram shapes. Integer columns start with a wide guess until the
// first recompute tightens the bounds to the stored min/max.
const (
	DefaultIntegerBuckets = 2000
	DefaultTextBuckets    = 200

	DefaultIntegerLow  = 0
	DefaultIntegerHigh = 1_000_000
)

// Histogram is an equi-width histogram over int64 values. Values outside
// [lo, hi] are ignored on Add; selectivity probes clamp into the bounds.
type Histogram struct {
	buckets []int
	lo      int64
	hi      int64
	width   int64
	total   int

	// ExclusiveBoundary switches range selectivities to exclude the bucket
	// containing the probe value. The default (false) includes it in both
	// the "<" and ">" sums, matching the reference cost model even though
	// the three-way probabilities then overlap at the boundary.
	ExclusiveBoundary bool
}

// NewHistogram creates a histogram with the given bucket count and value
// bounds. Bounds are inclusive on both ends.
func NewHistogram(bucketCount int, lo, hi int64) *Histogram {
	h := &Histogram{}
	h.init(bucketCount, lo, hi)
	return h
}

func (h *Histogram) init(bucketCount int, lo, hi int64) {
	if hi < lo {
		hi = lo
	}
	span := hi - lo + 1
	width := span / int64(bucketCount)
	if span%int64(bucketCount) != 0 {
		width++
	}
	if width < 1 {
		width = 1
	}

	h.buckets = make([]int, bucketCount)
	h.lo = lo
	h.hi = hi
	h.width = width
	h.total = 0
}

// Reset reinitializes the histogram with new bounds, dropping all counts.
func (h *Histogram) Reset(lo, hi int64) {
	h.init(len(h.buckets), lo, hi)
}

// Bounds returns the inclusive low and high bounds.
func (h *Histogram) Bounds() (int64, int64) {
	return h.lo, h.hi
}

// Total returns the number of values counted so far.
func (h *Histogram) Total() int {
	return h.total
}

// BucketCount returns the number of buckets.
func (h *Histogram) BucketCount() int {
	return len(h.buckets)
}

// Add counts v if it falls within the histogram bounds.
func (h *Histogram) Add(v int64) {
	if v < h.lo || v > h.hi {
		return
	}
	h.buckets[h.bucketFor(v)]++
	h.total++
}

// bucketFor maps an in-range value to its bucket index.
func (h *Histogram) bucketFor(v int64) int {
	b := int((v - h.lo) / h.width)
	if b > len(h.buckets)-1 {
		b = len(h.buckets) - 1
	}
	return b
}

// clamp pulls an arbitrary probe value into the histogram bounds.
func (h *Histogram) clamp(v int64) int64 {
	if v < h.lo {
		return h.lo
	}
	if v > h.hi {
		return h.hi
	}
	return v
}

// Selectivity estimates the fraction of counted values satisfying "value op v".
// Only =, > and < are supported; the planners surface ErrPredicateUnsupported
// for anything else.
func (h *Histogram) Selectivity(op types.Op, v int64) (float64, error) {
	if h.total == 0 {
		return 0, nil
	}

	b := h.bucketFor(h.clamp(v))

	switch op {
	case types.OpEquals:
		return float64(h.buckets[b]) / float64(h.total), nil
	case types.OpGreaterThan:
		start := b
		if h.ExclusiveBoundary {
			start = b + 1
		}
		count := 0
		for i := start; i < len(h.buckets); i++ {
			count += h.buckets[i]
		}
		return float64(count) / float64(h.total), nil
	case types.OpLessThan:
		end := b
		if h.ExclusiveBoundary {
			end = b - 1
		}
		count := 0
		for i := 0; i <= end; i++ {
			count += h.buckets[i]
		}
		return float64(count) / float64(h.total), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrPredicateUnsupported, op)
	}
}

// Clone returns a deep copy of the histogram.
func (h *Histogram) Clone() *Histogram {
	dup := &Histogram{
		buckets:           make([]int, len(h.buckets)),
		lo:                h.lo,
		hi:                h.hi,
		width:             h.width,
		total:             h.total,
		ExclusiveBoundary: h.ExclusiveBoundary,
	}
	copy(dup.buckets, h.buckets)
	return dup
}
