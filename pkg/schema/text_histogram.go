// pkg/schema/text_histogram.go
package schema

import (
	"github.com/hershd23/query-optimization/pkg/types"
)

// TextHistogram estimates selectivity for text columns by mapping strings
// onto an integer histogram through a fixed-width prefix encoding.
type TextHistogram struct {
	hist *Histogram
}

// NewTextHistogram creates a text histogram spanning the encodings of ""
// through "zzzz".
func NewTextHistogram(bucketCount int) *TextHistogram {
	return &TextHistogram{
		hist: NewHistogram(bucketCount, EncodeText(""), EncodeText("zzzz")),
	}
}

// EncodeText packs the first four bytes of s, zero-padded on the right, into
// a big-endian 32-bit integer. Longer strings collapse onto their prefix.
func EncodeText(s string) int64 {
	var enc int64
	for i := 0; i < 4; i++ {
		var b byte
		if i < len(s) {
			b = s[i]
		}
		enc = enc<<8 | int64(b)
	}
	return enc
}

// Add counts a string, clamping its encoding into the histogram range so
// strings above "zzzz" still land in the top bucket.
func (h *TextHistogram) Add(s string) {
	h.hist.Add(h.hist.clamp(EncodeText(s)))
}

// Total returns the number of strings counted.
func (h *TextHistogram) Total() int {
	return h.hist.Total()
}

// Selectivity estimates the fraction of counted strings satisfying
// "value op s" under the prefix encoding.
func (h *TextHistogram) Selectivity(op types.Op, s string) (float64, error) {
	return h.hist.Selectivity(op, EncodeText(s))
}

// Clone returns a deep copy of the text histogram.
func (h *TextHistogram) Clone() *TextHistogram {
	return &TextHistogram{hist: h.hist.Clone()}
}
