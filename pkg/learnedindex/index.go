// pkg/learnedindex/index.go
package learnedindex

import "math"

// maxLinearSteps bounds the walk of the linear refinement in each direction.
const maxLinearSteps = 10

// Index predicts the position of a key in a sorted array with a linear
// model, then refines locally. Operations counts key comparisons per search
// and is the measure used to compare against plain binary search.
type Index struct {
	data  []int64
	model LinearRegression

	Operations int
}

// New fits an index over data, which must be sorted ascending.
func New(data []int64) *Index {
	xs := make([]float64, len(data))
	ys := make([]float64, len(data))
	for i, v := range data {
		xs[i] = float64(i)
		ys[i] = float64(v)
	}

	ix := &Index{data: data}
	ix.model.Fit(xs, ys)
	return ix
}

// Model returns the fitted regression parameters.
func (ix *Index) Model() LinearRegression {
	return ix.model
}

// Len returns the number of indexed values.
func (ix *Index) Len() int {
	return len(ix.data)
}

// predict returns the model's position estimate for key, clamped to a valid
// index. The model is fitted as value over position, so the estimate solves
// the fitted line for the position at which it reaches key.
func (ix *Index) predict(key int64) int {
	est := (float64(key) - ix.model.Intercept) / ix.model.Slope
	if math.IsNaN(est) || est < 0 {
		return 0
	}
	if est > float64(len(ix.data)-1) {
		return len(ix.data) - 1
	}
	return int(math.Round(est))
}

// Search finds key by binary-searching a window of ±√n around the predicted
// position. Returns the matched index or -1.
func (ix *Index) Search(key int64) int {
	ix.Operations = 0
	if len(ix.data) == 0 {
		return -1
	}

	pos := ix.predict(key)
	window := int(math.Sqrt(float64(len(ix.data))))
	if window < 1 {
		window = 1
	}

	left := pos - window
	if left < 0 {
		left = 0
	}
	right := pos + window
	if right > len(ix.data)-1 {
		right = len(ix.data) - 1
	}

	return ix.binarySearch(key, left, right)
}

// SearchLinear finds key by walking at most maxLinearSteps positions left
// while the probe is too large, then at most maxLinearSteps right while it
// is too small. Succeeds only if the final probe equals the key.
func (ix *Index) SearchLinear(key int64) int {
	ix.Operations = 0
	if len(ix.data) == 0 {
		return -1
	}

	pos := ix.predict(key)

	for steps := 0; steps < maxLinearSteps; steps++ {
		ix.Operations++
		if ix.data[pos] <= key || pos == 0 {
			break
		}
		pos--
	}
	for steps := 0; steps < maxLinearSteps; steps++ {
		ix.Operations++
		if ix.data[pos] >= key || pos == len(ix.data)-1 {
			break
		}
		pos++
	}

	ix.Operations++
	if ix.data[pos] == key {
		return pos
	}
	return -1
}

// binarySearch searches data[left..right] inclusive, counting one operation
// per probe.
func (ix *Index) binarySearch(key int64, left, right int) int {
	for left <= right {
		ix.Operations++
		mid := left + (right-left)/2

		if ix.data[mid] == key {
			return mid
		}
		if ix.data[mid] < key {
			left = mid + 1
		} else {
			right = mid - 1
		}
	}
	return -1
}

// BinarySearch searches the whole array the classic way, returning the
// matched index or -1 and the number of probes. It is the baseline the
// learned index is measured against.
func BinarySearch(data []int64, key int64) (int, int) {
	operations := 0
	left, right := 0, len(data)-1

	for left <= right {
		operations++
		mid := left + (right-left)/2

		if data[mid] == key {
			return mid, operations
		}
		if data[mid] < key {
			left = mid + 1
		} else {
			right = mid - 1
		}
	}
	return -1, operations
}
