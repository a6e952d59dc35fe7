package ph

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrInsufficientSamples indicates an empty sample set.
var ErrInsufficientSamples = errors.New("insufficient samples")

// Average returns the arithmetic mean of a burst of raw ADC counts. Larger
// bursts reduce variance from probe and ADC noise.
func Average(samples []int) (float64, error) {
	if len(samples) == 0 {
		return 0, errors.Wrap(ErrInsufficientSamples, "no samples to average")
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	return sum / float64(len(samples)), nil
}

// TrimmedAverage averages a burst after dropping the single lowest and
// highest counts, which knocks out one-off glitches from a flaky probe.
// Bursts of fewer than 5 samples are averaged as-is since trimming would
// cost too much of the data.
func TrimmedAverage(samples []int) (float64, error) {
	if len(samples) < 5 {
		return Average(samples)
	}

	sorted := make([]int, len(samples))
	copy(sorted, samples)
	sort.Ints(sorted)

	return Average(sorted[1 : len(sorted)-1])
}
