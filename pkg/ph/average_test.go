package ph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverage(t *testing.T) {
	avg, err := Average([]int{2040, 2048, 2056})
	require.NoError(t, err)
	assert.Equal(t, 2048.0, avg)
}

func TestAverage_SingleSample(t *testing.T) {
	avg, err := Average([]int{1800})
	require.NoError(t, err)
	assert.Equal(t, 1800.0, avg)
}

func TestAverage_Empty(t *testing.T) {
	_, err := Average(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientSamples)

	_, err = Average([]int{})
	assert.ErrorIs(t, err, ErrInsufficientSamples)
}

func TestTrimmedAverage_DropsExtremes(t *testing.T) {
	// 0 and 4095 are glitches; the trimmed mean ignores them.
	avg, err := TrimmedAverage([]int{2048, 0, 2048, 4095, 2048})
	require.NoError(t, err)
	assert.Equal(t, 2048.0, avg)
}

func TestTrimmedAverage_SmallBurstUntrimmed(t *testing.T) {
	// Fewer than 5 samples: plain mean, extremes included.
	avg, err := TrimmedAverage([]int{2040, 2048, 2056})
	require.NoError(t, err)
	assert.Equal(t, 2048.0, avg)
}

func TestTrimmedAverage_Empty(t *testing.T) {
	_, err := TrimmedAverage(nil)
	assert.ErrorIs(t, err, ErrInsufficientSamples)
}

func TestTrimmedAverage_DoesNotReorderInput(t *testing.T) {
	samples := []int{4095, 2048, 0, 2048, 2048}
	_, err := TrimmedAverage(samples)
	require.NoError(t, err)
	assert.Equal(t, []int{4095, 2048, 0, 2048, 2048}, samples)
}
