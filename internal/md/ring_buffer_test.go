package md

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferMean(t *testing.T) {
	buffer := NewRingBuffer(3)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		buffer.Add(v)
	}

	mean, err := buffer.Mean()
	require.NoError(t, err)
	assert.Equal(t, (3.0+4.0+5.0)/3.0, mean)
	assert.Equal(t, []float64{3, 4, 5}, buffer.Values())
}

func TestRingBufferMeanInsufficientData(t *testing.T) {
	buffer := NewRingBuffer(5)
	buffer.Add(1)

	_, err := buffer.Mean()
	assert.ErrorIs(t, err, ErrNotEnoughData)
	assert.Equal(t, 1, buffer.Len())
	assert.False(t, buffer.Full())
}
