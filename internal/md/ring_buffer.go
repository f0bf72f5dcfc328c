package md

// RingBuffer keeps the most recent values of a fixed-size window.
type RingBuffer struct {
	values []float64
	size   int
	index  int
	filled bool
}

func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		values: make([]float64, size),
		size:   size,
	}
}

func (r *RingBuffer) Add(value float64) {
	r.values[r.index] = value
	r.index = (r.index + 1) % r.size
	if r.index == 0 {
		r.filled = true
	}
}

func (r *RingBuffer) Len() int {
	if r.filled {
		return r.size
	}
	return r.index
}

func (r *RingBuffer) Full() bool {
	return r.filled
}

// Values returns the buffered values, oldest first.
func (r *RingBuffer) Values() []float64 {
	length := r.Len()
	result := make([]float64, 0, length)
	if length == 0 {
		return result
	}
	if r.filled {
		result = append(result, r.values[r.index:]...)
	}
	result = append(result, r.values[:r.index]...)
	return result
}

// Mean returns the average of the buffered values, or ErrNotEnoughData until
// the window is full.
func (r *RingBuffer) Mean() (float64, error) {
	if !r.filled {
		return 0, ErrNotEnoughData
	}
	sum := 0.0
	for _, v := range r.Values() {
		sum += v
	}
	return sum / float64(r.size), nil
}
