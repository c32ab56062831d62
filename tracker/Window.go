package tracker

import (
	"gonum.org/v1/gonum/stat"
)

// Window is a fixed-capacity FIFO window of float64 values. Once the
// window is full, pushing a new value evicts the oldest.
type Window struct {
	data     []float64
	capacity int
	start    int
}

// NewWindow returns a new Window with the argument capacity
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		panic("newWindow: capacity must be > 0")
	}
	return &Window{
		data:     make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Push adds a value to the window, evicting the oldest value if the
// window is at capacity.
func (w *Window) Push(value float64) {
	if len(w.data) < w.capacity {
		w.data = append(w.data, value)
		return
	}
	w.data[w.start] = value
	w.start = (w.start + 1) % w.capacity
}

// Len returns the number of values currently in the window
func (w *Window) Len() int {
	return len(w.data)
}

// Capacity returns the maximum number of values the window holds
func (w *Window) Capacity() int {
	return w.capacity
}

// Values returns the window's values, oldest first
func (w *Window) Values() []float64 {
	values := make([]float64, len(w.data))
	for i := range w.data {
		values[i] = w.data[(w.start+i)%len(w.data)]
	}
	return values
}

// Mean returns the mean of the window's values, or 0 for an empty
// window.
func (w *Window) Mean() float64 {
	if len(w.data) == 0 {
		return 0
	}
	return stat.Mean(w.data, nil)
}
