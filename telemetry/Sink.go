// Package telemetry implements sinks for scalar and histogram training
// statistics. Sinks are best effort: callers are expected to log and
// swallow sink errors rather than letting them interrupt training.
package telemetry

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sink consumes scalar and histogram statistics keyed by a tag and a
// step index (for episodic data, the episode index).
type Sink interface {
	// Scalar records a single value for a tag at a step
	Scalar(tag string, value float64, step int) error

	// Histogram records the distribution of values for a tag at a step
	Histogram(tag string, values []float64, step int) error
}

// Summary holds the distribution statistics kept for a histogram
// write.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summarize computes the Summary of a set of values
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	return Summary{
		Count:  len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   stat.Mean(values, nil),
		StdDev: stat.StdDev(values, nil),
	}
}

// Noop is a Sink that discards everything written to it
type Noop struct{}

// NewNoop returns a new Noop sink
func NewNoop() Noop {
	return Noop{}
}

// Scalar implements the Sink interface
func (Noop) Scalar(string, float64, int) error {
	return nil
}

// Histogram implements the Sink interface
func (Noop) Histogram(string, []float64, int) error {
	return nil
}
