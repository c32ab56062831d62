package telemetry

import "fmt"

// Multi is a Sink that fans every write out to each of its sinks. A
// failing sink does not stop the write from reaching the others.
type Multi []Sink

// Scalar implements the Sink interface
func (m Multi) Scalar(tag string, value float64, step int) error {
	var failed int
	for _, s := range m {
		if err := s.Scalar(tag, value, step); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("scalar: %v sink(s) failed", failed)
	}
	return nil
}

// Histogram implements the Sink interface
func (m Multi) Histogram(tag string, values []float64, step int) error {
	var failed int
	for _, s := range m {
		if err := s.Histogram(tag, values, step); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("histogram: %v sink(s) failed", failed)
	}
	return nil
}
