package actorcritic

import "fmt"

// Config represents a configuration for an actor-critic rollout agent
type Config struct {
	// Discount is the reward discount factor γ
	Discount float64

	// GAELambda is the generalized advantage estimation trace
	// parameter λ
	GAELambda float64

	// NumFramesPerProc is the number of timesteps collected per worker
	// before advantages are computed
	NumFramesPerProc int

	// WindowLength is the number of recent observations stacked into a
	// model state
	WindowLength int

	// SmoothLength is the capacity of the per-worker reward smoothing
	// window
	SmoothLength int
}

// Validate returns an error describing any illegal configuration field
func (c Config) Validate() error {
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], got %v",
			c.Discount)
	}
	if c.GAELambda < 0 || c.GAELambda > 1 {
		return fmt.Errorf("validate: gae lambda must be in [0, 1], got %v",
			c.GAELambda)
	}
	if c.NumFramesPerProc < 1 {
		return fmt.Errorf("validate: numFramesPerProc must be > 0, got %v",
			c.NumFramesPerProc)
	}
	if c.WindowLength < 1 {
		return fmt.Errorf("validate: windowLength must be > 0, got %v",
			c.WindowLength)
	}
	if c.SmoothLength < 1 {
		return fmt.Errorf("validate: smoothLength must be > 0, got %v",
			c.SmoothLength)
	}
	return nil
}
