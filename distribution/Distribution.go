// Package distribution implements batched action distributions. A
// Distribution holds one probability distribution per worker so that a
// single call samples actions for a full batch of workers at once.
package distribution

import (
	"gonum.org/v1/gonum/mat"
)

// Distribution is a batch of per-worker action distributions. Index i
// of any input or output vector corresponds to worker i. Actions are
// represented as float64: for discrete distributions they hold the
// integral action index, for continuous distributions the action value
// itself.
type Distribution interface {
	// Sample draws one action per worker
	Sample() *mat.VecDense

	// LogProb returns the per-worker log probability (or log density)
	// of taking the argument actions
	LogProb(actions *mat.VecDense) *mat.VecDense

	// Entropy returns the per-worker distribution entropy
	Entropy() *mat.VecDense
}
