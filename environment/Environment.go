// Package environment outlines the interface of batched environments,
// which advance a fixed set of logical workers in lockstep.
package environment

import "gonum.org/v1/gonum/mat"

// Environment is a batch of worker environments stepped together. All
// batched values use one row (or entry) per worker.
//
// Workers that reach a terminal state are reset automatically: the
// observation returned by Step for such a worker is the first
// observation of its next episode, while the terminal flag marks the
// boundary for the caller.
type Environment interface {
	// Reset resets every worker and returns the initial observations
	Reset() *mat.Dense

	// Step applies one action per worker and returns the next
	// observations, the rewards, and the terminal flags
	Step(actions *mat.VecDense) (*mat.Dense, *mat.VecDense, []bool)

	// Workers returns the number of workers in the batch
	Workers() int

	// ObsDims returns the number of features in one observation
	ObsDims() int

	// Actions returns the number of discrete actions available
	Actions() int
}
