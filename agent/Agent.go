// Package agent defines the interfaces of batched on-policy agents and
// of the collaborators they drive.
package agent

import (
	"github.com/goaclib/goac/distribution"
	"gonum.org/v1/gonum/mat"
)

// Processor transforms raw observations into the representation fed to
// the model. Implementations must be pure: a Processor is applied to
// the same observation on the predict, observe, and bootstrap paths
// and must give the same answer each time.
type Processor interface {
	Process(obs *mat.Dense) *mat.Dense
}

// Model is a policy/value model. Forward maps a batch of states (one
// row per worker) to an action distribution over the batch and a
// scalar value estimate per worker. Models whose value head predicts
// more than one output must sum it to a scalar per worker before
// returning.
type Model interface {
	Forward(states *mat.Dense) (distribution.Distribution, *mat.VecDense, error)
}

// Info carries auxiliary per-worker data from the environment. It is
// passed through Observe for parity with common environment APIs but
// is not interpreted by agents.
type Info map[string]interface{}

// Agent is a batched on-policy agent. Predict and Observe are called
// in strict lockstep, once per timestep for the full worker batch:
// every Predict must be followed by exactly one Observe carrying the
// observation Predict acted on, before the next Predict.
//
// SetNewObs supplies the observation following the last observed
// transition; AggregateExperiences consumes the collected rollout and
// returns per-timestep training targets, each entry a vector over
// workers.
type Agent interface {
	Predict(obs *mat.Dense, training bool) (*mat.VecDense, error)

	Observe(obs *mat.Dense, actions, rewards *mat.VecDense,
		terminals []bool, info []Info, training bool) error

	SetNewObs(obs *mat.Dense)

	AggregateExperiences() (advantages, logProbs,
		entropies []*mat.VecDense, err error)
}
