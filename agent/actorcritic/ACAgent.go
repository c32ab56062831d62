// Package actorcritic implements rollout collection and generalized
// advantage estimation for batched on-policy actor-critic agents.
//
// An ACAgent drives a fixed number of logical workers in lockstep: one
// Predict selects actions for the whole batch, the paired Observe
// commits the resulting transitions, and once a fixed horizon of
// timesteps has been collected, AggregateExperiences turns the rollout
// into per-timestep advantage estimates, bootstrapping the final
// residual from the value of the newest, not-yet-stored state.
package actorcritic

import (
	"fmt"

	"github.com/goaclib/goac/agent"
	"github.com/goaclib/goac/memory"
	"github.com/goaclib/goac/telemetry"
	"github.com/goaclib/goac/tracker"
	"gonum.org/v1/gonum/mat"
)

// ACAgent collects fixed-horizon rollouts from a batch of workers and
// computes GAE(λ) advantages over them. The policy/value model and the
// optional feature processor are supplied by the caller; the rollout
// memory and episodic tracker are owned exclusively by the agent.
type ACAgent struct {
	model     agent.Model
	processor agent.Processor // may be nil

	memory  memory.Store
	tracker *tracker.Episode

	discount  float64
	gaeLambda float64
	workers   int
	horizon   int

	pending    memory.Handle
	hasPending bool
	newObs     *mat.Dense
}

var _ agent.Agent = (*ACAgent)(nil)

// New returns a new ACAgent for the argument number of workers. The
// model selects actions and estimates state values; processor, if
// non-nil, transforms raw observations before they reach the memory
// and the model. Episode summaries are written to sink.
func New(model agent.Model, processor agent.Processor,
	sink telemetry.Sink, workers int, c Config) (*ACAgent, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if workers < 1 {
		return nil, fmt.Errorf("new: workers must be > 0, got %v", workers)
	}

	mem, err := memory.NewACMemory(c.NumFramesPerProc, c.WindowLength)
	if err != nil {
		return nil, fmt.Errorf("new: could not create rollout memory: %v", err)
	}

	return &ACAgent{
		model:     model,
		processor: processor,
		memory:    mem,
		tracker:   tracker.NewEpisode(workers, c.SmoothLength, sink),
		discount:  c.Discount,
		gaeLambda: c.GAELambda,
		workers:   workers,
		horizon:   c.NumFramesPerProc,
	}, nil
}

// Workers returns the number of workers the agent drives
func (a *ACAgent) Workers() int {
	return a.workers
}

// Horizon returns the number of timesteps collected per rollout
func (a *ACAgent) Horizon() int {
	return a.horizon
}

// HorizonFull returns whether a full rollout has been collected and
// AggregateExperiences may be called.
func (a *ACAgent) HorizonFull() bool {
	return a.memory.Full()
}

// Tracker returns the agent's episodic tracker
func (a *ACAgent) Tracker() *tracker.Episode {
	return a.tracker
}

// process applies the feature processor, if any
func (a *ACAgent) process(obs *mat.Dense) *mat.Dense {
	if a.processor == nil {
		return obs
	}
	return a.processor.Process(obs)
}

// Predict selects one action per worker for the argument observations
// (one row per worker). The windowed state is reconstructed from the
// rollout memory, run through the model, and an action is sampled from
// the resulting distribution. When training, the value, log
// probability, and entropy computed here are cached against the
// timestep that the next Observe call will commit, so that the stored
// statistics always describe the exact moment the action was drawn.
func (a *ACAgent) Predict(obs *mat.Dense, training bool) (*mat.VecDense, error) {
	obs = a.process(obs)
	state := a.memory.RecentState(obs)

	dist, values, err := a.model.Forward(state)
	if err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}

	h, err := a.memory.Begin()
	if err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}

	actions := dist.Sample()
	if training {
		logProbs := dist.LogProb(actions)
		entropies := dist.Entropy()
		if err := a.memory.CacheStats(h, values, logProbs, entropies); err != nil {
			return nil, fmt.Errorf("predict: %v", err)
		}
	}

	a.pending = h
	a.hasPending = true
	return actions, nil
}

// Observe commits the transition for the immediately preceding Predict
// call. The obs argument is the observation Predict acted on; actions,
// rewards, and terminals describe the outcome for each worker. Exactly
// one Observe must follow each Predict.
func (a *ACAgent) Observe(obs *mat.Dense, actions, rewards *mat.VecDense,
	terminals []bool, info []agent.Info, training bool) error {
	_ = info

	if !a.hasPending {
		return fmt.Errorf("observe: no prediction to pair with")
	}

	obs = a.process(obs)
	if err := a.memory.Append(a.pending, obs, actions, rewards, terminals,
		training); err != nil {
		return fmt.Errorf("observe: %v", err)
	}
	a.hasPending = false

	a.tracker.Record(actions, rewards, terminals)
	return nil
}

// SetNewObs supplies the observations that followed the last observed
// transition. They are used only to compute the bootstrap value during
// AggregateExperiences and are never stored as a transition.
func (a *ACAgent) SetNewObs(obs *mat.Dense) {
	a.newObs = a.process(obs)
}

// newestState returns the windowed state for the observations supplied
// by SetNewObs, without mutating the rollout memory.
func (a *ACAgent) newestState() *mat.Dense {
	return a.memory.RecentState(a.newObs)
}
