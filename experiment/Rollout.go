// Package experiment implements functionality for running experiments
package experiment

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/goaclib/goac/agent"
	"github.com/goaclib/goac/environment"
	"github.com/goaclib/goac/utils/progressbar"
)

// Updater consumes the training targets produced at the end of each
// rollout horizon. Implementations perform the policy and value
// optimization step, which is outside the scope of this package.
type Updater interface {
	Update(advantages, logProbs, entropies []*mat.VecDense) error
}

// Rollout runs an agent on a batched environment for a fixed number of
// environment steps, cutting the interaction into fixed-length horizons.
// At the end of each horizon the agent aggregates its stored experience
// into training targets, which are handed to an Updater if one is set.
type Rollout struct {
	env      environment.Environment
	agent    agent.Agent
	updater  Updater
	horizon  int
	maxSteps int

	// Tracks the observation the agent will act on next. The
	// observation recorded with each transition is always the one the
	// action was computed from, not the successor returned by Step.
	obs *mat.Dense
}

// NewRollout returns a new Rollout. The horizon is the number of
// batched environment steps collected before each aggregation, and
// maxSteps is the total number of batched steps to run. An updater of
// nil discards the aggregated targets.
func NewRollout(env environment.Environment, a agent.Agent, updater Updater,
	horizon, maxSteps int) (*Rollout, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("newRollout: horizon must be positive \n\t"+
			"have(%v)", horizon)
	}
	if maxSteps < horizon {
		return nil, fmt.Errorf("newRollout: maxSteps must cover at least "+
			"one horizon \n\twant(>= %v) \n\thave(%v)", horizon, maxSteps)
	}

	return &Rollout{
		env:      env,
		agent:    a,
		updater:  updater,
		horizon:  horizon,
		maxSteps: maxSteps,
	}, nil
}

// Run runs the experiment until maxSteps batched environment steps have
// elapsed. A trailing partial horizon, if maxSteps is not a multiple of
// the horizon, is abandoned without aggregation.
func (r *Rollout) Run() error {
	bar := progressbar.New(40, r.maxSteps, time.Second)
	bar.Display()
	defer bar.Close()

	r.obs = r.env.Reset()

	steps := 0
	for steps < r.maxSteps {
		collected := 0
		for t := 0; t < r.horizon && steps < r.maxSteps; t++ {
			if err := r.step(); err != nil {
				return fmt.Errorf("run: %v", err)
			}
			collected++
			steps++
			bar.Add(1)
		}
		if collected < r.horizon {
			break
		}

		if err := r.aggregate(); err != nil {
			return fmt.Errorf("run: %v", err)
		}
	}

	return nil
}

// step runs a single batched interaction step, storing the transition
// with the agent.
func (r *Rollout) step() error {
	actions, err := r.agent.Predict(r.obs, true)
	if err != nil {
		return fmt.Errorf("step: could not predict: %v", err)
	}

	next, rewards, terminals := r.env.Step(actions)

	err = r.agent.Observe(r.obs, actions, rewards, terminals, nil, true)
	if err != nil {
		return fmt.Errorf("step: could not observe: %v", err)
	}

	r.obs = next
	return nil
}

// aggregate turns the stored horizon into training targets and hands
// them to the updater.
func (r *Rollout) aggregate() error {
	r.agent.SetNewObs(r.obs)

	advantages, logProbs, entropies, err := r.agent.AggregateExperiences()
	if err != nil {
		return fmt.Errorf("aggregate: %v", err)
	}

	if r.updater != nil {
		if err := r.updater.Update(advantages, logProbs, entropies); err != nil {
			return fmt.Errorf("aggregate: could not update: %v", err)
		}
	}
	return nil
}
