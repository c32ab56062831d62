package actorcritic

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// AggregateExperiences consumes the collected rollout and returns the
// per-timestep advantages, log probabilities, and entropies as three
// parallel sequences of length Horizon(), each entry a vector over
// workers. The rollout memory is reset afterwards, so a subsequent
// Predict/Observe cycle refills it from zero.
//
// The final TD residual bootstraps from the model's value of the state
// supplied by SetNewObs; calling AggregateExperiences before the
// horizon is full, or before SetNewObs, is a caller bug and fails
// immediately.
func (a *ACAgent) AggregateExperiences() ([]*mat.VecDense, []*mat.VecDense,
	[]*mat.VecDense, error) {
	batch, err := a.memory.Sample()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("aggregateExperiences: %v", err)
	}
	if a.newObs == nil {
		return nil, nil, nil, fmt.Errorf("aggregateExperiences: no " +
			"successor observation set")
	}

	T := batch.Horizon()

	// mask[t] = 1 - terminal[t] zeroes the bootstrapped continuation
	// value across an episode boundary
	masks := make([]*mat.VecDense, T)
	for t := 0; t < T; t++ {
		mask := mat.NewVecDense(a.workers, nil)
		for i, terminal := range batch.Terminals[t] {
			if !terminal {
				mask.SetVec(i, 1)
			}
		}
		masks[t] = mask
	}

	// TD residuals. All but the final step use the next step's cached
	// value; the final step has no successor in the buffer, so its
	// residual bootstraps from a fresh value of the newest state.
	deltas := make([]*mat.VecDense, T)
	for t := 0; t < T-1; t++ {
		deltas[t] = tdResidual(batch.Rewards[t], batch.Values[t],
			batch.Values[t+1], masks[t])
	}

	_, bootstrap, err := a.model.Forward(a.newestState())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("aggregateExperiences: could not "+
			"compute bootstrap value: %v", err)
	}
	deltas[T-1] = tdResidual(batch.Rewards[T-1], batch.Values[T-1],
		bootstrap, masks[T-1])

	advantages := decayedSums(deltas, a.discount*a.gaeLambda)

	a.memory.Reset()
	a.newObs = nil

	return advantages, batch.LogProbs, batch.Entropies, nil
}

// tdResidual returns reward + nextValue*mask - value, per worker
func tdResidual(rewards, values, nextValues, mask *mat.VecDense) *mat.VecDense {
	delta := mat.NewVecDense(rewards.Len(), nil)
	delta.MulElemVec(nextValues, mask)
	delta.AddVec(delta, rewards)
	delta.SubVec(delta, values)
	return delta
}

// decayedSums returns the forward-view decayed sums
//
//	sum[t] = Σ_{s=t}^{T-1} deltas[s] · decay^(s-t)
//
// computed per worker through the equivalent backward recurrence
// sum[t] = deltas[t] + decay·sum[t+1].
//
// The sum accumulates straight through episode boundaries: terminal
// masking is applied exactly once, inside the residuals, where it cuts
// the bootstrapped value term. Residuals that fall after a terminal
// belong to the next episode yet still decay-contribute to earlier
// sums. See the package tests before changing this.
func decayedSums(deltas []*mat.VecDense, decay float64) []*mat.VecDense {
	T := len(deltas)
	workers := deltas[0].Len()
	sums := make([]*mat.VecDense, T)

	next := mat.NewVecDense(workers, nil)
	for t := T - 1; t >= 0; t-- {
		sum := mat.NewVecDense(workers, nil)
		sum.AddScaledVec(deltas[t], decay, next)
		sums[t] = sum
		next = sum
	}
	return sums
}
