package distribution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Categorical is a batch of categorical distributions over a discrete
// action set, one distribution per worker, parameterized by
// unnormalized logits.
type Categorical struct {
	probs    *mat.Dense // Workers x actions, normalized
	logProbs *mat.Dense
	rand     []distuv.Categorical
	workers  int
	actions  int
}

// NewCategorical returns a new Categorical over the argument logits.
// Row i of logits holds the unnormalized log probabilities of each
// action for worker i. The src argument seeds action sampling for all
// workers.
func NewCategorical(logits *mat.Dense, src rand.Source) *Categorical {
	workers, actions := logits.Dims()
	if actions < 1 {
		panic("newCategorical: logits must have at least one action column")
	}

	probs := mat.NewDense(workers, actions, nil)
	logProbs := mat.NewDense(workers, actions, nil)
	dists := make([]distuv.Categorical, workers)

	for i := 0; i < workers; i++ {
		row := logits.RawRowView(i)

		// Softmax with the max subtracted for numerical stability
		max := floats.Max(row)
		var sum float64
		for j := 0; j < actions; j++ {
			p := math.Exp(row[j] - max)
			probs.Set(i, j, p)
			sum += p
		}
		for j := 0; j < actions; j++ {
			p := probs.At(i, j) / sum
			probs.Set(i, j, p)
			logProbs.Set(i, j, math.Log(p))
		}

		dists[i] = distuv.NewCategorical(probs.RawRowView(i), src)
	}

	return &Categorical{
		probs:    probs,
		logProbs: logProbs,
		rand:     dists,
		workers:  workers,
		actions:  actions,
	}
}

// Workers returns the number of per-worker distributions in the batch
func (c *Categorical) Workers() int {
	return c.workers
}

// Actions returns the number of actions each distribution covers
func (c *Categorical) Actions() int {
	return c.actions
}

// Probs returns the normalized action probabilities for a single
// worker
func (c *Categorical) Probs(worker int) []float64 {
	return c.probs.RawRowView(worker)
}

// Sample draws one action index per worker
func (c *Categorical) Sample() *mat.VecDense {
	actions := mat.NewVecDense(c.workers, nil)
	for i := 0; i < c.workers; i++ {
		actions.SetVec(i, c.rand[i].Rand())
	}
	return actions
}

// LogProb returns the per-worker log probability of the argument
// action indices. The actions argument must have one entry per worker,
// each holding an integral index in [0, actions).
func (c *Categorical) LogProb(actions *mat.VecDense) *mat.VecDense {
	if actions.Len() != c.workers {
		panic(fmt.Sprintf("logProb: illegal actions length "+
			"\n\twant(%v)\n\thave(%v)", c.workers, actions.Len()))
	}

	logProbs := mat.NewVecDense(c.workers, nil)
	for i := 0; i < c.workers; i++ {
		a := int(actions.AtVec(i))
		if a < 0 || a >= c.actions {
			panic(fmt.Sprintf("logProb: action index %v out of range "+
				"[0, %v)", a, c.actions))
		}
		logProbs.SetVec(i, c.logProbs.At(i, a))
	}
	return logProbs
}

// Entropy returns the per-worker entropy -Σ p log(p)
func (c *Categorical) Entropy() *mat.VecDense {
	entropy := mat.NewVecDense(c.workers, nil)
	for i := 0; i < c.workers; i++ {
		var h float64
		for j := 0; j < c.actions; j++ {
			if p := c.probs.At(i, j); p > 0 {
				h -= p * c.logProbs.At(i, j)
			}
		}
		entropy.SetVec(i, h)
	}
	return entropy
}
