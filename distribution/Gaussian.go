package distribution

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Gaussian is a batch of univariate normal distributions over a
// continuous one-dimensional action, one distribution per worker.
type Gaussian struct {
	means   *mat.VecDense
	stds    *mat.VecDense
	rand    []distuv.Normal
	workers int
}

// NewGaussian returns a new Gaussian with the argument per-worker
// means and standard deviations. All standard deviations must be
// strictly positive.
func NewGaussian(means, stds *mat.VecDense, src rand.Source) *Gaussian {
	if means.Len() != stds.Len() {
		panic(fmt.Sprintf("newGaussian: illegal stds length "+
			"\n\twant(%v)\n\thave(%v)", means.Len(), stds.Len()))
	}

	workers := means.Len()
	dists := make([]distuv.Normal, workers)
	for i := 0; i < workers; i++ {
		if stds.AtVec(i) <= 0 {
			panic(fmt.Sprintf("newGaussian: standard deviation for "+
				"worker %v not positive: %v", i, stds.AtVec(i)))
		}
		dists[i] = distuv.Normal{
			Mu:    means.AtVec(i),
			Sigma: stds.AtVec(i),
			Src:   src,
		}
	}

	return &Gaussian{
		means:   means,
		stds:    stds,
		rand:    dists,
		workers: workers,
	}
}

// Workers returns the number of per-worker distributions in the batch
func (g *Gaussian) Workers() int {
	return g.workers
}

// Sample draws one action per worker
func (g *Gaussian) Sample() *mat.VecDense {
	actions := mat.NewVecDense(g.workers, nil)
	for i := 0; i < g.workers; i++ {
		actions.SetVec(i, g.rand[i].Rand())
	}
	return actions
}

// LogProb returns the per-worker log density of the argument actions
func (g *Gaussian) LogProb(actions *mat.VecDense) *mat.VecDense {
	if actions.Len() != g.workers {
		panic(fmt.Sprintf("logProb: illegal actions length "+
			"\n\twant(%v)\n\thave(%v)", g.workers, actions.Len()))
	}

	logProbs := mat.NewVecDense(g.workers, nil)
	for i := 0; i < g.workers; i++ {
		logProbs.SetVec(i, g.rand[i].LogProb(actions.AtVec(i)))
	}
	return logProbs
}

// Entropy returns the per-worker differential entropy
func (g *Gaussian) Entropy() *mat.VecDense {
	entropy := mat.NewVecDense(g.workers, nil)
	for i := 0; i < g.workers; i++ {
		entropy.SetVec(i, g.rand[i].Entropy())
	}
	return entropy
}
