// Package policy implements concrete policy/value models satisfying
// the agent.Model interface.
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/goaclib/goac/agent"
	"github.com/goaclib/goac/distribution"
	"github.com/goaclib/goac/network"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
)

// CategoricalMLP is a policy/value model over a discrete action set.
// A shared MLP trunk feeds a logits head, which parameterizes a
// batched categorical action distribution, and a value head, which is
// summed to a scalar estimate per worker. The model has its own VM and
// predicts for a fixed batch of workers at a time.
type CategoricalMLP struct {
	net *network.ActorCritic
	vm  G.VM
	src rand.Source

	workers int
	actions int
}

var _ agent.Model = (*CategoricalMLP)(nil)

// NewCategoricalMLP returns a new CategoricalMLP for a fixed batch of
// workers. The states fed to Forward must have features columns, one
// row per worker. Each of hiddenSizes adds one ReLU trunk layer; seed
// seeds action sampling.
func NewCategoricalMLP(features, workers, actions int, hiddenSizes []int,
	seed uint64) (*CategoricalMLP, error) {
	net, err := network.NewActorCritic(features, workers, actions, 1,
		hiddenSizes, G.GlorotN(1.0))
	if err != nil {
		return nil, fmt.Errorf("newCategoricalMLP: could not create "+
			"network: %v", err)
	}

	return &CategoricalMLP{
		net:     net,
		vm:      G.NewTapeMachine(net.Graph()),
		src:     rand.NewSource(seed),
		workers: workers,
		actions: actions,
	}, nil
}

// Network returns the model's underlying network
func (c *CategoricalMLP) Network() *network.ActorCritic {
	return c.net
}

// Forward implements the agent.Model interface
func (c *CategoricalMLP) Forward(states *mat.Dense) (
	distribution.Distribution, *mat.VecDense, error) {
	rows, cols := states.Dims()
	if rows != c.net.BatchSize() || cols != c.net.Features() {
		return nil, nil, fmt.Errorf("forward: illegal state dimensions "+
			"\n\twant(%v x %v)\n\thave(%v x %v)", c.net.BatchSize(),
			c.net.Features(), rows, cols)
	}

	input := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		copy(input[i*cols:(i+1)*cols], states.RawRowView(i))
	}
	if err := c.net.SetInput(input); err != nil {
		return nil, nil, fmt.Errorf("forward: %v", err)
	}
	if err := c.vm.RunAll(); err != nil {
		return nil, nil, fmt.Errorf("forward: could not run network: %v", err)
	}

	// The VM reuses output memory between runs, so copy before Reset
	logits := make([]float64, c.workers*c.actions)
	copy(logits, c.net.Logits())

	valueDims := c.net.ValueDims()
	raw := c.net.Value()
	values := mat.NewVecDense(c.workers, nil)
	for i := 0; i < c.workers; i++ {
		var v float64
		for j := 0; j < valueDims; j++ {
			v += raw[i*valueDims+j]
		}
		values.SetVec(i, v)
	}

	c.vm.Reset()

	dist := distribution.NewCategorical(
		mat.NewDense(c.workers, c.actions, logits), c.src)
	return dist, values, nil
}

// Close closes the model's VM and releases its resources
func (c *CategoricalMLP) Close() error {
	return c.vm.Close()
}
