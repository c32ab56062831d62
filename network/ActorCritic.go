// Package network implements the gorgonia neural networks used for
// policy and value prediction.
package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// ActorCritic is a multi-layered perceptron with a shared trunk and
// two output heads: action logits for the policy and a value estimate
// for the critic. The network predicts for a fixed batch of states at
// a time, one row per worker.
type ActorCritic struct {
	g     *G.ExprGraph
	input *G.Node

	trunk     []*fcLayer
	logitsFC  *fcLayer
	valueFC   *fcLayer
	logits    *G.Node
	value     *G.Node
	logitsVal G.Value
	valueVal  G.Value

	learnables G.Nodes

	batch     int
	features  int
	actions   int
	valueDims int
}

// NewActorCritic returns a new ActorCritic network predicting action
// logits and a valueDims-wide value estimate for a batch of states.
// Each of hiddenSizes adds one fully connected ReLU layer to the
// shared trunk; init determines the weight initialization of every
// layer but the biases, which start at zero.
func NewActorCritic(features, batch, actions, valueDims int,
	hiddenSizes []int, init G.InitWFn) (*ActorCritic, error) {
	if features < 1 || batch < 1 {
		return nil, fmt.Errorf("newActorCritic: batch and features must "+
			"be > 0, got (%v, %v)", batch, features)
	}
	if actions < 2 {
		return nil, fmt.Errorf("newActorCritic: need at least 2 actions, "+
			"got %v", actions)
	}
	if valueDims < 1 {
		return nil, fmt.Errorf("newActorCritic: valueDims must be > 0, "+
			"got %v", valueDims)
	}

	g := G.NewGraph()
	input := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(batch, features),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	net := &ActorCritic{
		g:         g,
		input:     input,
		batch:     batch,
		features:  features,
		actions:   actions,
		valueDims: valueDims,
	}

	// Shared trunk
	in := features
	x := input
	for i, size := range hiddenSizes {
		layer := newFCLayer(g, in, size, ReLU(), init,
			fmt.Sprintf("Trunk%d", i))
		var err error
		if x, err = layer.fwd(x); err != nil {
			return nil, fmt.Errorf("newActorCritic: could not compute "+
				"trunk forward pass: %v", err)
		}
		net.trunk = append(net.trunk, layer)
		in = size
	}

	// Policy and value heads, no activations
	net.logitsFC = newFCLayer(g, in, actions, nil, init, "Logits")
	logits, err := net.logitsFC.fwd(x)
	if err != nil {
		return nil, fmt.Errorf("newActorCritic: could not compute logits "+
			"forward pass: %v", err)
	}

	net.valueFC = newFCLayer(g, in, valueDims, nil, init, "Value")
	value, err := net.valueFC.fwd(x)
	if err != nil {
		return nil, fmt.Errorf("newActorCritic: could not compute value "+
			"forward pass: %v", err)
	}

	net.logits = logits
	net.value = value
	G.Read(net.logits, &net.logitsVal)
	G.Read(net.value, &net.valueVal)

	return net, nil
}

// Graph returns the computational graph of the network
func (a *ActorCritic) Graph() *G.ExprGraph {
	return a.g
}

// BatchSize returns the number of states predicted for at a time
func (a *ActorCritic) BatchSize() int {
	return a.batch
}

// Features returns the number of features in a single state
func (a *ActorCritic) Features() int {
	return a.features
}

// Actions returns the number of action logits predicted per state
func (a *ActorCritic) Actions() int {
	return a.actions
}

// ValueDims returns the width of the value head
func (a *ActorCritic) ValueDims() int {
	return a.valueDims
}

// SetInput sets the value of the input node before running the forward
// pass. The input must hold BatchSize()*Features() values in row major
// order.
func (a *ActorCritic) SetInput(input []float64) error {
	if len(input) != a.features*a.batch {
		return fmt.Errorf("setInput: invalid number of inputs "+
			"\n\twant(%v)\n\thave(%v)", a.features*a.batch, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(a.batch, a.features),
	)
	return G.Let(a.input, inputTensor)
}

// Logits returns the action logits computed by the last run of the
// network's VM, in row major order.
func (a *ActorCritic) Logits() []float64 {
	return a.logitsVal.Data().([]float64)
}

// Value returns the value head outputs computed by the last run of the
// network's VM, in row major order.
func (a *ActorCritic) Value() []float64 {
	return a.valueVal.Data().([]float64)
}

// Learnables returns the learnable nodes of the network
func (a *ActorCritic) Learnables() G.Nodes {
	// Lazy instantiation
	if a.learnables == nil {
		layers := append([]*fcLayer{}, a.trunk...)
		layers = append(layers, a.logitsFC, a.valueFC)
		for _, layer := range layers {
			a.learnables = append(a.learnables, layer.weights, layer.bias)
		}
	}
	return a.learnables
}
