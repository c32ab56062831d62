package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Activation represents an activation function type
type Activation func(x *G.Node) (*G.Node, error)

// ReLU returns a rectified linear Activation
func ReLU() Activation {
	return G.Rectify
}

// TanH returns a tanh Activation
func TanH() Activation {
	return G.Tanh
}

// Identity returns an identity Activation
func Identity() Activation {
	return func(x *G.Node) (*G.Node, error) { return x, nil }
}

// fcLayer implements a fully connected layer of a feed forward neural
// network
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     Activation
}

// newFCLayer adds a fully connected layer of out units to the graph
func newFCLayer(g *G.ExprGraph, in, out int, act Activation,
	init G.InitWFn, name string) *fcLayer {
	weights := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(in, out),
		G.WithName(fmt.Sprintf("%vWeights", name)),
		G.WithInit(init),
	)
	bias := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(1, out),
		G.WithName(fmt.Sprintf("%vBias", name)),
		G.WithInit(G.Zeroes()),
	)

	return &fcLayer{
		weights: weights,
		bias:    bias,
		act:     act,
	}
}

// fwd adds the forward pass of the fcLayer to the computational graph
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	x = G.Must(G.Mul(x, f.weights))

	// Broadcast the bias weights to all samples along the batch
	// dimension
	x = G.Must(G.BroadcastAdd(x, f.bias, nil, []byte{0}))

	if f.act == nil {
		return x, nil
	}
	return f.act(x)
}
