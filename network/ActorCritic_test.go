package network_test

import (
	"testing"

	"github.com/goaclib/goac/network"
	G "gorgonia.org/gorgonia"
)

func TestNewActorCritic(t *testing.T) {
	net, err := network.NewActorCritic(4, 3, 2, 1, []int{8}, G.GlorotN(1.0))
	if err != nil {
		t.Fatalf("newActorCritic: %v", err)
	}

	if net.BatchSize() != 3 || net.Features() != 4 || net.Actions() != 2 ||
		net.ValueDims() != 1 {
		t.Errorf("newActorCritic: illegal dimensions (%v, %v, %v, %v)",
			net.BatchSize(), net.Features(), net.Actions(), net.ValueDims())
	}

	// One weight and one bias per trunk layer and per head
	if len(net.Learnables()) != 6 {
		t.Errorf("learnables: want(6) have(%v)", len(net.Learnables()))
	}
}

func TestNewActorCriticIllegalDims(t *testing.T) {
	var err error
	if _, err = network.NewActorCritic(0, 1, 2, 1, nil,
		G.GlorotN(1.0)); err == nil {
		t.Error("newActorCritic: zero features should be rejected")
	}
	if _, err = network.NewActorCritic(4, 1, 1, 1, nil,
		G.GlorotN(1.0)); err == nil {
		t.Error("newActorCritic: a single action should be rejected")
	}
	if _, err = network.NewActorCritic(4, 1, 2, 0, nil,
		G.GlorotN(1.0)); err == nil {
		t.Error("newActorCritic: zero value dims should be rejected")
	}
}

func TestForwardPassZeroWeights(t *testing.T) {
	// Zero weights and biases give zero logits and values regardless
	// of the input
	net, err := network.NewActorCritic(2, 2, 3, 1, []int{4}, G.Zeroes())
	if err != nil {
		t.Fatalf("newActorCritic: %v", err)
	}

	vm := G.NewTapeMachine(net.Graph())
	defer vm.Close()

	if err := net.SetInput([]float64{1, 2, 3, 4}); err != nil {
		t.Fatalf("setInput: %v", err)
	}
	if err := vm.RunAll(); err != nil {
		t.Fatalf("runAll: %v", err)
	}
	defer vm.Reset()

	logits := net.Logits()
	if len(logits) != 2*3 {
		t.Fatalf("logits: want(6) have(%v) outputs", len(logits))
	}
	for i, l := range logits {
		if l != 0 {
			t.Errorf("logits: output %v \n\twant(0)\n\thave(%v)", i, l)
		}
	}

	values := net.Value()
	if len(values) != 2 {
		t.Fatalf("value: want(2) have(%v) outputs", len(values))
	}
	for i, v := range values {
		if v != 0 {
			t.Errorf("value: output %v \n\twant(0)\n\thave(%v)", i, v)
		}
	}
}

func TestSetInputIllegalLength(t *testing.T) {
	net, err := network.NewActorCritic(2, 2, 2, 1, nil, G.GlorotN(1.0))
	if err != nil {
		t.Fatalf("newActorCritic: %v", err)
	}

	if err := net.SetInput([]float64{1, 2, 3}); err == nil {
		t.Error("setInput: wrong input length should be rejected")
	}
}
