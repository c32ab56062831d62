package policy_test

import (
	"math"
	"testing"

	"github.com/goaclib/goac/distribution"
	"github.com/goaclib/goac/policy"
	"gonum.org/v1/gonum/mat"
)

func TestForward(t *testing.T) {
	model, err := policy.NewCategoricalMLP(4, 3, 2, []int{8}, 1)
	if err != nil {
		t.Fatalf("newCategoricalMLP: %v", err)
	}
	defer model.Close()

	states := mat.NewDense(3, 4, []float64{
		0.1, 0.2, 0.3, 0.4,
		-0.1, -0.2, -0.3, -0.4,
		1.0, 0.0, -1.0, 0.0,
	})

	dist, values, err := model.Forward(states)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if values.Len() != 3 {
		t.Fatalf("forward: want(3) have(%v) values", values.Len())
	}

	cat, ok := dist.(*distribution.Categorical)
	if !ok {
		t.Fatalf("forward: distribution should be categorical, got %T",
			dist)
	}
	if cat.Workers() != 3 || cat.Actions() != 2 {
		t.Errorf("forward: illegal distribution shape (%v x %v)",
			cat.Workers(), cat.Actions())
	}
	for w := 0; w < 3; w++ {
		var sum float64
		for _, p := range cat.Probs(w) {
			if p < 0 || p > 1 {
				t.Errorf("forward: illegal probability %v for worker %v",
					p, w)
			}
			sum += p
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("forward: worker %v probabilities sum to %v", w, sum)
		}
	}
}

func TestForwardDeterministic(t *testing.T) {
	model, err := policy.NewCategoricalMLP(2, 2, 3, []int{4}, 1)
	if err != nil {
		t.Fatalf("newCategoricalMLP: %v", err)
	}
	defer model.Close()

	states := mat.NewDense(2, 2, []float64{0.5, -0.5, 1.5, -1.5})

	dist1, values1, err := model.Forward(states)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	dist2, values2, err := model.Forward(states)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}

	for w := 0; w < 2; w++ {
		if values1.AtVec(w) != values2.AtVec(w) {
			t.Errorf("forward: values for worker %v changed between "+
				"identical runs \n\twant(%v)\n\thave(%v)", w,
				values1.AtVec(w), values2.AtVec(w))
		}

		probs1 := dist1.(*distribution.Categorical).Probs(w)
		probs2 := dist2.(*distribution.Categorical).Probs(w)
		for j := range probs1 {
			if probs1[j] != probs2[j] {
				t.Errorf("forward: probabilities for worker %v changed "+
					"between identical runs", w)
			}
		}
	}
}

func TestForwardIllegalShape(t *testing.T) {
	model, err := policy.NewCategoricalMLP(4, 2, 2, nil, 1)
	if err != nil {
		t.Fatalf("newCategoricalMLP: %v", err)
	}
	defer model.Close()

	if _, _, err := model.Forward(mat.NewDense(2, 3, nil)); err == nil {
		t.Error("forward: wrong feature count should be rejected")
	}
	if _, _, err := model.Forward(mat.NewDense(3, 4, nil)); err == nil {
		t.Error("forward: wrong batch size should be rejected")
	}
}
