package cartpole_test

import (
	"math"
	"testing"

	"github.com/goaclib/goac/environment/cartpole"
	"gonum.org/v1/gonum/mat"
)

func TestReset(t *testing.T) {
	env, err := cartpole.New(4, 11)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	obs := env.Reset()
	rows, cols := obs.Dims()
	if rows != 4 || cols != cartpole.ObsDims {
		t.Fatalf("reset: illegal shape \n\twant(%v x %v)"+
			"\n\thave(%v x %v)", 4, cartpole.ObsDims, rows, cols)
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.Abs(obs.At(i, j)) > cartpole.StartBound {
				t.Errorf("reset: feature (%v, %v) outside start bound: %v",
					i, j, obs.At(i, j))
			}
		}
	}
}

func TestStep(t *testing.T) {
	env, err := cartpole.New(2, 11)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	env.Reset()

	// Push worker 0 left and worker 1 right
	actions := mat.NewVecDense(2, []float64{0, 2})
	obs, rewards, terminals := env.Step(actions)

	rows, _ := obs.Dims()
	if rows != 2 || rewards.Len() != 2 || len(terminals) != 2 {
		t.Fatalf("step: illegal batch sizes (%v, %v, %v)", rows,
			rewards.Len(), len(terminals))
	}

	for i := 0; i < 2; i++ {
		if rewards.AtVec(i) != 1.0 {
			t.Errorf("step: reward \n\twant(1.0)\n\thave(%v)",
				rewards.AtVec(i))
		}
		if terminals[i] {
			t.Errorf("step: worker %v should survive a single step", i)
		}
	}
}

func TestEpisodeEndsAndAutoResets(t *testing.T) {
	env, err := cartpole.New(1, 11)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	env.Reset()

	// Pushing one way forever must topple the pole well before the
	// step limit, and the terminal observation must already be the
	// next episode's start state.
	actions := mat.NewVecDense(1, []float64{2})
	for i := 0; i < cartpole.EpisodeSteps; i++ {
		obs, _, terminals := env.Step(actions)
		if !terminals[0] {
			continue
		}

		for j := 0; j < cartpole.ObsDims; j++ {
			if math.Abs(obs.At(0, j)) > cartpole.StartBound {
				t.Errorf("step: post-terminal feature %v outside start "+
					"bound: %v", j, obs.At(0, j))
			}
		}
		return
	}
	t.Error("step: constant force should end the episode")
}

func TestWorkersAdvanceIndependently(t *testing.T) {
	env, err := cartpole.New(2, 11)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	env.Reset()

	// Opposite forces must separate the cart velocities
	actions := mat.NewVecDense(2, []float64{0, 2})
	var obs *mat.Dense
	for i := 0; i < 5; i++ {
		obs, _, _ = env.Step(actions)
	}

	if obs.At(0, 1) >= obs.At(1, 1) {
		t.Errorf("step: opposite forces should separate velocities "+
			"\n\thave(%v, %v)", obs.At(0, 1), obs.At(1, 1))
	}
}
