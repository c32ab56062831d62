package experiment_test

import (
	"testing"

	"github.com/goaclib/goac/agent"
	"github.com/goaclib/goac/experiment"
	"gonum.org/v1/gonum/mat"
)

// countEnv is a 2-worker environment whose observation encodes the
// number of Step calls made so far, so tests can check which
// observation each agent call received.
type countEnv struct {
	steps int
}

func (e *countEnv) Workers() int { return 2 }
func (e *countEnv) ObsDims() int { return 1 }
func (e *countEnv) Actions() int { return 1 }

func (e *countEnv) Reset() *mat.Dense {
	e.steps = 0
	return mat.NewDense(2, 1, []float64{0, 0})
}

func (e *countEnv) Step(actions *mat.VecDense) (*mat.Dense, *mat.VecDense,
	[]bool) {
	e.steps++
	v := float64(e.steps)
	return mat.NewDense(2, 1, []float64{v, v}), mat.NewVecDense(2, nil),
		make([]bool, 2)
}

// recordAgent records the observation value passed to each call
type recordAgent struct {
	predicted  []float64
	observed   []float64
	newObs     []float64
	aggregates int
}

func (a *recordAgent) Predict(obs *mat.Dense, training bool) (*mat.VecDense,
	error) {
	a.predicted = append(a.predicted, obs.At(0, 0))
	return mat.NewVecDense(2, nil), nil
}

func (a *recordAgent) Observe(obs *mat.Dense, actions,
	rewards *mat.VecDense, terminals []bool, info []agent.Info,
	training bool) error {
	a.observed = append(a.observed, obs.At(0, 0))
	return nil
}

func (a *recordAgent) SetNewObs(obs *mat.Dense) {
	a.newObs = append(a.newObs, obs.At(0, 0))
}

func (a *recordAgent) AggregateExperiences() ([]*mat.VecDense,
	[]*mat.VecDense, []*mat.VecDense, error) {
	a.aggregates++
	targets := []*mat.VecDense{mat.NewVecDense(2, []float64{1, 2})}
	return targets, targets, targets, nil
}

// recordUpdater captures the targets passed to each Update call
type recordUpdater struct {
	updates int
}

func (u *recordUpdater) Update(advantages, logProbs,
	entropies []*mat.VecDense) error {
	u.updates++
	return nil
}

func TestRolloutLoopOrdering(t *testing.T) {
	env := &countEnv{}
	a := &recordAgent{}

	r, err := experiment.NewRollout(env, a, nil, 2, 4)
	if err != nil {
		t.Fatalf("newRollout: %v", err)
	}
	if err := r.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(a.predicted) != 4 || len(a.observed) != 4 {
		t.Fatalf("run: want(4, 4) have(%v, %v) predict/observe calls",
			len(a.predicted), len(a.observed))
	}

	// Each Observe must carry the observation its Predict acted on,
	// which is the environment state before the paired Step
	for i := range a.observed {
		if a.observed[i] != float64(i) {
			t.Errorf("observe: call %v \n\twant(%v)\n\thave(%v)", i,
				float64(i), a.observed[i])
		}
		if a.predicted[i] != a.observed[i] {
			t.Errorf("observe: call %v should match its prediction "+
				"\n\twant(%v)\n\thave(%v)", i, a.predicted[i],
				a.observed[i])
		}
	}

	if a.aggregates != 2 {
		t.Errorf("run: want(2) have(%v) aggregations", a.aggregates)
	}

	// The successor observation is the state after the horizon's last
	// step
	want := []float64{2, 4}
	for i, v := range a.newObs {
		if v != want[i] {
			t.Errorf("setNewObs: horizon %v \n\twant(%v)\n\thave(%v)", i,
				want[i], v)
		}
	}
}

func TestRolloutAbandonsPartialHorizon(t *testing.T) {
	env := &countEnv{}
	a := &recordAgent{}

	r, err := experiment.NewRollout(env, a, nil, 3, 5)
	if err != nil {
		t.Fatalf("newRollout: %v", err)
	}
	if err := r.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(a.observed) != 5 {
		t.Errorf("run: want(5) have(%v) observations", len(a.observed))
	}
	// The trailing 2-step horizon is incomplete and never aggregated
	if a.aggregates != 1 {
		t.Errorf("run: want(1) have(%v) aggregations", a.aggregates)
	}
}

func TestRolloutUpdater(t *testing.T) {
	env := &countEnv{}
	a := &recordAgent{}
	u := &recordUpdater{}

	r, err := experiment.NewRollout(env, a, u, 2, 6)
	if err != nil {
		t.Fatalf("newRollout: %v", err)
	}
	if err := r.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	if u.updates != 3 {
		t.Errorf("run: want(3) have(%v) updates", u.updates)
	}
}

func TestRolloutValidation(t *testing.T) {
	env := &countEnv{}
	a := &recordAgent{}

	if _, err := experiment.NewRollout(env, a, nil, 0, 10); err == nil {
		t.Error("newRollout: zero horizon should be rejected")
	}
	if _, err := experiment.NewRollout(env, a, nil, 10, 5); err == nil {
		t.Error("newRollout: maxSteps below one horizon should be rejected")
	}
}
