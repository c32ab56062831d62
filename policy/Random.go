package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/goaclib/goac/agent"
	"github.com/goaclib/goac/distribution"
	"gonum.org/v1/gonum/mat"
)

// Random is a policy/value model that selects actions uniformly at
// random and estimates every state's value as zero. It is useful as an
// exploration baseline and for driving agents in tests without a
// network.
type Random struct {
	src     rand.Source
	workers int
	actions int
}

var _ agent.Model = (*Random)(nil)

// NewRandom returns a new Random model over the argument number of
// discrete actions.
func NewRandom(workers, actions int, seed uint64) (*Random, error) {
	if workers < 1 {
		return nil, fmt.Errorf("newRandom: workers must be > 0, got %v",
			workers)
	}
	if actions < 2 {
		return nil, fmt.Errorf("newRandom: need at least 2 actions, got %v",
			actions)
	}

	return &Random{
		src:     rand.NewSource(seed),
		workers: workers,
		actions: actions,
	}, nil
}

// Forward implements the agent.Model interface
func (r *Random) Forward(states *mat.Dense) (distribution.Distribution,
	*mat.VecDense, error) {
	rows, _ := states.Dims()
	if rows != r.workers {
		return nil, nil, fmt.Errorf("forward: illegal batch size "+
			"\n\twant(%v)\n\thave(%v)", r.workers, rows)
	}

	// Equal logits give a uniform action distribution
	logits := mat.NewDense(r.workers, r.actions, nil)
	dist := distribution.NewCategorical(logits, r.src)
	return dist, mat.NewVecDense(r.workers, nil), nil
}
