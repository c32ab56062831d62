// Package cartpole implements a batched version of the Cartpole
// classic control environment. A pole is attached to a cart which can
// move horizontally; each worker's agent must keep its pole balanced
// upright for as long as possible.
//
// The state features per worker are continuous and consist of the
// cart's x position and speed, as well as the pole's angle from the
// positive y-axis and the pole's angular velocity.
//
// Actions are discrete and consist of the force applied to the cart:
//
//	Action	Meaning
//	  0		Accelerate left
//	  1		Do nothing
//	  2		Accelerate right
//
// The reward is +1 on every timestep. A worker's episode ends when its
// pole falls past the failure angle, its cart leaves the track, or the
// episode step limit is reached; that worker is then reset to a fresh
// start state while the rest of the batch continues undisturbed.
package cartpole

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/goaclib/goac/environment"
	"github.com/goaclib/goac/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

const (
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	HalfPoleLength float64 = 0.5  // half of pole length
	ForceMag       float64 = 10.0 // Magnification of force applied
	Dt             float64 = 0.02 // seconds between state updates

	// Episode boundaries
	PositionLimit float64 = 2.4
	FailAngle     float64 = 12 * 2 * math.Pi / 360
	EpisodeSteps  int     = 500

	// Start states are drawn uniformly from ±StartBound per feature
	StartBound float64 = 0.05

	// Discrete actions
	MinDiscreteAction int = 0
	MaxDiscreteAction int = 2

	// Observation features per worker
	ObsDims int = 4
)

// Cartpole is a batch of independent cartpole workers advanced in
// lockstep.
type Cartpole struct {
	workers int
	state   *mat.Dense // workers x ObsDims
	steps   []int
	starter *distmv.Uniform
}

var _ environment.Environment = (*Cartpole)(nil)

// New returns a new batched Cartpole with the argument number of
// workers. Start states are sampled uniformly from ±StartBound in
// every feature, seeded by seed.
func New(workers int, seed uint64) (*Cartpole, error) {
	if workers < 1 {
		return nil, fmt.Errorf("new: workers must be > 0, got %v", workers)
	}

	bounds := make([]r1.Interval, ObsDims)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: -StartBound, Max: StartBound}
	}
	starter := distmv.NewUniform(bounds, rand.NewSource(seed))

	return &Cartpole{
		workers: workers,
		state:   mat.NewDense(workers, ObsDims, nil),
		steps:   make([]int, workers),
		starter: starter,
	}, nil
}

// Workers implements the environment.Environment interface
func (c *Cartpole) Workers() int {
	return c.workers
}

// ObsDims implements the environment.Environment interface
func (c *Cartpole) ObsDims() int {
	return ObsDims
}

// Actions implements the environment.Environment interface
func (c *Cartpole) Actions() int {
	return MaxDiscreteAction - MinDiscreteAction + 1
}

// Reset resets every worker to a start state and returns the initial
// observations.
func (c *Cartpole) Reset() *mat.Dense {
	for i := 0; i < c.workers; i++ {
		c.resetWorker(i)
	}
	return mat.DenseCopyOf(c.state)
}

// resetWorker draws a fresh start state for a single worker
func (c *Cartpole) resetWorker(worker int) {
	c.state.SetRow(worker, c.starter.Rand(nil))
	c.steps[worker] = 0
}

// Step applies one action per worker and returns the next
// observations, rewards, and terminal flags. Workers whose episode
// ends are reset in place; their returned observation is the next
// episode's start state.
func (c *Cartpole) Step(actions *mat.VecDense) (*mat.Dense, *mat.VecDense,
	[]bool) {
	if actions.Len() != c.workers {
		panic(fmt.Sprintf("step: illegal actions length "+
			"\n\twant(%v)\n\thave(%v)", c.workers, actions.Len()))
	}

	rewards := mat.NewVecDense(c.workers, nil)
	terminals := make([]bool, c.workers)

	for i := 0; i < c.workers; i++ {
		action := int(actions.AtVec(i))
		if action < MinDiscreteAction || action > MaxDiscreteAction {
			panic(fmt.Sprintf("step: illegal action %v ∉ [%v, %v]", action,
				MinDiscreteAction, MaxDiscreteAction))
		}

		c.advance(i, action)
		c.steps[i]++
		rewards.SetVec(i, 1.0)

		x := c.state.At(i, 0)
		th := c.state.At(i, 2)
		if math.Abs(x) >= PositionLimit || math.Abs(th) >= FailAngle ||
			c.steps[i] >= EpisodeSteps {
			terminals[i] = true
			c.resetWorker(i)
		}
	}

	return mat.DenseCopyOf(c.state), rewards, terminals
}

// advance integrates one worker's physics for a single timestep using
// Euler kinematic integration.
func (c *Cartpole) advance(worker, action int) {
	x := c.state.At(worker, 0)
	xDot := c.state.At(worker, 1)
	th := c.state.At(worker, 2)
	thDot := c.state.At(worker, 3)

	// Magnify the action force in the appropriate direction
	var force float64
	if action == 0 {
		force = -ForceMag
	} else if action == 2 {
		force = ForceMag
	}

	cosTheta := math.Cos(th)
	sinTheta := math.Sin(th)

	totalMass := PoleMass + CartMass
	poleMassOverLength := PoleMass / HalfPoleLength

	temp := (force + poleMassOverLength*thDot*thDot*sinTheta) / totalMass
	thAcc := (Gravity*sinTheta - cosTheta*temp) / (HalfPoleLength *
		(4.0/3.0 - PoleMass*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassOverLength*thAcc*cosTheta/totalMass

	x += Dt * xDot
	x = floatutils.Clip(x, -PositionLimit, PositionLimit)
	xDot += Dt * xAcc
	th += Dt * thDot
	thDot += Dt * thAcc

	c.state.Set(worker, 0, x)
	c.state.Set(worker, 1, xDot)
	c.state.Set(worker, 2, th)
	c.state.Set(worker, 3, thDot)
}
