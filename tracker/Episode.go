// Package tracker implements episodic bookkeeping for batched
// multi-worker agents. It accumulates per-worker rewards and actions
// between episode boundaries and emits episode summaries to a
// telemetry sink when a worker's episode terminates.
package tracker

import (
	"fmt"
	"os"

	"github.com/goaclib/goac/telemetry"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Episode tracks per-worker episodic statistics. One reward smoothing
// window and one episode accumulator exist per worker, constructed
// eagerly for all workers at creation so that worker state never
// depends on first touch.
type Episode struct {
	workers int
	sink    telemetry.Sink

	smoothed  []*Window // Recent rewards per worker, FIFO
	epRewards [][]float64
	epActions [][]float64
	epIndex   []int

	recordStep int
}

// NewEpisode returns a new Episode tracker for the argument number of
// workers. Rewards are smoothed over a FIFO window of smoothLength
// entries per worker. Episode summaries are written to sink; sink
// failures are reported on stderr and never propagated.
func NewEpisode(workers, smoothLength int, sink telemetry.Sink) *Episode {
	if workers < 1 {
		panic("newEpisode: workers must be > 0")
	}
	if sink == nil {
		sink = telemetry.NewNoop()
	}

	smoothed := make([]*Window, workers)
	for i := range smoothed {
		smoothed[i] = NewWindow(smoothLength)
	}

	return &Episode{
		workers:   workers,
		sink:      sink,
		smoothed:  smoothed,
		epRewards: make([][]float64, workers),
		epActions: make([][]float64, workers),
		epIndex:   make([]int, workers),
	}
}

// Workers returns the number of workers tracked
func (e *Episode) Workers() int {
	return e.workers
}

// Record updates the tracker with one timestep of per-worker actions,
// rewards, and terminal flags. For each worker whose terminal flag is
// set, an episode summary is emitted and that worker's accumulator is
// cleared.
func (e *Episode) Record(actions, rewards *mat.VecDense, terminals []bool) {
	if actions.Len() != e.workers || rewards.Len() != e.workers ||
		len(terminals) != e.workers {
		panic(fmt.Sprintf("record: illegal batch size "+
			"\n\twant(%v)\n\thave(%v, %v, %v)", e.workers, actions.Len(),
			rewards.Len(), len(terminals)))
	}

	for i := 0; i < e.workers; i++ {
		e.smoothed[i].Push(rewards.AtVec(i))
		e.epRewards[i] = append(e.epRewards[i], rewards.AtVec(i))
		e.epActions[i] = append(e.epActions[i], actions.AtVec(i))

		if terminals[i] {
			e.emit(i)
			e.epIndex[i]++
			e.epRewards[i] = nil
			e.epActions[i] = nil
		}
	}
	e.recordStep++
}

// emit writes the episode summary for one worker to the sink
func (e *Episode) emit(worker int) {
	episode := e.epIndex[worker]
	total := floats.Sum(e.epRewards[worker])

	err := e.sink.Scalar(
		fmt.Sprintf("data/episode_reward_sum_%d", worker), total, episode)
	e.warn(err)

	err = e.sink.Histogram(
		fmt.Sprintf("data/episode_action_%d", worker),
		e.epActions[worker], episode)
	e.warn(err)

	err = e.sink.Histogram(
		fmt.Sprintf("data/episode_reward_dist_%d", worker),
		e.epRewards[worker], episode)
	e.warn(err)
}

// warn reports a sink failure without interrupting training
func (e *Episode) warn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: telemetry write failed: %v\n", err)
	}
}

// EpisodeCount returns the number of completed episodes for a worker
func (e *Episode) EpisodeCount(worker int) int {
	return e.epIndex[worker]
}

// EpisodeLength returns the number of timesteps accumulated so far in
// a worker's current episode.
func (e *Episode) EpisodeLength(worker int) int {
	return len(e.epRewards[worker])
}

// SmoothedReward returns the mean reward over a worker's smoothing
// window.
func (e *Episode) SmoothedReward(worker int) float64 {
	return e.smoothed[worker].Mean()
}

// Steps returns the total number of Record calls made
func (e *Episode) Steps() int {
	return e.recordStep
}
