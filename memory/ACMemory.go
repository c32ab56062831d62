// Package memory implements fixed-horizon rollout storage for batched
// actor-critic agents. A rollout memory holds one transition per worker
// per timestep until a full horizon has been collected, along with the
// value, log probability, and entropy statistics cached at action
// selection time.
//
// Writes are two-phase: Begin opens a timestep and returns a Handle,
// CacheStats records the prediction-time statistics against that
// handle, and Append commits the transition with the same handle. The
// handle pairs each committed transition with the statistics that were
// cached for it, so a missing or doubled prediction/observation is
// detected rather than silently misaligning the rollout.
package memory

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Handle identifies a single opened timestep. A Handle is valid from
// the Begin call that returned it until the Append call that commits
// it.
type Handle int

// Store is a fixed-horizon rollout memory. All per-worker batched
// arguments use one row (or entry) per worker.
type Store interface {
	// Begin opens the next timestep for writing
	Begin() (Handle, error)

	// CacheStats records the values, log probabilities, and entropies
	// computed at action-selection time against an open timestep
	CacheStats(h Handle, values, logProbs, entropies *mat.VecDense) error

	// Append commits the transition for an open timestep. When
	// training is false the transition only advances the recent-frame
	// window and is not stored in the rollout.
	Append(h Handle, obs *mat.Dense, actions, rewards *mat.VecDense,
		terminals []bool, training bool) error

	// RecentState returns the windowed state for the argument
	// observations without mutating the memory
	RecentState(obs *mat.Dense) *mat.Dense

	// Len returns the number of committed timesteps in the rollout
	Len() int

	// Full returns whether a complete horizon has been collected
	Full() bool

	// Sample returns the full-horizon transition batch
	Sample() (*Batch, error)

	// Reset clears the rollout for reuse. The recent-frame window is
	// kept so that state stacking continues across horizon boundaries.
	Reset()
}

// Batch is a full-horizon batch of transitions, time-major with one
// row (or entry) per worker inside each timestep.
type Batch struct {
	Obs       []*mat.Dense
	Actions   []*mat.VecDense
	Rewards   []*mat.VecDense
	Terminals [][]bool
	Values    []*mat.VecDense
	LogProbs  []*mat.VecDense
	Entropies []*mat.VecDense
}

// Horizon returns the number of timesteps in the batch
func (b *Batch) Horizon() int {
	return len(b.Rewards)
}

// ACMemory is the concrete rollout Store used by actor-critic agents.
// States are reconstructed by stacking the most recent windowLength
// observations per worker; missing frames at the start of an episode
// are zero. A worker's stacked history is cleared when that worker
// observes a terminal so that frames never leak across episode
// boundaries.
type ACMemory struct {
	numFrames    int
	windowLength int

	// Worker count and observation width, fixed on first use
	workers int
	obsDims int

	obs       []*mat.Dense
	actions   []*mat.VecDense
	rewards   []*mat.VecDense
	terminals [][]bool
	values    []*mat.VecDense
	logProbs  []*mat.VecDense
	entropies []*mat.VecDense

	// Most recent committed observations, oldest first. Holds at most
	// windowLength-1 frames.
	window []*mat.Dense

	open         bool
	openHandle   Handle
	statsCached  bool
	cachedValues *mat.VecDense
	cachedLogPs  *mat.VecDense
	cachedEnts   *mat.VecDense
	seq          int
}

// NewACMemory returns a new ACMemory holding numFrames timesteps per
// worker, with states stacked over windowLength recent observations.
func NewACMemory(numFrames, windowLength int) (*ACMemory, error) {
	if numFrames < 1 {
		return nil, fmt.Errorf("newACMemory: numFrames must be > 0")
	}
	if windowLength < 1 {
		return nil, fmt.Errorf("newACMemory: windowLength must be > 0")
	}

	return &ACMemory{
		numFrames:    numFrames,
		windowLength: windowLength,
		obs:          make([]*mat.Dense, 0, numFrames),
		actions:      make([]*mat.VecDense, 0, numFrames),
		rewards:      make([]*mat.VecDense, 0, numFrames),
		terminals:    make([][]bool, 0, numFrames),
		values:       make([]*mat.VecDense, 0, numFrames),
		logProbs:     make([]*mat.VecDense, 0, numFrames),
		entropies:    make([]*mat.VecDense, 0, numFrames),
		window:       make([]*mat.Dense, 0, windowLength-1),
	}, nil
}

// Len returns the number of committed timesteps in the current rollout
func (m *ACMemory) Len() int {
	return len(m.obs)
}

// Full returns whether the rollout horizon has been filled
func (m *ACMemory) Full() bool {
	return len(m.obs) == m.numFrames
}

// Horizon returns the number of timesteps collected per rollout
func (m *ACMemory) Horizon() int {
	return m.numFrames
}

// WindowLength returns the number of recent observations stacked into
// a state
func (m *ACMemory) WindowLength() int {
	return m.windowLength
}

// Begin opens the next timestep. It is an error to begin a new
// timestep while another is open, or once the horizon is full.
func (m *ACMemory) Begin() (Handle, error) {
	if m.open {
		return 0, &MemoryError{Op: "begin", Err: errStepOpen}
	}
	if m.Full() {
		return 0, &MemoryError{Op: "begin", Err: errHorizonFull}
	}

	m.open = true
	m.statsCached = false
	m.openHandle = Handle(m.seq)
	m.seq++
	return m.openHandle, nil
}

// CacheStats records prediction-time statistics against the open
// timestep. Each argument must have one entry per worker.
func (m *ACMemory) CacheStats(h Handle, values, logProbs,
	entropies *mat.VecDense) error {
	if !m.open {
		return &MemoryError{Op: "cacheStats", Err: errNoOpenStep}
	}
	if h != m.openHandle {
		return &MemoryError{Op: "cacheStats", Err: errStaleHandle}
	}
	if m.statsCached {
		return &MemoryError{Op: "cacheStats", Err: errStatsCached}
	}

	m.setWorkers("cacheStats", values.Len())
	if logProbs.Len() != m.workers || entropies.Len() != m.workers {
		panic(fmt.Sprintf("cacheStats: illegal batch size "+
			"\n\twant(%v)\n\thave(%v, %v)", m.workers, logProbs.Len(),
			entropies.Len()))
	}

	m.cachedValues = mat.VecDenseCopyOf(values)
	m.cachedLogPs = mat.VecDenseCopyOf(logProbs)
	m.cachedEnts = mat.VecDenseCopyOf(entropies)
	m.statsCached = true
	return nil
}

// Append commits the transition for the open timestep. The obs
// argument is the observation at which the actions were selected.
// When training is true, statistics must have been cached for this
// timestep first.
func (m *ACMemory) Append(h Handle, obs *mat.Dense, actions,
	rewards *mat.VecDense, terminals []bool, training bool) error {
	if !m.open {
		return &MemoryError{Op: "append", Err: errNoOpenStep}
	}
	if h != m.openHandle {
		return &MemoryError{Op: "append", Err: errStaleHandle}
	}
	if training && !m.statsCached {
		return &MemoryError{Op: "append", Err: errNoStats}
	}

	workers, dims := obs.Dims()
	m.setWorkers("append", workers)
	m.setObsDims(dims)
	if actions.Len() != m.workers || rewards.Len() != m.workers ||
		len(terminals) != m.workers {
		panic(fmt.Sprintf("append: illegal batch size "+
			"\n\twant(%v)\n\thave(%v, %v, %v)", m.workers, actions.Len(),
			rewards.Len(), len(terminals)))
	}

	if training {
		term := make([]bool, len(terminals))
		copy(term, terminals)

		m.obs = append(m.obs, mat.DenseCopyOf(obs))
		m.actions = append(m.actions, mat.VecDenseCopyOf(actions))
		m.rewards = append(m.rewards, mat.VecDenseCopyOf(rewards))
		m.terminals = append(m.terminals, term)
		m.values = append(m.values, m.cachedValues)
		m.logProbs = append(m.logProbs, m.cachedLogPs)
		m.entropies = append(m.entropies, m.cachedEnts)
	}

	m.pushWindow(obs, terminals)

	m.open = false
	m.statsCached = false
	m.cachedValues, m.cachedLogPs, m.cachedEnts = nil, nil, nil
	return nil
}

// pushWindow advances the recent-frame window with a committed
// observation, then clears the history of any worker that terminated.
func (m *ACMemory) pushWindow(obs *mat.Dense, terminals []bool) {
	if m.windowLength == 1 {
		return
	}

	if len(m.window) == m.windowLength-1 {
		m.window = m.window[1:]
	}
	m.window = append(m.window, mat.DenseCopyOf(obs))

	for i, terminal := range terminals {
		if !terminal {
			continue
		}
		for _, frame := range m.window {
			for j := 0; j < m.obsDims; j++ {
				frame.Set(i, j, 0)
			}
		}
	}
}

// RecentState returns the windowed state for the argument observations
// without mutating the memory. The state for worker i is the
// concatenation of that worker's windowLength-1 most recent committed
// observations, oldest first, followed by row i of obs. Missing frames
// are zero.
func (m *ACMemory) RecentState(obs *mat.Dense) *mat.Dense {
	workers, dims := obs.Dims()
	m.setWorkers("recentState", workers)
	m.setObsDims(dims)

	if m.windowLength == 1 {
		return mat.DenseCopyOf(obs)
	}

	state := mat.NewDense(m.workers, m.windowLength*m.obsDims, nil)
	pad := m.windowLength - 1 - len(m.window)
	for f, frame := range m.window {
		col := (pad + f) * m.obsDims
		for i := 0; i < m.workers; i++ {
			for j := 0; j < m.obsDims; j++ {
				state.Set(i, col+j, frame.At(i, j))
			}
		}
	}

	col := (m.windowLength - 1) * m.obsDims
	for i := 0; i < m.workers; i++ {
		for j := 0; j < m.obsDims; j++ {
			state.Set(i, col+j, obs.At(i, j))
		}
	}
	return state
}

// Sample returns the full-horizon transition batch. The memory must be
// full before sampling.
func (m *ACMemory) Sample() (*Batch, error) {
	if !m.Full() {
		return nil, &MemoryError{Op: "sample", Err: errNotFull}
	}

	return &Batch{
		Obs:       m.obs,
		Actions:   m.actions,
		Rewards:   m.rewards,
		Terminals: m.terminals,
		Values:    m.values,
		LogProbs:  m.logProbs,
		Entropies: m.entropies,
	}, nil
}

// Reset clears the rollout for the next horizon. The recent-frame
// window is kept so that state stacking continues seamlessly across
// the horizon boundary.
func (m *ACMemory) Reset() {
	m.obs = make([]*mat.Dense, 0, m.numFrames)
	m.actions = make([]*mat.VecDense, 0, m.numFrames)
	m.rewards = make([]*mat.VecDense, 0, m.numFrames)
	m.terminals = make([][]bool, 0, m.numFrames)
	m.values = make([]*mat.VecDense, 0, m.numFrames)
	m.logProbs = make([]*mat.VecDense, 0, m.numFrames)
	m.entropies = make([]*mat.VecDense, 0, m.numFrames)

	m.open = false
	m.statsCached = false
	m.cachedValues, m.cachedLogPs, m.cachedEnts = nil, nil, nil
}

// setWorkers fixes the worker count on first use and panics on any
// later disagreement.
func (m *ACMemory) setWorkers(op string, workers int) {
	if m.workers == 0 {
		m.workers = workers
		return
	}
	if workers != m.workers {
		panic(fmt.Sprintf("%v: illegal number of workers "+
			"\n\twant(%v)\n\thave(%v)", op, m.workers, workers))
	}
}

// setObsDims fixes the observation width on first use and panics on
// any later disagreement.
func (m *ACMemory) setObsDims(dims int) {
	if m.obsDims == 0 {
		m.obsDims = dims
		return
	}
	if dims != m.obsDims {
		panic(fmt.Sprintf("illegal observation size "+
			"\n\twant(%v)\n\thave(%v)", m.obsDims, dims))
	}
}
