package memory

import "errors"

// MemoryError implements errors unique to a rollout memory.
type MemoryError struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *MemoryError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

var errNotFull error = errors.New("rollout horizon not full")

var errHorizonFull = errors.New("rollout horizon full")

var errStepOpen = errors.New("timestep already open")

var errNoOpenStep = errors.New("no open timestep")

var errStaleHandle = errors.New("stale step handle")

var errStatsCached = errors.New("statistics already cached")

var errNoStats = errors.New("no statistics cached for training step")

// IsNotFull returns whether or not an error reports that the rollout
// horizon has not yet been filled with transitions.
func IsNotFull(err error) bool {
	if memErr, ok := err.(*MemoryError); ok {
		err = memErr.Err
	}
	return err == errNotFull
}

// IsStepOpen returns whether or not an error reports that a timestep
// was begun before the previous timestep was committed.
func IsStepOpen(err error) bool {
	if memErr, ok := err.(*MemoryError); ok {
		err = memErr.Err
	}
	return err == errStepOpen
}

// IsNoOpenStep returns whether or not an error reports that a commit
// or statistics write was attempted with no timestep open.
func IsNoOpenStep(err error) bool {
	if memErr, ok := err.(*MemoryError); ok {
		err = memErr.Err
	}
	return err == errNoOpenStep
}
