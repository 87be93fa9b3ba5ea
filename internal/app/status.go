package app

import "sync/atomic"

type runState int32

const (
	stateIdle runState = iota
	stateRunning
	stateFinished
)

func (s runState) String() string {
	switch s {
	case stateRunning:
		return "running"
	case stateFinished:
		return "finished"
	default:
		return "idle"
	}
}

// runStatus is read by the health check while a run is in progress.
type runStatus struct {
	state atomic.Int32
}

func (s *runStatus) set(state runState) { s.state.Store(int32(state)) }

func (s *runStatus) get() runState { return runState(s.state.Load()) }
