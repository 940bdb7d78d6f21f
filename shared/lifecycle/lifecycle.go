// Package lifecycle tracks the shutdown phases of a running server.
package lifecycle

import "sync/atomic"

type Phase int32

const (
	PhaseReady Phase = iota + 1
	PhaseGracePeriod
	PhaseCleanupPeriod
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseGracePeriod:
		return "grace_period"
	case PhaseCleanupPeriod:
		return "cleanup_period"
	default:
		return "starting"
	}
}

// State is safe for concurrent use; the signal handler writes while requests read.
type State struct {
	phase atomic.Int32
}

func New() *State {
	s := &State{}
	s.Set(PhaseReady)

	return s
}

func (s *State) Set(phase Phase) {
	s.phase.Store(int32(phase))
}

func (s *State) Phase() Phase {
	return Phase(s.phase.Load())
}

func (s *State) Ready() bool {
	return s.Phase() == PhaseReady
}
