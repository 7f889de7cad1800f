package session

import "github.com/abhisek/lectio/internal/exercisegen"

// recencyCap bounds the recent-question buffer used to bias generation
// away from repeats. Oldest entries fall off first.
const recencyCap = 20

// StageState tracks the learner's position within one section for the
// lifetime of a session. It is advisory only and never persisted; the
// authoritative answered set lives in the progress record.
type StageState struct {
	stage    exercisegen.Stage
	complete bool
	recent   []string
}

// NewStageState starts a section at stage 0.
func NewStageState() *StageState {
	return &StageState{stage: exercisegen.StageSingleChoice}
}

// Stage returns the current stage.
func (s *StageState) Stage() exercisegen.Stage { return s.stage }

// Complete reports whether the section has been exhausted.
func (s *StageState) Complete() bool { return s.complete }

// Advance moves strictly forward. Advancing past the last stage marks the
// section complete; further calls are no-ops.
func (s *StageState) Advance() {
	if s.complete {
		return
	}
	next, ok := s.stage.Next()
	if !ok {
		s.complete = true
		return
	}
	s.stage = next
}

// Remember records question texts in the recency buffer, evicting the
// oldest entries beyond the cap.
func (s *StageState) Remember(questions ...string) {
	s.recent = append(s.recent, questions...)
	if excess := len(s.recent) - recencyCap; excess > 0 {
		s.recent = s.recent[excess:]
	}
}

// Recent returns a copy of the recency buffer, oldest first.
func (s *StageState) Recent() []string {
	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}
