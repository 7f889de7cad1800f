package session

import (
	"fmt"
	"testing"

	"github.com/abhisek/lectio/internal/exercisegen"
)

func TestStageState_AdvancesStrictlyForward(t *testing.T) {
	s := NewStageState()
	if s.Stage() != exercisegen.StageSingleChoice {
		t.Fatalf("unexpected initial stage: %v", s.Stage())
	}

	s.Advance()
	if s.Stage() != exercisegen.StageMultipleChoice {
		t.Fatalf("unexpected stage: %v", s.Stage())
	}
	s.Advance()
	if s.Stage() != exercisegen.StageOpenQuestion {
		t.Fatalf("unexpected stage: %v", s.Stage())
	}
	if s.Complete() {
		t.Fatal("section must not complete before the last stage is exhausted")
	}

	s.Advance()
	if !s.Complete() {
		t.Fatal("advancing past the last stage must complete the section")
	}

	// Further advances are no-ops.
	s.Advance()
	if s.Stage() != exercisegen.StageOpenQuestion {
		t.Fatalf("stage moved after completion: %v", s.Stage())
	}
}

func TestStageState_RecencyBufferCapped(t *testing.T) {
	s := NewStageState()
	for i := 0; i < 25; i++ {
		s.Remember(fmt.Sprintf("question %d", i))
	}

	recent := s.Recent()
	if len(recent) != 20 {
		t.Fatalf("expected 20 buffered questions, got %d", len(recent))
	}
	if recent[0] != "question 5" || recent[19] != "question 24" {
		t.Fatalf("oldest entries not evicted first: %v", recent)
	}
}

func TestStageState_RecentReturnsCopy(t *testing.T) {
	s := NewStageState()
	s.Remember("q1")

	got := s.Recent()
	got[0] = "mutated"
	if s.Recent()[0] != "q1" {
		t.Fatal("Recent must return a copy")
	}
}
