package game

import (
	"testing"

	"trivia-quiz/internal/domain"
)

func TestEngineScoring(t *testing.T) {
	var ended []int
	e := NewEngine(func(score int) { ended = append(ended, score) })
	e.Start(samplePool(), 60)

	for i := 0; i < 3; i++ {
		q, _ := e.Current()
		if _, ok := e.Submit(q.Answer); !ok {
			t.Fatalf("submit %d rejected", i)
		}
		e.RevealTimeout(e.State().RevealSeq)
	}
	for i := 0; i < 2; i++ {
		if _, ok := e.Submit("nope"); !ok {
			t.Fatalf("wrong submit %d rejected", i)
		}
		e.RevealTimeout(e.State().RevealSeq)
	}

	if got := e.State().Score; got != 10*3-5*2 {
		t.Fatalf("expected score 20, got %d", got)
	}
	if len(ended) != 0 {
		t.Fatalf("expected game still running, ended=%v", ended)
	}
}

func TestEngineScoreGoesNegative(t *testing.T) {
	e := NewEngine(nil)
	e.Start(samplePool(), 60)
	for i := 0; i < 3; i++ {
		e.Submit("nope")
		e.RevealTimeout(e.State().RevealSeq)
	}
	if got := e.State().Score; got != -15 {
		t.Fatalf("expected -15, got %d", got)
	}
}

func TestEngineIndexWraps(t *testing.T) {
	e := NewEngine(nil)
	e.Start(samplePool(), 600)

	want := []int{0, 1, 2, 0, 1, 2, 0}
	for i, idx := range want {
		if got := e.State().QuestionIndex; got != idx {
			t.Fatalf("step %d: expected index %d, got %d", i, idx, got)
		}
		e.Submit("x")
		e.RevealTimeout(e.State().RevealSeq)
	}
}

func TestEngineRejectsDoubleSubmit(t *testing.T) {
	e := NewEngine(nil)
	e.Start(samplePool(), 60)

	q, _ := e.Current()
	e.Submit(q.Answer)
	if _, ok := e.Submit(q.Answer); ok {
		t.Fatalf("expected second submit during reveal to be ignored")
	}
	if got := e.State().Score; got != 10 {
		t.Fatalf("expected single scoring, got %d", got)
	}
	st := e.State()
	if st.Phase != domain.PhaseRevealingAnswer || !st.LastAnswerCorrect || st.LastRevealedAnswer != q.Answer {
		t.Fatalf("unexpected reveal state %+v", st)
	}
}

func TestEngineSubmitOption(t *testing.T) {
	e := NewEngine(nil)
	e.Start(samplePool(), 60)

	for _, idx := range []int{-1, 2} {
		if _, ok := e.SubmitOption(idx); ok {
			t.Fatalf("expected index %d to be ignored", idx)
		}
	}
	result, ok := e.SubmitOption(0)
	if !ok || !result.Correct || result.QuestionID != "q1" {
		t.Fatalf("expected option 0 of q1 to be correct, got %+v ok=%v", result, ok)
	}
	if _, ok := e.SubmitOption(1); ok {
		t.Fatalf("expected option submit during reveal to be ignored")
	}

	e.RevealTimeout(e.State().RevealSeq)
	result, ok = e.SubmitOption(1)
	if !ok || !result.Correct || result.QuestionID != "q2" || e.State().Score != 20 {
		t.Fatalf("expected option 1 resolved against q2, got %+v score=%d", result, e.State().Score)
	}
}

func TestEngineStaleRevealIgnored(t *testing.T) {
	e := NewEngine(nil)
	e.Start(samplePool(), 60)

	e.Submit("x")
	stale := e.State().RevealSeq
	e.RevealTimeout(stale)
	e.Submit("x")

	if e.RevealTimeout(stale) {
		t.Fatalf("expected stale reveal timeout to be ignored")
	}
	if got := e.State().QuestionIndex; got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
}

func TestEngineTickEndsGameOnce(t *testing.T) {
	calls := 0
	e := NewEngine(func(int) { calls++ })
	e.Start(samplePool(), 3)

	e.Tick()
	e.Tick()
	if e.State().TimeRemaining != 1 {
		t.Fatalf("expected 1s left, got %d", e.State().TimeRemaining)
	}
	if !e.Tick() {
		t.Fatalf("expected third tick to end the game")
	}
	e.Tick()
	e.Tick()

	if calls != 1 {
		t.Fatalf("expected end hook once, got %d", calls)
	}
	if st := e.State(); st.Phase != domain.PhaseEnded || st.TimeRemaining != 0 {
		t.Fatalf("unexpected end state %+v", st)
	}
}

func TestEngineEndDuringRevealDoesNotAdvance(t *testing.T) {
	e := NewEngine(nil)
	e.Start(samplePool(), 1)

	e.Submit("x")
	seq := e.State().RevealSeq
	e.Tick()
	if e.RevealTimeout(seq) {
		t.Fatalf("expected reveal after end to be ignored")
	}
	if _, ok := e.Submit("x"); ok {
		t.Fatalf("expected submit after end to be ignored")
	}
	st := e.State()
	if st.Phase != domain.PhaseEnded || st.QuestionIndex != 0 || st.Score != -5 {
		t.Fatalf("expected frozen state, got %+v", st)
	}
}

func TestEngineStartWithoutTimeEndsImmediately(t *testing.T) {
	var final []int
	e := NewEngine(func(score int) { final = append(final, score) })
	e.Start(samplePool(), 0)

	if e.State().Phase != domain.PhaseEnded {
		t.Fatalf("expected ended, got %s", e.State().Phase)
	}
	if len(final) != 1 || final[0] != 0 {
		t.Fatalf("expected end hook with 0, got %v", final)
	}
	if _, ok := e.Current(); ok {
		t.Fatalf("expected no current question")
	}
}

func TestEngineIdleIgnoresEvents(t *testing.T) {
	e := NewEngine(nil)
	if e.Tick() {
		t.Fatalf("idle tick must not end anything")
	}
	if _, ok := e.Submit("x"); ok {
		t.Fatalf("idle submit must be ignored")
	}
	if e.State().Phase != domain.PhaseSetup {
		t.Fatalf("expected setup, got %s", e.State().Phase)
	}
}

func samplePool() []domain.Question {
	return []domain.Question{
		{ID: "q1", Category: "Science", Prompt: "H2O is?", Options: []string{"Water", "Salt"}, Answer: "Water"},
		{ID: "q2", Category: "History", Prompt: "WWII ended in?", Options: []string{"1944", "1945"}, Answer: "1945"},
		{ID: "q3", Category: "Science", Prompt: "Red planet?", Options: []string{"Mars", "Venus"}, Answer: "Mars"},
	}
}
