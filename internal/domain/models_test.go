package domain

import (
	"errors"
	"slices"
	"testing"
)

func TestNewQuestionSetCategoriesInOrder(t *testing.T) {
	set, err := NewQuestionSet("s", []Question{
		{Category: "History", Prompt: "a", Options: []string{"x", "y"}, Answer: "x"},
		{Category: "Science", Prompt: "b", Options: []string{"x", "y"}, Answer: "y"},
		{Category: "History", Prompt: "c", Options: []string{"x", "y"}, Answer: "x"},
	})
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	if got := set.Categories(); !slices.Equal(got, []string{"History", "Science"}) {
		t.Fatalf("unexpected categories %v", got)
	}
	if counts := set.CountByCategory(); counts["History"] != 2 || counts["Science"] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if set.Questions()[1].ID != "q2" {
		t.Fatalf("expected generated id q2, got %q", set.Questions()[1].ID)
	}

	filtered := set.Filter(map[string]struct{}{"History": {}})
	if len(filtered) != 2 || filtered[0].Prompt != "a" || filtered[1].Prompt != "c" {
		t.Fatalf("unexpected filter result %+v", filtered)
	}
}

func TestNewQuestionSetRejectsMalformed(t *testing.T) {
	cases := map[string]Question{
		"no category":     {Prompt: "a", Options: []string{"x", "y"}, Answer: "x"},
		"no prompt":       {Category: "c", Options: []string{"x", "y"}, Answer: "x"},
		"one option":      {Category: "c", Prompt: "a", Options: []string{"x"}, Answer: "x"},
		"answer missing":  {Category: "c", Prompt: "a", Options: []string{"x", "y"}, Answer: "z"},
		"answer is empty": {Category: "c", Prompt: "a", Options: []string{"x", "y"}},
	}
	for name, q := range cases {
		if _, err := NewQuestionSet("s", []Question{q}); !errors.Is(err, ErrInvalidQuestion) {
			t.Fatalf("%s: expected ErrInvalidQuestion, got %v", name, err)
		}
	}
	if _, err := NewQuestionSet("s", nil); !errors.Is(err, ErrEmptyQuestionSet) {
		t.Fatalf("expected ErrEmptyQuestionSet, got %v", err)
	}
}

func TestDurationValidity(t *testing.T) {
	for _, d := range []Duration{1, 3, 5} {
		if !d.Valid() || d.Seconds() != int(d)*60 {
			t.Fatalf("duration %d should be valid with %d seconds", d, int(d)*60)
		}
	}
	for _, d := range []Duration{0, 2, 6} {
		if d.Valid() {
			t.Fatalf("duration %d should be invalid", d)
		}
	}
}
