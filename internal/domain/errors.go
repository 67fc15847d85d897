package domain

import "errors"

var (
	// ErrQuestionSetNotFound indicates the question dataset could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrEmptyQuestionSet is returned when a dataset has no questions.
	ErrEmptyQuestionSet = errors.New("question set is empty")
	// ErrInvalidQuestion marks a malformed question record (missing answer, too few options, ...).
	ErrInvalidQuestion = errors.New("invalid question")
)
