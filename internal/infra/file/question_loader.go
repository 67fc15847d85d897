package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"trivia-quiz/internal/domain"
)

// QuestionLoader reads question datasets from YAML or JSON files.
// A set ID maps to "<dir>/<setID>.yaml", ".yml" or ".json"; a loader built
// with NewFileQuestionLoader serves a single file for every set ID.
type QuestionLoader struct {
	dir  string
	path string
}

func NewQuestionLoader(dir string) *QuestionLoader {
	return &QuestionLoader{dir: dir}
}

func NewFileQuestionLoader(path string) *QuestionLoader {
	return &QuestionLoader{path: path}
}

func (l *QuestionLoader) LoadQuestions(_ context.Context, setID string) ([]domain.Question, error) {
	path, err := l.resolve(setID)
	if err != nil {
		return nil, err
	}
	return ReadQuestions(path)
}

func (l *QuestionLoader) resolve(setID string) (string, error) {
	if l.path != "" {
		return l.path, nil
	}
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		candidate := filepath.Join(l.dir, setID+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrQuestionSetNotFound, setID)
}

// ReadQuestions parses a dataset file. YAML is a superset of JSON, so both go through yaml.v3.
func ReadQuestions(path string) ([]domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrQuestionSetNotFound, path)
		}
		return nil, err
	}
	var questions []domain.Question
	if err := yaml.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return questions, nil
}
