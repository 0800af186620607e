package app

import (
	"fmt"
	"math"

	"wiki-quiz-engine/internal/domain"
)

// AnswerTracker holds the selections of one attempt, keyed by question index.
// Entries are only added or overwritten; a discarded attempt gets a new tracker.
type AnswerTracker struct {
	quiz    domain.QuizData
	modes   ModeReader
	answers map[int]string
}

// NewAnswerTracker returns an empty tracker for quiz. Selections are recorded
// only while modes reports ModeTakeUnsubmitted.
func NewAnswerTracker(quiz domain.QuizData, modes ModeReader) *AnswerTracker {
	return &AnswerTracker{
		quiz:    quiz,
		modes:   modes,
		answers: make(map[int]string, len(quiz.Quiz)),
	}
}

// Select records option for the question at index, overwriting any previous
// choice. Outside ModeTakeUnsubmitted it does nothing and reports false.
func (t *AnswerTracker) Select(index int, option string) (bool, error) {
	if t.modes == nil || t.modes.Mode() != ModeTakeUnsubmitted {
		return false, nil
	}
	if index < 0 || index >= len(t.quiz.Quiz) {
		return false, fmt.Errorf("%w: question %d out of range", domain.ErrValidation, index)
	}
	if !containsOption(t.quiz.Quiz[index].Options, option) {
		return false, fmt.Errorf("%w: %q is not an option of question %d", domain.ErrValidation, option, index)
	}
	t.answers[index] = option
	return true, nil
}

// Answer returns the selection for index, if any.
func (t *AnswerTracker) Answer(index int) (string, bool) {
	option, ok := t.answers[index]
	return option, ok
}

// Answers returns a copy of all selections.
func (t *AnswerTracker) Answers() map[int]string {
	out := make(map[int]string, len(t.answers))
	for k, v := range t.answers {
		out[k] = v
	}
	return out
}

func (t *AnswerTracker) Len() int { return len(t.answers) }

// IsComplete reports whether every question has a selection.
func (t *AnswerTracker) IsComplete() bool {
	return len(t.answers) == len(t.quiz.Quiz)
}

// Reset clears every selection.
func (t *AnswerTracker) Reset() {
	t.answers = make(map[int]string, len(t.quiz.Quiz))
}

// Score counts exact, case-sensitive matches against each question's answer.
// The percentage is rounded to one decimal.
func (t *AnswerTracker) Score() (domain.Score, error) {
	total := len(t.quiz.Quiz)
	if total == 0 {
		return domain.Score{}, fmt.Errorf("%w: cannot score an empty quiz", domain.ErrInvalidState)
	}
	correct := 0
	for i, item := range t.quiz.Quiz {
		if selected, ok := t.answers[i]; ok && selected == item.Answer {
			correct++
		}
	}
	return domain.Score{
		Correct:    correct,
		Total:      total,
		Percentage: math.Round(float64(correct)*1000/float64(total)) / 10,
	}, nil
}

func containsOption(options []string, option string) bool {
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}
