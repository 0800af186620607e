package app

import (
	"fmt"

	"wiki-quiz-engine/internal/domain"
)

// Mode selects how a quiz is rendered and whether it accepts input.
type Mode int

const (
	// ModeReview shows the correct answer for every question.
	ModeReview Mode = iota
	// ModeTakeUnsubmitted records selections without evaluating them.
	ModeTakeUnsubmitted
	// ModeTakeSubmitted shows correctness and the score of the attempt.
	ModeTakeSubmitted
)

func (m Mode) String() string {
	switch m {
	case ModeReview:
		return "review"
	case ModeTakeUnsubmitted:
		return "take"
	case ModeTakeSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ModeReader exposes the current mode to collaborators that must not change it.
type ModeReader interface {
	Mode() Mode
}

// ControllerOption customizes a QuizModeController.
type ControllerOption func(*QuizModeController)

// ReviewOnly removes the take-quiz affordance: the controller stays in review
// and toggling is rejected.
func ReviewOnly() ControllerOption {
	return func(c *QuizModeController) { c.reviewOnly = true }
}

// QuizModeController owns the render mode of one loaded quiz and the attempt
// tracked against it. A new controller is built for every quiz load.
type QuizModeController struct {
	quiz       domain.QuizData
	mode       Mode
	reviewOnly bool
	answers    *AnswerTracker
}

// NewQuizModeController validates quiz and returns a controller in initial,
// which must be ModeReview or ModeTakeUnsubmitted.
func NewQuizModeController(quiz domain.QuizData, initial Mode, opts ...ControllerOption) (*QuizModeController, error) {
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	c := &QuizModeController{quiz: quiz, mode: ModeReview}
	for _, opt := range opts {
		opt(c)
	}
	switch initial {
	case ModeReview:
	case ModeTakeUnsubmitted:
		if c.reviewOnly {
			return nil, fmt.Errorf("%w: quiz is review only", domain.ErrValidation)
		}
		c.mode = ModeTakeUnsubmitted
	default:
		return nil, fmt.Errorf("%w: cannot start in %s mode", domain.ErrValidation, initial)
	}
	c.answers = NewAnswerTracker(quiz, c)
	return c, nil
}

func (c *QuizModeController) Mode() Mode { return c.mode }

// Answers returns the tracker for the current attempt. It is replaced whenever
// the attempt is discarded, so callers should not hold on to it across toggles.
func (c *QuizModeController) Answers() *AnswerTracker { return c.answers }

func (c *QuizModeController) Quiz() domain.QuizData { return c.quiz }

func (c *QuizModeController) ReviewOnly() bool { return c.reviewOnly }

// Toggle flips between review and take-quiz. Leaving take-quiz, submitted or
// not, discards the attempt; every toggle lands on an empty attempt.
func (c *QuizModeController) Toggle() error {
	if c.reviewOnly {
		return fmt.Errorf("%w: quiz is review only", domain.ErrValidation)
	}
	switch c.mode {
	case ModeReview:
		c.mode = ModeTakeUnsubmitted
	case ModeTakeUnsubmitted, ModeTakeSubmitted:
		c.mode = ModeReview
	}
	c.answers = NewAnswerTracker(c.quiz, c)
	return nil
}

// CanSubmit reports whether Submit would be accepted.
func (c *QuizModeController) CanSubmit() bool {
	return c.mode == ModeTakeUnsubmitted && c.answers.IsComplete()
}

// Submit moves an attempt with every question answered to ModeTakeSubmitted
// and returns its score. Anything else is rejected without a state change.
func (c *QuizModeController) Submit() (domain.Score, error) {
	if c.mode != ModeTakeUnsubmitted {
		return domain.Score{}, fmt.Errorf("%w: cannot submit in %s mode", domain.ErrValidation, c.mode)
	}
	if !c.answers.IsComplete() {
		return domain.Score{}, fmt.Errorf("%w: %d of %d questions answered",
			domain.ErrValidation, c.answers.Len(), len(c.quiz.Quiz))
	}
	score, err := c.answers.Score()
	if err != nil {
		return domain.Score{}, err
	}
	c.mode = ModeTakeSubmitted
	return score, nil
}
