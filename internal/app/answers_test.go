package app_test

import (
	"errors"
	"testing"

	"wiki-quiz-engine/internal/app"
	"wiki-quiz-engine/internal/domain"
)

type fixedMode app.Mode

func (m fixedMode) Mode() app.Mode { return app.Mode(m) }

func TestIsCompleteTracksEveryIndex(t *testing.T) {
	quiz := fourQuestionQuiz()
	tracker := app.NewAnswerTracker(quiz, fixedMode(app.ModeTakeUnsubmitted))

	for i, item := range quiz.Quiz {
		if tracker.IsComplete() {
			t.Fatalf("complete after only %d answers", i)
		}
		if _, err := tracker.Select(i, item.Options[1]); err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
	}
	if !tracker.IsComplete() {
		t.Fatalf("expected complete after answering every question")
	}

	if _, err := tracker.Select(0, quiz.Quiz[0].Options[2]); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if !tracker.IsComplete() {
		t.Fatalf("overwriting must keep the attempt complete")
	}
	if got, _ := tracker.Answer(0); got != quiz.Quiz[0].Options[2] {
		t.Fatalf("expected overwritten answer, got %q", got)
	}
}

func TestScoreAllCorrectAndNoneCorrect(t *testing.T) {
	quiz := fourQuestionQuiz()

	right := app.NewAnswerTracker(quiz, fixedMode(app.ModeTakeUnsubmitted))
	wrong := app.NewAnswerTracker(quiz, fixedMode(app.ModeTakeUnsubmitted))
	for i, item := range quiz.Quiz {
		_, _ = right.Select(i, item.Answer)
		for _, option := range item.Options {
			if option != item.Answer {
				_, _ = wrong.Select(i, option)
				break
			}
		}
	}

	score, err := right.Score()
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score.Correct != score.Total || score.Percentage != 100.0 {
		t.Fatalf("expected perfect score, got %+v", score)
	}

	score, err = wrong.Score()
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score.Correct != 0 || score.Percentage != 0.0 {
		t.Fatalf("expected zero score, got %+v", score)
	}
}

func TestScoreTwoOfFour(t *testing.T) {
	quiz := fourQuestionQuiz()
	tracker := app.NewAnswerTracker(quiz, fixedMode(app.ModeTakeUnsubmitted))
	_, _ = tracker.Select(0, "Bletchley Park")
	_, _ = tracker.Select(1, "Lorenz")
	_, _ = tracker.Select(2, "Turing test")
	_, _ = tracker.Select(3, "1950")

	score, err := tracker.Score()
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score != (domain.Score{Correct: 2, Total: 4, Percentage: 50.0}) {
		t.Fatalf("unexpected score %+v", score)
	}
}

func TestScoreRoundsToOneDecimal(t *testing.T) {
	quiz := fourQuestionQuiz()
	quiz.Quiz = quiz.Quiz[:3]
	tracker := app.NewAnswerTracker(quiz, fixedMode(app.ModeTakeUnsubmitted))
	_, _ = tracker.Select(0, "Bletchley Park")
	_, _ = tracker.Select(1, "Enigma")

	score, _ := tracker.Score()
	if score.Percentage != 66.7 {
		t.Fatalf("expected 66.7, got %v", score.Percentage)
	}
}

func TestScoreIsCaseSensitive(t *testing.T) {
	quiz := fourQuestionQuiz()
	quiz.Quiz[0].Options = []string{"enigma", "Enigma"}
	quiz.Quiz[0].Answer = "Enigma"
	quiz.Quiz = quiz.Quiz[:1]
	tracker := app.NewAnswerTracker(quiz, fixedMode(app.ModeTakeUnsubmitted))
	_, _ = tracker.Select(0, "enigma")

	score, _ := tracker.Score()
	if score.Correct != 0 {
		t.Fatalf("expected case-sensitive mismatch, got %+v", score)
	}
}

func TestScoreEmptyQuizIsInvalidState(t *testing.T) {
	tracker := app.NewAnswerTracker(domain.QuizData{}, fixedMode(app.ModeTakeUnsubmitted))
	if _, err := tracker.Score(); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestSelectIgnoredOutsideTakeMode(t *testing.T) {
	quiz := fourQuestionQuiz()
	for _, mode := range []app.Mode{app.ModeReview, app.ModeTakeSubmitted} {
		tracker := app.NewAnswerTracker(quiz, fixedMode(mode))
		applied, err := tracker.Select(0, "Cambridge")
		if err != nil || applied {
			t.Fatalf("%s: expected silent no-op, got applied=%v err=%v", mode, applied, err)
		}
		if tracker.Len() != 0 {
			t.Fatalf("%s: expected no answers recorded", mode)
		}
	}
}

func TestSelectRejectsUnknownQuestionOrOption(t *testing.T) {
	tracker := app.NewAnswerTracker(fourQuestionQuiz(), fixedMode(app.ModeTakeUnsubmitted))
	if _, err := tracker.Select(9, "Enigma"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for index, got %v", err)
	}
	if _, err := tracker.Select(1, "Colossus"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for option, got %v", err)
	}
}

func TestResetClearsAnswers(t *testing.T) {
	tracker := app.NewAnswerTracker(fourQuestionQuiz(), fixedMode(app.ModeTakeUnsubmitted))
	_, _ = tracker.Select(0, "Cambridge")
	tracker.Reset()
	if tracker.Len() != 0 {
		t.Fatalf("expected empty tracker after reset")
	}
}
