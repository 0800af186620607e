package domain

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the structural invariants a quiz must hold before it can be
// displayed: a non-empty question list, at least two unique options per
// question, a known difficulty, and an answer that is one of the options.
// Violations are reported as ErrInvalidState.
func (q QuizData) Validate() error {
	if err := structValidator().Struct(q); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return invalidState("%s", describeFieldErrors(fieldErrs))
		}
		return invalidState("%v", err)
	}
	for i, item := range q.Quiz {
		if !item.hasOption(item.Answer) {
			return invalidState("question %d: answer %q is not one of its options", i, item.Answer)
		}
	}
	return nil
}

func (q QuestionItem) hasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

func describeFieldErrors(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := strings.TrimPrefix(fe.Namespace(), "QuizData.")
		switch fe.Tag() {
		case "min":
			parts = append(parts, field+" needs at least "+fe.Param()+" entries")
		case "unique":
			parts = append(parts, field+" must not repeat")
		case "oneof":
			parts = append(parts, field+" must be one of "+fe.Param())
		default:
			parts = append(parts, field+" failed "+fe.Tag())
		}
	}
	return strings.Join(parts, "; ")
}
