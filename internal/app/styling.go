package app

// OptionCategory is the presentation category of one option.
type OptionCategory string

const (
	CategoryCorrect    OptionCategory = "correct-marker"
	CategoryIncorrect  OptionCategory = "incorrect-marker"
	CategoryNeutral    OptionCategory = "neutral"
	CategorySelected   OptionCategory = "selected"
	CategorySelectable OptionCategory = "selectable"
)

// CategorizeOption derives how option is styled. answered reports whether
// selected holds a real selection. During ModeTakeUnsubmitted the result never
// depends on correct.
func CategorizeOption(mode Mode, option, correct, selected string, answered bool) OptionCategory {
	switch mode {
	case ModeTakeUnsubmitted:
		if answered && option == selected {
			return CategorySelected
		}
		return CategorySelectable
	case ModeTakeSubmitted:
		if option == correct {
			return CategoryCorrect
		}
		if answered && option == selected && selected != correct {
			return CategoryIncorrect
		}
		return CategoryNeutral
	default:
		if option == correct {
			return CategoryCorrect
		}
		return CategoryNeutral
	}
}
