package domain

import (
	"strings"
)

// Difficulty is the normalized difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// UnmarshalText normalizes case and surrounding whitespace. Unknown values are
// kept as-is and rejected by QuizData.Validate.
func (d *Difficulty) UnmarshalText(text []byte) error {
	*d = Difficulty(strings.ToLower(strings.TrimSpace(string(text))))
	return nil
}

// Known reports whether d is one of easy, medium or hard.
func (d Difficulty) Known() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Entity categories surfaced to the presentation layer. Other keys are ignored.
const (
	EntityPeople        = "people"
	EntityOrganizations = "organizations"
	EntityLocations     = "locations"
)

// KeyEntities groups entity names by category.
type KeyEntities map[string][]string

func (k KeyEntities) People() []string        { return k[EntityPeople] }
func (k KeyEntities) Organizations() []string { return k[EntityOrganizations] }
func (k KeyEntities) Locations() []string     { return k[EntityLocations] }

// HasEntities reports whether any known category is non-empty.
func (k KeyEntities) HasEntities() bool {
	return len(k.People()) > 0 || len(k.Organizations()) > 0 || len(k.Locations()) > 0
}

// QuestionItem is a single multiple-choice question. Answer must equal exactly
// one element of Options.
type QuestionItem struct {
	Question    string     `json:"question"`
	Options     []string   `json:"options" validate:"min=2,unique"`
	Answer      string     `json:"answer"`
	Explanation string     `json:"explanation"`
	Difficulty  Difficulty `json:"difficulty" validate:"oneof=easy medium hard"`
}

// QuizData is the full content of a generated quiz. It is treated as immutable
// once received.
type QuizData struct {
	Title         string         `json:"title"`
	Summary       string         `json:"summary"`
	KeyEntities   KeyEntities    `json:"key_entities"`
	Sections      []string       `json:"sections"`
	Quiz          []QuestionItem `json:"quiz" validate:"min=1,dive"`
	RelatedTopics []string       `json:"related_topics"`
}

// QuizSummary is one history row.
type QuizSummary struct {
	ID            QuizID    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	DateGenerated Timestamp `json:"date_generated"`
}

// QuizDetailRecord is a history row plus its full quiz content.
type QuizDetailRecord struct {
	QuizSummary
	QuizData QuizData `json:"quiz_data"`
}

// Score summarizes a submitted attempt.
type Score struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

const wikiBaseURL = "https://en.wikipedia.org/wiki/"

// TopicURL returns the encyclopedia link for a related topic.
func TopicURL(topic string) string {
	return wikiBaseURL + strings.ReplaceAll(topic, " ", "_")
}
