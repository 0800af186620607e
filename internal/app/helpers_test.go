package app_test

import (
	"context"
	"sync"

	"wiki-quiz-engine/internal/domain"
)

func fourQuestionQuiz() domain.QuizData {
	return domain.QuizData{
		Title:   "Alan Turing",
		Summary: "English mathematician, computer scientist and cryptanalyst.",
		KeyEntities: domain.KeyEntities{
			"people":    {"Alan Turing", "Alonzo Church"},
			"locations": {"Bletchley Park"},
			"events":    {"World War II"},
		},
		Sections: []string{"Early life", "Cryptanalysis"},
		Quiz: []domain.QuestionItem{
			{
				Question:    "Where did Turing work during the war?",
				Options:     []string{"Bletchley Park", "Los Alamos", "Cambridge", "Manchester"},
				Answer:      "Bletchley Park",
				Explanation: "He led Hut 8 at Bletchley Park.",
				Difficulty:  domain.DifficultyEasy,
			},
			{
				Question:    "Which machine did Turing help break?",
				Options:     []string{"Lorenz", "Enigma", "Purple", "Typex"},
				Answer:      "Enigma",
				Explanation: "The bombe attacked Enigma traffic.",
				Difficulty:  domain.DifficultyMedium,
			},
			{
				Question:    "What test is named after him?",
				Options:     []string{"Turing test", "Church test", "Halting test", "Gödel test"},
				Answer:      "Turing test",
				Explanation: "Proposed in 1950.",
				Difficulty:  domain.DifficultyEasy,
			},
			{
				Question:    "In which year was 'On Computable Numbers' published?",
				Options:     []string{"1936", "1939", "1945", "1950"},
				Answer:      "1936",
				Explanation: "Published in the Proceedings of the London Mathematical Society.",
				Difficulty:  domain.DifficultyHard,
			},
		},
		RelatedTopics: []string{"Turing machine", "Enigma machine"},
	}
}

func detailRecord(id domain.QuizID, title string) domain.QuizDetailRecord {
	quiz := fourQuestionQuiz()
	quiz.Title = title
	return domain.QuizDetailRecord{
		QuizSummary: domain.QuizSummary{ID: id, Title: title, URL: "https://en.wikipedia.org/wiki/" + title},
		QuizData:    quiz,
	}
}

type detailResult struct {
	record domain.QuizDetailRecord
	err    error
}

// gatedDetails blocks each QuizDetail call until the test releases its id.
type gatedDetails struct {
	started chan domain.QuizID

	mu    sync.Mutex
	gates map[domain.QuizID]chan detailResult
}

func newGatedDetails() *gatedDetails {
	return &gatedDetails{
		started: make(chan domain.QuizID, 16),
		gates:   make(map[domain.QuizID]chan detailResult),
	}
}

func (g *gatedDetails) gate(id domain.QuizID) chan detailResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[id]
	if !ok {
		ch = make(chan detailResult, 1)
		g.gates[id] = ch
	}
	return ch
}

func (g *gatedDetails) QuizDetail(ctx context.Context, id domain.QuizID) (domain.QuizDetailRecord, error) {
	ch := g.gate(id)
	g.started <- id
	select {
	case r := <-ch:
		return r.record, r.err
	case <-ctx.Done():
		return domain.QuizDetailRecord{}, ctx.Err()
	}
}

func (g *gatedDetails) release(id domain.QuizID, r detailResult) {
	g.gate(id) <- r
}

type stubHistory struct {
	items []domain.QuizSummary
	err   error
	calls int
}

func (s *stubHistory) History(context.Context) ([]domain.QuizSummary, error) {
	s.calls++
	return s.items, s.err
}

type stubGenerator struct {
	quiz domain.QuizData
	err  error
	urls []string
}

func (s *stubGenerator) GenerateQuiz(_ context.Context, url string) (domain.QuizData, error) {
	s.urls = append(s.urls, url)
	return s.quiz, s.err
}
