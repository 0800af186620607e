package app

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"wiki-quiz-engine/internal/domain"
)

// OptionView is one rendered option.
type OptionView struct {
	Label    string         `json:"label"`
	Text     string         `json:"text"`
	Category OptionCategory `json:"category"`
}

// QuestionView is one rendered question. Explanation is empty while an
// attempt is in progress.
type QuestionView struct {
	Index       int               `json:"index"`
	Question    string            `json:"question"`
	Difficulty  domain.Difficulty `json:"difficulty"`
	Options     []OptionView      `json:"options"`
	Selected    string            `json:"selected,omitempty"`
	Explanation string            `json:"explanation,omitempty"`
}

// TopicLink is a related topic with its encyclopedia link.
type TopicLink struct {
	Topic string `json:"topic"`
	URL   string `json:"url"`
}

// Entities holds the entity categories surfaced to the presentation layer.
type Entities struct {
	People        []string `json:"people,omitempty"`
	Organizations []string `json:"organizations,omitempty"`
	Locations     []string `json:"locations,omitempty"`
}

// QuizSnapshot is the full render state of a QuizView.
type QuizSnapshot struct {
	Loaded        bool           `json:"loaded"`
	Error         string         `json:"error,omitempty"`
	Mode          Mode           `json:"mode"`
	ReviewOnly    bool           `json:"reviewOnly"`
	Title         string         `json:"title,omitempty"`
	Summary       string         `json:"summary,omitempty"`
	Entities      *Entities      `json:"entities,omitempty"`
	Sections      []string       `json:"sections,omitempty"`
	Questions     []QuestionView `json:"questions,omitempty"`
	RelatedTopics []TopicLink    `json:"relatedTopics,omitempty"`
	Answered      int            `json:"answered"`
	CanSubmit     bool           `json:"canSubmit"`
	Score         *domain.Score  `json:"score,omitempty"`
}

// QuizView is the display of one quiz at a time. Loading a quiz replaces the
// controller and attempt; content that breaks a structural invariant leaves
// the view refusing to render until the next load.
type QuizView struct {
	log *zap.Logger

	mu    sync.Mutex
	ctrl  *QuizModeController
	score *domain.Score
	err   error
	feed  *feed[QuizSnapshot]
}

func NewQuizView(log *zap.Logger) *QuizView {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizView{
		log:  log.Named("quiz_view"),
		feed: newFeed[QuizSnapshot](),
	}
}

// Load displays quiz starting in initial. An ErrInvalidState result is also
// kept as the view's render error.
func (v *QuizView) Load(quiz domain.QuizData, initial Mode, opts ...ControllerOption) error {
	ctrl, err := NewQuizModeController(quiz, initial, opts...)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		if !isInvalidState(err) {
			return err
		}
		v.log.Warn("refusing to render quiz", zap.String("title", quiz.Title), zap.Error(err))
		v.ctrl, v.score, v.err = nil, nil, err
		v.feed.publish(v.snapshotLocked())
		return err
	}
	v.ctrl, v.score, v.err = ctrl, nil, nil
	v.log.Debug("quiz loaded", zap.String("title", quiz.Title), zap.Stringer("mode", initial),
		zap.Int("questions", len(quiz.Quiz)))
	v.feed.publish(v.snapshotLocked())
	return nil
}

// Clear drops the displayed quiz.
func (v *QuizView) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ctrl, v.score, v.err = nil, nil, nil
	v.feed.publish(v.snapshotLocked())
}

// Render returns the current render state, or the condition that prevents it.
func (v *QuizView) Render() (QuizSnapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.readyLocked(); err != nil {
		return QuizSnapshot{}, err
	}
	return v.snapshotLocked(), nil
}

// Snapshot returns the render state without failing; errors are reported in
// the snapshot itself.
func (v *QuizView) Snapshot() QuizSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Mode returns the current mode, or ModeReview when nothing is loaded.
func (v *QuizView) Mode() Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.ctrl == nil {
		return ModeReview
	}
	return v.ctrl.Mode()
}

// Select records an answer. It is a no-op outside take-quiz mode.
func (v *QuizView) Select(index int, option string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.readyLocked(); err != nil {
		return err
	}
	applied, err := v.ctrl.Answers().Select(index, option)
	if err != nil {
		return err
	}
	if applied {
		v.feed.publish(v.snapshotLocked())
	}
	return nil
}

// Submit evaluates a complete attempt.
func (v *QuizView) Submit() (domain.Score, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.readyLocked(); err != nil {
		return domain.Score{}, err
	}
	score, err := v.ctrl.Submit()
	if err != nil {
		return domain.Score{}, err
	}
	v.score = &score
	v.log.Debug("attempt submitted", zap.Int("correct", score.Correct), zap.Int("total", score.Total))
	v.feed.publish(v.snapshotLocked())
	return score, nil
}

// ToggleMode switches between review and take-quiz, discarding any attempt.
func (v *QuizView) ToggleMode() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.readyLocked(); err != nil {
		return err
	}
	if err := v.ctrl.Toggle(); err != nil {
		return err
	}
	v.score = nil
	v.feed.publish(v.snapshotLocked())
	return nil
}

// Subscribe streams snapshots after every state change, starting with the
// current one.
func (v *QuizView) Subscribe() (<-chan QuizSnapshot, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.feed.subscribe(v.snapshotLocked())
}

func (v *QuizView) readyLocked() error {
	if v.err != nil {
		return v.err
	}
	if v.ctrl == nil {
		return domain.ErrNoQuiz
	}
	return nil
}

func (v *QuizView) snapshotLocked() QuizSnapshot {
	if v.err != nil {
		return QuizSnapshot{Error: v.err.Error()}
	}
	if v.ctrl == nil {
		return QuizSnapshot{}
	}
	quiz := v.ctrl.Quiz()
	mode := v.ctrl.Mode()
	answers := v.ctrl.Answers()

	snap := QuizSnapshot{
		Loaded:     true,
		Mode:       mode,
		ReviewOnly: v.ctrl.ReviewOnly(),
		Title:      quiz.Title,
		Summary:    quiz.Summary,
		Sections:   quiz.Sections,
		Answered:   answers.Len(),
		CanSubmit:  v.ctrl.CanSubmit(),
	}
	if quiz.KeyEntities.HasEntities() {
		snap.Entities = &Entities{
			People:        quiz.KeyEntities.People(),
			Organizations: quiz.KeyEntities.Organizations(),
			Locations:     quiz.KeyEntities.Locations(),
		}
	}
	for _, topic := range quiz.RelatedTopics {
		snap.RelatedTopics = append(snap.RelatedTopics, TopicLink{Topic: topic, URL: domain.TopicURL(topic)})
	}

	snap.Questions = make([]QuestionView, 0, len(quiz.Quiz))
	for i, item := range quiz.Quiz {
		selected, answered := answers.Answer(i)
		qv := QuestionView{
			Index:      i,
			Question:   item.Question,
			Difficulty: item.Difficulty,
			Options:    make([]OptionView, 0, len(item.Options)),
			Selected:   selected,
		}
		if mode != ModeTakeUnsubmitted {
			qv.Explanation = item.Explanation
		}
		for j, option := range item.Options {
			qv.Options = append(qv.Options, OptionView{
				Label:    optionLabel(j),
				Text:     option,
				Category: CategorizeOption(mode, option, item.Answer, selected, answered),
			})
		}
		snap.Questions = append(snap.Questions, qv)
	}

	if mode == ModeTakeSubmitted && v.score != nil {
		score := *v.score
		snap.Score = &score
	}
	return snap
}

func optionLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("%d", i+1)
}

func isInvalidState(err error) bool {
	return errors.Is(err, domain.ErrInvalidState)
}
