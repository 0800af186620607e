package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"wiki-quiz-engine/internal/domain"
)

// QuizGenerator asks the remote service to build a quiz from an article URL.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, articleURL string) (domain.QuizData, error)
}

// GenerationStatus is the lifecycle of a generation request.
type GenerationStatus string

const (
	GenerationIdle       GenerationStatus = "idle"
	GenerationGenerating GenerationStatus = "generating"
	GenerationReady      GenerationStatus = "ready"
	GenerationFailed     GenerationStatus = "failed"
)

const (
	MsgEmptyURL   = "Please enter a Wikipedia URL"
	MsgInvalidURL = "Please enter a valid Wikipedia article URL (e.g., https://en.wikipedia.org/wiki/...)"
)

var articleURLPattern = regexp.MustCompile(`^https?://(en|[a-z]{2,3})\.wikipedia\.org/wiki/.+`)

// GenerationSnapshot is the render state of the generation form.
type GenerationSnapshot struct {
	Status GenerationStatus `json:"status"`
	URL    string           `json:"url,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Generator runs generation requests and hands results to a QuizView in
// review mode. Only the most recently started request may update state.
type Generator struct {
	remote QuizGenerator
	view   *QuizView
	log    *zap.Logger

	mu     sync.Mutex
	token  uint64
	status GenerationStatus
	url    string
	errMsg string
	feed   *feed[GenerationSnapshot]
}

func NewGenerator(remote QuizGenerator, view *QuizView, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		remote: remote,
		view:   view,
		log:    log.Named("generator"),
		status: GenerationIdle,
		feed:   newFeed[GenerationSnapshot](),
	}
}

// CheckArticleURL performs the URL shape check done before any request.
func CheckArticleURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: %s", domain.ErrValidation, MsgEmptyURL)
	}
	if !articleURLPattern.MatchString(raw) {
		return fmt.Errorf("%w: %s", domain.ErrValidation, MsgInvalidURL)
	}
	return nil
}

// Generate clears the displayed quiz, requests a new one and loads it in
// review mode.
func (g *Generator) Generate(ctx context.Context, articleURL string) error {
	articleURL = strings.TrimSpace(articleURL)

	g.mu.Lock()
	g.token++
	token := g.token
	g.url = articleURL
	if err := CheckArticleURL(articleURL); err != nil {
		g.status = GenerationFailed
		g.errMsg = validationMessage(articleURL)
		g.feed.publish(g.snapshotLocked())
		g.view.Clear()
		g.mu.Unlock()
		return err
	}
	g.status = GenerationGenerating
	g.errMsg = ""
	g.feed.publish(g.snapshotLocked())
	g.view.Clear()
	g.mu.Unlock()

	quiz, err := g.remote.GenerateQuiz(ctx, articleURL)

	g.mu.Lock()
	defer g.mu.Unlock()
	if token != g.token {
		g.log.Debug("discarding superseded generation", zap.String("url", articleURL))
		return domain.ErrStaleResponse
	}
	if err != nil {
		g.status = GenerationFailed
		g.errMsg = domain.UserMessage(err)
		g.log.Warn("generation failed", zap.String("url", articleURL), zap.Error(err))
		g.feed.publish(g.snapshotLocked())
		return err
	}
	if err := g.view.Load(quiz, ModeReview); err != nil {
		g.status = GenerationFailed
		g.errMsg = err.Error()
		g.feed.publish(g.snapshotLocked())
		return err
	}
	g.status = GenerationReady
	g.log.Info("quiz generated", zap.String("url", articleURL), zap.String("title", quiz.Title))
	g.feed.publish(g.snapshotLocked())
	return nil
}

func (g *Generator) Snapshot() GenerationSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Subscribe streams snapshots after every state change.
func (g *Generator) Subscribe() (<-chan GenerationSnapshot, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.feed.subscribe(g.snapshotLocked())
}

func (g *Generator) snapshotLocked() GenerationSnapshot {
	return GenerationSnapshot{Status: g.status, URL: g.url, Error: g.errMsg}
}

func validationMessage(raw string) string {
	if raw == "" {
		return MsgEmptyURL
	}
	return MsgInvalidURL
}
