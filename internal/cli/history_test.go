package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"wiki-quiz-engine/internal/app"
	"wiki-quiz-engine/internal/domain"
	"wiki-quiz-engine/internal/infra/memory"
)

func newCatalogSession() *app.Session {
	catalog := memory.NewCatalog(sampleRecords()...)
	return app.NewSession("test", app.Sources{Generator: catalog, History: catalog, Detail: catalog}, nil)
}

func TestRunHistoryListsRows(t *testing.T) {
	var out bytes.Buffer
	if err := runHistory(context.Background(), &out, newCatalogSession(), ""); err != nil {
		t.Fatalf("history: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Alan Turing") || !strings.Contains(got, "1 quizzes") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestRunHistoryPrintsDetailInReview(t *testing.T) {
	var out bytes.Buffer
	if err := runHistory(context.Background(), &out, newCatalogSession(), "1"); err != nil {
		t.Fatalf("history: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "* A) Bletchley Park") {
		t.Fatalf("expected correct answer marked in review, got:\n%s", got)
	}
	if !strings.Contains(got, "https://en.wikipedia.org/wiki/Turing_machine") {
		t.Fatalf("expected related topic links, got:\n%s", got)
	}
}

func TestRunHistoryUnknownID(t *testing.T) {
	var out bytes.Buffer
	err := runHistory(context.Background(), &out, newCatalogSession(), "42")
	if err == nil || err.Error() != domain.MsgDetailFailed {
		t.Fatalf("expected %q, got %v", domain.MsgDetailFailed, err)
	}
}
