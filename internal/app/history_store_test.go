package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"wiki-quiz-engine/internal/app"
	"wiki-quiz-engine/internal/domain"
)

func TestHistoryLoadKeepsServerOrder(t *testing.T) {
	source := &stubHistory{items: []domain.QuizSummary{
		{ID: "9", Title: "Newest"},
		{ID: "2", Title: "Older"},
		{ID: "5", Title: "Oldest"},
	}}
	store := app.NewHistoryStore(source, nil)
	if store.Snapshot().Status != app.HistoryIdle {
		t.Fatalf("expected idle before load")
	}

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	snap := store.Snapshot()
	if snap.Status != app.HistoryLoaded || snap.Count != 3 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	for i, id := range []domain.QuizID{"9", "2", "5"} {
		if snap.Items[i].ID != id {
			t.Fatalf("order changed at %d: %+v", i, snap.Items)
		}
	}
}

func TestHistoryLoadFailureDiscardsList(t *testing.T) {
	source := &stubHistory{items: []domain.QuizSummary{{ID: "1", Title: "Kept?"}}}
	store := app.NewHistoryStore(source, nil)
	_ = store.Load(context.Background())

	source.items = nil
	source.err = domain.NewRemoteError(500, "Failed to fetch quiz history", nil)
	err := store.Load(context.Background())

	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	snap := store.Snapshot()
	if snap.Status != app.HistoryFailed || len(snap.Items) != 0 {
		t.Fatalf("expected failed with empty list, got %+v", snap)
	}
	if snap.Error != "Failed to fetch quiz history" {
		t.Fatalf("unexpected error message %q", snap.Error)
	}

	source.err = nil
	source.items = []domain.QuizSummary{{ID: "3"}}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if snap := store.Snapshot(); snap.Error != "" || snap.Count != 1 || source.calls != 3 {
		t.Fatalf("reload must repeat the cycle, got %+v calls=%d", snap, source.calls)
	}
}

func TestHistoryStatusTransitions(t *testing.T) {
	store := app.NewHistoryStore(&stubHistory{}, nil)
	ch, cancel := store.Subscribe()
	defer cancel()

	_ = store.Load(context.Background())

	var seen []app.HistoryStatus
	timeout := time.After(2 * time.Second)
	for len(seen) < 3 {
		select {
		case snap := <-ch:
			seen = append(seen, snap.Status)
		case <-timeout:
			t.Fatalf("timed out, saw %v", seen)
		}
	}
	want := []app.HistoryStatus{app.HistoryIdle, app.HistoryLoading, app.HistoryLoaded}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}
}

func TestHistoryReportErrorKeepsLoadedList(t *testing.T) {
	source := &stubHistory{items: []domain.QuizSummary{{ID: "1", Title: "Alan Turing"}}}
	store := app.NewHistoryStore(source, nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	store.ReportError("Failed to fetch quiz details")
	snap := store.Snapshot()
	if snap.Status != app.HistoryLoaded || snap.Count != 1 {
		t.Fatalf("detail failure must not mark the list failed, got %+v", snap)
	}
	if snap.Error != "Failed to fetch quiz details" {
		t.Fatalf("unexpected error %q", snap.Error)
	}

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if snap := store.Snapshot(); snap.Error != "" || snap.Status != app.HistoryLoaded {
		t.Fatalf("expected error cleared by reload, got %+v", snap)
	}
}
