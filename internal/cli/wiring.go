package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"wiki-quiz-engine/internal/app"
	"wiki-quiz-engine/internal/config"
	"wiki-quiz-engine/internal/domain"
	"wiki-quiz-engine/internal/infra/memory"
	pghistory "wiki-quiz-engine/internal/infra/postgres"
	"wiki-quiz-engine/internal/infra/remote"
	"wiki-quiz-engine/internal/logger"
	"wiki-quiz-engine/internal/metrics"
)

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.New(logger.Options{
		Mode:  cfg.Log.Mode,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
}

// buildSources picks the collaborators sessions talk to. Without a remote
// base URL an offline catalog of sample quizzes stands in for the service.
// A configured postgres URL serves history and detail straight from the
// service's database. The returned cleanup releases any pool.
func buildSources(ctx context.Context, cfg config.Config, log *zap.Logger, m *metrics.Metrics) (app.Sources, func(), error) {
	var sources app.Sources
	cleanup := func() {}

	if cfg.Remote.BaseURL == "" {
		log.Warn("remote.base_url not set, serving the offline sample catalog")
		catalog := memory.NewCatalog(sampleRecords()...)
		sources = app.Sources{Generator: catalog, History: catalog, Detail: catalog}
	} else {
		client := remote.NewClient(remote.Config{
			BaseURL: cfg.Remote.BaseURL,
			Timeout: config.TTLDuration(cfg.Remote.Timeout, remote.DefaultTimeout),
		}, log, m)
		sources = app.Sources{Generator: client, History: client, Detail: client}
	}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return app.Sources{}, cleanup, fmt.Errorf("connect postgres: %w", err)
		}
		reader := pghistory.NewHistoryReader(pool, log)
		sources.History = reader
		sources.Detail = reader
		cleanup = pool.Close
	}
	return sources, cleanup, nil
}

// sampleRecords is the offline catalog used when no service is configured.
func sampleRecords() []domain.QuizDetailRecord {
	generated := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)
	return []domain.QuizDetailRecord{
		{
			QuizSummary: domain.QuizSummary{
				ID:            "1",
				Title:         "Alan Turing",
				URL:           "https://en.wikipedia.org/wiki/Alan_Turing",
				DateGenerated: domain.Timestamp{Time: generated},
			},
			QuizData: domain.QuizData{
				Title:   "Alan Turing",
				Summary: "Alan Turing was an English mathematician and computer scientist, widely considered the father of theoretical computer science.",
				KeyEntities: domain.KeyEntities{
					domain.EntityPeople:        {"Alan Turing", "Alonzo Church"},
					domain.EntityOrganizations: {"Government Code and Cypher School"},
					domain.EntityLocations:     {"Bletchley Park", "Manchester"},
				},
				Sections: []string{"Early life", "Cryptanalysis", "Legacy"},
				Quiz: []domain.QuestionItem{
					{
						Question:    "Where did Turing work on codebreaking during the Second World War?",
						Options:     []string{"Bletchley Park", "Los Alamos", "Cambridge", "Manchester"},
						Answer:      "Bletchley Park",
						Explanation: "He led Hut 8, responsible for German naval cryptanalysis.",
						Difficulty:  domain.DifficultyEasy,
					},
					{
						Question:    "Which cipher machine's traffic did Turing's bombe attack?",
						Options:     []string{"Lorenz", "Enigma", "Purple", "Typex"},
						Answer:      "Enigma",
						Explanation: "The bombe searched for Enigma rotor settings.",
						Difficulty:  domain.DifficultyMedium,
					},
					{
						Question:    "In which year was 'On Computable Numbers' published?",
						Options:     []string{"1936", "1939", "1945", "1950"},
						Answer:      "1936",
						Explanation: "The paper introduced what became known as the Turing machine.",
						Difficulty:  domain.DifficultyHard,
					},
				},
				RelatedTopics: []string{"Turing machine", "Enigma machine", "Turing test"},
			},
		},
	}
}
