package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"wiki-quiz-engine/internal/app"
	"wiki-quiz-engine/internal/config"
	"wiki-quiz-engine/internal/domain"
	"wiki-quiz-engine/internal/metrics"
)

// NewHistoryCmd prints the quiz history once and optionally one quiz in
// review mode.
func NewHistoryCmd(configPath *string) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously generated quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			sources, cleanup, err := buildSources(cmd.Context(), cfg, log, metrics.New(nil))
			if err != nil {
				return err
			}
			defer cleanup()

			session := app.NewSession("cli", sources, log)
			return runHistory(cmd.Context(), cmd.OutOrStdout(), session, domain.QuizID(id))
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "open the quiz with this id in review mode")
	return cmd
}

func runHistory(ctx context.Context, out io.Writer, session *app.Session, id domain.QuizID) error {
	if err := session.ActivateHistory(ctx); err != nil {
		return err
	}
	history := session.History.Snapshot()
	printHistory(out, history)
	if id == "" {
		return nil
	}

	if err := session.OpenDetail(ctx, id); err != nil {
		if msg := session.History.Snapshot().Error; msg != "" {
			return errors.New(msg)
		}
		return err
	}
	overlay := session.Overlay.Snapshot()
	fmt.Fprintf(out, "\n%s\n", overlay.Title)
	if overlay.Quiz != nil {
		printQuiz(out, *overlay.Quiz)
	}
	session.Overlay.Close()
	return nil
}

func printHistory(out io.Writer, history app.HistorySnapshot) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tGENERATED\tURL")
	for _, row := range history.Items {
		generated := ""
		if !row.DateGenerated.IsZero() {
			generated = row.DateGenerated.Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.ID, row.Title, generated, row.URL)
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "%d quizzes\n", history.Count)
}

func printQuiz(out io.Writer, quiz app.QuizSnapshot) {
	if quiz.Error != "" {
		fmt.Fprintf(out, "cannot display quiz: %s\n", quiz.Error)
		return
	}
	if quiz.Summary != "" {
		fmt.Fprintf(out, "%s\n", quiz.Summary)
	}
	if quiz.Entities != nil {
		printList(out, "People", quiz.Entities.People)
		printList(out, "Organizations", quiz.Entities.Organizations)
		printList(out, "Locations", quiz.Entities.Locations)
	}
	for _, q := range quiz.Questions {
		fmt.Fprintf(out, "\n%d. [%s] %s\n", q.Index+1, q.Difficulty, q.Question)
		for _, opt := range q.Options {
			marker := " "
			switch opt.Category {
			case app.CategoryCorrect:
				marker = "*"
			case app.CategoryIncorrect:
				marker = "x"
			}
			fmt.Fprintf(out, "  %s %s) %s\n", marker, opt.Label, opt.Text)
		}
		if q.Explanation != "" {
			fmt.Fprintf(out, "     %s\n", q.Explanation)
		}
	}
	if len(quiz.RelatedTopics) > 0 {
		fmt.Fprintln(out, "\nRelated topics:")
		for _, topic := range quiz.RelatedTopics {
			fmt.Fprintf(out, "  %s  %s\n", topic.Topic, topic.URL)
		}
	}
}

func printList(out io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "%s: %s\n", label, strings.Join(items, ", "))
}
