package play

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/metrics"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

type usageAppender interface {
	AppendUsage(ctx context.Context, entry quizset.UsageEntry) error
}

// Ledger appends answer events. Entries are never deduplicated or rewritten;
// a replayed submission produces new entries.
type Ledger struct {
	store  usageAppender
	logger zerolog.Logger
}

func NewLedger(store usageAppender, logger zerolog.Logger) *Ledger {
	return &Ledger{
		store:  store,
		logger: logger.With().Str("component", "usage_ledger").Logger(),
	}
}

// Append records entry against its question. Answers for questions outside the
// played set are dropped with a log line and report recorded=false, nil.
func (l *Ledger) Append(ctx context.Context, set quizset.Set, entry quizset.UsageEntry) (bool, error) {
	entry.QuestionID = strings.TrimSpace(entry.QuestionID)
	if !set.Contains(entry.QuestionID) {
		metrics.LedgerAppends.WithLabelValues("skipped").Inc()
		l.logger.Debug().
			Str("set_id", set.ID).
			Str("question_id", entry.QuestionID).
			Str("attempt_id", entry.AttemptID).
			Msg("answer for question outside set ignored")
		return false, nil
	}

	if err := l.store.AppendUsage(ctx, entry); err != nil {
		metrics.LedgerAppends.WithLabelValues("failed").Inc()
		return false, fmt.Errorf("append usage for %s: %w", entry.QuestionID, err)
	}
	metrics.LedgerAppends.WithLabelValues("recorded").Inc()
	return true, nil
}
