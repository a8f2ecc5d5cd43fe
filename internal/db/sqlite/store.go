// Package sqlite is a single-file implementation of quizset.Store for local
// development and the quizctl tool.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/gokatarajesh/quizpin/internal/quizset"
)

const schema = `
CREATE TABLE IF NOT EXISTS question_sets (
    id TEXT PRIMARY KEY,
    pin TEXT UNIQUE,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    verified INTEGER NOT NULL DEFAULT 0,
    created_by TEXT NOT NULL DEFAULT '',
    generator_topic TEXT,
    generator_count INTEGER,
    generator_difficulty TEXT,
    generator_type TEXT,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS question_sets_generator_idx
    ON question_sets (generator_topic, generator_count, generator_difficulty, generator_type, created_at);

CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    answer_kind TEXT NOT NULL,
    options TEXT NOT NULL DEFAULT '[]',
    correct_answer TEXT NOT NULL DEFAULT '',
    difficulty TEXT NOT NULL,
    explanation TEXT NOT NULL DEFAULT '',
    verified INTEGER NOT NULL DEFAULT 0,
    archived INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS set_questions (
    set_id TEXT NOT NULL REFERENCES question_sets(id),
    position INTEGER NOT NULL,
    question_id TEXT NOT NULL REFERENCES questions(id),
    PRIMARY KEY (set_id, position)
);

CREATE TABLE IF NOT EXISTS play_attempts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    pin TEXT NOT NULL,
    completed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS play_attempts_user_idx ON play_attempts (user_id, completed_at);

CREATE TABLE IF NOT EXISTS question_usage (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    answer TEXT NOT NULL,
    answered_at INTEGER NOT NULL,
    attempt_id TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS question_usage_question_idx ON question_usage (question_id);
CREATE INDEX IF NOT EXISTS question_usage_attempt_idx ON question_usage (attempt_id);

CREATE TRIGGER IF NOT EXISTS question_usage_no_update BEFORE UPDATE ON question_usage
BEGIN SELECT RAISE(ABORT, 'question_usage is append-only'); END;
CREATE TRIGGER IF NOT EXISTS question_usage_no_delete BEFORE DELETE ON question_usage
BEGIN SELECT RAISE(ABORT, 'question_usage is append-only'); END;
`

const setColumns = `id, pin, title, description, category, verified, created_by,
    generator_topic, generator_count, generator_difficulty, generator_type, created_at`

const questionColumns = `id, content, answer_kind, options, correct_answer, difficulty,
    explanation, verified, archived, created_at`

// Store keeps every table in one SQLite database.
type Store struct {
	db *sql.DB
}

var _ quizset.Store = (*Store)(nil)

// Open connects to the database at dsn, applies pragmas and creates the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps in-memory databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isDuplicatePIN(err error) bool {
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) && sqlErr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return false
	}
	return err != nil && strings.Contains(err.Error(), "question_sets.pin")
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) CreateSet(ctx context.Context, set quizset.Set) (quizset.Set, error) {
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return quizset.Set{}, err
	}
	defer tx.Rollback()

	var topic, difficulty, qType sql.NullString
	var count sql.NullInt64
	if g := set.Generation; g != nil {
		topic = sql.NullString{String: g.Topic, Valid: true}
		count = sql.NullInt64{Int64: int64(g.Count), Valid: true}
		difficulty = sql.NullString{String: g.Difficulty, Valid: true}
		qType = sql.NullString{String: g.Type, Valid: true}
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO question_sets (`+setColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		set.ID, nullable(set.PIN), set.Title, set.Description, set.Category, set.Verified, set.CreatedBy,
		topic, count, difficulty, qType, millis(set.CreatedAt))
	if err != nil {
		if isDuplicatePIN(err) {
			return quizset.Set{}, quizset.ErrDuplicatePIN
		}
		return quizset.Set{}, fmt.Errorf("insert set: %w", err)
	}
	for i, qid := range set.QuestionIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO set_questions (set_id, position, question_id) VALUES (?, ?, ?)`,
			set.ID, i, qid); err != nil {
			return quizset.Set{}, fmt.Errorf("insert set reference %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return quizset.Set{}, err
	}
	return set, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSet(row rowScanner) (quizset.Set, error) {
	var (
		set                     quizset.Set
		pin, topic, diff, qType sql.NullString
		count                   sql.NullInt64
		createdAt               int64
	)
	err := row.Scan(&set.ID, &pin, &set.Title, &set.Description, &set.Category, &set.Verified,
		&set.CreatedBy, &topic, &count, &diff, &qType, &createdAt)
	if err != nil {
		return quizset.Set{}, err
	}
	set.PIN = pin.String
	set.CreatedAt = fromMillis(createdAt)
	if topic.Valid {
		set.Generation = &quizset.GenerationKey{
			Topic:      topic.String,
			Count:      int(count.Int64),
			Difficulty: diff.String,
			Type:       qType.String,
		}
	}
	return set, nil
}

func (s *Store) loadRefs(ctx context.Context, set *quizset.Set) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id FROM set_questions WHERE set_id = ? ORDER BY position`, set.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	set.QuestionIDs = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		set.QuestionIDs = append(set.QuestionIDs, id)
	}
	return rows.Err()
}

func (s *Store) querySet(ctx context.Context, query string, args ...any) (quizset.Set, error) {
	set, err := scanSet(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return quizset.Set{}, quizset.ErrNotFound
	}
	if err != nil {
		return quizset.Set{}, err
	}
	if err := s.loadRefs(ctx, &set); err != nil {
		return quizset.Set{}, err
	}
	return set, nil
}

func (s *Store) SetByID(ctx context.Context, id string) (quizset.Set, error) {
	return s.querySet(ctx, `SELECT `+setColumns+` FROM question_sets WHERE id = ?`, id)
}

func (s *Store) SetByPIN(ctx context.Context, pin string) (quizset.Set, error) {
	return s.querySet(ctx, `SELECT `+setColumns+` FROM question_sets WHERE pin = ?`, pin)
}

func (s *Store) SetByGenerationKey(ctx context.Context, key quizset.GenerationKey) (quizset.Set, error) {
	return s.querySet(ctx, `SELECT `+setColumns+` FROM question_sets
        WHERE generator_topic = ? AND generator_count = ? AND generator_difficulty = ? AND generator_type = ?
        ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		key.Topic, key.Count, key.Difficulty, key.Type)
}

func (s *Store) AssignPIN(ctx context.Context, setID, pin string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE question_sets SET pin = ? WHERE id = ? AND pin IS NULL`, pin, setID)
	if err != nil {
		if isDuplicatePIN(err) {
			return quizset.ErrDuplicatePIN
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return quizset.ErrNotFound
	}
	return nil
}

func (s *Store) SetsWithoutPIN(ctx context.Context, limit int) ([]quizset.Set, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+setColumns+` FROM question_sets
        WHERE pin IS NULL ORDER BY created_at, rowid LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	var sets []quizset.Set
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		sets = append(sets, set)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range sets {
		if err := s.loadRefs(ctx, &sets[i]); err != nil {
			return nil, err
		}
	}
	return sets, nil
}

func (s *Store) SetVerified(ctx context.Context, setID string, verified bool) (quizset.Set, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE question_sets SET verified = ? WHERE id = ?`, verified, setID)
	if err != nil {
		return quizset.Set{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return quizset.Set{}, quizset.ErrNotFound
	}
	return s.SetByID(ctx, setID)
}

func (s *Store) CreateQuestion(ctx context.Context, q quizset.Question) (quizset.Question, error) {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	if q.Answer.Kind == "" {
		q.Answer.Kind = quizset.AnswerFreeForm
	}
	options := q.Answer.Options
	if options == nil {
		options = []quizset.Option{}
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		return quizset.Question{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO questions (`+questionColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Content, string(q.Answer.Kind), string(encoded), q.Answer.Text, string(q.Difficulty),
		q.Explanation, q.Verified, q.Archived, millis(q.CreatedAt))
	if err != nil {
		return quizset.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return s.QuestionByID(ctx, q.ID)
}

func scanQuestion(row rowScanner) (quizset.Question, error) {
	var (
		q             quizset.Question
		kind, options string
		correct, diff string
		createdAt     int64
	)
	err := row.Scan(&q.ID, &q.Content, &kind, &options, &correct, &diff,
		&q.Explanation, &q.Verified, &q.Archived, &createdAt)
	if err != nil {
		return quizset.Question{}, err
	}
	q.Difficulty = quizset.Difficulty(diff)
	q.CreatedAt = fromMillis(createdAt)
	q.Answer = quizset.FreeForm(correct)
	if quizset.AnswerKind(kind) == quizset.AnswerChoices {
		var opts []quizset.Option
		if err := json.Unmarshal([]byte(options), &opts); err != nil {
			return quizset.Question{}, fmt.Errorf("decode options of %s: %w", q.ID, err)
		}
		q.Answer = quizset.Choices(opts, correct)
	}
	return q, nil
}

func (s *Store) QuestionByID(ctx context.Context, id string) (quizset.Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return quizset.Question{}, quizset.ErrNotFound
	}
	return q, err
}

func (s *Store) QuestionsByIDs(ctx context.Context, ids []string, includeArchived bool) ([]quizset.Question, error) {
	if len(ids) == 0 {
		return []quizset.Question{}, nil
	}
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id IN (?` +
		strings.Repeat(", ?", len(ids)-1) + `)`
	if !includeArchived {
		query += ` AND archived = 0`
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []quizset.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *Store) updateQuestion(ctx context.Context, id, query string, arg any) (quizset.Question, error) {
	res, err := s.db.ExecContext(ctx, query, arg, id)
	if err != nil {
		return quizset.Question{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return quizset.Question{}, quizset.ErrNotFound
	}
	return s.QuestionByID(ctx, id)
}

func (s *Store) SetQuestionArchived(ctx context.Context, id string, archived bool) (quizset.Question, error) {
	return s.updateQuestion(ctx, id, `UPDATE questions SET archived = ? WHERE id = ?`, archived)
}

func (s *Store) SetQuestionDifficulty(ctx context.Context, id string, difficulty quizset.Difficulty) (quizset.Question, error) {
	return s.updateQuestion(ctx, id, `UPDATE questions SET difficulty = ? WHERE id = ?`, string(difficulty))
}

func (s *Store) AppendUsage(ctx context.Context, entry quizset.UsageEntry) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO question_usage
        (question_id, user_id, answer, answered_at, attempt_id) VALUES (?, ?, ?, ?, ?)`,
		entry.QuestionID, entry.UserID, entry.Answer, millis(entry.AnsweredAt), entry.AttemptID)
	return err
}

func (s *Store) queryUsage(ctx context.Context, column, value string) ([]quizset.UsageEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question_id, user_id, answer, answered_at, attempt_id
        FROM question_usage WHERE `+column+` = ? ORDER BY id`, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []quizset.UsageEntry{}
	for rows.Next() {
		var e quizset.UsageEntry
		var at int64
		if err := rows.Scan(&e.QuestionID, &e.UserID, &e.Answer, &at, &e.AttemptID); err != nil {
			return nil, err
		}
		e.AnsweredAt = fromMillis(at)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UsageByQuestion(ctx context.Context, questionID string) ([]quizset.UsageEntry, error) {
	return s.queryUsage(ctx, "question_id", questionID)
}

func (s *Store) UsageByAttempt(ctx context.Context, attemptID string) ([]quizset.UsageEntry, error) {
	return s.queryUsage(ctx, "attempt_id", attemptID)
}

func (s *Store) CreateAttempt(ctx context.Context, attempt quizset.Attempt) (quizset.Attempt, error) {
	if attempt.CompletedAt.IsZero() {
		attempt.CompletedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO play_attempts (id, user_id, pin, completed_at) VALUES (?, ?, ?, ?)`,
		attempt.ID, attempt.UserID, attempt.PIN, millis(attempt.CompletedAt))
	if err != nil {
		return quizset.Attempt{}, fmt.Errorf("insert attempt: %w", err)
	}
	attempt.CompletedAt = fromMillis(millis(attempt.CompletedAt))
	return attempt, nil
}

func (s *Store) AttemptsByUser(ctx context.Context, userID string, limit int) ([]quizset.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, pin, completed_at FROM play_attempts
        WHERE user_id = ? ORDER BY completed_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []quizset.Attempt{}
	for rows.Next() {
		var a quizset.Attempt
		var at int64
		if err := rows.Scan(&a.ID, &a.UserID, &a.PIN, &at); err != nil {
			return nil, err
		}
		a.CompletedAt = fromMillis(at)
		out = append(out, a)
	}
	return out, rows.Err()
}
