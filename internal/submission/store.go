package submission

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codefix-arena/backend/internal/db"
)

// Store is the submission ledger. The UNIQUE(user_id, activity_id)
// constraint is the authority on at-most-one-submission; Create surfaces a
// violation as ErrDuplicate so the service can fetch the winner.
type Store struct {
	db *sql.DB
}

func NewStore(sdb *sql.DB) *Store {
	return &Store{db: sdb}
}

func (s *Store) Create(ctx context.Context, sub Submission) (Submission, error) {
	sub.ID = uuid.NewString()
	sub.Status = StatusCompleted
	sub.CompletedAt = time.Now().Unix()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, user_id, activity_id, answers_json, score, feedback, status, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sub.ID, sub.UserID, sub.ActivityID, string(sub.Answers), sub.Score, sub.Feedback, sub.Status, sub.CompletedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Submission{}, ErrDuplicate
		}
		return Submission{}, fmt.Errorf("create submission: %w", err)
	}
	return sub, nil
}

func (s *Store) FindByUserActivity(ctx context.Context, userID, activityID string) (Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, activity_id, answers_json, score, feedback, status, completed_at
		 FROM submissions WHERE user_id = $1 AND activity_id = $2`,
		userID, activityID)
	return scanSubmission(row)
}

// ListByActivity returns every submission for an activity with its author,
// newest first.
func (s *Store) ListByActivity(ctx context.Context, activityID string) ([]ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.user_id, s.activity_id, s.answers_json, s.score, s.feedback, s.status, s.completed_at,
		        u.id, u.username, u.email
		 FROM submissions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.activity_id = $1
		 ORDER BY s.completed_at DESC`,
		activityID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := []ActivityEntry{}
	for rows.Next() {
		var e ActivityEntry
		var answers string
		var score sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.UserID, &e.ActivityID, &answers, &score, &e.Feedback, &e.Status, &e.CompletedAt,
			&e.User.ID, &e.User.Username, &e.User.Email); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		e.Answers = []byte(answers)
		if score.Valid {
			v := score.Float64
			e.Score = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListByUser returns a student's submission history with each activity's
// catalog path, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.user_id, s.activity_id, s.answers_json, s.score, s.feedback, s.status, s.completed_at,
		        a.id, a.title, a.type, a.difficulty, a.ai_generated,
		        st.id, st.name, un.name, sj.name
		 FROM submissions s
		 JOIN activities a ON a.id = s.activity_id
		 JOIN subtopics st ON st.id = a.subtopic_id
		 JOIN units un ON un.id = st.unit_id
		 JOIN subjects sj ON sj.id = un.subject_id
		 WHERE s.user_id = $1
		 ORDER BY s.completed_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	out := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		var answers string
		var score sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.UserID, &e.ActivityID, &answers, &score, &e.Feedback, &e.Status, &e.CompletedAt,
			&e.Activity.ID, &e.Activity.Title, &e.Activity.Type, &e.Activity.Difficulty, &e.Activity.AIGenerated,
			&e.Activity.SubtopicID, &e.Activity.Subtopic, &e.Activity.Unit, &e.Activity.Subject); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Answers = []byte(answers)
		if score.Valid {
			v := score.Float64
			e.Score = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanSubmission(row *sql.Row) (Submission, error) {
	var sub Submission
	var answers string
	var score sql.NullFloat64
	err := row.Scan(&sub.ID, &sub.UserID, &sub.ActivityID, &answers, &score, &sub.Feedback, &sub.Status, &sub.CompletedAt)
	if err == sql.ErrNoRows {
		return Submission{}, ErrNotFound
	}
	if err != nil {
		return Submission{}, fmt.Errorf("scan submission: %w", err)
	}
	sub.Answers = []byte(answers)
	if score.Valid {
		v := score.Float64
		sub.Score = &v
	}
	return sub, nil
}
