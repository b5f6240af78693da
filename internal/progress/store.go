package progress

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func NewStore(sdb *sql.DB) *Store {
	return &Store{db: sdb}
}

// Save upserts the (user, subtopic) record. A repeat save keeps the row id
// and overwrites score and timestamp.
func (s *Store) Save(ctx context.Context, userID, subtopicID string, score float64) (Entry, error) {
	now := time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_progress SET score = $1, completed = $2, completed_at = $3
		 WHERE user_id = $4 AND subtopic_id = $5`,
		score, true, now, userID, subtopicID)
	if err != nil {
		return Entry{}, fmt.Errorf("update progress: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO user_progress (id, user_id, subtopic_id, score, completed, completed_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), userID, subtopicID, score, true, now)
		if err != nil {
			return Entry{}, fmt.Errorf("insert progress: %w", err)
		}
	}
	return s.get(ctx, userID, subtopicID)
}

func (s *Store) get(ctx context.Context, userID, subtopicID string) (Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, subtopic_id, score, completed, completed_at
		 FROM user_progress WHERE user_id = $1 AND subtopic_id = $2`,
		userID, subtopicID).
		Scan(&e.ID, &e.UserID, &e.SubtopicID, &e.Score, &e.Completed, &e.CompletedAt)
	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get progress: %w", err)
	}
	return e, nil
}

// UserStats aggregates a student's completion across all subjects.
func (s *Store) UserStats(ctx context.Context, userID string) (UserStats, error) {
	var stats UserStats

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0) FROM user_progress
		 WHERE user_id = $1 AND completed = $2`, userID, true).
		Scan(&stats.CompletedSubtopics, &stats.AverageScore)
	if err != nil {
		return UserStats{}, fmt.Errorf("user stats: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subtopics`).Scan(&stats.TotalSubtopics); err != nil {
		return UserStats{}, fmt.Errorf("count subtopics: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(xp, 0) FROM users WHERE id = $1`, userID).Scan(&stats.XP); err != nil && err != sql.ErrNoRows {
		return UserStats{}, fmt.Errorf("user xp: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT sj.id, sj.name,
		        COUNT(st.id),
		        COUNT(up.id),
		        COALESCE(AVG(up.score), 0)
		 FROM subjects sj
		 JOIN units un ON un.subject_id = sj.id
		 JOIN subtopics st ON st.unit_id = un.id
		 LEFT JOIN user_progress up ON up.subtopic_id = st.id AND up.user_id = $1 AND up.completed = $2
		 GROUP BY sj.id, sj.name
		 ORDER BY sj.name`, userID, true)
	if err != nil {
		return UserStats{}, fmt.Errorf("subject stats: %w", err)
	}
	defer rows.Close()

	stats.Subjects = []SubjectStats{}
	for rows.Next() {
		var ss SubjectStats
		if err := rows.Scan(&ss.SubjectID, &ss.SubjectName, &ss.TotalSubtopics, &ss.Completed, &ss.AverageScore); err != nil {
			return UserStats{}, fmt.Errorf("scan subject stats: %w", err)
		}
		stats.Subjects = append(stats.Subjects, ss)
	}
	return stats, rows.Err()
}

// SubjectProgress lists every subtopic of a subject with the student's state.
func (s *Store) SubjectProgress(ctx context.Context, userID, subjectID string) ([]SubtopicProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT st.id, st.name, un.id, un.name, up.score, up.completed_at
		 FROM subtopics st
		 JOIN units un ON un.id = st.unit_id
		 LEFT JOIN user_progress up ON up.subtopic_id = st.id AND up.user_id = $1 AND up.completed = $2
		 WHERE un.subject_id = $3
		 ORDER BY un.ord, st.ord`, userID, true, subjectID)
	if err != nil {
		return nil, fmt.Errorf("subject progress: %w", err)
	}
	defer rows.Close()

	out := []SubtopicProgress{}
	for rows.Next() {
		var sp SubtopicProgress
		var score sql.NullFloat64
		var completedAt sql.NullInt64
		if err := rows.Scan(&sp.SubtopicID, &sp.SubtopicName, &sp.UnitID, &sp.UnitName, &score, &completedAt); err != nil {
			return nil, fmt.Errorf("scan subject progress: %w", err)
		}
		if score.Valid {
			v := score.Float64
			sp.Score = &v
			sp.Completed = true
		}
		if completedAt.Valid {
			v := completedAt.Int64
			sp.CompletedAt = &v
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// AdminStats computes the platform dashboard in a handful of aggregate
// queries; fine at this scale.
func (s *Store) AdminStats(ctx context.Context) (AdminStats, error) {
	var stats AdminStats

	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM users`, &stats.TotalUsers},
		{`SELECT COUNT(*) FROM subjects`, &stats.TotalSubjects},
		{`SELECT COUNT(*) FROM subtopics`, &stats.TotalSubtopics},
		{`SELECT COUNT(*) FROM activities`, &stats.TotalActivities},
		{`SELECT COUNT(*) FROM submissions`, &stats.TotalSubmissions},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return AdminStats{}, fmt.Errorf("admin stats: %w", err)
		}
	}

	stats.UsersByRole = map[string]int{}
	rows, err := s.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return AdminStats{}, fmt.Errorf("users by role: %w", err)
	}
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			rows.Close()
			return AdminStats{}, fmt.Errorf("scan users by role: %w", err)
		}
		stats.UsersByRole[role] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return AdminStats{}, err
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(score), 0) FROM submissions WHERE score IS NOT NULL`).
		Scan(&stats.AverageScore); err != nil {
		return AdminStats{}, fmt.Errorf("average score: %w", err)
	}

	var completed int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_progress WHERE completed = $1`, true).Scan(&completed); err != nil {
		return AdminStats{}, fmt.Errorf("completion count: %w", err)
	}
	students := stats.UsersByRole["STUDENT"]
	if students > 0 && stats.TotalSubtopics > 0 {
		stats.CompletionRate = float64(completed) / float64(students*stats.TotalSubtopics) * 100
	}

	weekAgo := time.Now().AddDate(0, 0, -7).Unix()
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE completed_at >= $1`, weekAgo).
		Scan(&stats.RecentSubmissions); err != nil {
		return AdminStats{}, fmt.Errorf("recent submissions: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT sj.id, sj.name, COUNT(up.id)
		 FROM subjects sj
		 JOIN units un ON un.subject_id = sj.id
		 JOIN subtopics st ON st.unit_id = un.id
		 LEFT JOIN user_progress up ON up.subtopic_id = st.id AND up.completed = $1
		 GROUP BY sj.id, sj.name
		 ORDER BY COUNT(up.id) DESC`, true)
	if err != nil {
		return AdminStats{}, fmt.Errorf("subject completions: %w", err)
	}
	defer rows.Close()

	stats.SubjectCompletions = []SubjectActivity{}
	for rows.Next() {
		var sa SubjectActivity
		if err := rows.Scan(&sa.SubjectID, &sa.SubjectName, &sa.Completions); err != nil {
			return AdminStats{}, fmt.Errorf("scan subject completions: %w", err)
		}
		stats.SubjectCompletions = append(stats.SubjectCompletions, sa)
	}
	return stats, rows.Err()
}
