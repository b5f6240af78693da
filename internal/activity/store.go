package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Create(ctx context.Context, a Activity) (Activity, error) {
	if err := a.Validate(); err != nil {
		return Activity{}, err
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().Unix()
	cj, err := json.Marshal(a.Content)
	if err != nil {
		return Activity{}, fmt.Errorf("encode content: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO activities (id,subtopic_id,created_by,type,difficulty,title,description,content_json,ai_generated,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.SubtopicID, a.CreatedBy, string(a.Type), string(a.Difficulty),
		a.Title, a.Description, string(cj), a.AIGenerated, a.CreatedAt)
	if err != nil {
		return Activity{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (Activity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,subtopic_id,created_by,type,difficulty,title,description,content_json,ai_generated,created_at
		 FROM activities WHERE id=$1`, id)
	return scanActivity(row)
}

func (s *Store) ListBySubtopic(ctx context.Context, subtopicID string) ([]Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,subtopic_id,created_by,type,difficulty,title,description,content_json,ai_generated,created_at
		 FROM activities WHERE subtopic_id=$1 ORDER BY created_at`, subtopicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM activities WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (Activity, error) {
	var a Activity
	var typ, diff, cj string
	err := row.Scan(&a.ID, &a.SubtopicID, &a.CreatedBy, &typ, &diff,
		&a.Title, &a.Description, &cj, &a.AIGenerated, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Activity{}, ErrNotFound
	}
	if err != nil {
		return Activity{}, err
	}
	a.Type = Type(typ)
	a.Difficulty = Difficulty(diff)
	if err := json.Unmarshal([]byte(cj), &a.Content); err != nil {
		return Activity{}, fmt.Errorf("decode content: %w", err)
	}
	return a, nil
}
