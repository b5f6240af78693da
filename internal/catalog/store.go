package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// ---- subjects ----

func (s *Store) CreateSubject(ctx context.Context, sub Subject) (Subject, error) {
	sub.ID = uuid.NewString()
	sub.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subjects (id,name,description,created_at) VALUES ($1,$2,$3,$4)`,
		sub.ID, sub.Name, sub.Description, sub.CreatedAt)
	if err != nil {
		return Subject{}, err
	}
	return sub, nil
}

// ListSubjects returns all subjects with their units and subtopics nested,
// ordered by unit/subtopic position.
func (s *Store) ListSubjects(ctx context.Context) ([]Subject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,name,description,created_at FROM subjects ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	subjects := []Subject{}
	for rows.Next() {
		var sub Subject
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Description, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range subjects {
		units, err := s.unitsForSubject(ctx, subjects[i].ID)
		if err != nil {
			return nil, err
		}
		subjects[i].Units = units
	}
	return subjects, nil
}

func (s *Store) GetSubject(ctx context.Context, id string) (Subject, error) {
	var sub Subject
	err := s.db.QueryRowContext(ctx,
		`SELECT id,name,description,created_at FROM subjects WHERE id=$1`, id).
		Scan(&sub.ID, &sub.Name, &sub.Description, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Subject{}, ErrNotFound
	}
	if err != nil {
		return Subject{}, err
	}
	sub.Units, err = s.unitsForSubject(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	return sub, nil
}

func (s *Store) UpdateSubject(ctx context.Context, sub Subject) (Subject, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE subjects SET name=$1, description=$2 WHERE id=$3`,
		sub.Name, sub.Description, sub.ID)
	if err != nil {
		return Subject{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Subject{}, ErrNotFound
	}
	return s.GetSubject(ctx, sub.ID)
}

func (s *Store) DeleteSubject(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM subjects WHERE id=$1`, id)
}

func (s *Store) unitsForSubject(ctx context.Context, subjectID string) ([]Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,subject_id,name,description,ord,created_at FROM units WHERE subject_id=$1 ORDER BY ord`,
		subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	units := []Unit{}
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.SubjectID, &u.Name, &u.Description, &u.Order, &u.CreatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range units {
		sts, err := s.subtopicsForUnit(ctx, units[i].ID)
		if err != nil {
			return nil, err
		}
		units[i].Subtopics = sts
	}
	return units, nil
}

// ---- units ----

func (s *Store) CreateUnit(ctx context.Context, u Unit) (Unit, error) {
	if _, err := s.GetSubject(ctx, u.SubjectID); err != nil {
		return Unit{}, err
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO units (id,subject_id,name,description,ord,created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.SubjectID, u.Name, u.Description, u.Order, u.CreatedAt)
	if err != nil {
		return Unit{}, err
	}
	return u, nil
}

func (s *Store) GetUnit(ctx context.Context, id string) (Unit, error) {
	var u Unit
	err := s.db.QueryRowContext(ctx,
		`SELECT id,subject_id,name,description,ord,created_at FROM units WHERE id=$1`, id).
		Scan(&u.ID, &u.SubjectID, &u.Name, &u.Description, &u.Order, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Unit{}, ErrNotFound
	}
	if err != nil {
		return Unit{}, err
	}
	u.Subtopics, err = s.subtopicsForUnit(ctx, id)
	if err != nil {
		return Unit{}, err
	}
	return u, nil
}

func (s *Store) UpdateUnit(ctx context.Context, u Unit) (Unit, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE units SET name=$1, description=$2, ord=$3 WHERE id=$4`,
		u.Name, u.Description, u.Order, u.ID)
	if err != nil {
		return Unit{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Unit{}, ErrNotFound
	}
	return s.GetUnit(ctx, u.ID)
}

func (s *Store) DeleteUnit(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM units WHERE id=$1`, id)
}

func (s *Store) subtopicsForUnit(ctx context.Context, unitID string) ([]Subtopic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,unit_id,name,description,content,ord,created_at FROM subtopics WHERE unit_id=$1 ORDER BY ord`,
		unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Subtopic{}
	for rows.Next() {
		var st Subtopic
		if err := rows.Scan(&st.ID, &st.UnitID, &st.Name, &st.Description, &st.Content, &st.Order, &st.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// ---- subtopics ----

func (s *Store) CreateSubtopic(ctx context.Context, st Subtopic) (Subtopic, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM units WHERE id=$1`, st.UnitID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return Subtopic{}, ErrNotFound
	}
	if err != nil {
		return Subtopic{}, err
	}
	st.ID = uuid.NewString()
	st.CreatedAt = time.Now().Unix()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO subtopics (id,unit_id,name,description,content,ord,created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		st.ID, st.UnitID, st.Name, st.Description, st.Content, st.Order, st.CreatedAt)
	if err != nil {
		return Subtopic{}, err
	}
	return st, nil
}

func (s *Store) GetSubtopic(ctx context.Context, id string) (Subtopic, error) {
	var st Subtopic
	err := s.db.QueryRowContext(ctx,
		`SELECT id,unit_id,name,description,content,ord,created_at FROM subtopics WHERE id=$1`, id).
		Scan(&st.ID, &st.UnitID, &st.Name, &st.Description, &st.Content, &st.Order, &st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Subtopic{}, ErrNotFound
	}
	if err != nil {
		return Subtopic{}, err
	}
	return st, nil
}

func (s *Store) UpdateSubtopic(ctx context.Context, st Subtopic) (Subtopic, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE subtopics SET name=$1, description=$2, content=$3, ord=$4 WHERE id=$5`,
		st.Name, st.Description, st.Content, st.Order, st.ID)
	if err != nil {
		return Subtopic{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Subtopic{}, ErrNotFound
	}
	return s.GetSubtopic(ctx, st.ID)
}

func (s *Store) DeleteSubtopic(ctx context.Context, id string) error {
	return s.deleteByID(ctx, `DELETE FROM subtopics WHERE id=$1`, id)
}

// GetPath resolves a subtopic together with its unit and subject.
func (s *Store) GetPath(ctx context.Context, subtopicID string) (Path, error) {
	var p Path
	err := s.db.QueryRowContext(ctx, `
		SELECT st.id, st.unit_id, st.name, st.description, st.content, st.ord, st.created_at,
		       u.id, u.subject_id, u.name, u.description, u.ord, u.created_at,
		       sj.id, sj.name, sj.description, sj.created_at
		FROM subtopics st
		JOIN units u ON u.id = st.unit_id
		JOIN subjects sj ON sj.id = u.subject_id
		WHERE st.id=$1`, subtopicID).
		Scan(&p.Subtopic.ID, &p.Subtopic.UnitID, &p.Subtopic.Name, &p.Subtopic.Description,
			&p.Subtopic.Content, &p.Subtopic.Order, &p.Subtopic.CreatedAt,
			&p.Unit.ID, &p.Unit.SubjectID, &p.Unit.Name, &p.Unit.Description, &p.Unit.Order, &p.Unit.CreatedAt,
			&p.Subject.ID, &p.Subject.Name, &p.Subject.Description, &p.Subject.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Path{}, ErrNotFound
	}
	if err != nil {
		return Path{}, err
	}
	return p, nil
}

func (s *Store) deleteByID(ctx context.Context, query, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
