package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/codefix-arena/backend/internal/db"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Create inserts a new user. The caller supplies the bcrypt hash; ID and
// created_at are filled in here.
func (s *Store) Create(ctx context.Context, u User) (User, error) {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().Unix()
	if u.Role == "" {
		u.Role = "STUDENT"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id,email,username,password_hash,role,xp,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.XP, u.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrDuplicate
		}
		return User{}, err
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (User, error) {
	return s.get(ctx, `SELECT id,email,username,password_hash,role,xp,created_at FROM users WHERE id=$1`, id)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.get(ctx, `SELECT id,email,username,password_hash,role,xp,created_at FROM users WHERE email=$1`, email)
}

func (s *Store) get(ctx context.Context, query, arg string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.XP, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,email,username,role,xp,created_at FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.Role, &u.XP, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update overwrites email, username and role. Callers load the current row
// first and carry over fields the request left empty.
func (s *Store) Update(ctx context.Context, u User) (User, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET email=$1, username=$2, role=$3 WHERE id=$4`,
		u.Email, u.Username, u.Role, u.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrDuplicate
		}
		return User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return User{}, ErrNotFound
	}
	return s.GetByID(ctx, u.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
