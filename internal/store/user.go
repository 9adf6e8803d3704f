package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bmw-wellness/apiserver/types"
)

// UserRepository handles persistence for users on SQLite and PostgreSQL
// text-column schemas. Queries use ? placeholders rebound per driver.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (types.User, error) {
	const query = `
		SELECT id, email, name, password_hash, scores, created_at
		FROM users
		WHERE id = ?`
	var user types.User
	if err := r.db.GetContext(ctx, &user, r.db.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT id, email, name, password_hash, scores, created_at
		FROM users
		WHERE email = ?`
	var user types.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(query), strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = time.Now().UTC()
	if user.Scores == nil {
		user.Scores = types.Scores{}
	}

	const query = `
		INSERT INTO users (email, password_hash, name, scores, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`
	if err := r.db.QueryRowxContext(
		ctx,
		r.db.Rebind(query),
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Scores,
		user.CreatedAt,
	).Scan(&user.ID); err != nil {
		if isUniqueViolation(err) {
			return types.User{}, ErrConflict
		}
		return types.User{}, err
	}
	return user, nil
}

// AppendScore adds score to the end of the user's ledger and returns the
// updated ledger. The read and the write share one transaction; on
// PostgreSQL the row is locked for the duration.
func (r *UserRepository) AppendScore(ctx context.Context, id int64, score float64) (types.Scores, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	selectQuery := `SELECT scores FROM users WHERE id = ?`
	if r.db.DriverName() == "postgres" {
		selectQuery += ` FOR UPDATE`
	}

	var scores types.Scores
	if err := tx.GetContext(ctx, &scores, tx.Rebind(selectQuery), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	scores = scores.Append(score)

	const updateQuery = `UPDATE users SET scores = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, tx.Rebind(updateQuery), scores, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return scores, nil
}
