package users

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("User not found")
	ErrEmailTaken = errors.New("User already exists")
	ErrPhoneTaken = errors.New("Phone number already registered")
	ErrEmailInUse = errors.New("Email already in use")
)

type Repo struct{ DB *pgxpool.Pool }

const selectUser = `
	SELECT id, name, email, COALESCE(phone,''), password_hash, is_blocked, profile, created_at, updated_at
	FROM users`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
		&u.IsBlocked, &u.Profile, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) Create(ctx context.Context, name, email, phone, passwordHash string) (*User, error) {
	if _, err := r.ByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if phone != "" {
		if _, err := r.ByPhone(ctx, phone); err == nil {
			return nil, ErrPhoneTaken
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	id := uuid.NewString()
	var p any
	if phone != "" {
		p = phone
	}
	if _, err := r.DB.Exec(ctx, `
		INSERT INTO users(id, name, email, phone, password_hash)
		VALUES ($1,$2,$3,$4,$5)`, id, name, email, p, passwordHash); err != nil {
		return nil, err
	}
	return r.ByID(ctx, id)
}

func (r *Repo) ByID(ctx context.Context, id string) (*User, error) {
	return scanUser(r.DB.QueryRow(ctx, selectUser+` WHERE id=$1`, id))
}

func (r *Repo) ByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.DB.QueryRow(ctx, selectUser+` WHERE email=$1`, email))
}

func (r *Repo) ByPhone(ctx context.Context, phone string) (*User, error) {
	return scanUser(r.DB.QueryRow(ctx, selectUser+` WHERE phone=$1`, phone))
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, selectUser+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
			&u.IsBlocked, &u.Profile, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// MergeProfile folds the supplied fields into the stored profile document.
func (r *Repo) MergeProfile(ctx context.Context, id string, patch json.RawMessage) (*User, error) {
	ct, err := r.DB.Exec(ctx,
		`UPDATE users SET profile = profile || $2, updated_at=now() WHERE id=$1`, id, patch)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.ByID(ctx, id)
}

// Update changes name and/or email; an email already held by another account
// is rejected.
func (r *Repo) Update(ctx context.Context, id, name, email string) (*User, error) {
	u, err := r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if email != "" && email != u.Email {
		if _, err := r.ByEmail(ctx, email); err == nil {
			return nil, ErrEmailInUse
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		u.Email = email
	}
	if name != "" {
		u.Name = name
	}
	if _, err := r.DB.Exec(ctx,
		`UPDATE users SET name=$2, email=$3, updated_at=now() WHERE id=$1`,
		id, u.Name, u.Email); err != nil {
		return nil, err
	}
	return r.ByID(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) SetBlocked(ctx context.Context, id string, blocked bool) (*User, error) {
	ct, err := r.DB.Exec(ctx,
		`UPDATE users SET is_blocked=$2, updated_at=now() WHERE id=$1`, id, blocked)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.ByID(ctx, id)
}

func (r *Repo) SetPassword(ctx context.Context, id, passwordHash string) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE users SET password_hash=$2, updated_at=now() WHERE id=$1`, id, passwordHash)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) SetPasswordByEmail(ctx context.Context, email, passwordHash string) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE users SET password_hash=$2, updated_at=now() WHERE email=$1`, email, passwordHash)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
