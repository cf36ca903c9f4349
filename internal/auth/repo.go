package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type User struct {
	ID           int64
	Nama         string
	Email        string
	PasswordHash string
	NoHP         string
	Alamat       string
	Role         string
}

var ErrUserNotFound = errors.New("user not found")

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, nama, email, passwordHash, noHP string) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users(nama, email, password, no_hp, role)
		VALUES ($1, $2, $3, NULLIF($4, ''), 'user')
		RETURNING id`, nama, email, passwordHash, noHP).Scan(&id)
	return id, err
}

func (r *Repo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email=$1`, email).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, nama, email, password, COALESCE(no_hp,''), COALESCE(alamat,''), role
		FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Nama, &u.Email, &u.PasswordHash, &u.NoHP, &u.Alamat, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (r *Repo) GetByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, nama, email, password, COALESCE(no_hp,''), COALESCE(alamat,''), role
		FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Nama, &u.Email, &u.PasswordHash, &u.NoHP, &u.Alamat, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (r *Repo) UpdateProfile(ctx context.Context, id int64, nama, noHP, alamat string) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET nama=$2, no_hp=$3, alamat=$4 WHERE id=$1`,
		id, nama, noHP, alamat)
	return err
}
