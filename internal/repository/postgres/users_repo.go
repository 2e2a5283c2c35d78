package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/finflow-backend/internal/models"
	"github.com/baharkarakas/finflow-backend/internal/repository"
)

const userColumns = `id, name, email, role, COALESCE(profile_url, ''), COALESCE(phone, ''), address, created_at, updated_at`

type usersRepo struct {
	pool poolFunc
	now  func() time.Time
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, models.NormalizeEmail(email))
}

func (r *usersRepo) getOne(ctx context.Context, sql string, arg string) (*models.User, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(pool.QueryRow(ctx, sql, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now().UTC()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	pool, err := r.pool(ctx)
	if err != nil {
		return models.User{}, err
	}
	_, err = pool.Exec(ctx, `
INSERT INTO users (id, name, email, role, profile_url, phone, address, created_at, updated_at)
VALUES ($1,$2,$3,$4,NULLIF($5,''),NULLIF($6,''),$7,$8,$9)`,
		u.ID, u.Name, u.Email, string(u.Role), u.ProfileURL, u.Phone, u.Address, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *usersRepo) Update(ctx context.Context, id string, u models.UserUpdate) (*models.User, error) {
	pool, err := r.pool(ctx)
	if err != nil {
		return nil, err
	}
	set, args := buildUserSet(u, r.now().UTC())
	args = append([]any{id}, args...)
	got, err := scanUser(pool.QueryRow(ctx, `UPDATE users SET `+set+` WHERE id=$1 RETURNING `+userColumns, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return &got, nil
}

// buildUserSet renders the SET list for u. Placeholders start at $2; $1 is the id.
func buildUserSet(u models.UserUpdate, now time.Time) (string, []any) {
	var cols []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		cols = append(cols, col+"=$"+strconv.Itoa(len(args)+1))
	}
	if u.Name != nil {
		add("name", strings.TrimSpace(*u.Name))
	}
	if u.Email != nil {
		add("email", models.NormalizeEmail(*u.Email))
	}
	if u.ProfileURL != nil {
		add("profile_url", *u.ProfileURL)
	}
	if u.Phone != nil {
		add("phone", *u.Phone)
	}
	if u.Address != nil {
		add("address", u.Address)
	}
	add("updated_at", now)
	return strings.Join(cols, ", "), args
}

func scanUser(row pgx.Row) (models.User, error) {
	var (
		u    models.User
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.ProfileURL, &u.Phone, &u.Address, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}
	u.Role = models.UserRole(role)
	return u, nil
}

var _ repository.Users = (*usersRepo)(nil)
