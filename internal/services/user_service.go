package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/baharkarakas/finflow-backend/internal/api/validate"
	"github.com/baharkarakas/finflow-backend/internal/models"
	repo "github.com/baharkarakas/finflow-backend/internal/repository"
)

type UserService struct {
	r   repo.Users
	now func() time.Time
}

func NewUserService(r repo.Users, now func() time.Time) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{r: r, now: now}
}

// GetByID returns nil, nil when the user does not exist.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.r.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.r.GetByEmail(ctx, models.NormalizeEmail(email))
}

// Update applies the self-service fields of in. A missing user surfaces as
// repository.ErrNotFound.
func (s *UserService) Update(ctx context.Context, id string, in models.UserUpdate) (*models.User, error) {
	var checks []*validate.ErrField
	if in.Name != nil {
		checks = append(checks, validate.Required("name", *in.Name))
	}
	if in.Email != nil {
		email := models.NormalizeEmail(*in.Email)
		in.Email = &email
		if !strings.Contains(email, "@") {
			checks = append(checks, &validate.ErrField{Field: "email", Msg: "must be a valid email"})
		} else {
			owner, err := s.r.GetByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("update user %s: %w", id, err)
			}
			if owner != nil && owner.ID != id {
				checks = append(checks, &validate.ErrField{Field: "email", Msg: "already in use"})
			}
		}
	}
	if err := validate.Collect(checks...); err != nil {
		return nil, err
	}
	u, err := s.r.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return u, nil
}
