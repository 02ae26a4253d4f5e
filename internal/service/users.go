package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"order-loom/internal/model"
	"order-loom/internal/repository"
)

type UserRepository interface {
	UserLookup
	Upsert(ctx context.Context, u *model.User) (*model.User, error)
	SetApproval(ctx context.Context, email, approval string) (*model.User, error)
	SetRole(ctx context.Context, email string, role model.Role) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
}

type UserService struct {
	repo UserRepository
	now  func() time.Time
}

func NewUserService(r UserRepository) *UserService {
	return &UserService{repo: r, now: func() time.Time { return time.Now().UTC() }}
}

// Register guarda al usuario en su primer login, siempre como buyer sin
// aprobar. Si ya existe, se devuelve tal cual está.
func (s *UserService) Register(ctx context.Context, email, name, photoURL string) (*model.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	u, err := s.repo.Upsert(ctx, &model.User{
		Email:         email,
		Name:          strings.TrimSpace(name),
		PhotoURL:      photoURL,
		Role:          model.RoleBuyer,
		AdminApproval: model.ApprovalNotChecked,
		CreatedAt:     s.now(),
	})
	if err != nil {
		return nil, storageFault("register user", err)
	}
	return u, nil
}

// SetRole es administrativo. La aprobación queda como estaba.
func (s *UserService) SetRole(ctx context.Context, email string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	u, err := s.repo.SetRole(ctx, email, role)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: user not registered", ErrNotFound)
	}
	if err != nil {
		return nil, storageFault("set role", err)
	}
	return u, nil
}

func (s *UserService) Me(ctx context.Context, email string) (*model.User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: user not registered", ErrNotFound)
	}
	if err != nil {
		return nil, storageFault("find user", err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	out, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, storageFault("list users", err)
	}
	return out, nil
}

func (s *UserService) SetApproval(ctx context.Context, email, approval string) (*model.User, error) {
	approval = strings.TrimSpace(approval)
	if approval == "" {
		return nil, fmt.Errorf("%w: approval is required", ErrInvalidInput)
	}

	u, err := s.repo.SetApproval(ctx, email, approval)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: user not registered", ErrNotFound)
	}
	if err != nil {
		return nil, storageFault("set approval", err)
	}
	return u, nil
}
