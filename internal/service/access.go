package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"order-loom/internal/model"
	"order-loom/internal/repository"
)

type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// AccessGate verifica el rol del usuario antes de cualquier operación de órdenes.
// Solo lee; si algo falla, niega el acceso.
type AccessGate struct {
	users UserLookup
}

func NewAccessGate(users UserLookup) *AccessGate {
	return &AccessGate{users: users}
}

// Require devuelve el usuario si su rol está entre los permitidos.
func (g *AccessGate) Require(ctx context.Context, email string, roles ...model.Role) (*model.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, forbidden("no verified identity", "")
	}

	u, err := g.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, forbidden("user is not registered", "")
	}
	if err != nil {
		return nil, storageFault("find user", err)
	}

	if !slices.Contains(roles, u.Role) {
		return nil, forbidden(requiredRoles(roles)+" role required", string(u.Role))
	}
	return u, nil
}

func requiredRoles(roles []model.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, " or ")
}
