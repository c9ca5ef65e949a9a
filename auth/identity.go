// identity.go - Per-request identity resolution from bearer tokens

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"store-manager/models"
	"store-manager/store"
)

// Identity is the resolved caller of a request. A nil *Identity means the
// request is unauthenticated.
type Identity struct {
	Email   string
	IsAdmin bool
}

// Role returns RoleOwner for admins and RoleAttendant otherwise.
func (i *Identity) Role() Role {
	if i.IsAdmin {
		return RoleOwner
	}
	return RoleAttendant
}

// TokenParser turns a bearer token into the email it was issued for.
type TokenParser interface {
	Parse(token string) (string, error)
}

// UserLookup finds a user by exact email.
type UserLookup interface {
	GetUser(ctx context.Context, email string) (*models.User, error)
}

// Resolver resolves an Authorization header into an Identity.
type Resolver struct {
	tokens TokenParser
	users  UserLookup
}

func NewResolver(tokens TokenParser, users UserLookup) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve returns nil with no error for every kind of missing or bad credential.
// Only a failing user store produces an error.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (*Identity, error) {
	raw, ok := BearerToken(authorization)
	if !ok {
		return nil, nil
	}
	email, err := r.tokens.Parse(raw)
	if err != nil {
		return nil, nil
	}

	u, err := r.users.GetUser(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return &Identity{Email: u.Email, IsAdmin: u.IsAdmin}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type identityKey struct{}

// WithIdentity stores id on ctx. Storing nil marks the request unauthenticated.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
