// users.go - Signup, owner bootstrap and login

package service

import (
	"context"
	"errors"
	"fmt"

	"store-manager/auth"
	"store-manager/logger"
	"store-manager/models"
	"store-manager/store"
)

// TokenIssuer issues an identity token bound to an email.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

// SignupInput registers a user. The same input creates attendants over HTTP
// and owners from the CLI or the startup seed.
type SignupInput struct {
	FirstName       string `json:"first_name" label:"First name field" validate:"required"`
	LastName        string `json:"last_name" label:"Last name field" validate:"required"`
	Email           string `json:"email" label:"Email field" validate:"required,email"`
	Password        string `json:"password" label:"Password field" validate:"required"`
	ConfirmPassword string `json:"confirm_password" label:"Confirm password field" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email" label:"Email field" validate:"required"`
	Password string `json:"password" label:"Password field" validate:"required"`
}

// Users registers and logs in owners and attendants.
type Users struct {
	users  store.UserStore
	hasher auth.Hasher
	tokens TokenIssuer
	log    logger.Logger
}

func NewUsers(users store.UserStore, hasher auth.Hasher, tokens TokenIssuer, log logger.Logger) *Users {
	return &Users{users: users, hasher: hasher, tokens: tokens, log: log.With("component", "users")}
}

// SignupAttendant creates a store attendant.
func (s *Users) SignupAttendant(ctx context.Context, in SignupInput) (*models.User, error) {
	return s.register(ctx, in, false)
}

// CreateOwner creates a store owner.
func (s *Users) CreateOwner(ctx context.Context, in SignupInput) (*models.User, error) {
	return s.register(ctx, in, true)
}

// EnsureOwner creates an owner from in unless at least one owner exists.
func (s *Users) EnsureOwner(ctx context.Context, in SignupInput) (bool, error) {
	count, err := s.users.CountOwners(ctx)
	if err != nil {
		return false, fmt.Errorf("count owners: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.CreateOwner(ctx, in); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Users) register(ctx context.Context, in SignupInput, isAdmin bool) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	_, err := s.users.GetUser(ctx, in.Email)
	switch {
	case err == nil:
		return nil, Conflict("User with this email address already exists")
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: digest,
		IsAdmin:      isAdmin,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, Conflict("User with this email address already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", "email", u.Email, "owner", u.IsAdmin)
	return u, nil
}

// LoginResult is a successful login.
type LoginResult struct {
	Token string
	User  *models.User
}

// Login checks the credentials and issues a token.
func (s *Users) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	u, err := s.users.GetUser(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, Authentication("Please register to login")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.Verify(u.PasswordHash, in.Password) {
		s.log.Debug("login rejected", "email", in.Email)
		return nil, Authentication("Invalid email or password")
	}

	token, err := s.tokens.Issue(u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, User: u}, nil
}
