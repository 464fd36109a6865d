package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
	"golang.org/x/crypto/bcrypt"
)

type TokenSettings struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role,omitempty"`
}

type AuthResult struct {
	Token     string      `json:"token"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FullName  string      `json:"fullName"`
	Role      domain.Role `json:"role"`
	ExpiresIn int64       `json:"expiresIn"`
}

// Auth registers users and issues HS256 JWTs carrying the username and
// role claims that the authz middleware enforces.
type Auth struct {
	users  UserStore
	tokens TokenSettings
	log    *slog.Logger
}

func NewAuth(users UserStore, tokens TokenSettings, log *slog.Logger) *Auth {
	return &Auth{users: users, tokens: tokens, log: log}
}

func (a *Auth) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if strings.TrimSpace(in.Username) == "" {
		return AuthResult{}, &domain.ValidationError{Field: "username", Reason: "is required"}
	}
	if strings.TrimSpace(in.Email) == "" {
		return AuthResult{}, &domain.ValidationError{Field: "email", Reason: "is required"}
	}
	if len(in.Password) < 6 {
		return AuthResult{}, &domain.ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}

	taken, err := a.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return AuthResult{}, err
	}
	if taken {
		return AuthResult{}, fmt.Errorf("%w: username %q", domain.ErrDuplicate, in.Username)
	}
	taken, err = a.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if taken {
		return AuthResult{}, fmt.Errorf("%w: email %q", domain.ErrDuplicate, in.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	role := domain.RoleUser
	if in.Role == string(domain.RoleAdmin) {
		role = domain.RoleAdmin
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.users.Insert(ctx, user); err != nil {
		return AuthResult{}, fmt.Errorf("insert user: %w", err)
	}

	a.log.Info("user registered", "username", user.Username, "role", user.Role)
	return a.issue(user)
}

func (a *Auth) Login(ctx context.Context, username, password string) (AuthResult, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		return AuthResult{}, err
	}
	if user == nil {
		return AuthResult{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, domain.ErrInvalidCredentials
	}
	return a.issue(user)
}

func (a *Auth) CurrentUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}
	return user, nil
}

func (a *Auth) issue(user *domain.User) (AuthResult, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  a.tokens.Issuer,
		"aud":  a.tokens.Audience,
		"sub":  user.Username,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(a.tokens.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.tokens.Secret))
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign token: %w", err)
	}
	return AuthResult{
		Token:     signed,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName(),
		Role:      user.Role,
		ExpiresIn: int64(a.tokens.TTL.Seconds()),
	}, nil
}
