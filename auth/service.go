package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials signals wrong email or password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrWeakPassword signals password doesn't meet requirements.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
)

// Service handles authentication business logic for court staff.
type Service struct {
	repo      Repository
	jwtSecret []byte
}

// LoginResult bundles the token and account returned after a successful login.
type LoginResult struct {
	Token   string
	Account Account
}

func NewService(repo Repository, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates a new staff account. Judge accounts must reference their
// directory profile.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}
	if req.Email == "" || req.FullName == "" {
		return nil, fmt.Errorf("auth: email and full_name are required")
	}

	role := Role(strings.TrimSpace(string(req.Role)))
	if role == "" {
		role = RoleClerk
	}
	if !isValidRole(role) {
		return nil, fmt.Errorf("auth: invalid role %q", role)
	}
	if role == RoleJudge && (req.JudgeID == nil || *req.JudgeID == "") {
		return nil, fmt.Errorf("auth: judge accounts require a directory profile id")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	account, err := s.repo.CreateAccount(ctx, CreateAccountParams{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(passwordHash),
		Role:         role,
		JudgeID:      req.JudgeID,
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Login authenticates an account and returns a JWT token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	account, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.generateToken(account)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: generate token: %w", err)
	}

	return LoginResult{Token: token, Account: account}, nil
}

// GetByID retrieves account information by id.
func (s *Service) GetByID(ctx context.Context, id string) (*Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Claims carries the identity a verified token proves. ActingJudgeID is
// empty for non-judge accounts; the order review path compares it against
// the order's assignee.
type Claims struct {
	AccountID     string
	Role          Role
	ActingJudgeID string
}

// VerifyToken validates a JWT token and returns the proven identity.
func (s *Service) VerifyToken(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("auth: parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, fmt.Errorf("auth: invalid token")
	}

	accountID, ok := claims["account_id"].(string)
	if !ok {
		return Claims{}, fmt.Errorf("auth: invalid account_id in token")
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return Claims{}, fmt.Errorf("auth: invalid role in token")
	}
	role := Role(roleStr)
	if !isValidRole(role) {
		return Claims{}, fmt.Errorf("auth: invalid role %q in token", roleStr)
	}

	out := Claims{AccountID: accountID, Role: role}
	if judgeID, ok := claims["judge_id"].(string); ok {
		out.ActingJudgeID = judgeID
	}
	return out, nil
}

func (s *Service) generateToken(account Account) (string, error) {
	claims := jwt.MapClaims{
		"account_id": account.ID,
		"role":       account.Role,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
		"iat":        time.Now().Unix(),
	}
	if account.JudgeID != nil {
		claims["judge_id"] = *account.JudgeID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func isValidRole(role Role) bool {
	switch role {
	case RoleClerk, RoleJudge, RoleAdmin:
		return true
	default:
		return false
	}
}
