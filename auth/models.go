package auth

import "time"

type Role string

const (
	RoleClerk Role = "clerk"
	RoleJudge Role = "judge"
	RoleAdmin Role = "admin"
)

// Account is the domain representation of an authenticated staff member.
// It mirrors the accounts table and carries no JSON annotations so it can
// be reused by different presentation layers. Judges link to their
// directory profile through JudgeID.
type Account struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	JudgeID      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterRequest contains account registration data supplied by callers.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Role     Role    `json:"role"`
	JudgeID  *string `json:"judge_id"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
