package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrAccountNotFound signals that the account does not exist.
	ErrAccountNotFound = errors.New("auth: account not found")
	// ErrDuplicateEmail signals that the email is already registered.
	ErrDuplicateEmail = errors.New("auth: email already exists")
)

// Repository handles data access for authentication.
type Repository interface {
	CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
}

// CreateAccountParams contains write parameters for creating accounts.
type CreateAccountParams struct {
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	JudgeID      *string
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountColumns = `id, email, full_name, password_hash, role, judge_id, created_at, updated_at`

func (r *PGRepository) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	const query = `
		INSERT INTO accounts (email, full_name, password_hash, role, judge_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns

	a, err := scanAccount(r.pool.QueryRow(ctx, query, params.Email, params.FullName, params.PasswordHash, params.Role, params.JudgeID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, ErrDuplicateEmail
		}
		return Account{}, fmt.Errorf("auth: create account: %w", err)
	}
	return a, nil
}

func (r *PGRepository) GetByEmail(ctx context.Context, email string) (Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("auth: get by email: %w", err)
	}
	return a, nil
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("auth: get by id: %w", err)
	}
	return a, nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.Role, &a.JudgeID, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
