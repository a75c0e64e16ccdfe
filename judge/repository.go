package judge

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrJudgeNotFound signals that the judge does not exist in the directory.
	ErrJudgeNotFound = errors.New("judge: not found")
	// ErrNoAuthority signals that no regional authority could be resolved.
	ErrNoAuthority = errors.New("judge: no regional authority")
)

// Repository handles data access for the judge directory.
type Repository interface {
	GetByID(ctx context.Context, id string) (Profile, error)
	ListActive(ctx context.Context) ([]Profile, error)
	RegionalAuthority(ctx context.Context, region string) (Profile, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const profileColumns = `id, full_name, email, region, role, active, created_at, updated_at`

func (r *PGRepository) GetByID(ctx context.Context, id string) (Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM judges WHERE id = $1`

	p, err := scanProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrJudgeNotFound
		}
		return Profile{}, fmt.Errorf("judge: get by id: %w", err)
	}
	return p, nil
}

func (r *PGRepository) ListActive(ctx context.Context) ([]Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM judges WHERE active ORDER BY full_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("judge: list active: %w", err)
	}
	defer rows.Close()

	profiles := make([]Profile, 0, 32)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("judge: scan: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("judge: iterate: %w", err)
	}
	return profiles, nil
}

// RegionalAuthority resolves the administrative authority for a region.
// Regions without an active authority yield ErrNoAuthority.
func (r *PGRepository) RegionalAuthority(ctx context.Context, region string) (Profile, error) {
	const query = `SELECT ` + profileColumns + `
		FROM judges
		WHERE region = $1 AND role = $2 AND active
		ORDER BY created_at
		LIMIT 1`

	p, err := scanProfile(r.pool.QueryRow(ctx, query, region, RoleRegional))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNoAuthority
		}
		return Profile{}, fmt.Errorf("judge: regional authority for %s: %w", region, err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.Region, &p.Role, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
