package casefile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrFileNotFound signals that no court file exists for the identifier.
	ErrFileNotFound = errors.New("casefile: not found")
	// ErrClassUnknown signals a class code missing from the file-type table.
	ErrClassUnknown = errors.New("casefile: class unknown")
)

// Repository handles data access for court files and their class taxonomy.
type Repository interface {
	GetByID(ctx context.Context, id string) (File, error)
	FamilyOf(ctx context.Context, classCode string) (string, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (File, error) {
	const query = `
		SELECT f.id, f.number, f.class_code, c.family, f.opened_at
		FROM court_files f
		JOIN file_classes c ON c.code = f.class_code
		WHERE f.id = $1
	`

	var f File
	err := r.pool.QueryRow(ctx, query, id).Scan(&f.ID, &f.Number, &f.ClassCode, &f.ClassFamily, &f.OpenedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return File{}, ErrFileNotFound
		}
		return File{}, fmt.Errorf("casefile: get by id: %w", err)
	}
	return f, nil
}

func (r *PGRepository) FamilyOf(ctx context.Context, classCode string) (string, error) {
	const query = `SELECT family FROM file_classes WHERE code = $1`

	var family string
	if err := r.pool.QueryRow(ctx, query, classCode).Scan(&family); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrClassUnknown
		}
		return "", fmt.Errorf("casefile: family of %s: %w", classCode, err)
	}
	return family, nil
}
