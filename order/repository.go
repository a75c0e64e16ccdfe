package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrOrderNotFound is returned when no order row exists for the identifier.
	ErrOrderNotFound = errors.New("order: not found")
)

// Filter narrows repository list queries. Zero-valued fields are ignored.
type Filter struct {
	ReviewStatuses []ReviewStatus
	SubmitStatus   SubmitStatus
}

// Repository defines the order persistence operations used by the lifecycle
// service and the sweeps.
type Repository interface {
	GetByID(ctx context.Context, id string) (Order, error)
	FindByNaturalKey(ctx context.Context, key NaturalKey) (Order, error)
	List(ctx context.Context, filter Filter) ([]Order, error)
	Insert(ctx context.Context, o Order) (Order, error)
	Update(ctx context.Context, o Order) (Order, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const orderColumns = `id, court_file_id, judge_id, judge_name, referred_document_id,
	review_status, submit_status, submit_attempts, signed, comments, document_payload,
	created_at, updated_at, processed_at`

func (r *PGRepository) GetByID(ctx context.Context, id string) (Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, fmt.Errorf("order: get by id: %w", err)
	}
	return o, nil
}

func (r *PGRepository) FindByNaturalKey(ctx context.Context, key NaturalKey) (Order, error) {
	const query = `SELECT ` + orderColumns + `
		FROM orders
		WHERE court_file_id = $1 AND judge_id = $2 AND referred_document_id = $3`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, key.CourtFileID, key.JudgeID, key.ReferredDocumentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, fmt.Errorf("order: find by natural key: %w", err)
	}
	return o, nil
}

func (r *PGRepository) List(ctx context.Context, filter Filter) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}

	if len(filter.ReviewStatuses) > 0 {
		statuses := make([]string, 0, len(filter.ReviewStatuses))
		for _, s := range filter.ReviewStatuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		query += fmt.Sprintf(" AND review_status = ANY($%d)", len(args))
	}
	if filter.SubmitStatus != "" {
		args = append(args, string(filter.SubmitStatus))
		query += fmt.Sprintf(" AND submit_status = $%d", len(args))
	}
	query += " ORDER BY created_at"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("order: list: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0, 16)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("order: scan: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order: iterate: %w", err)
	}
	return orders, nil
}

func (r *PGRepository) Insert(ctx context.Context, o Order) (Order, error) {
	const query = `
		INSERT INTO orders (id, court_file_id, judge_id, judge_name, referred_document_id,
			review_status, submit_status, submit_attempts, signed, comments, document_payload)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + orderColumns

	row := r.pool.QueryRow(ctx, query,
		o.ID,
		o.CourtFileID,
		o.JudgeID,
		o.JudgeName,
		o.ReferredDocumentID,
		o.ReviewStatus,
		o.SubmitStatus,
		o.SubmitAttempts,
		o.Signed,
		o.Comments,
		o.DocumentPayload,
	)

	created, err := scanOrder(row)
	if err != nil {
		return Order{}, fmt.Errorf("order: insert: %w", err)
	}
	return created, nil
}

func (r *PGRepository) Update(ctx context.Context, o Order) (Order, error) {
	const query = `
		UPDATE orders
		SET judge_id = $2,
			judge_name = $3,
			review_status = $4,
			submit_status = $5,
			submit_attempts = $6,
			signed = $7,
			comments = $8,
			document_payload = $9,
			processed_at = $10,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + orderColumns

	row := r.pool.QueryRow(ctx, query,
		o.ID,
		o.JudgeID,
		o.JudgeName,
		o.ReviewStatus,
		o.SubmitStatus,
		o.SubmitAttempts,
		o.Signed,
		o.Comments,
		o.DocumentPayload,
		o.ProcessedAt,
	)

	updated, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, fmt.Errorf("order: update: %w", err)
	}
	return updated, nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.CourtFileID,
		&o.JudgeID,
		&o.JudgeName,
		&o.ReferredDocumentID,
		&o.ReviewStatus,
		&o.SubmitStatus,
		&o.SubmitAttempts,
		&o.Signed,
		&o.Comments,
		&o.DocumentPayload,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.ProcessedAt,
	)
	return o, err
}
