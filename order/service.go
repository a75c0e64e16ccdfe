package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"courtflow/casefile"
	"courtflow/judge"

	"github.com/google/uuid"
)

var (
	// ErrDecisionNotAllowed signals an attempt to move a processed order back to pending.
	ErrDecisionNotAllowed = errors.New("order: decision not allowed")
)

// CourtFileLookup resolves court files and their class family membership.
type CourtFileLookup interface {
	GetByID(ctx context.Context, id string) (casefile.File, error)
	InHandledFamily(ctx context.Context, classCode string) (bool, error)
}

// JudgeLookup resolves assignees against the current judge directory.
type JudgeLookup interface {
	GetByID(ctx context.Context, id string) (judge.Profile, error)
}

// Notifier delivers a best-effort notification; it never reports failure
// because it must not affect the caller's transaction.
type Notifier interface {
	Notify(ctx context.Context, recipientID, template string, data map[string]any)
}

// SubmissionEnqueuer queues one order for downstream submission.
type SubmissionEnqueuer interface {
	Enqueue(ctx context.Context, orderID string) error
}

// Service owns the order lifecycle: validation, natural-key deduplicating
// upsert, and the review transition.
type Service struct {
	repo        Repository
	courtFiles  CourtFileLookup
	judges      JudgeLookup
	notifier    Notifier
	submissions SubmissionEnqueuer
	idGenerator func() string
	now         func() time.Time
}

func NewService(repo Repository, courtFiles CourtFileLookup, judges JudgeLookup, notifier Notifier, submissions SubmissionEnqueuer) *Service {
	return &Service{
		repo:        repo,
		courtFiles:  courtFiles,
		judges:      judges,
		notifier:    notifier,
		submissions: submissions,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Validate runs the business rules that require the court-file and
// judge-directory collaborators. It applies no side effects; every violated
// rule contributes one message.
func (s *Service) Validate(ctx context.Context, o Order) (ValidationResult, error) {
	var result ValidationResult

	file, err := s.courtFiles.GetByID(ctx, o.CourtFileID)
	switch {
	case errors.Is(err, casefile.ErrFileNotFound):
		result.Violations = append(result.Violations, fmt.Sprintf("court file %s does not exist", o.CourtFileID))
	case err != nil:
		return ValidationResult{}, fmt.Errorf("order: resolve court file: %w", err)
	default:
		handled, err := s.courtFiles.InHandledFamily(ctx, file.ClassCode)
		if err != nil {
			return ValidationResult{}, fmt.Errorf("order: resolve file class: %w", err)
		}
		if !handled {
			result.Violations = append(result.Violations, fmt.Sprintf("court file %s class %s is outside the handled family", o.CourtFileID, file.ClassCode))
		}
	}

	if _, err := s.judges.GetByID(ctx, o.JudgeID); err != nil {
		if errors.Is(err, judge.ErrJudgeNotFound) {
			result.Violations = append(result.Violations, fmt.Sprintf("judge %s is not in the current directory", o.JudgeID))
		} else {
			return ValidationResult{}, fmt.Errorf("order: resolve judge: %w", err)
		}
	}

	return result, nil
}

// Upsert stores the order keyed by its natural key. Repeated calls with the
// same key converge on a single record: an existing record keeps its id,
// creation time, and submit attempt counter while the incoming business
// fields are applied on top.
func (s *Service) Upsert(ctx context.Context, incoming Order) (Order, error) {
	if incoming.CourtFileID == "" || incoming.JudgeID == "" || incoming.ReferredDocumentID == "" {
		return Order{}, fmt.Errorf("order: natural key fields are required")
	}

	existing, err := s.repo.FindByNaturalKey(ctx, incoming.Key())
	if err == nil {
		existing.JudgeName = incoming.JudgeName
		existing.Signed = incoming.Signed
		existing.Comments = incoming.Comments
		existing.DocumentPayload = incoming.DocumentPayload
		return s.repo.Update(ctx, existing)
	}
	if !errors.Is(err, ErrOrderNotFound) {
		return Order{}, err
	}

	incoming.ID = s.idGenerator()
	incoming.ReviewStatus = ReviewPending
	incoming.SubmitStatus = SubmitNone
	incoming.SubmitAttempts = 0
	incoming.ProcessedAt = nil

	created, err := s.repo.Insert(ctx, incoming)
	if err != nil {
		return Order{}, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, created.JudgeID, "order-assigned", map[string]any{
			"order_id":      created.ID,
			"court_file_id": created.CourtFileID,
			"judge_name":    created.JudgeName,
		})
	}

	return created, nil
}

// ReviewParams carries a judge's decision on an order.
type ReviewParams struct {
	OrderID       string
	ActingJudgeID string
	Decision      ReviewStatus
	Comments      *string
}

// Review applies the acting judge's decision. An order whose assignee does
// not match the acting judge is reported as not found. A decision that
// leaves pending stamps ProcessedAt and queues the order for submission;
// a processed order is never returned to pending.
func (s *Service) Review(ctx context.Context, params ReviewParams) (Order, error) {
	o, err := s.repo.GetByID(ctx, params.OrderID)
	if err != nil {
		return Order{}, err
	}
	if o.JudgeID != params.ActingJudgeID {
		return Order{}, ErrOrderNotFound
	}

	if params.Decision == ReviewPending {
		if o.ReviewStatus != ReviewPending {
			return Order{}, ErrDecisionNotAllowed
		}
		o.Comments = params.Comments
		return s.repo.Update(ctx, o)
	}

	o.ReviewStatus = params.Decision
	if params.Comments != nil {
		o.Comments = params.Comments
	}
	processedAt := s.now()
	o.ProcessedAt = &processedAt

	updated, err := s.repo.Update(ctx, o)
	if err != nil {
		return Order{}, err
	}

	if s.submissions != nil {
		if err := s.submissions.Enqueue(ctx, updated.ID); err != nil {
			return updated, fmt.Errorf("order: enqueue submission: %w", err)
		}
	}

	log.Printf("order: %s reviewed as %s by judge %s", updated.ID, updated.ReviewStatus, params.ActingJudgeID)
	return updated, nil
}
