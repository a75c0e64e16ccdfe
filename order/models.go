package order

import "time"

// ReviewStatus tracks the judicial decision on an order.
type ReviewStatus string

const (
	ReviewPending    ReviewStatus = "pending"
	ReviewApproved   ReviewStatus = "approved"
	ReviewUnapproved ReviewStatus = "unapproved"
)

// SubmitStatus tracks delivery of a reviewed order to the downstream consumer.
type SubmitStatus string

const (
	SubmitNone  SubmitStatus = "not_submitted"
	SubmitDone  SubmitStatus = "submitted"
	SubmitError SubmitStatus = "error"
)

// Order is the workflow record. The (CourtFileID, JudgeID, ReferredDocumentID)
// triple is the natural key: no two live records may share it.
type Order struct {
	ID                 string
	CourtFileID        string
	JudgeID            string
	JudgeName          string
	ReferredDocumentID string
	ReviewStatus       ReviewStatus
	SubmitStatus       SubmitStatus
	SubmitAttempts     int
	Signed             bool
	Comments           *string
	DocumentPayload    []byte
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ProcessedAt        *time.Time
}

// NaturalKey identifies one logical order independent of its stored id.
type NaturalKey struct {
	CourtFileID        string
	JudgeID            string
	ReferredDocumentID string
}

// Key returns the order's natural key.
func (o Order) Key() NaturalKey {
	return NaturalKey{
		CourtFileID:        o.CourtFileID,
		JudgeID:            o.JudgeID,
		ReferredDocumentID: o.ReferredDocumentID,
	}
}

// ValidationResult carries one message per violated business rule.
type ValidationResult struct {
	Violations []string
}

// OK reports whether no rule was violated.
func (v ValidationResult) OK() bool {
	return len(v.Violations) == 0
}
