package judge

import "time"

// Profile is the domain representation of a judge in the directory.
// It mirrors the judges table and carries the contact fields the
// notification path resolves.
type Profile struct {
	ID        string
	FullName  string
	Email     string
	Region    string
	Role      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	// RoleRegional marks the regional administrative authority for a region.
	RoleRegional = "regional_authority"
	// RoleJudge marks an ordinary assignee.
	RoleJudge = "judge"
)
