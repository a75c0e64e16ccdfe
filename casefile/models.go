package casefile

import "time"

// File mirrors the court_files table columns the lifecycle service reads.
type File struct {
	ID          string
	Number      string
	ClassCode   string
	ClassFamily string
	OpenedAt    time.Time
}
