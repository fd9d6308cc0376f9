package resumes

import "time"

// Resume is a resume document owned by exactly one user.
type Resume struct {
	ID        string
	OwnerID   string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HistoryEntry records one improve pass over a resume's content.
type HistoryEntry struct {
	ID              int64
	ResumeID        string
	OriginalContent string
	ImprovedContent string
	CreatedAt       time.Time
}
