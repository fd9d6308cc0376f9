package resumes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"resume-service/internal/ai"
	"resume-service/internal/shared/telemetry"
)

var (
	// ErrForbidden is returned when the acting user does not own the resume.
	ErrForbidden = errors.New("not the resume owner")
	// ErrNoFields is returned when an update carries nothing to change.
	ErrNoFields = errors.New("no data to update")
	// ErrNoContent is returned when improve is requested for a resume
	// without content.
	ErrNoContent = errors.New("resume has no content")
)

// Service contains business logic for resumes. All reads and mutations of a
// specific resume go through getOwned, which is the single place ownership
// is enforced.
type Service struct {
	Repo     Repo
	Improver ai.Improver
}

// NewService constructs a Service.
func NewService(repo Repo, improver ai.Improver) *Service {
	return &Service{Repo: repo, Improver: improver}
}

// getOwned resolves a resume and enforces ownership: a missing row is
// ErrNotFound, an existing row with a different owner is ErrForbidden.
func (s *Service) getOwned(ctx context.Context, actingUserID, id string) (Resume, error) {
	resume, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if resume.OwnerID != actingUserID {
		return Resume{}, ErrForbidden
	}
	return resume, nil
}

// Create stores a new resume under the acting user.
func (s *Service) Create(ctx context.Context, ownerID, title, content string) (Resume, error) {
	resume := Resume{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	resume.UpdatedAt = resume.CreatedAt
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	telemetry.Info("resume.created", map[string]any{"resume_id": resume.ID, "user_id": ownerID})
	return resume, nil
}

// Get returns a resume, owner-only.
func (s *Service) Get(ctx context.Context, actingUserID, id string) (Resume, error) {
	return s.getOwned(ctx, actingUserID, id)
}

// List returns the acting user's resumes.
func (s *Service) List(ctx context.Context, actingUserID string, limit, offset int) ([]Resume, error) {
	return s.Repo.ListByOwner(ctx, actingUserID, limit, offset)
}

// Update applies a partial update, owner-only.
func (s *Service) Update(ctx context.Context, actingUserID, id string, upd Update) (Resume, error) {
	if upd.Title == nil && upd.Content == nil {
		return Resume{}, ErrNoFields
	}
	if _, err := s.getOwned(ctx, actingUserID, id); err != nil {
		return Resume{}, err
	}
	return s.Repo.Update(ctx, id, upd)
}

// Delete removes a resume, owner-only.
func (s *Service) Delete(ctx context.Context, actingUserID, id string) error {
	if _, err := s.getOwned(ctx, actingUserID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	telemetry.Info("resume.deleted", map[string]any{"resume_id": id, "user_id": actingUserID})
	return nil
}

// Improve rewrites the resume content through the improver collaborator and
// logs the replaced version to history, owner-only.
func (s *Service) Improve(ctx context.Context, actingUserID, id string) (Resume, error) {
	resume, err := s.getOwned(ctx, actingUserID, id)
	if err != nil {
		return Resume{}, err
	}
	if resume.Content == "" {
		return Resume{}, ErrNoContent
	}

	improved, err := s.Improver.ImproveResume(ctx, resume.Content)
	if err != nil {
		return Resume{}, err
	}

	updated, err := s.Repo.ReplaceContent(ctx, id, improved, resume.Content)
	if err != nil {
		return Resume{}, err
	}
	telemetry.Info("resume.improved", map[string]any{"resume_id": id, "user_id": actingUserID})
	return updated, nil
}
