package resumes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = "id, owner_id, title, content, created_at, updated_at"

func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, owner_id, title, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)`
	_, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.OwnerID,
		resume.Title,
		nullableContent(resume.Content),
		resume.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1
LIMIT 1`
	return scanResume(r.DB.QueryRowContext(ctx, query, id))
}

// ListByOwner returns the owner's resumes ordered by creation time.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Resume, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE owner_id = $1
ORDER BY created_at
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		var resume Resume
		var content sql.NullString
		if err := rows.Scan(
			&resume.ID,
			&resume.OwnerID,
			&resume.Title,
			&content,
			&resume.CreatedAt,
			&resume.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if content.Valid {
			resume.Content = content.String
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, id string, upd Update) (Resume, error) {
	const query = `
UPDATE resumes
SET title = COALESCE($2, title),
    content = COALESCE($3, content),
    updated_at = now()
WHERE id = $1
RETURNING ` + resumeColumns
	return scanResume(r.DB.QueryRowContext(ctx, query, id, nullablePtr(upd.Title), nullablePtr(upd.Content)))
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM resumes WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByOwner removes all of a user's resumes. The FK cascade covers this
// in Postgres; keeping it explicit lets account deletion behave the same on
// every Repo implementation.
func (r *PGRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	const query = `DELETE FROM resumes WHERE owner_id = $1`
	_, err := r.DB.ExecContext(ctx, query, ownerID)
	return err
}

// ReplaceContent updates the content and logs the prior version to
// resume_history in one transaction.
func (r *PGRepo) ReplaceContent(ctx context.Context, id, improved, original string) (Resume, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Resume{}, err
	}
	defer tx.Rollback()

	const historyQuery = `
INSERT INTO resume_history (resume_id, original_content, improved_content)
VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, historyQuery, id, original, improved); err != nil {
		return Resume{}, err
	}

	const updateQuery = `
UPDATE resumes
SET content = $2, updated_at = now()
WHERE id = $1
RETURNING ` + resumeColumns
	resume, err := scanResume(tx.QueryRowContext(ctx, updateQuery, id, improved))
	if err != nil {
		return Resume{}, err
	}

	if err := tx.Commit(); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

func scanResume(row *sql.Row) (Resume, error) {
	var resume Resume
	var content sql.NullString
	err := row.Scan(
		&resume.ID,
		&resume.OwnerID,
		&resume.Title,
		&content,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if content.Valid {
		resume.Content = content.String
	}
	return resume, nil
}

func nullableContent(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullablePtr(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

var _ Repo = (*PGRepo)(nil)
