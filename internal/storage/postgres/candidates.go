package postgres

import (
	"context"
	"errors"
	"fmt"

	"hr-portal/internal/models"
	"hr-portal/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const candidateColumns = `user_id, full_name, email, phone, education, experience, skills,
	resume_url, resume_name, avatar_url, created_at, updated_at`

// CandidateRepo implements the storage.CandidateRepository interface using PostgreSQL.
type CandidateRepo struct {
	db Querier
}

var _ storage.CandidateRepository = (*CandidateRepo)(nil)

// GetByUserID retrieves the profile of a candidate.
func (r *CandidateRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Candidate, error) {
	return r.one(ctx, "get candidate", `SELECT `+candidateColumns+` FROM candidates WHERE user_id = $1`, userID)
}

// Upsert inserts the profile or replaces its editable fields. Resume and avatar
// fields are owned by their upload flows and are not touched on conflict.
func (r *CandidateRepo) Upsert(ctx context.Context, c *models.Candidate) (*models.Candidate, error) {
	query := `
		INSERT INTO candidates (user_id, full_name, email, phone, education, experience, skills,
			resume_url, resume_name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '', '', '', NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			education = EXCLUDED.education,
			experience = EXCLUDED.experience,
			skills = EXCLUDED.skills,
			updated_at = NOW()
		RETURNING ` + candidateColumns

	saved, err := r.one(ctx, "save candidate", query,
		c.UserID, c.FullName, c.Email, c.Phone, c.Education, c.Experience, c.Skills)
	if err != nil {
		return nil, err
	}
	log.Printf("Candidate profile saved for user %s", saved.UserID)
	return saved, nil
}

// SetResume stores the resume location; empty values clear it.
func (r *CandidateRepo) SetResume(ctx context.Context, userID uuid.UUID, url, name string) (*models.Candidate, error) {
	return r.one(ctx, "set candidate resume",
		`UPDATE candidates SET resume_url = $1, resume_name = $2, updated_at = NOW() WHERE user_id = $3 RETURNING `+candidateColumns,
		url, name, userID)
}

// SetAvatar stores the avatar location; an empty value clears it.
func (r *CandidateRepo) SetAvatar(ctx context.Context, userID uuid.UUID, url string) (*models.Candidate, error) {
	return r.one(ctx, "set candidate avatar",
		`UPDATE candidates SET avatar_url = $1, updated_at = NOW() WHERE user_id = $2 RETURNING `+candidateColumns,
		url, userID)
}

// List returns every candidate profile, newest first.
func (r *CandidateRepo) List(ctx context.Context) ([]models.Candidate, error) {
	rows, err := r.db.Query(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY created_at DESC`)
	if err != nil {
		log.Printf("Error querying candidates: %v\n", err)
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Candidate])
	if err != nil {
		log.Printf("Error scanning candidates: %v\n", err)
		return nil, fmt.Errorf("failed to scan candidates: %w", err)
	}
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	return candidates, nil
}

func (r *CandidateRepo) one(ctx context.Context, operation, query string, args ...any) (*models.Candidate, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error during %s: %v\n", operation, err)
		return nil, mapWriteError(err, operation)
	}

	candidate, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Candidate])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error during %s: %v\n", operation, err)
		return nil, mapWriteError(err, operation)
	}
	return &candidate, nil
}
