package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hr-portal/internal/models"
	"hr-portal/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const applicationColumns = `a.id, a.job_id, a.candidate_id, a.full_name, a.email, a.resume_url, a.resume_name,
	a.cover_letter_url, a.status, a.scheduled_at, a.created_at, a.updated_at`

// ApplicationRepo implements the storage.ApplicationRepository interface using PostgreSQL.
type ApplicationRepo struct {
	db Querier
}

// Compile-time check to ensure ApplicationRepo implements ApplicationRepository
var _ storage.ApplicationRepository = (*ApplicationRepo)(nil)

func scanApplication(row pgx.Row, extra ...any) (*models.Application, error) {
	var app models.Application
	dest := []any{
		&app.ID,
		&app.JobID,
		&app.CandidateID,
		&app.FullName,
		&app.Email,
		&app.ResumeURL,
		&app.ResumeName,
		&app.CoverLetterURL,
		&app.Status,
		&app.ScheduledAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &app, nil
}

// Create inserts a Pending application. The unique index on
// (job_id, candidate_id) turns a racing duplicate into storage.ErrConflict.
func (r *ApplicationRepo) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	id := app.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO applications AS a (id, job_id, candidate_id, full_name, email, resume_url, resume_name,
			cover_letter_url, status, scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULL, NOW(), NOW())
		RETURNING ` + applicationColumns

	created, err := scanApplication(r.db.QueryRow(ctx, query,
		id,
		app.JobID,
		app.CandidateID,
		app.FullName,
		app.Email,
		app.ResumeURL,
		app.ResumeName,
		app.CoverLetterURL,
		models.StatusPending,
	))
	if err != nil {
		log.Printf("Error creating application (job %s, candidate %s): %v\n", app.JobID, app.CandidateID, err)
		return nil, mapWriteError(err, "create application")
	}

	log.Printf("Application created successfully with ID: %s", created.ID)
	return created, nil
}

// GetByID retrieves an application by its ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Application not found with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error retrieving application by ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get application by ID %s: %w", id, err)
	}
	return app, nil
}

// GetByJobAndCandidate retrieves the application of a candidate for a job.
func (r *ApplicationRepo) GetByJobAndCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (*models.Application, error) {
	app, err := scanApplication(r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications a WHERE a.job_id = $1 AND a.candidate_id = $2`,
		jobID, candidateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		log.Printf("Error querying application for job %s and candidate %s: %v\n", jobID, candidateID, err)
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return app, nil
}

// ListByCandidate lists a candidate's applications with job titles, newest first.
func (r *ApplicationRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.ApplicationWithJob, error) {
	return r.listWithJob(ctx, `
		SELECT `+applicationColumns+`, j.title
		FROM applications a JOIN jobs j ON j.id = a.job_id
		WHERE a.candidate_id = $1
		ORDER BY a.created_at DESC`, candidateID)
}

// ListByRecruiter lists applications to every job of a recruiter, newest first.
func (r *ApplicationRepo) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.ApplicationWithJob, error) {
	return r.listWithJob(ctx, `
		SELECT `+applicationColumns+`, j.title
		FROM applications a JOIN jobs j ON j.id = a.job_id
		WHERE j.recruiter_id = $1
		ORDER BY a.created_at DESC`, recruiterID)
}

// ListByJob lists the applications for one job, newest first.
func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	rows, err := r.db.Query(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.job_id = $1 ORDER BY a.created_at DESC`, jobID)
	if err != nil {
		log.Printf("Error querying applications by job ID %s: %v\n", jobID, err)
		return nil, fmt.Errorf("failed to list applications by job: %w", err)
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			log.Printf("Error scanning application for job %s: %v\n", jobID, err)
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications by job: %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepo) listWithJob(ctx context.Context, query string, ownerID uuid.UUID) ([]models.ApplicationWithJob, error) {
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		log.Printf("Error querying applications for %s: %v\n", ownerID, err)
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []models.ApplicationWithJob{}
	for rows.Next() {
		var title string
		app, err := scanApplication(rows, &title)
		if err != nil {
			log.Printf("Error scanning application for %s: %v\n", ownerID, err)
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, models.ApplicationWithJob{Application: *app, JobTitle: title})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// UpdateStatus performs a compare-and-set on the status column.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, expected, status models.ApplicationStatus, scheduledAt *time.Time) (*models.Application, error) {
	query := `
		UPDATE applications AS a
		SET status = $1, scheduled_at = $2, updated_at = NOW()
		WHERE a.id = $3 AND a.status = $4
		RETURNING ` + applicationColumns

	updated, err := scanApplication(r.db.QueryRow(ctx, query, status, scheduledAt, id, expected))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the row is gone or its status moved under us.
			if _, getErr := r.GetByID(ctx, id); errors.Is(getErr, storage.ErrNotFound) {
				return nil, storage.ErrNotFound
			}
			log.Printf("Application %s changed status concurrently (expected %s)\n", id, expected)
			return nil, fmt.Errorf("application %s is no longer %s: %w", id, expected, storage.ErrConflict)
		}
		log.Printf("Error updating application status for ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	return updated, nil
}
