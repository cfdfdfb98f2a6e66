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

const jobColumns = `id, recruiter_id, title, description, requirements, location, company_name,
	salary_range, status, applicant_count, created_at, updated_at`

// JobRepo implements the storage.JobRepository interface using PostgreSQL.
type JobRepo struct {
	db Querier
}

// Compile-time check to ensure JobRepo implements JobRepository
var _ storage.JobRepository = (*JobRepo)(nil)

// Create saves a new job posting.
func (r *JobRepo) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	id := job.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	status := job.Status
	if status == "" {
		status = models.JobStatusOpen
	}

	query := `
		INSERT INTO jobs (id, recruiter_id, title, description, requirements, location, company_name,
			salary_range, status, applicant_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, NOW(), NOW())
		RETURNING ` + jobColumns

	rows, err := r.db.Query(ctx, query,
		id,
		job.RecruiterID,
		job.Title,
		job.Description,
		job.Requirements,
		job.Location,
		job.CompanyName,
		job.SalaryRange,
		status,
	)
	if err != nil {
		log.Printf("Error creating job: %v\n", err)
		return nil, mapWriteError(err, "create job")
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Job])
	if err != nil {
		log.Printf("Error creating job for recruiter %s: %v\n", job.RecruiterID, err)
		return nil, mapWriteError(err, "create job")
	}

	log.Printf("Job created successfully with ID: %s", created.ID)
	return &created, nil
}

// GetByID retrieves a specific job by its ID.
func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	if err != nil {
		log.Printf("Error querying job by ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get job by ID %s: %w", id, err)
	}

	job, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Job])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Job not found with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error scanning job by ID %s: %v\n", id, err)
		return nil, fmt.Errorf("failed to get job by ID %s: %w", id, err)
	}

	return &job, nil
}

// ListByRecruiter retrieves jobs posted by a specific recruiter, newest first.
func (r *JobRepo) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]models.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE recruiter_id = $1 ORDER BY created_at DESC`, recruiterID)
}

// ListByStatus retrieves jobs in the given status, newest first.
func (r *JobRepo) ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY created_at DESC`, status)
}

func (r *JobRepo) list(ctx context.Context, query string, arg any) ([]models.Job, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		log.Printf("Error querying jobs (%v): %v\n", arg, err)
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Job])
	if err != nil {
		log.Printf("Error scanning jobs (%v): %v\n", arg, err)
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}

	if jobs == nil {
		jobs = []models.Job{} // Return empty slice, not nil
	}

	return jobs, nil
}

// Update modifies an existing job based on non-nil fields in the patch.
func (r *JobRepo) Update(ctx context.Context, id uuid.UUID, patch *storage.JobPatch) (*models.Job, error) {
	var setClauses []string
	args := []interface{}{}

	add := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Requirements != nil {
		add("requirements", *patch.Requirements)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.CompanyName != nil {
		add("company_name", *patch.CompanyName)
	}
	if patch.SalaryRange != nil {
		// An empty salary clears it back to NULL.
		if *patch.SalaryRange == "" {
			add("salary_range", nil)
		} else {
			add("salary_range", *patch.SalaryRange)
		}
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}

	if len(setClauses) == 0 {
		log.Printf("Update called for job %s with no fields to change.", id)
		return nil, fmt.Errorf("no fields provided for update on job %s", id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	rows, err := r.db.Query(ctx, buildUpdateQuery("jobs", setClauses, len(args), jobColumns), args...)
	if err != nil {
		log.Printf("Error updating job %s: %v\n", id, err)
		return nil, mapWriteError(err, "update job")
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Job])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("Job not found for update with ID: %s\n", id)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error updating job %s: %v\n", id, err)
		return nil, mapWriteError(err, "update job")
	}

	log.Printf("Job updated successfully: %s", updated.ID)
	return &updated, nil
}

// IncrementApplicantCount bumps the advisory applicant counter by one.
func (r *JobRepo) IncrementApplicantCount(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE jobs SET applicant_count = applicant_count + 1 WHERE id = $1`, id)
	if err != nil {
		log.Printf("Error incrementing applicant count for job %s: %v\n", id, err)
		return fmt.Errorf("failed to increment applicant count for job %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes a job by its ID. Applications cascade.
func (r *JobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		log.Printf("Error deleting job %s: %v\n", id, err)
		return fmt.Errorf("failed to delete job %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		log.Printf("Job not found for deletion with ID: %s\n", id)
		return storage.ErrNotFound
	}

	log.Printf("Job deleted successfully: %s", id)
	return nil
}
