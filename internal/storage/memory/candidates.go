package memory

import (
	"context"
	"time"

	"hr-portal/internal/models"
	"hr-portal/internal/storage"

	"github.com/google/uuid"
)

type candidateRepo struct {
	s *Store
}

var _ storage.CandidateRepository = (*candidateRepo)(nil)

func (r *candidateRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Candidate, error) {
	var found models.Candidate
	err := r.s.with(ctx, func(st *state) error {
		rec, ok := st.candidates[userID]
		if !ok {
			return storage.ErrNotFound
		}
		found = rec.candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *candidateRepo) Upsert(ctx context.Context, c *models.Candidate) (*models.Candidate, error) {
	var saved models.Candidate
	err := r.s.with(ctx, func(st *state) error {
		now := r.s.now()
		rec, ok := st.candidates[c.UserID]
		if !ok {
			rec = candidateRecord{seq: st.next(), candidate: models.Candidate{UserID: c.UserID, CreatedAt: now}}
		}
		p := &rec.candidate
		p.FullName = c.FullName
		p.Email = c.Email
		p.Phone = c.Phone
		p.Education = c.Education
		p.Experience = c.Experience
		p.Skills = c.Skills
		p.UpdatedAt = now
		st.candidates[c.UserID] = rec
		saved = rec.candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *candidateRepo) SetResume(ctx context.Context, userID uuid.UUID, url, name string) (*models.Candidate, error) {
	return r.modify(ctx, userID, func(c *models.Candidate) {
		c.ResumeURL = url
		c.ResumeName = name
	})
}

func (r *candidateRepo) SetAvatar(ctx context.Context, userID uuid.UUID, url string) (*models.Candidate, error) {
	return r.modify(ctx, userID, func(c *models.Candidate) {
		c.AvatarURL = url
	})
}

func (r *candidateRepo) modify(ctx context.Context, userID uuid.UUID, change func(*models.Candidate)) (*models.Candidate, error) {
	var updated models.Candidate
	err := r.s.with(ctx, func(st *state) error {
		rec, ok := st.candidates[userID]
		if !ok {
			return storage.ErrNotFound
		}
		change(&rec.candidate)
		rec.candidate.UpdatedAt = r.s.now()
		st.candidates[userID] = rec
		updated = rec.candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *candidateRepo) List(ctx context.Context) ([]models.Candidate, error) {
	var records []candidateRecord
	err := r.s.with(ctx, func(st *state) error {
		for _, rec := range st.candidates {
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(records,
		func(rec candidateRecord) time.Time { return rec.candidate.CreatedAt },
		func(rec candidateRecord) int64 { return rec.seq })

	candidates := make([]models.Candidate, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, rec.candidate)
	}
	return candidates, nil
}
