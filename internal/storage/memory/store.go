// Package memory is an in-process implementation of the storage interfaces.
// It backs the dev mode (database.driver: memory) and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"hr-portal/internal/models"
	"hr-portal/internal/storage"

	"github.com/google/uuid"
)

type pairKey struct {
	jobID       uuid.UUID
	candidateID uuid.UUID
}

type state struct {
	seq          int64
	jobs         map[uuid.UUID]jobRecord
	candidates   map[uuid.UUID]candidateRecord
	applications map[uuid.UUID]applicationRecord
	pairs        map[pairKey]uuid.UUID // unique (job_id, candidate_id)
}

type jobRecord struct {
	seq int64
	job models.Job
}

type candidateRecord struct {
	seq       int64
	candidate models.Candidate
}

type applicationRecord struct {
	seq int64
	app models.Application
}

func newState() *state {
	return &state{
		jobs:         map[uuid.UUID]jobRecord{},
		candidates:   map[uuid.UUID]candidateRecord{},
		applications: map[uuid.UUID]applicationRecord{},
		pairs:        map[pairKey]uuid.UUID{},
	}
}

// clone copies every map. Records hold pointer fields that are never
// mutated in place, so a shallow copy of each record is enough.
func (st *state) clone() *state {
	c := &state{
		seq:          st.seq,
		jobs:         make(map[uuid.UUID]jobRecord, len(st.jobs)),
		candidates:   make(map[uuid.UUID]candidateRecord, len(st.candidates)),
		applications: make(map[uuid.UUID]applicationRecord, len(st.applications)),
		pairs:        make(map[pairKey]uuid.UUID, len(st.pairs)),
	}
	for k, v := range st.jobs {
		c.jobs[k] = v
	}
	for k, v := range st.candidates {
		c.candidates[k] = v
	}
	for k, v := range st.applications {
		c.applications[k] = v
	}
	for k, v := range st.pairs {
		c.pairs[k] = v
	}
	return c
}

func (st *state) next() int64 {
	st.seq++
	return st.seq
}

// Store is a mutex-guarded implementation of storage.Store.
type Store struct {
	mu   *sync.Mutex
	st   **state
	inTx bool
	now  func() time.Time
}

var _ storage.Store = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	st := newState()
	return &Store{mu: &sync.Mutex{}, st: &st, now: time.Now}
}

// WithClock returns a store sharing this one's data with a different time source.
func (s *Store) WithClock(now func() time.Time) *Store {
	return &Store{mu: s.mu, st: s.st, inTx: s.inTx, now: now}
}

func (s *Store) Jobs() storage.JobRepository { return &jobRepo{s} }

func (s *Store) Candidates() storage.CandidateRepository { return &candidateRepo{s} }

func (s *Store) Applications() storage.ApplicationRepository { return &applicationRepo{s} }

// InTx runs fn while holding the store lock. If fn fails every change it made
// is discarded.
func (s *Store) InTx(ctx context.Context, fn func(tx storage.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := (*s.st).clone()
	tx := &Store{mu: s.mu, st: s.st, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		*s.st = snapshot
		return err
	}
	return nil
}

// with runs fn against the current state, taking the lock unless a
// transaction already holds it.
func (s *Store) with(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(*s.st)
}

func sortNewestFirst[T any](items []T, created func(T) time.Time, seq func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return seq(items[i]) > seq(items[j])
	})
}
