package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dealsense/diligence/internal/domain"
)

// Status tracks an analysis run through its lifecycle
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Analysis is one tracked run of the pipeline
type Analysis struct {
	ID          string             `json:"id"`
	Status      Status             `json:"status"`
	Query       string             `json:"query"`
	Report      *domain.DealReport `json:"report,omitempty"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// runStore keeps analysis runs in memory and hands queued ones to workers
type runStore struct {
	mu   sync.RWMutex
	runs map[string]*Analysis
}

func newRunStore() *runStore {
	return &runStore{runs: make(map[string]*Analysis)}
}

// Create registers a new queued analysis and returns its id
func (s *runStore) Create(query string) *Analysis {
	a := &Analysis{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Query:     query,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.runs[a.ID] = a
	s.mu.Unlock()
	return a
}

// Get returns a snapshot of the run with the given id
func (s *runStore) Get(id string) (Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.runs[id]
	if !ok {
		return Analysis{}, false
	}
	return *a, true
}

func (s *runStore) markRunning(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.runs[id]; ok {
		a.Status = StatusRunning
	}
}

func (s *runStore) complete(id string, rpt *domain.DealReport) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.runs[id]; ok {
		a.Status = StatusCompleted
		a.Report = rpt
		a.CompletedAt = &now
	}
}

func (s *runStore) fail(id string, err error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.runs[id]; ok {
		a.Status = StatusFailed
		a.Error = err.Error()
		a.CompletedAt = &now
	}
}
