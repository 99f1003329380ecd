package services

import (
	"github.com/rentora/rentora-api/internal/jobs"
)

// JobService exposes background worker state to the API
type JobService struct {
	worker *jobs.Worker
}

// NewJobService creates a new job service
func NewJobService(worker *jobs.Worker) *JobService {
	return &JobService{worker: worker}
}

// Stats returns the current worker statistics
func (s *JobService) Stats() jobs.WorkerStats {
	return s.worker.GetStats()
}
