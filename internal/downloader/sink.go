package downloader

import (
	"sync"

	"github.com/vrsandeep/tokyo-links/internal/models"
)

// ResultSink collects outcomes from concurrent workers.
type ResultSink interface {
	Add(models.ItemOutcome)
	Outcomes() []models.ItemOutcome
}

// MemorySink is a mutex-guarded ResultSink scoped to one run.
type MemorySink struct {
	mu       sync.Mutex
	outcomes []models.ItemOutcome
}

// NewMemorySink creates a sink with room for n outcomes.
func NewMemorySink(n int) *MemorySink {
	return &MemorySink{outcomes: make([]models.ItemOutcome, 0, n)}
}

func (s *MemorySink) Add(o models.ItemOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, o)
}

// Outcomes returns a copy of everything added so far.
func (s *MemorySink) Outcomes() []models.ItemOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ItemOutcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}
