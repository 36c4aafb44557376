package aggregate

import "github.com/vrsandeep/tokyo-links/internal/models"

// Summary counts the outcomes of one run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	ByReason  map[models.FailureReason]int
	Failures  []models.ItemOutcome
}

// Summarize tallies outcomes. Failures keep their input order.
func Summarize(outcomes []models.ItemOutcome) Summary {
	s := Summary{Total: len(outcomes), ByReason: map[models.FailureReason]int{}}
	for _, o := range outcomes {
		if o.OK() {
			s.Succeeded++
			continue
		}
		s.Failed++
		s.ByReason[o.Reason]++
		s.Failures = append(s.Failures, o)
	}
	return s
}
