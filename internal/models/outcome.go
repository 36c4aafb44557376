package models

// FailureReason classifies why an item produced no output line.
type FailureReason int

const (
	FailureNone FailureReason = iota
	FailureNoValidCandidate
	FailureFetch
	FailureParse
)

func (r FailureReason) String() string {
	switch r {
	case FailureNone:
		return "none"
	case FailureNoValidCandidate:
		return "no_valid_candidate"
	case FailureFetch:
		return "fetch_error"
	case FailureParse:
		return "parse_error"
	default:
		return "unknown"
	}
}

// ItemOutcome is the result of processing exactly one ItemDescriptor.
type ItemOutcome struct {
	Descriptor ItemDescriptor `json:"descriptor"`
	Selected   CandidateEntry `json:"selected"`
	Reason     FailureReason  `json:"reason"`
	Err        error          `json:"-"`
}

// OK reports whether the outcome carries a selected candidate.
func (o ItemOutcome) OK() bool {
	return o.Reason == FailureNone
}

// Success builds a successful outcome.
func Success(d ItemDescriptor, c CandidateEntry) ItemOutcome {
	return ItemOutcome{Descriptor: d, Selected: c}
}

// Failure builds a failed outcome.
func Failure(d ItemDescriptor, reason FailureReason, err error) ItemOutcome {
	return ItemOutcome{Descriptor: d, Reason: reason, Err: err}
}
