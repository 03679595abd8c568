package scheduler

// State is the stage reported by a Progress event.
type State int

const (
	StateBatchStarted State = iota
	StateRecordCompleted
	StateBatchCompleted
	StateCanceled
)

func (s State) String() string {
	switch s {
	case StateBatchStarted:
		return "batch_started"
	case StateRecordCompleted:
		return "record_completed"
	case StateBatchCompleted:
		return "batch_completed"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Progress describes the scheduler's position within a run.
type Progress struct {
	Batch        int
	TotalBatches int
	// RecordID is set for StateRecordCompleted, -1 otherwise.
	RecordID  int
	Completed int
	BatchSize int
	State     State
	Error     error
}

// Stats summarizes one scheduler run.
type Stats struct {
	Batches  int `json:"batches"`
	Records  int `json:"records"`
	Calls    int `json:"calls"`
	Cached   int `json:"cached"`
	Failures int `json:"failures"`
	// ParseFailures counts templated completions that did not follow the
	// Observation/Solution format.
	ParseFailures int `json:"parse_failures"`
	Fallbacks     int `json:"fallbacks"`
}

func (s *Stats) add(o recordOutcome) {
	s.Records++
	s.Calls += o.calls
	s.Cached += o.cached
	s.Failures += o.failures
	s.ParseFailures += o.parseFailures
	s.Fallbacks += o.fallbacks
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Batches += o.Batches
	s.Records += o.Records
	s.Calls += o.Calls
	s.Cached += o.Cached
	s.Failures += o.Failures
	s.ParseFailures += o.ParseFailures
	s.Fallbacks += o.Fallbacks
}
