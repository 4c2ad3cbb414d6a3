package recorder

// RunSummary is the outcome of one full sync pass.
type RunSummary struct {
	Total          int
	Updated        int
	Skipped        int
	Failed         int
	TradesUpdated  int
	DurationMillis int64
}

// HoldingRecord is one holding's resolved values within a run.
type HoldingRecord struct {
	Symbol       string
	Currency     string
	Status       string // "updated", "skipped", "failed"
	Price        *float64
	Rate         *float64
	PE           *float64
	PEPercentile *float64
	PB           *float64
	ROE          *float64
	PEG          *float64
	Note         string
}

// Recorder persists sync history for later inspection.
type Recorder interface {
	RecordRun(sum *RunSummary) error
	RecordHolding(rec *HoldingRecord) error
	Close() error
}

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunSummary) error        { return nil }
func (n *NoopRecorder) RecordHolding(_ *HoldingRecord) error { return nil }
func (n *NoopRecorder) Close() error                         { return nil }
