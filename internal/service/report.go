package service

import (
	"time"

	"github.com/oukeidos/locsync/internal/collector"
)

// Status is the terminal state of a run.
type Status string

const (
	StatusSuccess        Status = "Success"
	StatusPartialSuccess Status = "Partial Success"
	StatusFailure        Status = "Failure"
	// StatusSkipped means there was nothing to translate.
	StatusSkipped Status = "Skipped"
)

// Report is the structured outcome of one run for one target locale.
type Report struct {
	RunID    string `json:"run_id"`
	Kind     string `json:"kind"`
	TypeName string `json:"type_name,omitempty"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Provider string `json:"provider"`
	Status   Status `json:"status"`

	Stats collector.Stats `json:"stats"`
	// RecordsUpdated counts records or messages with at least one saved write.
	RecordsUpdated int `json:"records_updated"`
	Batches        int `json:"batches"`
	FailedBatches  int `json:"failed_batches"`
	// Failed lists origin keys ("<record id>.<attribute>" or message id)
	// lost to failed batches or failed saves.
	Failed []string `json:"failed,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

const (
	KindModels   = "models"
	KindMessages = "messages"
)

func (r *Report) finish(now time.Time) {
	r.FinishedAt = now
	switch {
	case r.Stats.Translated == 0 && r.Stats.Failed == 0:
		r.Status = StatusSkipped
	case r.Stats.Failed == 0:
		r.Status = StatusSuccess
	case r.Stats.Translated > 0:
		r.Status = StatusPartialSuccess
	default:
		r.Status = StatusFailure
	}
}
