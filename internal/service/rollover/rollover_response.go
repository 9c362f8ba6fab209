package rollover

type RolloverResponse struct {
	RolledIDs  []string `json:"rolled_ids"`            // students whose ledger moved into the new period
	SkippedIDs []string `json:"skipped_ids"`           // students already rolled over this month
	FailedIDs  []string `json:"failed_ids"`            // students whose write conflicted or failed
	ErrorMsg   string   `json:"error,omitempty"`       // first error seen during the sweep
	Message    string   `json:"message,omitempty"`
}

func (r *RolloverResponse) SetError(err error) {
	if err != nil {
		r.ErrorMsg = err.Error()
	}
}

// RolloverSummary is the archived record of one sweep.
type RolloverSummary struct {
	Period       string   `json:"period"`
	RolledCount  int      `json:"rolledCount"`
	SkippedCount int      `json:"skippedCount"`
	FailedCount  int      `json:"failedCount"`
	FailedIDs    []string `json:"failedIds"`
	Error        string   `json:"error,omitempty"`
	CompletedAt  string   `json:"completedAt"`
}
