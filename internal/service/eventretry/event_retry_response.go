package eventretry

type EventRetryResponse struct {
	SuccessIDs []string `json:"success_ids,omitempty"` // outbox entries published to Kafka
	FailedIDs  []string `json:"failed_ids,omitempty"`  // outbox entries that failed to publish
	ErrorMsg   string   `json:"error,omitempty"`
	Message    string   `json:"message,omitempty"`
}

func (r *EventRetryResponse) SetError(err error) {
	if err != nil {
		r.ErrorMsg = err.Error()
	}
}
