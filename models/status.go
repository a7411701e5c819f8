package models

// Status tracks where a checkout session (or an upsell/downsell sub-session)
// is in its lifecycle.
type Status string

const (
	StatusInitial         Status = "initial"
	StatusPendingData     Status = "pending_data"
	StatusRequiresPayment Status = "requires_payment"
	StatusProcessing      Status = "processing"
	StatusConcluded       Status = "concluded"
)

func (s Status) String() string {
	return string(s)
}

// Gateway payment-intent statuses this backend reacts to.
const (
	IntentSucceeded  = "succeeded"
	IntentProcessing = "processing"
)

// StatusFromIntent maps a gateway payment-intent status to a session status.
// Every place that turns a polled or delivered gateway status into a session
// status must go through this function; sale registration, upsell
// confirmation and the webhook path all share it.
func StatusFromIntent(intentStatus string) Status {
	switch intentStatus {
	case IntentSucceeded:
		return StatusConcluded
	case IntentProcessing:
		return StatusProcessing
	default:
		return StatusRequiresPayment
	}
}
