package audit

import "time"

// Action names for emitted events.
const (
	ActionReportGenerated     = "report_generated"
	ActionAdminStatusChanged  = "admin_status_changed"
	ActionVerifyStatusChanged = "verify_status_changed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Subject   string    `json:"subject"`
	Action    string    `json:"action"`
	Category  string    `json:"category,omitempty"`
	Format    string    `json:"format,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}
