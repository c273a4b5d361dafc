package log

// Canonical field names used across the module's log entries.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldURL       = "url"
	FieldEndpoint  = "endpoint"
	FieldStatus    = "status_code"
	FieldDuration  = "duration"
	FieldErrorType = "error_type"
)
