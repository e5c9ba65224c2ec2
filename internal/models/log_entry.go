package models

// RequestInfo captures the context of an HTTP request for logging.
type RequestInfo struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	RemoteAddr string `json:"remote_addr"`
	UserAgent  string `json:"user_agent"`
}

// ErrorInfo captures structured error details for logging.
type ErrorInfo struct {
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`        // e.g. "database_error", "validation_error"
	StatusCode int    `json:"status_code,omitempty"` // Related HTTP status, when applicable
}
