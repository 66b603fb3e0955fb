package dto

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the JSON shape of every API response, including errors raised by middleware.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorEnvelope wraps a message in an error envelope.
func ErrorEnvelope(message string) Envelope {
	return Envelope{Status: StatusError, Message: message}
}
