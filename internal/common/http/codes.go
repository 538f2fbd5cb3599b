package http

// Envelope codes for failures raised by the HTTP plumbing itself rather than
// by a domain error.
const (
	CodeInternal        = "INTERNAL_ERROR"
	CodeRequestTooLarge = "REQUEST_TOO_LARGE"
)
