package domain

// RequestMeta identifies the request an intercepted error belongs to.
// It is attached to diagnostic records so an operator can correlate the log entry with the client report.
type RequestMeta struct {
	// RequestID is the value of the X-Request-Id header sent back to the client.
	RequestID string

	// Method is the HTTP method of the request.
	Method string

	// Path is the URL path of the request.
	Path string
}
