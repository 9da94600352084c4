package responses

// Envelope wraps every successful payload as {"data": ...}.
type Envelope struct {
	Data any `json:"data"`
}

// ErrorBody is the public shape of a failed request.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// requestIDHeader mirrors the header stamped by the request id middleware.
const requestIDHeader = "X-Request-Id"
