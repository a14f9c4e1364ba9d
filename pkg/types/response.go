package types

// SuccessEnvelope is the body of every successful response. The payload, such
// as a contract view or a page of supply attempts, sits under a single data
// key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire form of a request failure. Details carries structured
// context, such as the per-product rejection reasons of a batch import, and
// is only present for codes that allow it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
