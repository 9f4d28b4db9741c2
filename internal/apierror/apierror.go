// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Discrepancias is returned when finalizing an audit that still has lines
// whose received quantity does not match the ordered quantity (or lines
// flagged Agotado) and the operator has not confirmed yet.
type Discrepancias struct {
	Detail string `json:"detail"`
	Count  int    `json:"discrepancias"`
}

func NewDiscrepancias(msg string, count int) *Discrepancias {
	return &Discrepancias{Detail: msg, Count: count}
}
