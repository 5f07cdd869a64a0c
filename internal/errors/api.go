package apierrors

import "fmt"

// APIError carries an HTTP status and a stable machine-readable code.
// Services return it; the handler layer turns it into the JSON error body.
// Details holds optional human-readable specifics, like the list of
// password policy violations.
type APIError struct {
	Code    int
	Message string
	Details []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func NewAPIError(code int, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func NewAPIErrorWithDetails(code int, message string, details []string) *APIError {
	return &APIError{Code: code, Message: message, Details: details}
}

var (
	ErrGenerateAccessTokenFailed  = NewAPIError(500, "ACCESS_TOKEN_GENERATION_FAILED")
	ErrGenerateRefreshTokenFailed = NewAPIError(500, "REFRESH_TOKEN_GENERATION_FAILED")
)
