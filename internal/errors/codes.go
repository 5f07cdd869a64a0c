package apierrors

// HTTP 400 Bad Request.
const (
	ErrPolicyViolation  = "PASSWORD_POLICY_VIOLATION"
	ErrInvalidFormat    = "INVALID_CODE_FORMAT"
	ErrMFANotEnabled    = "MFA_NOT_ENABLED"
	ErrMFANotPending    = "MFA_SETUP_NOT_PENDING"
	ErrMFAAlreadySetUp  = "MFA_ALREADY_ENABLED"
	ErrEmailTaken       = "EMAIL_ALREADY_REGISTERED"
)

// HTTP 401 Unauthorized.
const (
	ErrInvalidPassword   = "INVALID_PASSWORD"
	ErrInvalidMFACode    = "INVALID_MFA_CODE"
	ErrInvalidBackupCode = "INVALID_MFA_CODE" // deliberately the same code: no oracle
	ErrInvalidMFAToken   = "INVALID_MFA_TOKEN"
)

// HTTP 429 Too Many Requests.
const (
	ErrMFARateLimited = "MFA_RATE_LIMITED"
)

// HTTP 500 Internal Server Error.
const (
	ErrMFASetupFailed        = "MFA_SETUP_FAILED"
	ErrMFAVerificationFailed = "MFA_VERIFICATION_FAILED"
)
