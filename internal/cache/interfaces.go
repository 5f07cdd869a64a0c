package cache

type ICache interface {
	GetRateLimit(userIdentifier string, requestsPerMinute int) (int, error)

	// IsTOTPCodeUsed checks if a TOTP code has already been accepted for a user.
	IsTOTPCodeUsed(userID string, code string) (bool, error)
	// MarkTOTPCodeUsed marks a TOTP code as used for a user.
	// Uses configuration.TOTPCodeTTL constant for TTL.
	MarkTOTPCodeUsed(userID string, code string) error

	// GetMFAAttempts returns the current number of failed MFA attempts for a user.
	GetMFAAttempts(userID string) (int, error)
	// IncrementMFAAttempts increments failed MFA attempts and sets lockout TTL.
	// Uses configuration.MFALockoutSeconds constant for lockout duration.
	IncrementMFAAttempts(userID string) error
	// ResetMFAAttempts clears the failed attempts counter (called on successful verification).
	ResetMFAAttempts(userID string) error

	Close() error
}
