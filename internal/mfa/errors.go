package mfa

import "errors"

// Expected failure modes are typed so callers branch on kind, never on
// message text. Only the provisioning error wraps an underlying cause.
var (
	// ErrProvisioning means the random source or URI encoding failed.
	// Fatal to the setup attempt, safe to retry.
	ErrProvisioning = errors.New("mfa: secret provisioning failed")

	// ErrInvalidFormat means the submitted code is not exactly six ASCII
	// digits. No cryptographic comparison was attempted.
	ErrInvalidFormat = errors.New("mfa: code must be exactly 6 digits")

	// ErrInvalidCode covers every verification mismatch, TOTP and backup
	// code alike. Wrong and expired codes are indistinguishable to callers.
	ErrInvalidCode = errors.New("mfa: code verification failed")

	// ErrNotEnrolled means the operation requires an enrollment state the
	// account is not in.
	ErrNotEnrolled = errors.New("mfa: account is not in the required enrollment state")

	// ErrAlreadyEnabled rejects starting a new setup while MFA is active.
	ErrAlreadyEnabled = errors.New("mfa: already enabled")

	// ErrNotAuthorized means the password re-check failed before a
	// sensitive mutation.
	ErrNotAuthorized = errors.New("mfa: password verification failed")
)
