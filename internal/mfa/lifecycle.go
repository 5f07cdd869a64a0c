package mfa

import (
	"api/internal/configuration"
	"api/internal/models"

	"github.com/alexedwards/argon2id"
)

// Enrollment is the in-memory view of one account's MFA state. The state
// enum replaces nullable-field checks: a secret exists exactly when the
// state says so, and the lifecycle clears it when returning to Disabled.
type Enrollment struct {
	State       models.MFAState
	Secret      string
	BackupCodes []string
}

// NewEnrollment returns the empty Disabled enrollment every account starts with.
func NewEnrollment() Enrollment {
	return Enrollment{State: models.MFAStateDisabled}
}

// Lifecycle drives the Disabled → SetupPending → Enabled state machine.
// It mutates only the Enrollment passed in; persisting the result under a
// per-account lock is the caller's job, and every transition either applies
// all of its field changes or none of them.
type Lifecycle struct {
	Issuer           string
	BackupCodeCount  int
	BackupCodeLength int

	// LoginWindow bounds login-time code acceptance; SetupWindow is the
	// narrower bound used when confirming a new enrollment.
	LoginWindow VerifyOpts
	SetupWindow VerifyOpts

	// ComparePassword re-checks the account password before sensitive
	// mutations. Defaults to argon2id hash comparison.
	ComparePassword func(candidate string, storedHash string) (bool, error)
}

// NewLifecycle returns a lifecycle with the application defaults.
func NewLifecycle() Lifecycle {
	return Lifecycle{
		Issuer:           configuration.AppName,
		BackupCodeCount:  configuration.BackupCodeCount,
		BackupCodeLength: configuration.BackupCodeLength,
		LoginWindow:      LoginVerifyOpts(),
		SetupWindow:      SetupVerifyOpts(),
		ComparePassword:  argon2id.ComparePasswordAndHash,
	}
}

// NewLifecycleFromConfig returns a lifecycle with the deployment's tuned
// windows and backup-code shape instead of the compile-time defaults.
func NewLifecycleFromConfig(cfg models.AuthConfig) Lifecycle {
	lifecycle := NewLifecycle()
	lifecycle.BackupCodeCount = cfg.BackupCodeCount
	lifecycle.BackupCodeLength = cfg.BackupCodeLength
	lifecycle.LoginWindow = VerifyOpts{
		WindowSteps: cfg.TOTPLoginWindow,
		StepSeconds: cfg.TOTPStepSeconds,
	}
	lifecycle.SetupWindow = VerifyOpts{
		WindowSteps: cfg.TOTPSetupWindow,
		StepSeconds: cfg.TOTPStepSeconds,
	}
	return lifecycle
}

// BeginSetup provisions a fresh secret and backup-code set and moves the
// enrollment to SetupPending. Restarting while SetupPending overwrites the
// previous unconfirmed secret, so a stale intercepted QR payload can never
// be confirmed later. Starting over while Enabled is rejected.
func (l Lifecycle) BeginSetup(e *Enrollment, accountLabel string) (Provisioned, error) {
	if e.State == models.MFAStateEnabled {
		return Provisioned{}, ErrAlreadyEnabled
	}

	provisioned, err := Provision(accountLabel, l.Issuer)
	if err != nil {
		return Provisioned{}, err
	}

	codes, err := GenerateBackupCodes(l.BackupCodeCount, l.BackupCodeLength)
	if err != nil {
		return Provisioned{}, err
	}

	e.State = models.MFAStateSetupPending
	e.Secret = provisioned.Secret
	e.BackupCodes = codes
	return provisioned, nil
}

// ConfirmSetup proves possession of the authenticator with the narrow
// setup window and enables MFA. On a wrong code the enrollment is left in
// SetupPending untouched.
func (l Lifecycle) ConfirmSetup(e *Enrollment, code string) error {
	if e.State != models.MFAStateSetupPending || e.Secret == "" {
		return ErrNotEnrolled
	}

	if err := VerifyCode(code, e.Secret, l.SetupWindow); err != nil {
		return err
	}

	e.State = models.MFAStateEnabled
	return nil
}

// VerifyLogin checks a login-time TOTP code against the steady-state window.
func (l Lifecycle) VerifyLogin(e *Enrollment, code string) error {
	if e.State != models.MFAStateEnabled {
		return ErrNotEnrolled
	}
	return VerifyCode(code, e.Secret, l.LoginWindow)
}

// VerifyLoginBackupCode consumes a single-use recovery code. On success the
// enrollment's code set shrinks by exactly one occurrence; the caller must
// persist it atomically with the verification.
func (l Lifecycle) VerifyLoginBackupCode(e *Enrollment, candidate string) error {
	if e.State != models.MFAStateEnabled {
		return ErrNotEnrolled
	}

	ok, remaining := VerifyBackupCode(candidate, e.BackupCodes)
	if !ok {
		return ErrInvalidCode
	}
	e.BackupCodes = remaining
	return nil
}

// Disable turns MFA off after a successful password re-check. If a TOTP
// code is supplied it must verify too. Clears the secret and every backup
// code; the terminal state is Disabled, never SetupPending.
func (l Lifecycle) Disable(e *Enrollment, password string, storedHash string, code string) error {
	if e.State != models.MFAStateEnabled {
		return ErrNotEnrolled
	}

	match, err := l.ComparePassword(password, storedHash)
	if err != nil || !match {
		return ErrNotAuthorized
	}

	if code != "" {
		if err := VerifyCode(code, e.Secret, l.LoginWindow); err != nil {
			return err
		}
	}

	e.State = models.MFAStateDisabled
	e.Secret = ""
	e.BackupCodes = nil
	return nil
}

// RegenerateBackupCodes replaces the whole recovery set after a password
// re-check. Every previously issued code is invalid the moment the new set
// is persisted.
func (l Lifecycle) RegenerateBackupCodes(e *Enrollment, password string, storedHash string) ([]string, error) {
	if e.State != models.MFAStateEnabled {
		return nil, ErrNotEnrolled
	}

	match, err := l.ComparePassword(password, storedHash)
	if err != nil || !match {
		return nil, ErrNotAuthorized
	}

	codes, err := GenerateBackupCodes(l.BackupCodeCount, l.BackupCodeLength)
	if err != nil {
		return nil, err
	}
	e.BackupCodes = codes
	return codes, nil
}
