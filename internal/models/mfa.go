package models

// MFASetupBody initiates MFA enrollment. Password re-check is required
// unless the caller holds a restricted MFA login token (first setup during
// a forced-MFA login flow).
type MFASetupBody struct {
	Password string `json:"password" validate:"omitempty,max=128"`
}

// MFASetupResponse is returned when enrollment starts. The secret is shown
// exactly once; it is not considered active until confirmed.
type MFASetupResponse struct {
	Secret         string   `json:"secret"`
	ManualEntryKey string   `json:"manual_entry_key"`
	QRCodeURI      string   `json:"qr_code_uri"`
	Issuer         string   `json:"issuer"`
	BackupCodes    []string `json:"backup_codes"`
}

// MFAConfirmBody verifies possession of the authenticator and enables MFA.
type MFAConfirmBody struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// MFALoginVerifyBody is used to complete an MFA-gated login with either a
// TOTP code or a single-use backup code.
type MFALoginVerifyBody struct {
	MFAToken   string `json:"mfa_token"   validate:"required,max=2048"`
	Code       string `json:"code"        validate:"omitempty,max=16"`
	BackupCode string `json:"backup_code" validate:"omitempty,max=16"`
}

// MFADisableBody turns MFA off. Password is mandatory; a TOTP code, when
// supplied, must also verify.
type MFADisableBody struct {
	Password string `json:"password" validate:"required,max=128"`
	Code     string `json:"code"     validate:"omitempty,len=6,numeric"`
}

// MFARegenerateBody replaces the whole backup-code set.
type MFARegenerateBody struct {
	Password string `json:"password" validate:"required,max=128"`
}

type MFARegenerateResponse struct {
	BackupCodes []string `json:"backup_codes"`
}

// MFAStatusResponse reports enrollment state without exposing secrets.
type MFAStatusResponse struct {
	State                MFAState `json:"state"`
	Enabled              bool     `json:"enabled"`
	BackupCodesRemaining int      `json:"backup_codes_remaining"`
	BackupCodesLow       bool     `json:"backup_codes_low"`
}
