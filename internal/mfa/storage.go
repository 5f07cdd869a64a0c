package mfa

import (
	"encoding/json"
	"time"

	h "api/internal/helpers"
	"api/internal/models"
)

// LoadEnrollment decrypts a user's MFA columns into an Enrollment.
func LoadEnrollment(user *models.User, encryptionKey []byte) (Enrollment, error) {
	e := Enrollment{State: user.MFAState}
	if e.State == "" {
		e.State = models.MFAStateDisabled
	}
	if e.State == models.MFAStateDisabled {
		return e, nil
	}

	secret, err := h.DecryptSecret(user.EncryptedMFASecret, encryptionKey)
	if err != nil {
		return Enrollment{}, err
	}
	e.Secret = secret

	if user.EncryptedBackupCodes != "" {
		serialized, err := h.DecryptSecret(user.EncryptedBackupCodes, encryptionKey)
		if err != nil {
			return Enrollment{}, err
		}
		if err = json.Unmarshal([]byte(serialized), &e.BackupCodes); err != nil {
			return Enrollment{}, err
		}
	}
	return e, nil
}

// ApplyEnrollment writes an Enrollment back onto the user model as a single
// coherent set of column values. Callers persist the returned map in one
// UPDATE inside the transaction that loaded the row, so the enrollment
// never half-applies.
func ApplyEnrollment(user *models.User, e Enrollment, encryptionKey []byte) (map[string]any, error) {
	enabled := e.State == models.MFAStateEnabled

	updates := map[string]any{
		"mfa_state":    e.State,
		"mfa_enabled":  enabled,
		"mfa_verified": enabled,
	}

	if e.State == models.MFAStateDisabled {
		updates["encrypted_mfa_secret"] = ""
		updates["encrypted_backup_codes"] = ""
		updates["mfa_confirmed_at"] = nil
	} else {
		encryptedSecret, err := h.EncryptSecret(e.Secret, encryptionKey)
		if err != nil {
			return nil, err
		}
		serialized, err := json.Marshal(e.BackupCodes)
		if err != nil {
			return nil, err
		}
		encryptedCodes, err := h.EncryptSecret(string(serialized), encryptionKey)
		if err != nil {
			return nil, err
		}
		updates["encrypted_mfa_secret"] = encryptedSecret
		updates["encrypted_backup_codes"] = encryptedCodes
	}

	if enabled && !user.MFAEnabled {
		now := time.Now()
		updates["mfa_confirmed_at"] = &now
	}

	user.MFAState = e.State
	user.MFAEnabled = enabled
	user.MFAVerified = enabled
	return updates, nil
}
