package mfa

import (
	"testing"

	"api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLifecycle() Lifecycle {
	l := NewLifecycle()
	l.ComparePassword = func(candidate string, storedHash string) (bool, error) {
		return candidate == "correct-password" && storedHash == "stored-hash", nil
	}
	return l
}

func TestNewLifecycleFromConfig(t *testing.T) {
	cfg := models.AuthConfig{
		TOTPStepSeconds:  60,
		TOTPLoginWindow:  1,
		TOTPSetupWindow:  0,
		BackupCodeCount:  6,
		BackupCodeLength: 10,
	}

	lifecycle := NewLifecycleFromConfig(cfg)

	t.Run("should carry the tuned verification windows", func(t *testing.T) {
		assert.Equal(t, VerifyOpts{WindowSteps: 1, StepSeconds: 60}, lifecycle.LoginWindow)
		assert.Equal(t, VerifyOpts{WindowSteps: 0, StepSeconds: 60}, lifecycle.SetupWindow)
	})

	t.Run("should issue backup codes with the tuned count and length", func(t *testing.T) {
		enrollment := NewEnrollment()

		_, err := lifecycle.BeginSetup(&enrollment, "rep@dealdesk.example")

		require.NoError(t, err)
		require.Len(t, enrollment.BackupCodes, 6)
		for _, code := range enrollment.BackupCodes {
			assert.Len(t, code, 10)
		}
	})
}

func TestLifecycle_BeginSetup(t *testing.T) {
	t.Run("should move a disabled enrollment to pending with secret and codes", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := NewEnrollment()

		provisioned, err := lifecycle.BeginSetup(&enrollment, "rep@dealdesk.example")

		require.NoError(t, err)
		assert.Equal(t, models.MFAStateSetupPending, enrollment.State)
		assert.Equal(t, provisioned.Secret, enrollment.Secret)
		assert.Len(t, enrollment.BackupCodes, 10)
	})

	t.Run("should overwrite the secret when setup restarts", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := NewEnrollment()

		_, err := lifecycle.BeginSetup(&enrollment, "rep@dealdesk.example")
		require.NoError(t, err)
		firstSecret := enrollment.Secret
		firstCodes := enrollment.BackupCodes

		_, err = lifecycle.BeginSetup(&enrollment, "rep@dealdesk.example")
		require.NoError(t, err)

		assert.Equal(t, models.MFAStateSetupPending, enrollment.State)
		assert.NotEqual(t, firstSecret, enrollment.Secret)
		assert.NotEqual(t, firstCodes, enrollment.BackupCodes)
	})

	t.Run("should refuse to restart setup while enabled", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := enabledEnrollment(t, lifecycle)
		secret := enrollment.Secret

		_, err := lifecycle.BeginSetup(&enrollment, "rep@dealdesk.example")

		assert.ErrorIs(t, err, ErrAlreadyEnabled)
		assert.Equal(t, models.MFAStateEnabled, enrollment.State)
		assert.Equal(t, secret, enrollment.Secret)
	})
}

// enabledEnrollment walks a fresh enrollment through setup and confirmation.
func enabledEnrollment(t *testing.T, lifecycle Lifecycle) Enrollment {
	t.Helper()
	enrollment := NewEnrollment()

	_, err := lifecycle.BeginSetup(&enrollment, "rep@dealdesk.example")
	require.NoError(t, err)

	code, err := CurrentCode(enrollment.Secret)
	require.NoError(t, err)
	require.NoError(t, lifecycle.ConfirmSetup(&enrollment, code))
	return enrollment
}

func TestLifecycle_ConfirmSetup(t *testing.T) {
	t.Run("should enable on the correct code", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := NewEnrollment()
		_, err := lifecycle.BeginSetup(&enrollment, "rep@dealdesk.example")
		require.NoError(t, err)

		code, err := CurrentCode(enrollment.Secret)
		require.NoError(t, err)

		require.NoError(t, lifecycle.ConfirmSetup(&enrollment, code))
		assert.Equal(t, models.MFAStateEnabled, enrollment.State)
		assert.Len(t, enrollment.BackupCodes, 10)
	})

	t.Run("should stay pending on a wrong code", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := NewEnrollment()
		_, err := lifecycle.BeginSetup(&enrollment, "rep@dealdesk.example")
		require.NoError(t, err)
		secret := enrollment.Secret

		err = lifecycle.ConfirmSetup(&enrollment, "000000")

		assert.ErrorIs(t, err, ErrInvalidCode)
		assert.Equal(t, models.MFAStateSetupPending, enrollment.State)
		assert.Equal(t, secret, enrollment.Secret, "failed confirmation must not clear the pending secret")
	})

	t.Run("should reject confirmation without a pending setup", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := NewEnrollment()

		err := lifecycle.ConfirmSetup(&enrollment, "123456")

		assert.ErrorIs(t, err, ErrNotEnrolled)
	})

	t.Run("should reject malformed codes", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := NewEnrollment()
		_, err := lifecycle.BeginSetup(&enrollment, "rep@dealdesk.example")
		require.NoError(t, err)

		err = lifecycle.ConfirmSetup(&enrollment, "12 34")

		assert.ErrorIs(t, err, ErrInvalidFormat)
		assert.Equal(t, models.MFAStateSetupPending, enrollment.State)
	})
}

func TestLifecycle_VerifyLogin(t *testing.T) {
	t.Run("should verify a current code while enabled", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := enabledEnrollment(t, lifecycle)

		code, err := CurrentCode(enrollment.Secret)
		require.NoError(t, err)

		assert.NoError(t, lifecycle.VerifyLogin(&enrollment, code))
	})

	t.Run("should reject login verification while disabled", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := NewEnrollment()

		assert.ErrorIs(t, lifecycle.VerifyLogin(&enrollment, "123456"), ErrNotEnrolled)
	})

	t.Run("should reject login verification while setup is pending", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := NewEnrollment()
		_, err := lifecycle.BeginSetup(&enrollment, "rep@dealdesk.example")
		require.NoError(t, err)

		code, err := CurrentCode(enrollment.Secret)
		require.NoError(t, err)

		assert.ErrorIs(t, lifecycle.VerifyLogin(&enrollment, code), ErrNotEnrolled)
	})

	t.Run("should consume exactly one backup code per login", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := enabledEnrollment(t, lifecycle)
		spent := enrollment.BackupCodes[0]

		require.NoError(t, lifecycle.VerifyLoginBackupCode(&enrollment, spent))
		assert.Len(t, enrollment.BackupCodes, 9)

		err := lifecycle.VerifyLoginBackupCode(&enrollment, spent)
		assert.ErrorIs(t, err, ErrInvalidCode)
		assert.Len(t, enrollment.BackupCodes, 9)
	})
}

func TestLifecycle_Disable(t *testing.T) {
	t.Run("should clear everything on the correct password", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := enabledEnrollment(t, lifecycle)

		err := lifecycle.Disable(&enrollment, "correct-password", "stored-hash", "")

		require.NoError(t, err)
		assert.Equal(t, models.MFAStateDisabled, enrollment.State)
		assert.Empty(t, enrollment.Secret)
		assert.Empty(t, enrollment.BackupCodes)
	})

	t.Run("should keep MFA enabled on a wrong password", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := enabledEnrollment(t, lifecycle)

		err := lifecycle.Disable(&enrollment, "wrong-password", "stored-hash", "")

		assert.ErrorIs(t, err, ErrNotAuthorized)
		assert.Equal(t, models.MFAStateEnabled, enrollment.State)
		assert.NotEmpty(t, enrollment.Secret)
	})

	t.Run("should verify the optional code when supplied", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := enabledEnrollment(t, lifecycle)

		err := lifecycle.Disable(&enrollment, "correct-password", "stored-hash", "000000")

		assert.ErrorIs(t, err, ErrInvalidCode)
		assert.Equal(t, models.MFAStateEnabled, enrollment.State)
	})

	t.Run("should reject disabling while not enabled", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := NewEnrollment()

		err := lifecycle.Disable(&enrollment, "correct-password", "stored-hash", "")

		assert.ErrorIs(t, err, ErrNotEnrolled)
	})
}

func TestLifecycle_RegenerateBackupCodes(t *testing.T) {
	t.Run("should replace the whole set", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := enabledEnrollment(t, lifecycle)
		oldCodes := enrollment.BackupCodes

		codes, err := lifecycle.RegenerateBackupCodes(&enrollment, "correct-password", "stored-hash")

		require.NoError(t, err)
		assert.Len(t, codes, 10)
		assert.Equal(t, codes, enrollment.BackupCodes)
		assert.NotEqual(t, oldCodes, codes)

		// An old code no longer verifies.
		err = lifecycle.VerifyLoginBackupCode(&enrollment, oldCodes[0])
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("should require the correct password", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := enabledEnrollment(t, lifecycle)
		oldCodes := enrollment.BackupCodes

		_, err := lifecycle.RegenerateBackupCodes(&enrollment, "wrong-password", "stored-hash")

		assert.ErrorIs(t, err, ErrNotAuthorized)
		assert.Equal(t, oldCodes, enrollment.BackupCodes)
	})

	t.Run("should reject regeneration while not enabled", func(t *testing.T) {
		lifecycle := testLifecycle()
		enrollment := NewEnrollment()

		_, err := lifecycle.RegenerateBackupCodes(&enrollment, "correct-password", "stored-hash")

		assert.ErrorIs(t, err, ErrNotEnrolled)
	})
}
