package mfa

import (
	"testing"

	"api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storageTestKey = []byte("01234567890123456789012345678901")

func TestEnrollmentStorage(t *testing.T) {
	t.Run("should round-trip an enabled enrollment through the user columns", func(t *testing.T) {
		user := models.User{}
		enrollment := Enrollment{
			State:       models.MFAStateEnabled,
			Secret:      "JBSWY3DPEHPK3PXP",
			BackupCodes: []string{"AAAA1111", "BBBB2222"},
		}

		updates, err := ApplyEnrollment(&user, enrollment, storageTestKey)
		require.NoError(t, err)

		assert.Equal(t, models.MFAStateEnabled, updates["mfa_state"])
		assert.Equal(t, true, updates["mfa_enabled"])
		assert.NotContains(t, updates["encrypted_mfa_secret"], "JBSWY3DPEHPK3PXP")

		user.EncryptedMFASecret = updates["encrypted_mfa_secret"].(string)
		user.EncryptedBackupCodes = updates["encrypted_backup_codes"].(string)

		loaded, err := LoadEnrollment(&user, storageTestKey)
		require.NoError(t, err)
		assert.Equal(t, enrollment.Secret, loaded.Secret)
		assert.Equal(t, enrollment.BackupCodes, loaded.BackupCodes)
		assert.Equal(t, models.MFAStateEnabled, loaded.State)
	})

	t.Run("should clear all columns when disabling", func(t *testing.T) {
		user := models.User{
			MFAState:   models.MFAStateEnabled,
			MFAEnabled: true,
		}

		updates, err := ApplyEnrollment(&user, NewEnrollment(), storageTestKey)
		require.NoError(t, err)

		assert.Equal(t, models.MFAStateDisabled, updates["mfa_state"])
		assert.Equal(t, false, updates["mfa_enabled"])
		assert.Equal(t, "", updates["encrypted_mfa_secret"])
		assert.Equal(t, "", updates["encrypted_backup_codes"])
		assert.Nil(t, updates["mfa_confirmed_at"])
		assert.False(t, user.MFAEnabled)
	})

	t.Run("should stamp the confirmation time on first enable only", func(t *testing.T) {
		user := models.User{MFAState: models.MFAStateSetupPending}
		enrollment := Enrollment{
			State:       models.MFAStateEnabled,
			Secret:      "JBSWY3DPEHPK3PXP",
			BackupCodes: []string{"AAAA1111"},
		}

		updates, err := ApplyEnrollment(&user, enrollment, storageTestKey)
		require.NoError(t, err)
		assert.NotNil(t, updates["mfa_confirmed_at"])

		// Already enabled: no fresh stamp.
		updates, err = ApplyEnrollment(&user, enrollment, storageTestKey)
		require.NoError(t, err)
		assert.NotContains(t, updates, "mfa_confirmed_at")
	})

	t.Run("should load a disabled user without touching ciphertext", func(t *testing.T) {
		user := models.User{
			MFAState:           models.MFAStateDisabled,
			EncryptedMFASecret: "not-even-valid-ciphertext",
		}

		loaded, err := LoadEnrollment(&user, storageTestKey)

		require.NoError(t, err)
		assert.Equal(t, models.MFAStateDisabled, loaded.State)
		assert.Empty(t, loaded.Secret)
	})

	t.Run("should fail to load with the wrong key", func(t *testing.T) {
		user := models.User{}
		enrollment := Enrollment{
			State:  models.MFAStateEnabled,
			Secret: "JBSWY3DPEHPK3PXP",
		}
		updates, err := ApplyEnrollment(&user, enrollment, storageTestKey)
		require.NoError(t, err)
		user.EncryptedMFASecret = updates["encrypted_mfa_secret"].(string)
		user.EncryptedBackupCodes = updates["encrypted_backup_codes"].(string)

		_, err = LoadEnrollment(&user, []byte("10987654321098765432109876543210"))

		assert.Error(t, err)
	})
}
