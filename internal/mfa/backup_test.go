package mfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBackupCodes(t *testing.T) {
	t.Run("should generate the requested number of codes", func(t *testing.T) {
		codes, err := GenerateBackupCodes(10, 8)

		require.NoError(t, err)
		assert.Len(t, codes, 10)
	})

	t.Run("should generate uppercase hex codes of the requested length", func(t *testing.T) {
		codes, err := GenerateBackupCodes(5, 8)

		require.NoError(t, err)
		for _, code := range codes {
			assert.Len(t, code, 8)
			for _, char := range code {
				isHex := (char >= '0' && char <= '9') || (char >= 'A' && char <= 'F')
				assert.True(t, isHex, "code %q contains non-hex char %c", code, char)
			}
		}
	})

	t.Run("should support odd lengths", func(t *testing.T) {
		codes, err := GenerateBackupCodes(3, 7)

		require.NoError(t, err)
		for _, code := range codes {
			assert.Len(t, code, 7)
		}
	})
}

func TestVerifyBackupCode(t *testing.T) {
	t.Run("should consume exactly one code on a match", func(t *testing.T) {
		codes := []string{"AAAA1111", "BBBB2222", "CCCC3333"}

		ok, remaining := VerifyBackupCode("BBBB2222", codes)

		assert.True(t, ok)
		assert.Equal(t, []string{"AAAA1111", "CCCC3333"}, remaining)
	})

	t.Run("should leave the set unchanged on a miss", func(t *testing.T) {
		codes := []string{"AAAA1111", "BBBB2222"}

		ok, remaining := VerifyBackupCode("DDDD4444", codes)

		assert.False(t, ok)
		assert.Equal(t, codes, remaining)
	})

	t.Run("should reject an already consumed code", func(t *testing.T) {
		codes := []string{"AAAA1111", "BBBB2222"}

		ok, remaining := VerifyBackupCode("AAAA1111", codes)
		require.True(t, ok)

		ok, _ = VerifyBackupCode("AAAA1111", remaining)
		assert.False(t, ok)
	})

	t.Run("should remove only the first occurrence of a duplicate", func(t *testing.T) {
		codes := []string{"AAAA1111", "AAAA1111", "BBBB2222"}

		ok, remaining := VerifyBackupCode("AAAA1111", codes)

		assert.True(t, ok)
		assert.Equal(t, []string{"AAAA1111", "BBBB2222"}, remaining)
	})

	t.Run("should normalize case and whitespace", func(t *testing.T) {
		codes := []string{"AAAA1111"}

		ok, remaining := VerifyBackupCode("  aaaa 1111 ", codes)

		assert.True(t, ok)
		assert.Empty(t, remaining)
	})

	t.Run("should reject the empty candidate", func(t *testing.T) {
		codes := []string{"AAAA1111"}

		ok, remaining := VerifyBackupCode("   ", codes)

		assert.False(t, ok)
		assert.Equal(t, codes, remaining)
	})

	t.Run("should miss against an empty set", func(t *testing.T) {
		ok, remaining := VerifyBackupCode("AAAA1111", nil)

		assert.False(t, ok)
		assert.Empty(t, remaining)
	})
}

func TestHasSufficientBackupCodes(t *testing.T) {
	assert.True(t, HasSufficientBackupCodes([]string{"A", "B", "C"}, 3))
	assert.False(t, HasSufficientBackupCodes([]string{"A", "B"}, 3))
	assert.True(t, HasSufficientBackupCodes(nil, 0))
}
