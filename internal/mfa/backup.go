package mfa

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateBackupCodes draws count uppercase hexadecimal recovery codes of
// the given length from the secure random source. Codes are independently
// drawn; duplicates are permitted but vanishingly improbable.
func GenerateBackupCodes(count int, length int) ([]string, error) {
	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		buf := make([]byte, (length+1)/2)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProvisioning, err)
		}
		code := strings.ToUpper(hex.EncodeToString(buf))[:length]
		codes = append(codes, code)
	}
	return codes, nil
}

// VerifyBackupCode checks the candidate against the stored set. On a hit it
// returns true plus a new set with that single occurrence removed (first
// match only, tolerating accidental duplicates); on a miss it returns false
// and the set unchanged. The caller must persist the remaining set under
// the per-account lock so one code can never be spent twice.
func VerifyBackupCode(candidate string, codes []string) (bool, []string) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(candidate), " ", ""))
	if normalized == "" {
		return false, codes
	}

	for i, code := range codes {
		if code == normalized {
			remaining := make([]string, 0, len(codes)-1)
			remaining = append(remaining, codes[:i]...)
			remaining = append(remaining, codes[i+1:]...)
			return true, remaining
		}
	}
	return false, codes
}

// HasSufficientBackupCodes is the pure threshold check behind the
// "running low" warning. It never regenerates anything.
func HasSufficientBackupCodes(codes []string, threshold int) bool {
	return len(codes) >= threshold
}
