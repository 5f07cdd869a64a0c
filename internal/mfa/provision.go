package mfa

import (
	"fmt"
	"strings"

	"github.com/pquerna/otp/totp"
)

// secretSizeBytes is the entropy of a freshly provisioned shared secret.
// 32 bytes (256 bits) clears the RFC 4226 recommendation of 160 bits.
const secretSizeBytes = 32

// Provisioned holds a freshly generated shared secret and its enrollment
// payload. The secret must not be considered active until the lifecycle
// confirms it.
type Provisioned struct {
	Secret         string // Base32-encoded secret
	ManualEntryKey string // Secret grouped for manual entry
	URI            string // otpauth:// URL for QR code generation
}

// Provision generates a new TOTP secret for the given account label.
// The returned URI can be rendered as a QR code by an external collaborator.
func Provision(accountLabel string, issuer string) (Provisioned, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountLabel,
		SecretSize:  secretSizeBytes,
	})
	if err != nil {
		return Provisioned{}, fmt.Errorf("%w: %w", ErrProvisioning, err)
	}

	return Provisioned{
		Secret:         key.Secret(),
		ManualEntryKey: groupForManualEntry(key.Secret()),
		URI:            key.URL(),
	}, nil
}

// groupForManualEntry splits a base32 secret into 4-character groups, the
// way authenticator apps display keys for hand entry.
func groupForManualEntry(secret string) string {
	var groups []string
	for len(secret) > 4 {
		groups = append(groups, secret[:4])
		secret = secret[4:]
	}
	groups = append(groups, secret)
	return strings.Join(groups, " ")
}
