package mfa

import (
	"strings"
	"time"

	"api/internal/configuration"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// VerifyOpts bounds the time-step window a code is accepted in.
type VerifyOpts struct {
	// WindowSteps is the number of adjacent steps accepted either side of
	// the current one, to absorb clock drift.
	WindowSteps int
	// StepSeconds is the RFC 6238 time-step length.
	StepSeconds int
}

// LoginVerifyOpts is the steady-state window (±2 steps, i.e. ±60s).
func LoginVerifyOpts() VerifyOpts {
	return VerifyOpts{
		WindowSteps: configuration.TOTPLoginWindowSteps,
		StepSeconds: configuration.TOTPStepSeconds,
	}
}

// SetupVerifyOpts is the narrower window used when confirming a new
// enrollment, to reduce replay tolerance.
func SetupVerifyOpts() VerifyOpts {
	return VerifyOpts{
		WindowSteps: configuration.TOTPSetupWindowSteps,
		StepSeconds: configuration.TOTPStepSeconds,
	}
}

// NormalizeCode strips whitespace and requires exactly six ASCII digits.
// Anything else fails fast before any cryptographic comparison. Callers
// recording a code anywhere (replay marks, logs) must record this form,
// not the raw input, so "123 456" and "123456" are the same code.
func NormalizeCode(code string) (string, error) {
	code = strings.ReplaceAll(strings.TrimSpace(code), " ", "")
	if len(code) != 6 {
		return "", ErrInvalidFormat
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", ErrInvalidFormat
		}
	}
	return code, nil
}

// VerifyCode validates a 6-digit TOTP code against the secret within the
// configured window. A match at any step in the window returns nil; the
// offset that matched is never revealed.
func VerifyCode(code string, secret string, opts VerifyOpts) error {
	return VerifyCodeAt(code, secret, time.Now().UTC(), opts)
}

// VerifyCodeAt is VerifyCode with an explicit clock, so drift bounds are
// testable without sleeping.
func VerifyCodeAt(code string, secret string, at time.Time, opts VerifyOpts) error {
	normalized, err := NormalizeCode(code)
	if err != nil {
		return err
	}

	valid, err := totp.ValidateCustom(normalized, secret, at, totp.ValidateOpts{
		Period:    uint(opts.StepSeconds),
		Skew:      uint(opts.WindowSteps),
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !valid {
		return ErrInvalidCode
	}
	return nil
}

// CurrentCode generates the code valid for the current time step.
// Test and diagnostic use only; no authentication path calls it.
func CurrentCode(secret string) (string, error) {
	return totp.GenerateCodeCustom(secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    configuration.TOTPStepSeconds,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}
