package configuration

const AppName = "dealdesk"

// JWT Audience constants for token type separation.
const (
	AudienceAccessToken  = "app:*"
	AudienceRefreshToken = "auth:refresh"
	AudienceMFALogin     = "auth:mfa:login"
)

// JWT Token expiry times (in minutes).
const (
	AccessTokenExpiry  = 60
	RefreshTokenExpiry = 600
	MFATokenExpiry     = 5 // For restricted access during MFA flow
)

const (
	CacheAppRateLimitKey = "app:ratelimit:%s"
	CacheMFAAttemptsKey  = "mfa:attempts:%s"
	CacheTOTPUsedKey     = "totp:used:%s:%s"
)

// RateLimitPerMinute caps API requests per caller per minute.
const RateLimitPerMinute = 120

const (
	// TOTPStepSeconds is the RFC 6238 time-step length.
	TOTPStepSeconds = 30
	// TOTPLoginWindowSteps is the clock-drift tolerance (steps either side) accepted at login.
	TOTPLoginWindowSteps = 2
	// TOTPSetupWindowSteps is the narrower tolerance used when confirming a new enrollment.
	TOTPSetupWindowSteps = 1
	// TOTPCodeTTL is the time-to-live for TOTP code replay protection (in seconds).
	TOTPCodeTTL = 90
	// MFAMaxAttempts is the maximum number of failed MFA verification attempts before lockout.
	MFAMaxAttempts = 5
	// MFALockoutSeconds is the lockout duration after max failed MFA attempts (in seconds).
	MFALockoutSeconds = 900
)

const (
	// BackupCodeCount is the number of recovery codes issued per enrollment.
	BackupCodeCount = 10
	// BackupCodeLength is the length of each recovery code.
	BackupCodeLength = 8
	// BackupCodeLowWatermark triggers a "running low" notification when fewer codes remain.
	BackupCodeLowWatermark = 3
)

// Password policy defaults enforced by the registration and
// password-change endpoints. The evaluator accepts per-call overrides.
const (
	PasswordMinLength      = 12
	PasswordMaxLength      = 128
	PasswordMinUniqueChars = 8
)

var ArrayConfigFields = []string{
	"app.trusted_proxies",
	"app.allowed_origins",
	"cache.redis.hosts",
}

var ConfigFileSearchPaths = []string{
	"./config.yaml",
	"templates/config.yaml",
}
