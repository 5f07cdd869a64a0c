package models

type Configuration struct {
	App      AppConfiguration      `mapstructure:"app"      validate:"required"`
	Database DatabaseConfiguration `mapstructure:"database" validate:"required"`
	Cache    CacheConfiguration    `mapstructure:"cache"    validate:"required"`
	Notifier NotifierConfiguration `mapstructure:"notifier" validate:"required"`
}

type AppConfiguration struct {
	Profile            string   `mapstructure:"profile"              validate:"oneof=default api"`
	APIURL             string   `mapstructure:"api_url"              validate:"required"`
	AllowedOrigins     []string `mapstructure:"allowed_origins"      validate:"required"`
	JWTSecret          string   `mapstructure:"jwt_secret"           validate:"required"`
	MFAEncryptionKey   string   `mapstructure:"mfa_encryption_key"   validate:"len=32"`
	MFARequired        bool     `mapstructure:"mfa_required"`
	AccessTokenExpiry  int      `mapstructure:"access_token_expiry"  validate:"gte=1,lte=1440"`
	RefreshTokenExpiry int      `mapstructure:"refresh_token_expiry" validate:"gte=1,lte=720"`
	MFATokenExpiry     int      `mapstructure:"mfa_token_expiry"     validate:"gte=1,lte=30"`
	LogLevel           string   `mapstructure:"log_level"            validate:"oneof=debug info warn error fatal panic"`
	Port               int      `mapstructure:"port"                 validate:"gte=80,lte=65535"`
	TrustedProxies     []string `mapstructure:"trusted_proxies"`
	WebURL             string   `mapstructure:"web_url"              validate:"required"`

	TOTPStepSeconds     int `mapstructure:"totp_step_seconds"     validate:"gte=15,lte=120"`
	TOTPLoginWindow     int `mapstructure:"totp_login_window"     validate:"gte=0,lte=4"`
	TOTPSetupWindow     int `mapstructure:"totp_setup_window"     validate:"gte=0,lte=2"`
	BackupCodeCount     int `mapstructure:"backup_code_count"     validate:"gte=1,lte=20"`
	BackupCodeLength    int `mapstructure:"backup_code_length"    validate:"gte=6,lte=16"`
	BackupCodeLowWater  int `mapstructure:"backup_code_low_water" validate:"gte=0,lte=10"`
	PasswordMinLength   int `mapstructure:"password_min_length"   validate:"gte=8,lte=64"`
	PasswordMaxLength   int `mapstructure:"password_max_length"   validate:"gte=16,lte=1024"`
	PasswordUniqueChars int `mapstructure:"password_unique_chars" validate:"gte=0,lte=32"`
}

type DatabaseConfiguration struct {
	Type     string `mapstructure:"type"     validate:"required,oneof=postgres sqlite"`
	Host     string `mapstructure:"host"     validate:"required_if=Type postgres"`
	Port     int32  `mapstructure:"port"     validate:"gte=0,lte=65535"`
	User     string `mapstructure:"user"     validate:"required_if=Type postgres"`
	Password string `mapstructure:"password" validate:"required_if=Type postgres"`
	Name     string `mapstructure:"name"     validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
}

type CacheConfiguration struct {
	Type  string                   `mapstructure:"type"  validate:"required,oneof=redis"`
	Redis *RedisCacheConfiguration `mapstructure:"redis" validate:"required_if=Type redis"`
}

type RedisCacheConfiguration struct {
	Hosts         []string `mapstructure:"hosts"`
	Password      string   `mapstructure:"password"`
	TLSEnabled    bool     `mapstructure:"tls_enabled"`
	TLSServerName string   `mapstructure:"tls_server_name"`
}

type MailerConfiguration struct {
	Host          string `mapstructure:"host"            validate:"required"`
	Port          int    `mapstructure:"port"            validate:"required"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	Sender        string `mapstructure:"sender"          validate:"required"`
	EnableTLS     bool   `mapstructure:"enable_tls"`
	SkipVerifyTLS bool   `mapstructure:"skip_verify_tls"`
}

type NotifierConfiguration struct {
	Type       string                           `mapstructure:"type"       validate:"required,oneof=smtp filesystem"`
	SMTP       *MailerConfiguration             `mapstructure:"smtp"       validate:"required_if=Type smtp"`
	Filesystem *FilesystemNotifierConfiguration `mapstructure:"filesystem" validate:"required_if=Type filesystem"`
}

type FilesystemNotifierConfiguration struct {
	Directory string `mapstructure:"directory" validate:"required"`
}

// AuthConfig groups authentication-related configuration for services.
// This reduces the number of individual fields passed to services and
// makes it easier to add new auth-related config without modifying service structs.
type AuthConfig struct {
	JWTSecret          string
	MFAEncryptionKey   string
	MFARequired        bool
	AccessTokenExpiry  int
	RefreshTokenExpiry int
	MFATokenExpiry     int
	WebURL             string

	TOTPStepSeconds     int
	TOTPLoginWindow     int
	TOTPSetupWindow     int
	BackupCodeCount     int
	BackupCodeLength    int
	BackupCodeLowWater  int
	PasswordMinLength   int
	PasswordMaxLength   int
	PasswordUniqueChars int
}

// GetAuthConfig extracts authentication configuration from AppConfiguration.
func (c *AppConfiguration) GetAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:          c.JWTSecret,
		MFAEncryptionKey:   c.MFAEncryptionKey,
		MFARequired:        c.MFARequired,
		AccessTokenExpiry:  c.AccessTokenExpiry,
		RefreshTokenExpiry: c.RefreshTokenExpiry,
		MFATokenExpiry:     c.MFATokenExpiry,
		WebURL:             c.WebURL,

		TOTPStepSeconds:     c.TOTPStepSeconds,
		TOTPLoginWindow:     c.TOTPLoginWindow,
		TOTPSetupWindow:     c.TOTPSetupWindow,
		BackupCodeCount:     c.BackupCodeCount,
		BackupCodeLength:    c.BackupCodeLength,
		BackupCodeLowWater:  c.BackupCodeLowWater,
		PasswordMinLength:   c.PasswordMinLength,
		PasswordMaxLength:   c.PasswordMaxLength,
		PasswordUniqueChars: c.PasswordUniqueChars,
	}
}
