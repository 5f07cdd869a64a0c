package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// MFAState tracks the enrollment state machine for a user.
// Transitions are owned by the MFA lifecycle; nothing else writes these columns.
type MFAState string

const (
	MFAStateDisabled     MFAState = "disabled"
	MFAStateSetupPending MFAState = "setup_pending"
	MFAStateEnabled      MFAState = "enabled"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primarykey;default:gen_random_uuid()" json:"id"`
	FirstName      string    `gorm:"type:varchar(100)"                              json:"first_name"`
	LastName       string    `gorm:"type:varchar(100)"                              json:"last_name"`
	Email          string    `gorm:"type:varchar(254);not null;uniqueIndex"         json:"email"`
	HashedPassword string    `gorm:"not null"                                       json:"-"`
	Role           Role      `gorm:"type:varchar(20);not null;default:'user'"       json:"role"`

	// MFA enrollment columns. Secret and backup codes are AES-256-GCM
	// encrypted at rest; all five columns update together in one
	// transaction so the enrollment is never half-applied.
	MFAState             MFAState   `gorm:"type:varchar(20);not null;default:'disabled'" json:"-"`
	EncryptedMFASecret   string     `gorm:"column:encrypted_mfa_secret"                  json:"-"`
	EncryptedBackupCodes string     `gorm:"column:encrypted_backup_codes"                json:"-"`
	MFAEnabled           bool       `gorm:"not null;default:false"                       json:"mfa_enabled"`
	MFAVerified          bool       `gorm:"not null;default:false"                       json:"-"`
	MFAConfirmedAt       *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasMFAEnabled reports whether the user completed MFA enrollment.
func (u *User) HasMFAEnabled() bool {
	return u.MFAState == MFAStateEnabled && u.MFAEnabled
}

type UserClaimKey struct{}

type UserClaims struct {
	Email  string    `json:"email"`
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
	Aud    string    `json:"aud"`
	Issuer string    `json:"iss"`
	MFA    bool      `json:"mfa"`
	jwt.RegisteredClaims
}
