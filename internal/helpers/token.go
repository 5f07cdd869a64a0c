package helpers

import (
	"errors"
	"strings"
	"time"

	"api/internal/configuration"
	"api/internal/models"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
)

// tokenConfig holds configuration for creating a specific token type.
type tokenConfig struct {
	audience      string
	mfa           *bool // nil = don't set (defaults to false), otherwise set to this value
	expiryMinutes int
}

func boolPtr(b bool) *bool {
	return &b
}

// createToken is a generic helper for creating JWT tokens with specified configuration.
// This private function consolidates the common token creation logic used by all public
// token creation functions (NewAccessToken, NewRefreshToken, etc.).
func createToken(jwtSecret string, user *models.User, config tokenConfig) (string, error) {
	claims := models.UserClaims{
		Email:  user.Email,
		UserID: user.ID,
		Role:   user.Role,
		Aud:    config.audience,
		Issuer: configuration.AppName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  &jwt.NumericDate{Time: time.Now()},
			ExpiresAt: &jwt.NumericDate{Time: time.Now().Add(time.Minute * time.Duration(config.expiryMinutes))},
		},
	}

	if config.mfa != nil {
		claims.MFA = *config.mfa
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ParseToken parses and validates a JWT token without audience validation.
// It validates signature, expiry, and issuer only.
// Audience validation is delegated to the AudienceValidate middleware for route-specific rules.
// The requireBearer parameter controls whether the "Bearer " prefix is required.
func ParseToken(jwtSecret string, tokenString string, requireBearer bool) (models.UserClaims, error) {
	if requireBearer {
		if !strings.HasPrefix(tokenString, "Bearer ") {
			return models.UserClaims{}, errors.New("invalid token")
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	}

	claims := &models.UserClaims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		},
	)
	if err != nil {
		return models.UserClaims{}, errors.New("invalid token")
	}

	return *claims, nil
}

// ParseAccessToken parses an Authorization header value and accepts any
// valid token; callers that need a specific audience check claims.Aud.
func ParseAccessToken(jwtSecret string, tokenString string) (models.UserClaims, error) {
	return ParseToken(jwtSecret, tokenString, true)
}

// ParseRefreshToken accepts only refresh-audience tokens.
func ParseRefreshToken(jwtSecret string, tokenString string) (models.UserClaims, error) {
	claims, err := ParseToken(jwtSecret, tokenString, false)
	if err != nil {
		return models.UserClaims{}, err
	}
	if claims.Aud != configuration.AudienceRefreshToken {
		return models.UserClaims{}, errors.New("invalid token")
	}
	return claims, nil
}

// ParseMFAToken accepts only the restricted MFA login audience.
func ParseMFAToken(jwtSecret string, tokenString string) (models.UserClaims, error) {
	claims, err := ParseToken(jwtSecret, tokenString, false)
	if err != nil {
		return models.UserClaims{}, err
	}
	if claims.Aud != configuration.AudienceMFALogin {
		return models.UserClaims{}, errors.New("invalid token")
	}
	return claims, nil
}

func CreateHash(password string) (string, error) {
	argonParams := argon2id.Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  32,
		KeyLength:   32,
	}
	hash, err := argon2id.CreateHash(password, &argonParams)
	if err != nil {
		return "", errors.New("can not create hash password")
	}

	return hash, nil
}

func NewAccessToken(jwtSecret string, user *models.User, expiryMinutes int) (string, error) {
	return createToken(jwtSecret, user, tokenConfig{
		audience:      configuration.AudienceAccessToken,
		mfa:           boolPtr(user.HasMFAEnabled()),
		expiryMinutes: expiryMinutes,
	})
}

func NewRefreshToken(jwtSecret string, user *models.User, expiryMinutes int) (string, error) {
	return createToken(jwtSecret, user, tokenConfig{
		audience:      configuration.AudienceRefreshToken,
		expiryMinutes: expiryMinutes,
	})
}

// NewRestrictedAccessToken mints a short-lived token for the MFA login
// flow. It never carries MFA=true; completing verification is what earns
// a full access token.
func NewRestrictedAccessToken(
	jwtSecret string,
	user *models.User,
	audience string,
	expiryMinutes int,
) (string, error) {
	return createToken(jwtSecret, user, tokenConfig{
		audience:      audience,
		mfa:           boolPtr(false),
		expiryMinutes: expiryMinutes,
	})
}
