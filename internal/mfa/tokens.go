package mfa

import (
	"api/internal/configuration"
	apierrors "api/internal/errors"
	h "api/internal/helpers"
	"api/internal/models"

	"go.uber.org/zap"
)

// HandleMFARequired generates a restricted access token for MFA flows.
// The token carries the pending-login context, so nothing about the
// attempt lives in process memory and concurrent logins cannot collide.
// It can only be used to:
// - Read MFA enrollment status
// - Begin/confirm MFA setup (first enrollment during a forced-MFA login)
// - Complete MFA verification
func HandleMFARequired(
	logger *zap.Logger,
	authConfig models.AuthConfig,
	user *models.User,
) (models.AuthLoginResponse, error) {
	restrictedToken, err := h.NewRestrictedAccessToken(
		authConfig.JWTSecret,
		user,
		configuration.AudienceMFALogin,
		authConfig.MFATokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate restricted access token", zap.Error(err))
		return models.AuthLoginResponse{}, apierrors.NewAPIError(500, "INTERNAL_SERVER_ERROR")
	}

	return models.AuthLoginResponse{
		AccessToken: restrictedToken,
		MFARequired: true,
	}, nil
}

// GenerateTokens generates full access and refresh tokens for the user.
// Used after successful MFA verification or for users without MFA.
func GenerateTokens(
	authConfig models.AuthConfig,
	user *models.User,
) (models.AuthLoginResponse, error) {
	accessToken, err := h.NewAccessToken(
		authConfig.JWTSecret,
		user,
		authConfig.AccessTokenExpiry,
	)
	if err != nil {
		return models.AuthLoginResponse{}, apierrors.ErrGenerateAccessTokenFailed
	}

	refreshToken, err := h.NewRefreshToken(
		authConfig.JWTSecret,
		user,
		authConfig.RefreshTokenExpiry,
	)
	if err != nil {
		return models.AuthLoginResponse{}, apierrors.ErrGenerateRefreshTokenFailed
	}

	return models.AuthLoginResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
