package services

import (
	"errors"

	"api/internal/cache"
	"api/internal/configuration"
	apierrors "api/internal/errors"
	"api/internal/handlers"
	h "api/internal/helpers"
	"api/internal/mfa"
	m "api/internal/middlewares"
	"api/internal/models"
	"api/internal/notifier"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthService struct {
	DB         *gorm.DB
	Cache      cache.ICache
	AuthConfig models.AuthConfig
	Notifier   notifier.INotifier
}

func (s AuthService) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(m.Validate[models.AuthLoginBody]).Post("/login", handlers.CreateHandler(s.Login))
	r.With(m.Validate[models.AuthVerifyBody]).Post("/verify", handlers.CreateHandler(s.Verify))
	r.With(m.Validate[models.AuthRefreshBody]).Post("/refresh", handlers.CreateHandler(s.Refresh))

	r.Route("/mfa", func(r chi.Router) {
		r.With(m.Validate[models.MFALoginVerifyBody]).
			Post("/verify", handlers.CreateHandler(s.VerifyMFALogin))
	})
	return r
}

func (s AuthService) Login(
	logger *zap.Logger,
	_ models.UserClaims,
	_ uuid.UUIDs,
	body models.AuthLoginBody,
) (models.AuthLoginResponse, error) {
	var searchUser models.User
	result := s.DB.Where("email = ?", body.Email).First(&searchUser)
	if result.RowsAffected != 1 {
		return models.AuthLoginResponse{}, apierrors.NewAPIError(401, "INVALID_CREDENTIALS")
	}

	match, err := argon2id.ComparePasswordAndHash(body.Password, searchUser.HashedPassword)
	if err != nil || !match {
		return models.AuthLoginResponse{}, apierrors.NewAPIError(401, "INVALID_CREDENTIALS")
	}

	if searchUser.HasMFAEnabled() {
		return mfa.HandleMFARequired(logger, s.AuthConfig, &searchUser)
	}

	// MFA may be mandated fleet-wide; the restricted token lets the user
	// reach exactly the enrollment endpoints and nothing else.
	if s.AuthConfig.MFARequired {
		return mfa.HandleMFARequired(logger, s.AuthConfig, &searchUser)
	}

	tokens, err := mfa.GenerateTokens(s.AuthConfig, &searchUser)
	if err != nil {
		return models.AuthLoginResponse{}, err
	}

	logger.Info("User logged in",
		zap.String("user_id", searchUser.ID.String()),
		zap.String("email", searchUser.Email))

	return tokens, nil
}

func (s AuthService) Verify(
	_ *zap.Logger,
	_ models.UserClaims,
	_ uuid.UUIDs,
	body models.AuthVerifyBody,
) (any, error) {
	data, err := h.ParseToken(s.AuthConfig.JWTSecret, body.AccessToken, false)
	return data, err
}

func (s AuthService) Refresh(
	logger *zap.Logger,
	_ models.UserClaims,
	_ uuid.UUIDs,
	body models.AuthRefreshBody,
) (models.AuthRefreshResponse, error) {
	refreshToken, err := h.ParseRefreshToken(s.AuthConfig.JWTSecret, body.RefreshToken)
	if err != nil {
		return models.AuthRefreshResponse{}, apierrors.NewAPIError(401, "INVALID_REFRESH_TOKEN")
	}

	var user models.User
	result := s.DB.Where("id = ?", refreshToken.UserID).First(&user)
	if result.RowsAffected == 0 {
		logger.Warn("User not found during token refresh",
			zap.String("user_id", refreshToken.UserID.String()))
		return models.AuthRefreshResponse{}, apierrors.NewAPIError(401, "USER_NOT_FOUND")
	}

	accessToken, err := h.NewAccessToken(
		s.AuthConfig.JWTSecret,
		&user,
		s.AuthConfig.AccessTokenExpiry,
	)
	if err != nil {
		return models.AuthRefreshResponse{}, apierrors.ErrGenerateAccessTokenFailed
	}

	return models.AuthRefreshResponse{AccessToken: accessToken}, nil
}

// VerifyMFALogin completes an MFA-gated login with a TOTP code or a
// single-use backup code and issues access/refresh tokens.
func (s AuthService) VerifyMFALogin(
	logger *zap.Logger,
	_ models.UserClaims,
	_ uuid.UUIDs,
	body models.MFALoginVerifyBody,
) (models.AuthLoginResponse, error) {
	mfaClaims, err := h.ParseMFAToken(s.AuthConfig.JWTSecret, body.MFAToken)
	if err != nil {
		return models.AuthLoginResponse{}, apierrors.NewAPIError(401, apierrors.ErrInvalidMFAToken)
	}

	if (body.Code == "") == (body.BackupCode == "") {
		return models.AuthLoginResponse{}, apierrors.NewAPIError(400, "BAD_REQUEST")
	}

	// Fail closed on cache errors: an unavailable attempt counter must not
	// open a brute-force window.
	attempts, err := s.Cache.GetMFAAttempts(mfaClaims.UserID.String())
	if err != nil {
		logger.Error("Rate limit check failed - denying request", zap.Error(err))
		return models.AuthLoginResponse{}, apierrors.NewAPIError(503, "SERVICE_UNAVAILABLE")
	}
	if attempts >= configuration.MFAMaxAttempts {
		logger.Warn("MFA login rate limited", zap.String("user_id", mfaClaims.UserID.String()))
		return models.AuthLoginResponse{}, apierrors.NewAPIError(429, apierrors.ErrMFARateLimited)
	}

	var user models.User
	lifecycle := mfa.NewLifecycleFromConfig(s.AuthConfig)
	encryptionKey := []byte(s.AuthConfig.MFAEncryptionKey)
	var codesRemaining int
	usedBackupCode := body.BackupCode != ""

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// Row lock: two concurrent logins spending the same backup code
		// serialize here, so only the first one finds it in the set.
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", mfaClaims.UserID).
			First(&user)
		if result.RowsAffected == 0 {
			return apierrors.NewAPIError(404, "USER_NOT_FOUND")
		}

		enrollment, err := mfa.LoadEnrollment(&user, encryptionKey)
		if err != nil {
			logger.Error("Failed to load MFA enrollment", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFAVerificationFailed)
		}

		if usedBackupCode {
			if err = lifecycle.VerifyLoginBackupCode(&enrollment, body.BackupCode); err != nil {
				return s.recordFailedAttempt(logger, &user, err)
			}
			codesRemaining = len(enrollment.BackupCodes)

			updates, err := mfa.ApplyEnrollment(&user, enrollment, encryptionKey)
			if err != nil {
				logger.Error("Failed to serialize MFA enrollment", zap.Error(err))
				return apierrors.NewAPIError(500, apierrors.ErrMFAVerificationFailed)
			}
			return tx.Model(&user).Updates(updates).Error
		}

		// The replay mark must key on the canonical digits, or a spent
		// code could be resubmitted with whitespace under a fresh key.
		code, err := mfa.NormalizeCode(body.Code)
		if err != nil {
			return s.recordFailedAttempt(logger, &user, err)
		}

		if err = lifecycle.VerifyLogin(&enrollment, code); err != nil {
			return s.recordFailedAttempt(logger, &user, err)
		}

		// Replay protection: a TOTP code is single-use within its window.
		used, err := s.Cache.IsTOTPCodeUsed(user.ID.String(), code)
		if err != nil {
			logger.Error("Failed to check TOTP code usage", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFAVerificationFailed)
		}
		if used {
			logger.Warn("TOTP code replay attempt detected",
				zap.String("user_id", user.ID.String()))
			return apierrors.NewAPIError(401, apierrors.ErrInvalidMFACode)
		}
		if err = s.Cache.MarkTOTPCodeUsed(user.ID.String(), code); err != nil {
			logger.Error("Failed to mark TOTP code as used", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFAVerificationFailed)
		}
		return nil
	})
	if err != nil {
		return models.AuthLoginResponse{}, err
	}

	if resetErr := s.Cache.ResetMFAAttempts(user.ID.String()); resetErr != nil {
		logger.Warn("Failed to reset MFA attempts", zap.Error(resetErr))
	}

	logger.Info("MFA login verification successful",
		zap.String("user_id", user.ID.String()),
		zap.Bool("backup_code", usedBackupCode))

	if usedBackupCode && codesRemaining < s.AuthConfig.BackupCodeLowWater {
		go s.notifyBackupCodesLow(logger, user, codesRemaining)
	}

	return mfa.GenerateTokens(s.AuthConfig, &user)
}

// recordFailedAttempt bumps the lockout counter and maps the lifecycle
// error. Wrong and expired codes surface as the same response.
func (s AuthService) recordFailedAttempt(logger *zap.Logger, user *models.User, err error) error {
	switch {
	case errors.Is(err, mfa.ErrInvalidFormat):
		return apierrors.NewAPIError(400, apierrors.ErrInvalidFormat)
	case errors.Is(err, mfa.ErrNotEnrolled):
		return apierrors.NewAPIError(400, apierrors.ErrMFANotEnabled)
	}

	if incErr := s.Cache.IncrementMFAAttempts(user.ID.String()); incErr != nil {
		logger.Error("Failed to increment MFA attempts", zap.Error(incErr))
	}
	logger.Warn("MFA login verification failed - invalid code",
		zap.String("user_id", user.ID.String()))
	return apierrors.NewAPIError(401, apierrors.ErrInvalidMFACode)
}

func (s AuthService) notifyBackupCodesLow(logger *zap.Logger, user models.User, remaining int) {
	if notifyErr := s.Notifier.NotifyFromTemplate(
		user.Email,
		"Backup codes running low - dealdesk",
		"mfa_backup_codes_low",
		map[string]any{
			"Remaining": remaining,
			"WebURL":    s.AuthConfig.WebURL,
		},
	); notifyErr != nil {
		logger.Warn("Failed to send backup-code warning",
			zap.Error(notifyErr),
			zap.String("user_id", user.ID.String()))
	}
}
