package services

import (
	"errors"

	"api/internal/cache"
	"api/internal/configuration"
	apierrors "api/internal/errors"
	"api/internal/handlers"
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

// UserMFAService manages an authenticated user's own MFA enrollment. All
// mutations run inside a transaction holding a row lock on the user, so
// concurrent setup, confirm and disable calls for one account serialize.
type UserMFAService struct {
	DB         *gorm.DB
	Cache      cache.ICache
	AuthConfig models.AuthConfig
	Notifier   notifier.INotifier
}

func (s UserMFAService) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", handlers.GetOneHandler(s.Status))
	r.With(m.Validate[models.MFASetupBody]).Post("/setup", handlers.CreateHandler(s.Setup))
	r.With(m.Validate[models.MFAConfirmBody]).Post("/confirm", handlers.CreateHandler(s.Confirm))
	r.With(m.Validate[models.MFADisableBody]).Delete("/", handlers.BodyHandler(s.Disable))
	r.With(m.Validate[models.MFARegenerateBody]).
		Post("/backup-codes", handlers.CreateHandler(s.RegenerateBackupCodes))
	return r
}

func (s UserMFAService) Status(
	logger *zap.Logger,
	claims models.UserClaims,
	_ uuid.UUIDs,
) (models.MFAStatusResponse, error) {
	var user models.User
	result := s.DB.Where("id = ?", claims.UserID).First(&user)
	if result.RowsAffected == 0 {
		return models.MFAStatusResponse{}, apierrors.NewAPIError(404, "USER_NOT_FOUND")
	}

	status := models.MFAStatusResponse{
		State:   user.MFAState,
		Enabled: user.HasMFAEnabled(),
	}

	if status.Enabled {
		enrollment, err := mfa.LoadEnrollment(&user, []byte(s.AuthConfig.MFAEncryptionKey))
		if err != nil {
			logger.Error("Failed to load MFA enrollment", zap.Error(err))
			return models.MFAStatusResponse{}, apierrors.NewAPIError(500, apierrors.ErrMFAVerificationFailed)
		}
		status.BackupCodesRemaining = len(enrollment.BackupCodes)
		status.BackupCodesLow = !mfa.HasSufficientBackupCodes(
			enrollment.BackupCodes,
			s.AuthConfig.BackupCodeLowWater,
		)
	}

	return status, nil
}

// Setup provisions a fresh TOTP secret and backup codes and parks the
// account in the pending state until Confirm proves authenticator
// possession. The secret and codes are returned exactly once, here.
func (s UserMFAService) Setup(
	logger *zap.Logger,
	claims models.UserClaims,
	_ uuid.UUIDs,
	body models.MFASetupBody,
) (models.MFASetupResponse, error) {
	var user models.User
	var provisioned mfa.Provisioned
	var enrollment mfa.Enrollment
	lifecycle := mfa.NewLifecycleFromConfig(s.AuthConfig)
	encryptionKey := []byte(s.AuthConfig.MFAEncryptionKey)

	// Holders of the restricted login token may enroll without a password:
	// they already proved it minutes ago and hold no full session yet.
	restricted := claims.Aud == configuration.AudienceMFALogin

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", claims.UserID).
			First(&user)
		if result.RowsAffected == 0 {
			return apierrors.NewAPIError(404, "USER_NOT_FOUND")
		}

		if !restricted {
			if body.Password == "" {
				return apierrors.NewAPIError(401, apierrors.ErrInvalidPassword)
			}
			match, err := argon2id.ComparePasswordAndHash(body.Password, user.HashedPassword)
			if err != nil || !match {
				return apierrors.NewAPIError(401, apierrors.ErrInvalidPassword)
			}
		}

		var err error
		enrollment, err = mfa.LoadEnrollment(&user, encryptionKey)
		if err != nil {
			logger.Error("Failed to load MFA enrollment", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFASetupFailed)
		}

		provisioned, err = lifecycle.BeginSetup(&enrollment, user.Email)
		if err != nil {
			if errors.Is(err, mfa.ErrAlreadyEnabled) {
				return apierrors.NewAPIError(400, apierrors.ErrMFAAlreadySetUp)
			}
			logger.Error("Failed to provision MFA secret", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFASetupFailed)
		}

		updates, err := mfa.ApplyEnrollment(&user, enrollment, encryptionKey)
		if err != nil {
			logger.Error("Failed to serialize MFA enrollment", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFASetupFailed)
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return models.MFASetupResponse{}, err
	}

	logger.Info("MFA setup started", zap.String("user_id", user.ID.String()))

	return models.MFASetupResponse{
		Secret:         provisioned.Secret,
		ManualEntryKey: provisioned.ManualEntryKey,
		QRCodeURI:      provisioned.URI,
		Issuer:         lifecycle.Issuer,
		BackupCodes:    enrollment.BackupCodes,
	}, nil
}

// Confirm validates the first authenticator code and flips the enrollment
// to enabled. Fresh tokens are issued so the session reflects the new
// MFA standing immediately.
func (s UserMFAService) Confirm(
	logger *zap.Logger,
	claims models.UserClaims,
	_ uuid.UUIDs,
	body models.MFAConfirmBody,
) (models.AuthLoginResponse, error) {
	attempts, err := s.Cache.GetMFAAttempts(claims.UserID.String())
	if err != nil {
		logger.Error("Rate limit check failed - denying request", zap.Error(err))
		return models.AuthLoginResponse{}, apierrors.NewAPIError(503, "SERVICE_UNAVAILABLE")
	}
	if attempts >= configuration.MFAMaxAttempts {
		return models.AuthLoginResponse{}, apierrors.NewAPIError(429, apierrors.ErrMFARateLimited)
	}

	var user models.User
	lifecycle := mfa.NewLifecycleFromConfig(s.AuthConfig)
	encryptionKey := []byte(s.AuthConfig.MFAEncryptionKey)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", claims.UserID).
			First(&user)
		if result.RowsAffected == 0 {
			return apierrors.NewAPIError(404, "USER_NOT_FOUND")
		}

		enrollment, err := mfa.LoadEnrollment(&user, encryptionKey)
		if err != nil {
			logger.Error("Failed to load MFA enrollment", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFASetupFailed)
		}

		code, err := mfa.NormalizeCode(body.Code)
		if err != nil {
			return apierrors.NewAPIError(400, apierrors.ErrInvalidFormat)
		}

		if err = lifecycle.ConfirmSetup(&enrollment, code); err != nil {
			switch {
			case errors.Is(err, mfa.ErrNotEnrolled):
				return apierrors.NewAPIError(400, apierrors.ErrMFANotPending)
			case errors.Is(err, mfa.ErrInvalidFormat):
				return apierrors.NewAPIError(400, apierrors.ErrInvalidFormat)
			}
			if incErr := s.Cache.IncrementMFAAttempts(user.ID.String()); incErr != nil {
				logger.Error("Failed to increment MFA attempts", zap.Error(incErr))
			}
			return apierrors.NewAPIError(401, apierrors.ErrInvalidMFACode)
		}

		if err = s.Cache.MarkTOTPCodeUsed(user.ID.String(), code); err != nil {
			logger.Error("Failed to mark TOTP code as used", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFASetupFailed)
		}

		updates, err := mfa.ApplyEnrollment(&user, enrollment, encryptionKey)
		if err != nil {
			logger.Error("Failed to serialize MFA enrollment", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFASetupFailed)
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return models.AuthLoginResponse{}, err
	}

	if resetErr := s.Cache.ResetMFAAttempts(user.ID.String()); resetErr != nil {
		logger.Warn("Failed to reset MFA attempts", zap.Error(resetErr))
	}

	logger.Info("MFA enabled", zap.String("user_id", user.ID.String()))
	go s.notifySecurityEvent(logger, user, "MFA enabled on your account - dealdesk", "mfa_enabled")

	return mfa.GenerateTokens(s.AuthConfig, &user)
}

// Disable turns MFA off after re-authentication and wipes the secret and
// backup codes in the same update.
func (s UserMFAService) Disable(
	logger *zap.Logger,
	claims models.UserClaims,
	_ uuid.UUIDs,
	body models.MFADisableBody,
) error {
	var user models.User
	lifecycle := mfa.NewLifecycleFromConfig(s.AuthConfig)
	encryptionKey := []byte(s.AuthConfig.MFAEncryptionKey)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", claims.UserID).
			First(&user)
		if result.RowsAffected == 0 {
			return apierrors.NewAPIError(404, "USER_NOT_FOUND")
		}

		enrollment, err := mfa.LoadEnrollment(&user, encryptionKey)
		if err != nil {
			logger.Error("Failed to load MFA enrollment", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFAVerificationFailed)
		}

		if err = lifecycle.Disable(&enrollment, body.Password, user.HashedPassword, body.Code); err != nil {
			switch {
			case errors.Is(err, mfa.ErrNotEnrolled):
				return apierrors.NewAPIError(400, apierrors.ErrMFANotEnabled)
			case errors.Is(err, mfa.ErrNotAuthorized):
				return apierrors.NewAPIError(401, apierrors.ErrInvalidPassword)
			case errors.Is(err, mfa.ErrInvalidFormat):
				return apierrors.NewAPIError(400, apierrors.ErrInvalidFormat)
			}
			return apierrors.NewAPIError(401, apierrors.ErrInvalidMFACode)
		}

		updates, err := mfa.ApplyEnrollment(&user, enrollment, encryptionKey)
		if err != nil {
			logger.Error("Failed to serialize MFA enrollment", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFAVerificationFailed)
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return err
	}

	logger.Info("MFA disabled", zap.String("user_id", user.ID.String()))
	go s.notifySecurityEvent(logger, user, "MFA disabled on your account - dealdesk", "mfa_disabled")

	return nil
}

// RegenerateBackupCodes replaces the full recovery set. The old codes stop
// working the instant the transaction commits.
func (s UserMFAService) RegenerateBackupCodes(
	logger *zap.Logger,
	claims models.UserClaims,
	_ uuid.UUIDs,
	body models.MFARegenerateBody,
) (models.MFARegenerateResponse, error) {
	var user models.User
	var codes []string
	lifecycle := mfa.NewLifecycleFromConfig(s.AuthConfig)
	encryptionKey := []byte(s.AuthConfig.MFAEncryptionKey)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", claims.UserID).
			First(&user)
		if result.RowsAffected == 0 {
			return apierrors.NewAPIError(404, "USER_NOT_FOUND")
		}

		enrollment, err := mfa.LoadEnrollment(&user, encryptionKey)
		if err != nil {
			logger.Error("Failed to load MFA enrollment", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFAVerificationFailed)
		}

		codes, err = lifecycle.RegenerateBackupCodes(&enrollment, body.Password, user.HashedPassword)
		if err != nil {
			switch {
			case errors.Is(err, mfa.ErrNotEnrolled):
				return apierrors.NewAPIError(400, apierrors.ErrMFANotEnabled)
			case errors.Is(err, mfa.ErrNotAuthorized):
				return apierrors.NewAPIError(401, apierrors.ErrInvalidPassword)
			}
			logger.Error("Failed to regenerate backup codes", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFAVerificationFailed)
		}

		updates, err := mfa.ApplyEnrollment(&user, enrollment, encryptionKey)
		if err != nil {
			logger.Error("Failed to serialize MFA enrollment", zap.Error(err))
			return apierrors.NewAPIError(500, apierrors.ErrMFAVerificationFailed)
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return models.MFARegenerateResponse{}, err
	}

	logger.Info("Backup codes regenerated", zap.String("user_id", user.ID.String()))
	go s.notifySecurityEvent(
		logger,
		user,
		"Backup codes regenerated - dealdesk",
		"mfa_backup_codes_regenerated",
	)

	return models.MFARegenerateResponse{BackupCodes: codes}, nil
}

func (s UserMFAService) notifySecurityEvent(
	logger *zap.Logger,
	user models.User,
	subject string,
	template string,
) {
	if err := s.Notifier.NotifyFromTemplate(
		user.Email,
		subject,
		template,
		map[string]any{"WebURL": s.AuthConfig.WebURL},
	); err != nil {
		logger.Warn("Failed to send security notification",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
			zap.String("template", template))
	}
}
