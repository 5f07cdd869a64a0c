package services

import (
	"strings"

	apierrors "api/internal/errors"
	"api/internal/handlers"
	h "api/internal/helpers"
	m "api/internal/middlewares"
	"api/internal/models"
	"api/internal/notifier"
	"api/internal/password"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserService struct {
	DB         *gorm.DB
	AuthConfig models.AuthConfig
	Notifier   notifier.INotifier
	MFA        UserMFAService
}

func (s UserService) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(m.Validate[models.RegisterBody]).Post("/register", handlers.CreateHandler(s.Register))
	r.With(m.Validate[models.PasswordChangeBody]).Post("/password", handlers.BodyHandler(s.ChangePassword))
	r.With(m.Validate[models.PasswordEvaluateBody]).
		Post("/password/evaluate", handlers.CreateHandler(s.EvaluatePassword))

	r.Mount("/mfa", s.MFA.Routes())
	return r
}

// personalInfoTokens builds the denied substrings for policy evaluation:
// name parts and the local part of the email, split on common separators.
func personalInfoTokens(firstName, lastName, email string) []string {
	tokens := []string{firstName, lastName}
	if at := strings.Index(email, "@"); at > 0 {
		local := email[:at]
		tokens = append(tokens, local)
		tokens = append(tokens, strings.FieldsFunc(local, func(r rune) bool {
			return r == '.' || r == '-' || r == '_' || r == '+'
		})...)
	}
	return tokens
}

func (s UserService) Register(
	logger *zap.Logger,
	_ models.UserClaims,
	_ uuid.UUIDs,
	body models.RegisterBody,
) (models.User, error) {
	evaluation := password.Evaluate(
		body.Password,
		personalInfoTokens(body.FirstName, body.LastName, body.Email),
		password.PolicyFromConfig(s.AuthConfig),
	)
	if !evaluation.Valid {
		return models.User{}, apierrors.NewAPIErrorWithDetails(
			400,
			apierrors.ErrPolicyViolation,
			evaluation.Violations,
		)
	}

	hash, err := h.CreateHash(body.Password)
	if err != nil {
		logger.Error("Failed to hash password", zap.Error(err))
		return models.User{}, apierrors.NewAPIError(500, "REGISTRATION_FAILED")
	}

	user := models.User{
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		Email:          strings.ToLower(body.Email),
		HashedPassword: hash,
		Role:           models.RoleUser,
		MFAState:       models.MFAStateDisabled,
	}

	result := s.DB.Create(&user)
	if result.Error != nil {
		// Unique index on email; surface duplicates without leaking which
		// constraint fired.
		logger.Warn("User registration failed", zap.Error(result.Error))
		return models.User{}, apierrors.NewAPIError(400, apierrors.ErrEmailTaken)
	}

	logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	go func() {
		if notifyErr := s.Notifier.NotifyFromTemplate(
			user.Email,
			"Welcome to dealdesk",
			"account_registered",
			map[string]any{"WebURL": s.AuthConfig.WebURL},
		); notifyErr != nil {
			logger.Warn("Failed to send registration notification", zap.Error(notifyErr))
		}
	}()

	return user, nil
}

func (s UserService) ChangePassword(
	logger *zap.Logger,
	claims models.UserClaims,
	_ uuid.UUIDs,
	body models.PasswordChangeBody,
) error {
	var user models.User

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", claims.UserID).
			First(&user)
		if result.RowsAffected == 0 {
			return apierrors.NewAPIError(404, "USER_NOT_FOUND")
		}

		match, err := argon2id.ComparePasswordAndHash(body.CurrentPassword, user.HashedPassword)
		if err != nil || !match {
			return apierrors.NewAPIError(401, apierrors.ErrInvalidPassword)
		}

		evaluation := password.Evaluate(
			body.NewPassword,
			personalInfoTokens(user.FirstName, user.LastName, user.Email),
			password.PolicyFromConfig(s.AuthConfig),
		)
		if !evaluation.Valid {
			return apierrors.NewAPIErrorWithDetails(
				400,
				apierrors.ErrPolicyViolation,
				evaluation.Violations,
			)
		}

		hash, err := h.CreateHash(body.NewPassword)
		if err != nil {
			logger.Error("Failed to hash password", zap.Error(err))
			return apierrors.NewAPIError(500, "PASSWORD_CHANGE_FAILED")
		}
		return tx.Model(&user).Update("hashed_password", hash).Error
	})
	if err != nil {
		return err
	}

	logger.Info("Password changed", zap.String("user_id", user.ID.String()))

	go func() {
		if notifyErr := s.Notifier.NotifyFromTemplate(
			user.Email,
			"Your password was changed - dealdesk",
			"password_changed",
			map[string]any{"WebURL": s.AuthConfig.WebURL},
		); notifyErr != nil {
			logger.Warn("Failed to send password-change notification", zap.Error(notifyErr))
		}
	}()

	return nil
}

// EvaluatePassword scores a candidate for the signup strength meter. Uses
// the caller's claims for personal-info checks when authenticated; for
// anonymous calls only the candidate itself is scored.
func (s UserService) EvaluatePassword(
	_ *zap.Logger,
	claims models.UserClaims,
	_ uuid.UUIDs,
	body models.PasswordEvaluateBody,
) (password.Evaluation, error) {
	var personalInfo []string
	if claims.Email != "" {
		personalInfo = personalInfoTokens("", "", claims.Email)
	}
	policy := password.PolicyFromConfig(s.AuthConfig)
	return password.Evaluate(body.Password, personalInfo, policy), nil
}
