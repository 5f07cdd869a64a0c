package services

import (
	"regexp"
	"testing"

	apierrors "api/internal/errors"
	"api/internal/helpers"
	"api/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPersonalInfoTokens(t *testing.T) {
	tokens := personalInfoTokens("Margaux", "Chen", "margaux.chen+crm@dealdesk.example")

	assert.Contains(t, tokens, "Margaux")
	assert.Contains(t, tokens, "Chen")
	assert.Contains(t, tokens, "margaux.chen+crm")
	assert.Contains(t, tokens, "margaux")
	assert.Contains(t, tokens, "chen")
	assert.Contains(t, tokens, "crm")
}

func TestUserService_Register(t *testing.T) {
	t.Run("should create the user with a hashed password", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		service := UserService{DB: gormDB, AuthConfig: testAuthConfig, Notifier: &MockNotifier{}}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
		mock.ExpectCommit()

		user, err := service.Register(zap.NewNop(), models.UserClaims{}, nil, models.RegisterBody{
			FirstName: "Margaux",
			LastName:  "Chen",
			Email:     "Margaux.Chen@dealdesk.example",
			Password:  "Quartz-Lantern-42!",
		})

		require.NoError(t, err)
		assert.Equal(t, "margaux.chen@dealdesk.example", user.Email, "email is stored lowercased")
		assert.NotEqual(t, "Quartz-Lantern-42!", user.HashedPassword)

		match, err := argon2id.ComparePasswordAndHash("Quartz-Lantern-42!", user.HashedPassword)
		require.NoError(t, err)
		assert.True(t, match)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should reject a password violating the policy with all violations", func(t *testing.T) {
		gormDB, _ := newMockDB(t)
		service := UserService{DB: gormDB, AuthConfig: testAuthConfig, Notifier: &MockNotifier{}}

		_, err := service.Register(zap.NewNop(), models.UserClaims{}, nil, models.RegisterBody{
			FirstName: "Margaux",
			LastName:  "Chen",
			Email:     "margaux@dealdesk.example",
			Password:  "margaux",
		})

		apiErr := apiErrorFrom(t, err)
		assert.Equal(t, 400, apiErr.Code)
		assert.Equal(t, apierrors.ErrPolicyViolation, apiErr.Message)
		assert.NotEmpty(t, apiErr.Details)
		assert.Contains(t, apiErr.Details, "password must be at least 12 characters long")
	})

	t.Run("should reject a password containing the user's own name", func(t *testing.T) {
		gormDB, _ := newMockDB(t)
		service := UserService{DB: gormDB, AuthConfig: testAuthConfig, Notifier: &MockNotifier{}}

		_, err := service.Register(zap.NewNop(), models.UserClaims{}, nil, models.RegisterBody{
			FirstName: "Margaux",
			LastName:  "Chen",
			Email:     "margaux@dealdesk.example",
			Password:  "Margaux-Lantern-42!",
		})

		apiErr := apiErrorFrom(t, err)
		assert.Equal(t, 400, apiErr.Code)
		assert.Equal(t, apierrors.ErrPolicyViolation, apiErr.Message)
	})

	t.Run("should surface duplicate emails", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		service := UserService{DB: gormDB, AuthConfig: testAuthConfig, Notifier: &MockNotifier{}}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		_, err := service.Register(zap.NewNop(), models.UserClaims{}, nil, models.RegisterBody{
			FirstName: "Margaux",
			LastName:  "Chen",
			Email:     "margaux@dealdesk.example",
			Password:  "Quartz-Lantern-42!",
		})

		apiErr := apiErrorFrom(t, err)
		assert.Equal(t, 400, apiErr.Code)
		assert.Equal(t, apierrors.ErrEmailTaken, apiErr.Message)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	passwordHash, err := helpers.CreateHash("Current-Horse-B4ttery!")
	require.NoError(t, err)

	userRow := func(userID uuid.UUID) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "hashed_password"}).
			AddRow(userID, "Margaux", "Chen", "margaux@dealdesk.example", passwordHash)
	}

	t.Run("should change the password after re-authentication", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		service := UserService{DB: gormDB, AuthConfig: testAuthConfig, Notifier: &MockNotifier{}}

		userID := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).WillReturnRows(userRow(userID))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := service.ChangePassword(zap.NewNop(), fullClaims(userID), nil, models.PasswordChangeBody{
			CurrentPassword: "Current-Horse-B4ttery!",
			NewPassword:     "Fresh-Lantern-77?",
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should reject a wrong current password", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		service := UserService{DB: gormDB, AuthConfig: testAuthConfig, Notifier: &MockNotifier{}}

		userID := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).WillReturnRows(userRow(userID))
		mock.ExpectRollback()

		err := service.ChangePassword(zap.NewNop(), fullClaims(userID), nil, models.PasswordChangeBody{
			CurrentPassword: "wrong-password",
			NewPassword:     "Fresh-Lantern-77?",
		})

		apiErr := apiErrorFrom(t, err)
		assert.Equal(t, 401, apiErr.Code)
		assert.Equal(t, apierrors.ErrInvalidPassword, apiErr.Message)
	})

	t.Run("should evaluate the new password against stored personal info", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		service := UserService{DB: gormDB, AuthConfig: testAuthConfig, Notifier: &MockNotifier{}}

		userID := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).WillReturnRows(userRow(userID))
		mock.ExpectRollback()

		err := service.ChangePassword(zap.NewNop(), fullClaims(userID), nil, models.PasswordChangeBody{
			CurrentPassword: "Current-Horse-B4ttery!",
			NewPassword:     "Margaux-Lantern-42!",
		})

		apiErr := apiErrorFrom(t, err)
		assert.Equal(t, 400, apiErr.Code)
		assert.Equal(t, apierrors.ErrPolicyViolation, apiErr.Message)
	})
}

func TestUserService_EvaluatePassword(t *testing.T) {
	t.Run("should score anonymously without persisting", func(t *testing.T) {
		gormDB, mock := newMockDB(t)
		service := UserService{DB: gormDB, AuthConfig: testAuthConfig, Notifier: &MockNotifier{}}

		evaluation, err := service.EvaluatePassword(zap.NewNop(), models.UserClaims{}, nil, models.PasswordEvaluateBody{
			Password: "Quartz-Lantern-42!",
		})

		require.NoError(t, err)
		assert.True(t, evaluation.Valid)
		assert.Greater(t, evaluation.Score, 0.0)
		assert.NoError(t, mock.ExpectationsWereMet(), "evaluation must not touch the database")
	})

	t.Run("should use the caller's email for personal info checks", func(t *testing.T) {
		gormDB, _ := newMockDB(t)
		service := UserService{DB: gormDB, AuthConfig: testAuthConfig, Notifier: &MockNotifier{}}

		claims := models.UserClaims{Email: "margaux@dealdesk.example"}
		evaluation, err := service.EvaluatePassword(zap.NewNop(), claims, nil, models.PasswordEvaluateBody{
			Password: "Margaux-Lantern-42!",
		})

		require.NoError(t, err)
		assert.False(t, evaluation.Valid)
	})
}
