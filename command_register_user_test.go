package social_test

import (
	"context"
	"testing"

	social "github.com/goliatone/go-social"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserHandler(t *testing.T) {
	ctx := context.Background()
	activation := social.NewActivationTokenSource([]byte("activation-secret"))

	t.Run("member registration creates an inactive account and a code", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		users := &MockUsers{}
		codes := &MockVerificationCodes{}
		mailer := &MockMailer{}

		repo.On("Users").Return(users)
		repo.On("VerificationCodes").Return(codes)
		runTxDirect(repo)

		users.On("RegisterTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a *social.Account) bool {
			return a.Email == "new@example.com" &&
				a.Username == "newuser" &&
				!a.IsActive && !a.IsStaff &&
				a.PasswordHash != "" && a.PasswordHash != "password123"
		})).Return(nil, nil).Once()

		record := &social.VerificationCode{
			ID:   uuid.New(),
			Code: "A1B2C3",
		}
		codes.On("CreateForAccountTx", mock.Anything, mock.Anything, mock.Anything).
			Return(record, nil).Once()

		mailer.On("Send", mock.Anything, social.MailTemplateVerificationCode,
			mock.MatchedBy(func(mailCtx map[string]any) bool {
				return mailCtx["code"] == "A1B2C3" &&
					mailCtx["uidb64"] != "" &&
					mailCtx["token"] != ""
			}), "new@example.com").Return(nil).Once()

		var res *social.RegisterUserResponse

		handler := social.NewRegisterUserHandler(repo, mailer, activation).WithLogger(testLogger{})
		err := handler.Execute(ctx, social.RegisterUserMessage{
			Email:    "New@Example.com",
			Username: "newuser",
			Password: "password123",
			OnResponse: func(r *social.RegisterUserResponse) {
				res = r
			},
		})

		require.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, "A1B2C3", res.Code)
		assert.False(t, res.Account.IsActive)

		users.AssertExpectations(t)
		codes.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("staff registration is active and skips verification", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		users := &MockUsers{}
		codes := &MockVerificationCodes{}
		mailer := &MockMailer{}

		repo.On("Users").Return(users)
		repo.On("VerificationCodes").Return(codes).Maybe()
		runTxDirect(repo)

		users.On("RegisterTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a *social.Account) bool {
			return a.IsActive && a.IsStaff
		})).Return(nil, nil).Once()

		handler := social.NewRegisterUserHandler(repo, mailer, activation).WithLogger(testLogger{})
		err := handler.Execute(ctx, social.RegisterUserMessage{
			Email:    "admin@example.com",
			Username: "admin",
			Password: "password123",
			Staff:    true,
		})

		require.NoError(t, err)
		codes.AssertNotCalled(t, "CreateForAccountTx", mock.Anything, mock.Anything, mock.Anything)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("username falls back to the email local part", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		users := &MockUsers{}
		codes := &MockVerificationCodes{}

		repo.On("Users").Return(users)
		repo.On("VerificationCodes").Return(codes)
		runTxDirect(repo)

		users.On("RegisterTx", mock.Anything, mock.Anything, mock.MatchedBy(func(a *social.Account) bool {
			return a.Username == "someone"
		})).Return(nil, nil).Once()

		codes.On("CreateForAccountTx", mock.Anything, mock.Anything, mock.Anything).
			Return(&social.VerificationCode{Code: "ZZZZZZ"}, nil).Once()

		handler := social.NewRegisterUserHandler(repo, nil, activation).WithLogger(testLogger{})
		err := handler.Execute(ctx, social.RegisterUserMessage{
			Email:    "someone@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("empty password fails the registration", func(t *testing.T) {
		repo := &MockRepositoryManager{}
		users := &MockUsers{}
		codes := &MockVerificationCodes{}

		repo.On("Users").Return(users).Maybe()
		repo.On("VerificationCodes").Return(codes).Maybe()
		runTxPassthrough(repo)

		handler := social.NewRegisterUserHandler(repo, nil, activation).WithLogger(testLogger{})
		err := handler.Execute(ctx, social.RegisterUserMessage{
			Email:    "someone@example.com",
			Password: "",
		})

		assert.Error(t, err)
		users.AssertNotCalled(t, "RegisterTx", mock.Anything, mock.Anything, mock.Anything)
	})
}
