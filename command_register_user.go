package social

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Bio       string `json:"bio"`
	UseHashid bool
	// Staff provisions an already-active staff account; no verification
	// code is minted and no mail goes out.
	Staff      bool
	OnResponse func(r *RegisterUserResponse)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserResponse struct {
	Account *Account `json:"account"`
	// Code is the verification code minted for the account. Exposed on the
	// response for tests and for transports that deliver it out of band.
	Code string `json:"-"`
}

type RegisterUserHandler struct {
	repo       RepositoryManager
	mailer     Mailer
	activation *ActivationTokenSource
	logger     Logger
}

// NewRegisterUserHandler creates a handler with sane defaults.
func NewRegisterUserHandler(repo RepositoryManager, mailer Mailer, activation *ActivationTokenSource) *RegisterUserHandler {
	if mailer == nil {
		mailer = NewNoopMailer()
	}
	return &RegisterUserHandler{
		repo:       repo,
		mailer:     mailer,
		activation: activation,
		logger:     defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	account := &Account{}
	code := ""

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		account.PasswordHash = hash
		account.Email = NormalizeEmail(event.Email)
		account.Username = getUsername(event.Username, account.Email)
		account.Bio = event.Bio
		account.IsActive = event.Staff
		account.IsStaff = event.Staff

		if event.UseHashid {
			if id, err := hashid.NewUUID(account.Email); err == nil {
				account.ID = id
			}
		}

		if account, err = h.repo.Users().RegisterTx(ctx, tx, account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		if event.Staff {
			return nil
		}

		record, err := h.repo.VerificationCodes().CreateForAccountTx(ctx, tx, account)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create verification code")
		}

		code = record.Code
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	// Mail goes out after the transaction commits. Delivery is fire and
	// forget: a failed send never rolls back the registration.
	if code != "" {
		h.sendActivationMail(ctx, account, code)
	}

	if event.OnResponse != nil {
		event.OnResponse(&RegisterUserResponse{Account: account, Code: code})
	}

	return nil
}

func (h *RegisterUserHandler) sendActivationMail(ctx context.Context, account *Account, code string) {
	mailCtx := map[string]any{
		"username": account.Username,
		"code":     code,
	}

	if h.activation != nil {
		mailCtx["uidb64"] = EncodeAccountID(account.ID)
		mailCtx["token"] = h.activation.Generate(account)
	}

	if err := h.mailer.Send(ctx, MailTemplateVerificationCode, mailCtx, account.Email); err != nil {
		h.logger.Warn("verification mail delivery failed", "account_id", account.ID, "error", err)
	}
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
