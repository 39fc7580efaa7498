package social

import "context"

// Mail template identifiers used by the registration flow.
const (
	MailTemplateVerificationCode = "account.verification_code"
	MailTemplateActivationLink   = "account.activation_link"
)

type noopMailer struct{}

// NewNoopMailer returns a Mailer that drops everything, for tests and local
// development.
func NewNoopMailer() Mailer {
	return noopMailer{}
}

func (noopMailer) Send(ctx context.Context, templateID string, context map[string]any, toAddress string) error {
	return nil
}

// loggingMailer writes deliveries to the logger instead of a transport.
type loggingMailer struct {
	logger Logger
}

// NewLoggingMailer returns a Mailer that logs deliveries, useful while a
// real transport is not wired.
func NewLoggingMailer(logger Logger) Mailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &loggingMailer{logger: logger}
}

func (m *loggingMailer) Send(_ context.Context, templateID string, context map[string]any, toAddress string) error {
	m.logger.Info("mail send", "template", templateID, "to", toAddress, "context", context)
	return nil
}
