package mail

import (
	"context"

	"github.com/dmitrijs2005/eclinic/internal/logging"
)

// LogMailer writes the reset link to the log instead of sending it.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mail")}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, toEmail, resetURL string) error {
	m.logger.Info(ctx, "password reset email", "to", toEmail, "url", resetURL)
	return nil
}
