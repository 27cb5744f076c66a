package integrations

import (
	"context"

	"github.com/rs/zerolog"
)

// Mailer 寄信協作者 目前僅log實作
type Mailer interface {
	SendPasswordReset(ctx context.Context, email string, resetToken string) error
}

type LogMailer struct {
	logger *zerolog.Logger
}

func NewLogMailer(logger *zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email string, resetToken string) error {
	m.logger.Info().
		Str("email", email).
		Str("reset_token", resetToken).
		Msg("password reset mail (log only)")
	return nil
}
