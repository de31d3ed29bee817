package local

import (
	"context"

	"nyanpass/internal/platform/logger"
)

type logMailer struct {
	log logger.Logger
}

// LogMailer deja el token en el log; sirve en desarrollo mientras no haya SMTP.
func LogMailer(log logger.Logger) Mailer {
	if log == nil {
		log = logger.NewNop()
	}
	return &logMailer{log: log.With(map[string]any{"component": "mailer"})}
}

func (m *logMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.log.Info("password reset requested", map[string]any{"email": email, "reset_token": token})
	return nil
}
