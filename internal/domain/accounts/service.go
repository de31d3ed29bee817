// Package accounts envuelve al proveedor de identidad: alta, login, logout,
// reseteo de contraseña, perfil y verificación de tokens.
package accounts

import (
	"context"
	"errors"
	"strings"

	"nyanpass/internal/analytics"
	"nyanpass/internal/i18n"
	"nyanpass/internal/platform/logger"
	"nyanpass/internal/platform/metrics"
	"nyanpass/internal/ports/auth"
)

var (
	// ErrNoCurrentUser: operación de sesión sin usuario logueado.
	ErrNoCurrentUser = auth.NewError(auth.CodeNoCurrentUser, nil)
	// ErrResetUnsupported: el proveedor manda su propio link y no confirma tokens acá.
	ErrResetUnsupported = errors.New("password reset confirmation not supported by provider")
)

// ResetConfirmer lo implementan los proveedores que emiten ellos mismos el token de reseteo.
type ResetConfirmer interface {
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type Service struct {
	provider auth.Provider
	tracker  analytics.Tracker
	log      logger.Logger
}

func NewService(p auth.Provider, tracker analytics.Tracker, log logger.Logger) *Service {
	if tracker == nil {
		tracker = analytics.Nop()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{provider: p, tracker: tracker, log: log.With(map[string]any{"component": "accounts"})}
}

var _ auth.AuthVerifier = (*Service)(nil)

func (s *Service) Register(ctx context.Context, email, password string) (auth.Credential, error) {
	cred, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return auth.Credential{}, s.fail(i18n.OpRegister, err)
	}
	s.tracker.Track(ctx, analytics.EventSignUp, map[string]any{"uid": cred.User.ID})
	return cred, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (auth.Credential, error) {
	cred, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return auth.Credential{}, s.fail(i18n.OpLogin, err)
	}
	s.tracker.Track(ctx, analytics.EventLogin, map[string]any{"uid": cred.User.ID})
	return cred, nil
}

func (s *Service) Logout(ctx context.Context, idToken string) error {
	if strings.TrimSpace(idToken) == "" {
		return ErrNoCurrentUser
	}
	if err := s.provider.SignOut(ctx, idToken); err != nil {
		return s.fail("logout", err)
	}
	s.tracker.Track(ctx, analytics.EventLogout, nil)
	return nil
}

// ResetPassword pide al proveedor el email de recuperación.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	if err := s.provider.SendPasswordReset(ctx, email); err != nil {
		return s.fail(i18n.OpReset, err)
	}
	s.tracker.Track(ctx, analytics.EventPasswordReset, nil)
	return nil
}

// ConfirmPasswordReset canjea el token del email por una contraseña nueva.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	rc, ok := s.provider.(ResetConfirmer)
	if !ok {
		return ErrResetUnsupported
	}
	if err := rc.ConfirmPasswordReset(ctx, token, newPassword); err != nil {
		return s.fail(i18n.OpReset, err)
	}
	return nil
}

func (s *Service) UpdateProfile(ctx context.Context, idToken string, upd auth.ProfileUpdate) (auth.User, error) {
	if strings.TrimSpace(idToken) == "" {
		return auth.User{}, ErrNoCurrentUser
	}
	u, err := s.provider.UpdateProfile(ctx, idToken, upd)
	if err != nil {
		return auth.User{}, s.fail(i18n.OpProfile, err)
	}
	return u, nil
}

// CurrentUser resuelve el usuario dueño del token.
func (s *Service) CurrentUser(ctx context.Context, idToken string) (auth.User, error) {
	if strings.TrimSpace(idToken) == "" {
		return auth.User{}, ErrNoCurrentUser
	}
	u, err := s.provider.Lookup(ctx, idToken)
	if err != nil {
		return auth.User{}, s.fail("lookup", err)
	}
	return u, nil
}

// Verify deja al servicio como verificador del middleware de auth.
func (s *Service) Verify(ctx context.Context, token string) (auth.Claims, error) {
	claims, err := s.provider.Verify(ctx, token)
	if err != nil {
		return auth.Claims{}, s.fail("verify", err)
	}
	return claims, nil
}

// fail normaliza a *auth.Error, cuenta la falla y la loguea con su código.
func (s *Service) fail(op i18n.Operation, err error) error {
	var aerr *auth.Error
	if !errors.As(err, &aerr) {
		err = auth.NewError(auth.CodeInternal, err)
	}
	code := auth.CodeOf(err)
	metrics.AuthFailures.WithLabelValues(string(op), string(code)).Inc()
	s.log.Info("auth operation failed", map[string]any{"op": string(op), "code": string(code)})
	return err
}
