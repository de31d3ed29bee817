// Package local implementa el proveedor de identidad sobre Redis:
// usuarios con bcrypt, tokens HS256 con jti revocable y tokens de reseteo con TTL.
package local

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"nyanpass/internal/platform/validation"
	"nyanpass/internal/ports/auth"
)

const (
	minPasswordLen = 6
	keyPrefix      = "nyanpass:auth:"
)

var ErrInvalidConfig = errors.New("local auth: invalid config")

type Config struct {
	Secret          string
	TokenTTL        time.Duration
	MaxFailedLogins int
	FailedLoginsTTL time.Duration
	ResetTTL        time.Duration
}

// Mailer entrega el token de reseteo al usuario.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

type Provider struct {
	rdb    *redis.Client
	cfg    Config
	mailer Mailer
	now    func() time.Time
}

var _ auth.Provider = (*Provider)(nil)

func New(rdb *redis.Client, cfg Config, mailer Mailer) (*Provider, error) {
	if rdb == nil || len(cfg.Secret) < 32 {
		return nil, ErrInvalidConfig
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.MaxFailedLogins <= 0 {
		cfg.MaxFailedLogins = 5
	}
	if cfg.FailedLoginsTTL <= 0 {
		cfg.FailedLoginsTTL = 15 * time.Minute
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	if mailer == nil {
		mailer = LogMailer(nil)
	}
	return &Provider{rdb: rdb, cfg: cfg, mailer: mailer, now: time.Now}, nil
}

func emailKey(email string) string { return keyPrefix + "email:" + email }
func userKey(uid string) string     { return keyPrefix + "user:" + uid }
func failedKey(email string) string { return keyPrefix + "failed:" + email }
func revokedKey(jti string) string  { return keyPrefix + "revoked:" + jti }
func resetKey(token string) string  { return keyPrefix + "reset:" + token }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (auth.Credential, error) {
	email = normalizeEmail(email)
	if !validation.Var(email, "required,email") {
		return auth.Credential{}, auth.NewError(auth.CodeInvalidEmail, nil)
	}
	if len(password) < minPasswordLen {
		return auth.Credential{}, auth.NewError(auth.CodeWeakPassword, fmt.Errorf("password shorter than %d", minPasswordLen))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return auth.Credential{}, auth.NewError(auth.CodeInternal, err)
	}

	uid := uuid.NewString()
	ok, err := p.rdb.SetNX(ctx, emailKey(email), uid, 0).Result()
	if err != nil {
		return auth.Credential{}, auth.NewError(auth.CodeInternal, err)
	}
	if !ok {
		return auth.Credential{}, auth.NewError(auth.CodeEmailAlreadyInUse, nil)
	}

	fields := map[string]any{
		"email":     email,
		"hash":      string(hash),
		"createdAt": p.now().UTC().Format(time.RFC3339),
	}
	if err := p.rdb.HSet(ctx, userKey(uid), fields).Err(); err != nil {
		_ = p.rdb.Del(ctx, emailKey(email)).Err()
		return auth.Credential{}, auth.NewError(auth.CodeInternal, err)
	}

	return p.issue(auth.User{ID: uid, Email: email})
}

// SignIn corta con too-many-requests después de MaxFailedLogins intentos fallidos
// dentro de la ventana FailedLoginsTTL.
func (p *Provider) SignIn(ctx context.Context, email, password string) (auth.Credential, error) {
	email = normalizeEmail(email)
	if !validation.Var(email, "required,email") {
		return auth.Credential{}, auth.NewError(auth.CodeInvalidEmail, nil)
	}

	failed, err := p.rdb.Get(ctx, failedKey(email)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return auth.Credential{}, auth.NewError(auth.CodeInternal, err)
	}
	if failed >= p.cfg.MaxFailedLogins {
		return auth.Credential{}, auth.NewError(auth.CodeTooManyRequests, nil)
	}

	uid, err := p.uidByEmail(ctx, email)
	if err != nil {
		return auth.Credential{}, err
	}
	rec, err := p.load(ctx, uid)
	if err != nil {
		return auth.Credential{}, err
	}
	if rec["disabled"] == "1" {
		return auth.Credential{}, auth.NewError(auth.CodeUserDisabled, nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec["hash"]), []byte(password)); err != nil {
		pipe := p.rdb.TxPipeline()
		pipe.Incr(ctx, failedKey(email))
		pipe.Expire(ctx, failedKey(email), p.cfg.FailedLoginsTTL)
		_, _ = pipe.Exec(ctx)
		return auth.Credential{}, auth.NewError(auth.CodeWrongPassword, nil)
	}
	_ = p.rdb.Del(ctx, failedKey(email)).Err()

	return p.issue(toUser(uid, rec))
}

// SignOut revoca el jti hasta que el token venza solo.
func (p *Provider) SignOut(ctx context.Context, idToken string) error {
	claims, err := p.parse(idToken)
	if err != nil {
		return err
	}
	ttl := claims.ExpiresAt.Time.Sub(p.now())
	if ttl <= 0 {
		return nil
	}
	if err := p.rdb.Set(ctx, revokedKey(claims.ID), "1", ttl).Err(); err != nil {
		return auth.NewError(auth.CodeInternal, err)
	}
	return nil
}

// SendPasswordReset genera un token de un solo uso y lo entrega por el Mailer.
func (p *Provider) SendPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !validation.Var(email, "required,email") {
		return auth.NewError(auth.CodeInvalidEmail, nil)
	}
	uid, err := p.uidByEmail(ctx, email)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := p.rdb.Set(ctx, resetKey(token), uid, p.cfg.ResetTTL).Err(); err != nil {
		return auth.NewError(auth.CodeInternal, err)
	}
	if err := p.mailer.SendPasswordReset(ctx, email, token); err != nil {
		return auth.NewError(auth.CodeInternal, err)
	}
	return nil
}

// ConfirmPasswordReset consume el token y reemplaza la contraseña.
func (p *Provider) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return auth.NewError(auth.CodeWeakPassword, nil)
	}
	uid, err := p.rdb.Get(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return auth.NewError(auth.CodeInvalidIDToken, errors.New("reset token expired or used"))
	}
	if err != nil {
		return auth.NewError(auth.CodeInternal, err)
	}
	if err := p.rdb.Del(ctx, resetKey(token)).Err(); err != nil {
		return auth.NewError(auth.CodeInternal, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return auth.NewError(auth.CodeInternal, err)
	}
	if err := p.rdb.HSet(ctx, userKey(uid), "hash", string(hash)).Err(); err != nil {
		return auth.NewError(auth.CodeInternal, err)
	}
	if rec, err := p.load(ctx, uid); err == nil {
		_ = p.rdb.Del(ctx, failedKey(rec["email"])).Err()
	}
	return nil
}

func (p *Provider) UpdateProfile(ctx context.Context, idToken string, upd auth.ProfileUpdate) (auth.User, error) {
	claims, err := p.Verify(ctx, idToken)
	if err != nil {
		return auth.User{}, err
	}

	set := map[string]any{}
	var del []string
	apply := func(field string, v *string) {
		if v == nil {
			return
		}
		if s := strings.TrimSpace(*v); s != "" {
			set[field] = s
		} else {
			del = append(del, field)
		}
	}
	apply("displayName", upd.DisplayName)
	apply("photoURL", upd.PhotoURL)

	if len(set) > 0 {
		if err := p.rdb.HSet(ctx, userKey(claims.UserID), set).Err(); err != nil {
			return auth.User{}, auth.NewError(auth.CodeInternal, err)
		}
	}
	if len(del) > 0 {
		if err := p.rdb.HDel(ctx, userKey(claims.UserID), del...).Err(); err != nil {
			return auth.User{}, auth.NewError(auth.CodeInternal, err)
		}
	}

	rec, err := p.load(ctx, claims.UserID)
	if err != nil {
		return auth.User{}, err
	}
	return toUser(claims.UserID, rec), nil
}

func (p *Provider) Lookup(ctx context.Context, idToken string) (auth.User, error) {
	claims, err := p.Verify(ctx, idToken)
	if err != nil {
		return auth.User{}, err
	}
	rec, err := p.load(ctx, claims.UserID)
	if err != nil {
		return auth.User{}, err
	}
	if rec["disabled"] == "1" {
		return auth.User{}, auth.NewError(auth.CodeUserDisabled, nil)
	}
	return toUser(claims.UserID, rec), nil
}

func (p *Provider) uidByEmail(ctx context.Context, email string) (string, error) {
	uid, err := p.rdb.Get(ctx, emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", auth.NewError(auth.CodeUserNotFound, nil)
	}
	if err != nil {
		return "", auth.NewError(auth.CodeInternal, err)
	}
	return uid, nil
}

func (p *Provider) load(ctx context.Context, uid string) (map[string]string, error) {
	rec, err := p.rdb.HGetAll(ctx, userKey(uid)).Result()
	if err != nil {
		return nil, auth.NewError(auth.CodeInternal, err)
	}
	if len(rec) == 0 {
		return nil, auth.NewError(auth.CodeUserNotFound, nil)
	}
	return rec, nil
}

func toUser(uid string, rec map[string]string) auth.User {
	return auth.User{
		ID:          uid,
		Email:       rec["email"],
		DisplayName: rec["displayName"],
		PhotoURL:    rec["photoURL"],
	}
}
