package identitytoolkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nyanpass/internal/platform/httpclient"
	"nyanpass/internal/ports/auth"
)

var ErrNotConfigured = errors.New("identity toolkit client not configured")

// Config del cliente REST de Identity Toolkit.
// BaseURL y APIKey vienen de env en main.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client habla con los endpoints /v1/accounts:* usando la API key del proyecto.
type Client struct {
	http   *httpclient.Client
	apiKey string
	now    func() time.Time
}

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.New(cfg.BaseURL, cfg.Timeout)
	if errors.Is(err, httpclient.ErrNoBaseURL) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, apiKey: apiKey, now: time.Now}, nil
}

var _ auth.Provider = (*Client)(nil)

type tokenResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type accountInfo struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
	Disabled    bool   `json:"disabled"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (auth.Credential, error) {
	return c.token(ctx, "signUp", email, password)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (auth.Credential, error) {
	return c.token(ctx, "signInWithPassword", email, password)
}

func (c *Client) token(ctx context.Context, method, email, password string) (auth.Credential, error) {
	in := map[string]any{
		"email":             strings.TrimSpace(email),
		"password":          password,
		"returnSecureToken": true,
	}
	var out tokenResponse
	if err := c.call(ctx, method, in, &out); err != nil {
		return auth.Credential{}, err
	}

	cred := auth.Credential{
		User: auth.User{
			ID:          out.LocalID,
			Email:       out.Email,
			DisplayName: out.DisplayName,
		},
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
	}
	if secs, err := strconv.Atoi(out.ExpiresIn); err == nil {
		cred.ExpiresAt = c.now().Add(time.Duration(secs) * time.Second)
	}
	return cred, nil
}

// SignOut: la API REST no revoca id tokens con API key; el cliente descarta el token.
func (c *Client) SignOut(ctx context.Context, idToken string) error {
	return nil
}

func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	in := map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       strings.TrimSpace(email),
	}
	return c.call(ctx, "sendOobCode", in, nil)
}

// UpdateProfile: un valor vacío borra el atributo.
func (c *Client) UpdateProfile(ctx context.Context, idToken string, upd auth.ProfileUpdate) (auth.User, error) {
	in := map[string]any{"idToken": idToken, "returnSecureToken": false}
	var remove []string
	if upd.DisplayName != nil {
		if v := strings.TrimSpace(*upd.DisplayName); v != "" {
			in["displayName"] = v
		} else {
			remove = append(remove, "DISPLAY_NAME")
		}
	}
	if upd.PhotoURL != nil {
		if v := strings.TrimSpace(*upd.PhotoURL); v != "" {
			in["photoUrl"] = v
		} else {
			remove = append(remove, "PHOTO_URL")
		}
	}
	if len(remove) > 0 {
		in["deleteAttribute"] = remove
	}

	var out accountInfo
	if err := c.call(ctx, "update", in, &out); err != nil {
		return auth.User{}, err
	}
	return toUser(out), nil
}

func (c *Client) Lookup(ctx context.Context, idToken string) (auth.User, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return auth.User{}, auth.NewError(auth.CodeInvalidIDToken, errors.New("empty token"))
	}

	var out struct {
		Users []accountInfo `json:"users"`
	}
	if err := c.call(ctx, "lookup", map[string]any{"idToken": idToken}, &out); err != nil {
		return auth.User{}, err
	}
	if len(out.Users) == 0 {
		return auth.User{}, auth.NewError(auth.CodeUserNotFound, errors.New("lookup returned no users"))
	}
	if out.Users[0].Disabled {
		return auth.User{}, auth.NewError(auth.CodeUserDisabled, nil)
	}
	return toUser(out.Users[0]), nil
}

func (c *Client) call(ctx context.Context, method string, in, out any) error {
	path := "/v1/accounts:" + method + "?key=" + url.QueryEscape(c.apiKey)
	err := c.http.DoJSON(ctx, http.MethodPost, path, in, out)
	if err == nil {
		return nil
	}
	return fmt.Errorf("identitytoolkit %s: %w", method, mapError(err))
}

func toUser(a accountInfo) auth.User {
	return auth.User{
		ID:          a.LocalID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		PhotoURL:    a.PhotoURL,
	}
}

// mapError traduce el "message" del cuerpo de error a los códigos auth/*.
// El mensaje puede traer detalle: "WEAK_PASSWORD : Password should be at least 6 characters".
func mapError(err error) error {
	var herr *httpclient.StatusError
	if !errors.As(err, &herr) {
		return auth.NewError(auth.CodeInternal, err)
	}

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(herr.Body, &body)
	msg := strings.TrimSpace(strings.SplitN(body.Error.Message, ":", 2)[0])

	cause := errors.New(strings.TrimSpace(body.Error.Message))
	if body.Error.Message == "" {
		cause = herr
	}

	switch msg {
	case "EMAIL_EXISTS":
		return auth.NewError(auth.CodeEmailAlreadyInUse, cause)
	case "WEAK_PASSWORD":
		return auth.NewError(auth.CodeWeakPassword, cause)
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return auth.NewError(auth.CodeInvalidEmail, cause)
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		return auth.NewError(auth.CodeUserNotFound, cause)
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "MISSING_PASSWORD":
		return auth.NewError(auth.CodeWrongPassword, cause)
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return auth.NewError(auth.CodeTooManyRequests, cause)
	case "USER_DISABLED":
		return auth.NewError(auth.CodeUserDisabled, cause)
	case "INVALID_ID_TOKEN", "TOKEN_EXPIRED", "CREDENTIAL_TOO_OLD_LOGIN_AGAIN":
		return auth.NewError(auth.CodeInvalidIDToken, cause)
	}
	if herr.Status == http.StatusTooManyRequests {
		return auth.NewError(auth.CodeTooManyRequests, cause)
	}
	return auth.NewError(auth.CodeInternal, cause)
}
