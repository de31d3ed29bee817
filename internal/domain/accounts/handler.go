package accounts

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"nyanpass/internal/i18n"
	"nyanpass/internal/middleware"
	"nyanpass/internal/platform/web"
	"nyanpass/internal/ports/auth"
)

// RegisterRoutes monta /auth. limit se aplica a las rutas con contraseña; puede ser nil.
func RegisterRoutes(r chi.Router, svc *Service, limit func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limit != nil {
				r.Use(limit)
			}
			r.Post("/register", registerHandler(svc))
			r.Post("/login", loginHandler(svc))
			r.Post("/password-reset", passwordResetHandler(svc))
			r.Post("/password-reset/confirm", confirmResetHandler(svc))
		})
		r.Post("/logout", logoutHandler(svc))
		r.Patch("/profile", updateProfileHandler(svc))
		r.Get("/me", meHandler(svc))
	})
}

// credentialsRequest sirve para alta y login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// credentialResponse es lo que guarda el cliente; idToken va en Authorization: Bearer.
type credentialResponse struct {
	User         auth.User `json:"user"`
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type confirmResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// profileRequest: campo ausente = no tocar; "" lo borra.
type profileRequest struct {
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
}

func toCredentialResponse(c auth.Credential) credentialResponse {
	return credentialResponse{User: c.User, IDToken: c.IDToken, RefreshToken: c.RefreshToken, ExpiresAt: c.ExpiresAt}
}

// registerHandler godoc
// @Summary Crear cuenta
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "Email y contraseña (mínimo 6)"
// @Success 201 {object} credentialResponse
// @Failure 400 {object} web.ErrorResponse "email inválido o contraseña débil"
// @Failure 409 {object} web.ErrorResponse "email ya registrado"
// @Failure 429 {object} web.ErrorResponse
// @Router /auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		cred, err := svc.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			web.AuthFail(w, r, i18n.OpRegister, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toCredentialResponse(cred))
	}
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "Email y contraseña"
// @Success 200 {object} credentialResponse
// @Failure 401 {object} web.ErrorResponse
// @Failure 403 {object} web.ErrorResponse "cuenta deshabilitada"
// @Failure 429 {object} web.ErrorResponse
// @Router /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Load, err)
			return
		}
		cred, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			web.AuthFail(w, r, i18n.OpLogin, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toCredentialResponse(cred))
	}
}

// logoutHandler godoc
// @Summary Cerrar sesión
// @Description Revoca el token si el proveedor lo soporta.
// @Tags auth
// @Param Authorization header string true "Bearer token"
// @Success 204
// @Failure 401 {object} web.ErrorResponse
// @Router /auth/logout [post]
func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), middleware.IDToken(r.Context())); err != nil {
			web.AuthFail(w, r, i18n.OpLogin, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// passwordResetHandler godoc
// @Summary Pedir email de recuperación
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body resetRequest true "Email"
// @Success 202 {object} web.ErrorResponse "code reset_sent"
// @Failure 400 {object} web.ErrorResponse
// @Failure 401 {object} web.ErrorResponse "no hay cuenta con ese email"
// @Router /auth/password-reset [post]
func passwordResetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		if err := svc.ResetPassword(r.Context(), req.Email); err != nil {
			web.AuthFail(w, r, i18n.OpReset, err)
			return
		}
		lang := i18n.FromContext(r.Context())
		web.WriteJSON(w, http.StatusAccepted, web.ErrorResponse{
			Code:    i18n.MsgResetSent,
			Message: i18n.Message(lang, i18n.MsgResetSent),
		})
	}
}

// confirmResetHandler godoc
// @Summary Confirmar nueva contraseña
// @Description Solo con el proveedor local; el token llega por email y se usa una vez.
// @Tags auth
// @Accept json
// @Param payload body confirmResetRequest true "Token y contraseña nueva"
// @Success 204
// @Failure 400 {object} web.ErrorResponse
// @Failure 401 {object} web.ErrorResponse "token inválido o usado"
// @Failure 501 {object} web.ErrorResponse
// @Router /auth/password-reset/confirm [post]
func confirmResetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req confirmResetRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		err := svc.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword)
		switch {
		case errors.Is(err, ErrResetUnsupported):
			web.WriteJSON(w, http.StatusNotImplemented, web.ErrorResponse{Code: "not_supported", Message: err.Error()})
		case err != nil:
			web.AuthFail(w, r, i18n.OpReset, err)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

// updateProfileHandler godoc
// @Summary Editar perfil de la cuenta
// @Tags auth
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body profileRequest true "Campos a cambiar"
// @Success 200 {object} auth.User
// @Failure 401 {object} web.ErrorResponse
// @Router /auth/profile [patch]
func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		u, err := svc.UpdateProfile(r.Context(), middleware.IDToken(r.Context()),
			auth.ProfileUpdate{DisplayName: req.DisplayName, PhotoURL: req.PhotoURL})
		if err != nil {
			web.AuthFail(w, r, i18n.OpProfile, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, u)
	}
}

// meHandler godoc
// @Summary Usuario actual
// @Tags auth
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} auth.User
// @Failure 401 {object} web.ErrorResponse
// @Router /auth/me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.CurrentUser(r.Context(), middleware.IDToken(r.Context()))
		if err != nil {
			web.AuthFail(w, r, i18n.OpProfile, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, u)
	}
}
