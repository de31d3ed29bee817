package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nyanpass/internal/i18n"
	"nyanpass/internal/middleware"
	"nyanpass/internal/platform/web"
)

// RegisterRoutes monta /settings y el borrado total de datos del usuario.
// owners son los servicios que se vacían en DELETE /me/data (los gatos, con todo lo que cuelga).
func RegisterRoutes(r chi.Router, svc *Service, owners ...DataOwner) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", getSettingsHandler(svc))
		r.Put("/", saveSettingsHandler(svc))
		r.Put("/language", changeLanguageHandler(svc))
	})
	r.Delete("/me/data", clearDataHandler(svc, owners))
}

// languageRequest cambia solo el idioma.
type languageRequest struct {
	Language i18n.Language `json:"language" enums:"es,en,fr,pt"`
}

// getSettingsHandler godoc
// @Summary Obtener preferencias
// @Description Nunca falla por lectura: sin documento devuelve los defaults.
// @Tags settings
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} Settings
// @Failure 401 {object} web.ErrorResponse
// @Router /settings [get]
func getSettingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Get(r.Context(), middleware.UserID(r.Context()))
		if err != nil {
			web.Fail(w, r, web.Load, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, st)
	}
}

// saveSettingsHandler godoc
// @Summary Guardar preferencias
// @Description Campos vacíos toman el default.
// @Tags settings
// @Accept json
// @Produce json
// @Param payload body Settings true "Preferencias"
// @Success 200 {object} Settings
// @Failure 400 {object} web.ErrorResponse
// @Failure 500 {object} web.ErrorResponse
// @Router /settings [put]
func saveSettingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Settings
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		st, err := svc.Save(r.Context(), middleware.UserID(r.Context()), req)
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, st)
	}
}

// changeLanguageHandler godoc
// @Summary Cambiar idioma
// @Tags settings
// @Accept json
// @Produce json
// @Param payload body languageRequest true "Idioma"
// @Success 200 {object} Settings
// @Failure 400 {object} web.ErrorResponse
// @Router /settings/language [put]
func changeLanguageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req languageRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		st, err := svc.ChangeLanguage(r.Context(), middleware.UserID(r.Context()), req.Language)
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, st)
	}
}

// clearDataHandler godoc
// @Summary Borrar todos los datos del usuario
// @Description Borra gatos (con vacunas, alergias, tratamientos y fotos) y las preferencias.
// @Tags settings
// @Success 204
// @Failure 401 {object} web.ErrorResponse
// @Failure 500 {object} web.ErrorResponse
// @Router /me/data [delete]
func clearDataHandler(svc *Service, owners []DataOwner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearAll(r.Context(), middleware.UserID(r.Context()), owners...); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
