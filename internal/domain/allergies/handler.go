package allergies

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nyanpass/internal/domain/cats"
	"nyanpass/internal/middleware"
	"nyanpass/internal/platform/web"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/allergies", listAllAllergiesHandler(svc))

	r.Route("/cats/{catID}/allergies", func(r chi.Router) {
		r.Get("/", listAllergiesHandler(svc))
		r.Post("/", createAllergyHandler(svc))
		r.Get("/{allergyID}", getAllergyHandler(svc))
		r.Put("/{allergyID}", updateAllergyHandler(svc))
		r.Delete("/{allergyID}", deleteAllergyHandler(svc))
	})
}

// allergyRequest: sin diagnosisDate se toma la fecha de alta.
type allergyRequest struct {
	Name          string   `json:"name"`
	Symptoms      string   `json:"symptoms"`
	Severity      Severity `json:"severity" enums:"low,medium,high"`
	Notes         string   `json:"notes"`
	DiagnosisDate *string  `json:"diagnosisDate"`
}

func (req allergyRequest) toInput(catID string) (Input, error) {
	diagnosed, err := web.OptionalDate(req.DiagnosisDate)
	if err != nil {
		return Input{}, err
	}
	return Input{
		CatID:         catID,
		Name:          req.Name,
		Symptoms:      req.Symptoms,
		Severity:      req.Severity,
		Notes:         req.Notes,
		DiagnosisDate: diagnosed,
	}, nil
}

// listAllAllergiesHandler godoc
// @Summary Listar alergias de todos los gatos
// @Tags allergies
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {array} Allergy
// @Failure 401 {object} web.ErrorResponse
// @Router /allergies [get]
func listAllAllergiesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context(), middleware.UserID(r.Context()))
		if err != nil {
			web.Fail(w, r, web.Load, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, items)
	}
}

// listAllergiesHandler godoc
// @Summary Listar alergias de un gato
// @Tags allergies
// @Produce json
// @Param catID path string true "ID del gato"
// @Success 200 {array} Allergy
// @Router /cats/{catID}/allergies [get]
func listAllergiesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByCat(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"))
		if err != nil {
			web.Fail(w, r, web.Load, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, items)
	}
}

// createAllergyHandler godoc
// @Summary Registrar alergia
// @Tags allergies
// @Accept json
// @Produce json
// @Param catID path string true "ID del gato"
// @Param payload body allergyRequest true "Alergia"
// @Success 201 {object} Allergy
// @Failure 400 {object} web.ErrorResponse
// @Failure 404 {object} web.ErrorResponse "gato inexistente"
// @Router /cats/{catID}/allergies [post]
func createAllergyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req allergyRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		in, err := req.toInput(chi.URLParam(r, "catID"))
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		a, err := svc.Create(r.Context(), middleware.UserID(r.Context()), in)
		if err != nil {
			web.Fail(w, r, web.Save, err, cats.ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusCreated, a)
	}
}

// getAllergyHandler godoc
// @Summary Obtener alergia
// @Tags allergies
// @Produce json
// @Param catID path string true "ID del gato"
// @Param allergyID path string true "ID de la alergia"
// @Success 200 {object} Allergy
// @Failure 404 {object} web.ErrorResponse
// @Router /cats/{catID}/allergies/{allergyID} [get]
func getAllergyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"), chi.URLParam(r, "allergyID"))
		if err != nil {
			web.Fail(w, r, web.Load, err, ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusOK, a)
	}
}

// updateAllergyHandler godoc
// @Summary Editar alergia
// @Tags allergies
// @Accept json
// @Produce json
// @Param catID path string true "ID del gato"
// @Param allergyID path string true "ID de la alergia"
// @Param payload body allergyRequest true "Alergia"
// @Success 200 {object} Allergy
// @Failure 400 {object} web.ErrorResponse
// @Failure 404 {object} web.ErrorResponse
// @Router /cats/{catID}/allergies/{allergyID} [put]
func updateAllergyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req allergyRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		catID := chi.URLParam(r, "catID")
		in, err := req.toInput(catID)
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		a, err := svc.Update(r.Context(), middleware.UserID(r.Context()), catID, chi.URLParam(r, "allergyID"), in)
		if err != nil {
			web.Fail(w, r, web.Save, err, ErrNotFound, cats.ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusOK, a)
	}
}

// deleteAllergyHandler godoc
// @Summary Borrar alergia
// @Tags allergies
// @Param catID path string true "ID del gato"
// @Param allergyID path string true "ID de la alergia"
// @Success 204
// @Router /cats/{catID}/allergies/{allergyID} [delete]
func deleteAllergyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"), chi.URLParam(r, "allergyID"))
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
