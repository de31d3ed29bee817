package vaccines

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nyanpass/internal/domain/cats"
	"nyanpass/internal/middleware"
	"nyanpass/internal/platform/web"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/vaccines", listAllVaccinesHandler(svc))

	r.Route("/cats/{catID}/vaccines", func(r chi.Router) {
		r.Get("/", listVaccinesHandler(svc))
		r.Post("/", createVaccineHandler(svc))
		r.Get("/{vaccineID}", getVaccineHandler(svc))
		r.Put("/{vaccineID}", updateVaccineHandler(svc))
		r.Delete("/{vaccineID}", deleteVaccineHandler(svc))
	})
}

// vaccineRequest: fechas en YYYY-MM-DD o RFC3339; nextDoseDate opcional.
type vaccineRequest struct {
	Name            string  `json:"name"`
	ApplicationDate string  `json:"applicationDate"`
	NextDoseDate    *string `json:"nextDoseDate"`
	Notes           string  `json:"notes"`
}

// vaccineResponse agrega el estado de la próxima dosis.
type vaccineResponse struct {
	Vaccine
	Status Status `json:"status" enums:"ok,upcoming,expired"`
	// Días hasta la próxima dosis, o vencidos si Status es expired.
	Days int `json:"days"`
}

func (req vaccineRequest) toInput(catID string) (Input, error) {
	applied, err := web.RequiredDate(req.ApplicationDate)
	if err != nil {
		return Input{}, err
	}
	next, err := web.OptionalDate(req.NextDoseDate)
	if err != nil {
		return Input{}, err
	}
	return Input{CatID: catID, Name: req.Name, ApplicationDate: applied, NextDoseDate: next, Notes: req.Notes}, nil
}

func toResponse(svc *Service, v Vaccine) vaccineResponse {
	status, days := svc.StatusOf(v)
	return vaccineResponse{Vaccine: v, Status: status, Days: days}
}

func toResponses(svc *Service, items []Vaccine) []vaccineResponse {
	out := make([]vaccineResponse, 0, len(items))
	for _, v := range items {
		out = append(out, toResponse(svc, v))
	}
	return out
}

// listAllVaccinesHandler godoc
// @Summary Listar vacunas de todos los gatos
// @Description Agrupadas por gato.
// @Tags vaccines
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {array} vaccineResponse
// @Failure 401 {object} web.ErrorResponse
// @Router /vaccines [get]
func listAllVaccinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context(), middleware.UserID(r.Context()))
		if err != nil {
			web.Fail(w, r, web.Load, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponses(svc, items))
	}
}

// listVaccinesHandler godoc
// @Summary Listar vacunas de un gato
// @Description Más recientes primero.
// @Tags vaccines
// @Produce json
// @Param catID path string true "ID del gato"
// @Success 200 {array} vaccineResponse
// @Router /cats/{catID}/vaccines [get]
func listVaccinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByCat(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"))
		if err != nil {
			web.Fail(w, r, web.Load, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponses(svc, items))
	}
}

// createVaccineHandler godoc
// @Summary Registrar vacuna
// @Tags vaccines
// @Accept json
// @Produce json
// @Param catID path string true "ID del gato"
// @Param payload body vaccineRequest true "Vacuna"
// @Success 201 {object} vaccineResponse
// @Failure 400 {object} web.ErrorResponse
// @Failure 404 {object} web.ErrorResponse "gato inexistente"
// @Router /cats/{catID}/vaccines [post]
func createVaccineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req vaccineRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		in, err := req.toInput(chi.URLParam(r, "catID"))
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		v, err := svc.Create(r.Context(), middleware.UserID(r.Context()), in)
		if err != nil {
			web.Fail(w, r, web.Save, err, cats.ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toResponse(svc, v))
	}
}

// getVaccineHandler godoc
// @Summary Obtener vacuna
// @Tags vaccines
// @Produce json
// @Param catID path string true "ID del gato"
// @Param vaccineID path string true "ID de la vacuna"
// @Success 200 {object} vaccineResponse
// @Failure 404 {object} web.ErrorResponse
// @Router /cats/{catID}/vaccines/{vaccineID} [get]
func getVaccineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"), chi.URLParam(r, "vaccineID"))
		if err != nil {
			web.Fail(w, r, web.Load, err, ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(svc, v))
	}
}

// updateVaccineHandler godoc
// @Summary Editar vacuna
// @Tags vaccines
// @Accept json
// @Produce json
// @Param catID path string true "ID del gato"
// @Param vaccineID path string true "ID de la vacuna"
// @Param payload body vaccineRequest true "Vacuna"
// @Success 200 {object} vaccineResponse
// @Failure 400 {object} web.ErrorResponse
// @Failure 404 {object} web.ErrorResponse
// @Router /cats/{catID}/vaccines/{vaccineID} [put]
func updateVaccineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req vaccineRequest
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
		v, err := svc.Update(r.Context(), middleware.UserID(r.Context()), catID, chi.URLParam(r, "vaccineID"), in)
		if err != nil {
			web.Fail(w, r, web.Save, err, ErrNotFound, cats.ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponse(svc, v))
	}
}

// deleteVaccineHandler godoc
// @Summary Borrar vacuna
// @Tags vaccines
// @Param catID path string true "ID del gato"
// @Param vaccineID path string true "ID de la vacuna"
// @Success 204
// @Router /cats/{catID}/vaccines/{vaccineID} [delete]
func deleteVaccineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"), chi.URLParam(r, "vaccineID"))
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
