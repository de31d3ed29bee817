package treatments

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nyanpass/internal/domain/cats"
	"nyanpass/internal/middleware"
	"nyanpass/internal/platform/web"
	"nyanpass/internal/ports/media"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/treatments", listAllTreatmentsHandler(svc))

	r.Route("/cats/{catID}/treatments", func(r chi.Router) {
		r.Get("/", listTreatmentsHandler(svc))
		r.Post("/", createTreatmentHandler(svc))
		r.Get("/{treatmentID}", getTreatmentHandler(svc))
		r.Put("/{treatmentID}", updateTreatmentHandler(svc))
		r.Delete("/{treatmentID}", deleteTreatmentHandler(svc))
		r.Post("/{treatmentID}/attachments", addAttachmentHandler(svc))
	})
}

type treatmentRequest struct {
	Name         string  `json:"name"`
	StartDate    string  `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Dosage       string  `json:"dosage"`
	Frequency    string  `json:"frequency"`
	Veterinarian string  `json:"veterinarian"`
	Notes        string  `json:"notes"`
}

type treatmentResponse struct {
	Treatment
	Ongoing bool `json:"ongoing"`
}

func (req treatmentRequest) toInput(catID string) (Input, error) {
	start, err := web.RequiredDate(req.StartDate)
	if err != nil {
		return Input{}, err
	}
	end, err := web.OptionalDate(req.EndDate)
	if err != nil {
		return Input{}, err
	}
	return Input{
		CatID:        catID,
		Name:         req.Name,
		StartDate:    start,
		EndDate:      end,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		Veterinarian: req.Veterinarian,
		Notes:        req.Notes,
	}, nil
}

func toResponses(svc *Service, items []Treatment) []treatmentResponse {
	out := make([]treatmentResponse, 0, len(items))
	for _, t := range items {
		out = append(out, treatmentResponse{Treatment: t, Ongoing: svc.IsOngoing(t)})
	}
	return out
}

// listAllTreatmentsHandler godoc
// @Summary Listar tratamientos de todos los gatos
// @Tags treatments
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param ongoing query bool false "Solo los tratamientos en curso"
// @Success 200 {array} treatmentResponse
// @Failure 400 {object} web.ErrorResponse
// @Failure 401 {object} web.ErrorResponse
// @Router /treatments [get]
func listAllTreatmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		onlyOngoing := false
		if raw := r.URL.Query().Get("ongoing"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				web.Fail(w, r, web.Load, ErrInvalidInput)
				return
			}
			onlyOngoing = v
		}

		uid := middleware.UserID(r.Context())
		var (
			items []Treatment
			err   error
		)
		if onlyOngoing {
			items, err = svc.Ongoing(r.Context(), uid)
		} else {
			items, err = svc.ListAll(r.Context(), uid)
		}
		if err != nil {
			web.Fail(w, r, web.Load, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponses(svc, items))
	}
}

// listTreatmentsHandler godoc
// @Summary Listar tratamientos de un gato
// @Description El inicio más reciente primero.
// @Tags treatments
// @Produce json
// @Param catID path string true "ID del gato"
// @Success 200 {array} treatmentResponse
// @Router /cats/{catID}/treatments [get]
func listTreatmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByCat(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"))
		if err != nil {
			web.Fail(w, r, web.Load, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toResponses(svc, items))
	}
}

// createTreatmentHandler godoc
// @Summary Registrar tratamiento
// @Description startDate y endDate no pueden ser futuras; endDate >= startDate.
// @Tags treatments
// @Accept json
// @Produce json
// @Param catID path string true "ID del gato"
// @Param payload body treatmentRequest true "Tratamiento"
// @Success 201 {object} treatmentResponse
// @Failure 400 {object} web.ErrorResponse
// @Failure 404 {object} web.ErrorResponse "gato inexistente"
// @Router /cats/{catID}/treatments [post]
func createTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req treatmentRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		in, err := req.toInput(chi.URLParam(r, "catID"))
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		t, err := svc.Create(r.Context(), middleware.UserID(r.Context()), in)
		if err != nil {
			web.Fail(w, r, web.Save, err, cats.ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusCreated, treatmentResponse{Treatment: t, Ongoing: svc.IsOngoing(t)})
	}
}

// getTreatmentHandler godoc
// @Summary Obtener tratamiento
// @Tags treatments
// @Produce json
// @Param catID path string true "ID del gato"
// @Param treatmentID path string true "ID del tratamiento"
// @Success 200 {object} treatmentResponse
// @Failure 404 {object} web.ErrorResponse
// @Router /cats/{catID}/treatments/{treatmentID} [get]
func getTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"), chi.URLParam(r, "treatmentID"))
		if err != nil {
			web.Fail(w, r, web.Load, err, ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusOK, treatmentResponse{Treatment: t, Ongoing: svc.IsOngoing(t)})
	}
}

// updateTreatmentHandler godoc
// @Summary Editar tratamiento
// @Description Conserva los adjuntos.
// @Tags treatments
// @Accept json
// @Produce json
// @Param catID path string true "ID del gato"
// @Param treatmentID path string true "ID del tratamiento"
// @Param payload body treatmentRequest true "Tratamiento"
// @Success 200 {object} treatmentResponse
// @Failure 400 {object} web.ErrorResponse
// @Failure 404 {object} web.ErrorResponse
// @Router /cats/{catID}/treatments/{treatmentID} [put]
func updateTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req treatmentRequest
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
		t, err := svc.Update(r.Context(), middleware.UserID(r.Context()), catID, chi.URLParam(r, "treatmentID"), in)
		if err != nil {
			web.Fail(w, r, web.Save, err, ErrNotFound, cats.ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusOK, treatmentResponse{Treatment: t, Ongoing: svc.IsOngoing(t)})
	}
}

// deleteTreatmentHandler godoc
// @Summary Borrar tratamiento
// @Description Borra también los adjuntos.
// @Tags treatments
// @Param catID path string true "ID del gato"
// @Param treatmentID path string true "ID del tratamiento"
// @Success 204
// @Router /cats/{catID}/treatments/{treatmentID} [delete]
func deleteTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"), chi.URLParam(r, "treatmentID"))
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// addAttachmentHandler godoc
// @Summary Adjuntar archivo al tratamiento
// @Description El cuerpo es el archivo crudo (receta, estudio). Máximo 10MB y 10 adjuntos.
// @Tags treatments
// @Accept application/pdf,image/jpeg,image/png
// @Produce json
// @Param catID path string true "ID del gato"
// @Param treatmentID path string true "ID del tratamiento"
// @Success 201 {object} treatmentResponse
// @Failure 400 {object} web.ErrorResponse
// @Failure 404 {object} web.ErrorResponse
// @Failure 413 {object} web.ErrorResponse
// @Failure 503 {object} web.ErrorResponse
// @Router /cats/{catID}/treatments/{treatmentID}/attachments [post]
func addAttachmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > media.MaxObjectSize {
			web.Fail(w, r, web.Save, media.ErrTooLarge)
			return
		}
		body := http.MaxBytesReader(w, r.Body, media.MaxObjectSize)

		t, err := svc.AddAttachment(r.Context(), middleware.UserID(r.Context()),
			chi.URLParam(r, "catID"), chi.URLParam(r, "treatmentID"),
			body, r.ContentLength, r.Header.Get("Content-Type"))
		if err != nil {
			web.Fail(w, r, web.Save, err, ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusCreated, treatmentResponse{Treatment: t, Ongoing: svc.IsOngoing(t)})
	}
}
