package cats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nyanpass/internal/i18n"
	"nyanpass/internal/middleware"
	"nyanpass/internal/platform/web"
	"nyanpass/internal/ports/media"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/breeds", listBreedsHandler())

	r.Get("/cats", listCatsHandler(svc))
	r.Post("/cats", createCatHandler(svc))
	r.Get("/cats/{catID}", getCatHandler(svc))
	r.Put("/cats/{catID}", updateCatHandler(svc))
	r.Delete("/cats/{catID}", deleteCatHandler(svc))

	r.Post("/cats/{catID}/photo", uploadPhotoHandler(svc))
	r.Post("/cats/{catID}/weights", addWeightHandler(svc))
	r.Get("/cats/{catID}/weights", weightHistoryHandler(svc))
}

// catRequest es el formulario de alta/edición; fechas YYYY-MM-DD o RFC3339.
type catRequest struct {
	Name       string          `json:"name"`
	Nickname   string          `json:"nickname"`
	Birthdate  string          `json:"birthdate"`
	Breed      string          `json:"breed"`
	Traits     []string        `json:"traits"`
	WeightUnit i18n.WeightUnit `json:"weightUnit" enums:"kg,lbs"`
	// Peso actual opcional; se agrega al historial.
	Weight *float64 `json:"weight"`
}

type catResponse struct {
	Profile
	LatestWeight *WeightRecord `json:"latestWeight,omitempty"`
}

type weightRequest struct {
	Date   string          `json:"date"`
	Weight float64         `json:"weight"`
	Unit   i18n.WeightUnit `json:"unit" enums:"kg,lbs"`
}

func toCatResponse(p Profile) catResponse {
	out := catResponse{Profile: p}
	if w, ok := p.LatestWeight(); ok {
		out.LatestWeight = &w
	}
	return out
}

func (req catRequest) toInput() (ProfileInput, error) {
	birth, err := web.RequiredDate(req.Birthdate)
	if err != nil {
		return ProfileInput{}, err
	}
	return ProfileInput{
		Name:       req.Name,
		Nickname:   req.Nickname,
		Birthdate:  birth,
		Breed:      req.Breed,
		Traits:     req.Traits,
		WeightUnit: req.WeightUnit,
		Weight:     req.Weight,
	}, nil
}

// listBreedsHandler godoc
// @Summary Listar razas conocidas
// @Tags cats
// @Produce json
// @Success 200 {array} string
// @Router /breeds [get]
func listBreedsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		web.WriteJSON(w, http.StatusOK, Breeds())
	}
}

// listCatsHandler godoc
// @Summary Listar gatos del usuario
// @Description Ordenados por nombre. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>`.
// @Tags cats
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {array} catResponse
// @Failure 401 {object} web.ErrorResponse
// @Router /cats [get]
func listCatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), middleware.UserID(r.Context()))
		if err != nil {
			web.Fail(w, r, web.Load, err)
			return
		}
		out := make([]catResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toCatResponse(p))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

// createCatHandler godoc
// @Summary Crear perfil de gato
// @Tags cats
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param payload body catRequest true "Perfil; birthdate en YYYY-MM-DD"
// @Success 201 {object} catResponse
// @Failure 400 {object} web.ErrorResponse "validación por campo"
// @Failure 401 {object} web.ErrorResponse
// @Failure 500 {object} web.ErrorResponse
// @Router /cats [post]
func createCatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req catRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}

		p, err := svc.Create(r.Context(), middleware.UserID(r.Context()), in)
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toCatResponse(p))
	}
}

// getCatHandler godoc
// @Summary Obtener perfil de gato
// @Tags cats
// @Produce json
// @Param catID path string true "ID del gato"
// @Success 200 {object} catResponse
// @Failure 404 {object} web.ErrorResponse
// @Router /cats/{catID} [get]
func getCatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"))
		if err != nil {
			web.Fail(w, r, web.Load, err, ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusOK, toCatResponse(p))
	}
}

// updateCatHandler godoc
// @Summary Editar perfil de gato
// @Description Conserva createdAt, foto e historial de peso. Si viene weight se agrega al historial.
// @Tags cats
// @Accept json
// @Produce json
// @Param catID path string true "ID del gato"
// @Param payload body catRequest true "Perfil completo"
// @Success 200 {object} catResponse
// @Failure 400 {object} web.ErrorResponse
// @Failure 404 {object} web.ErrorResponse
// @Router /cats/{catID} [put]
func updateCatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req catRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}

		p, err := svc.Update(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"), in)
		if err != nil {
			web.Fail(w, r, web.Save, err, ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusOK, toCatResponse(p))
	}
}

// deleteCatHandler godoc
// @Summary Borrar gato
// @Description Borra también vacunas, alergias, tratamientos y la foto.
// @Tags cats
// @Param catID path string true "ID del gato"
// @Success 204
// @Failure 500 {object} web.ErrorResponse
// @Router /cats/{catID} [delete]
func deleteCatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID")); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// uploadPhotoHandler godoc
// @Summary Subir foto del gato
// @Description El cuerpo es la imagen cruda; Content-Type image/jpeg o image/png. Máximo 10MB.
// @Tags cats
// @Accept image/jpeg,image/png
// @Produce json
// @Param catID path string true "ID del gato"
// @Success 200 {object} catResponse
// @Failure 413 {object} web.ErrorResponse
// @Failure 503 {object} web.ErrorResponse "media store no configurado"
// @Router /cats/{catID}/photo [post]
func uploadPhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > media.MaxObjectSize {
			web.Fail(w, r, web.Save, media.ErrTooLarge)
			return
		}
		body := http.MaxBytesReader(w, r.Body, media.MaxObjectSize)

		p, err := svc.SetPhoto(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"),
			body, r.ContentLength, r.Header.Get("Content-Type"))
		if err != nil {
			web.Fail(w, r, web.Save, err, ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusOK, toCatResponse(p))
	}
}

// addWeightHandler godoc
// @Summary Registrar peso
// @Tags cats
// @Accept json
// @Produce json
// @Param catID path string true "ID del gato"
// @Param payload body weightRequest true "Peso; sin fecha se usa ahora, sin unidad la preferida"
// @Success 201 {object} catResponse
// @Failure 400 {object} web.ErrorResponse
// @Failure 404 {object} web.ErrorResponse
// @Router /cats/{catID}/weights [post]
func addWeightHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req weightRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}
		date, err := web.RequiredDate(req.Date)
		if err != nil {
			web.Fail(w, r, web.Save, err)
			return
		}

		p, err := svc.AddWeight(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"),
			WeightRecord{Date: date, Weight: req.Weight, Unit: req.Unit})
		if err != nil {
			web.Fail(w, r, web.Save, err, ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toCatResponse(p))
	}
}

// weightHistoryHandler godoc
// @Summary Historial de peso
// @Tags cats
// @Produce json
// @Param catID path string true "ID del gato"
// @Param range query string false "1m, 3m, 6m, 1y o all (default all)"
// @Param unit query string false "kg o lbs (default la unidad del gato)"
// @Success 200 {array} WeightPoint
// @Failure 400 {object} web.ErrorResponse
// @Failure 404 {object} web.ErrorResponse
// @Router /cats/{catID}/weights [get]
func weightHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng, err := ParseRange(r.URL.Query().Get("range"))
		if err != nil {
			web.Fail(w, r, web.Load, err)
			return
		}
		unit := i18n.WeightUnit(r.URL.Query().Get("unit"))

		points, err := svc.WeightHistory(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "catID"), rng, unit)
		if err != nil {
			web.Fail(w, r, web.Load, err, ErrNotFound)
			return
		}
		web.WriteJSON(w, http.StatusOK, points)
	}
}
