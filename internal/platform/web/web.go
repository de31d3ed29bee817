// Package web tiene los helpers HTTP compartidos por los handlers:
// JSON de entrada y salida, fechas y el mapeo de errores a status + mensaje localizado.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nyanpass/internal/i18n"
	"nyanpass/internal/platform/validation"
	"nyanpass/internal/ports/auth"
	"nyanpass/internal/ports/docstore"
	"nyanpass/internal/ports/media"
)

const maxBodyBytes = 1 << 20

var ErrInvalidJSON = errors.New("invalid json")

// ErrorResponse es el cuerpo de todos los errores.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON lee un cuerpo JSON acotado a 1MB.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

// Op indica si el error ocurrió leyendo o escribiendo (elige el mensaje genérico).
type Op int

const (
	Load Op = iota
	Save
)

// Fail escribe el error con el status que corresponde. notFound son los ErrNotFound
// del paquete que llama.
func Fail(w http.ResponseWriter, r *http.Request, op Op, err error, notFound ...error) {
	lang := i18n.FromContext(r.Context())

	var (
		verr   *validation.Error
		maxErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:    i18n.MsgInvalidInput,
			Message: i18n.Message(lang, i18n.MsgInvalidInput),
			Fields:  verr.Fields,
		})
		return
	case errors.Is(err, validation.ErrInvalidInput), errors.Is(err, ErrInvalidJSON):
		writeMsg(w, http.StatusBadRequest, lang, i18n.MsgInvalidInput)
		return
	case errors.Is(err, docstore.ErrNoIdentity):
		writeMsg(w, http.StatusUnauthorized, lang, i18n.MsgUnauthorized)
		return
	case errors.Is(err, media.ErrTooLarge), errors.As(err, &maxErr):
		WriteJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Code: "too_large", Message: err.Error()})
		return
	case errors.Is(err, media.ErrUnavailable):
		WriteJSON(w, http.StatusServiceUnavailable, ErrorResponse{Code: "unavailable", Message: err.Error()})
		return
	}
	for _, nf := range notFound {
		if errors.Is(err, nf) {
			writeMsg(w, http.StatusNotFound, lang, i18n.MsgNotFound)
			return
		}
	}

	if op == Save {
		writeMsg(w, http.StatusInternalServerError, lang, i18n.MsgErrorSaving)
		return
	}
	writeMsg(w, http.StatusInternalServerError, lang, i18n.MsgErrorLoading)
}

// AuthFail responde {code, message} con el mensaje de la pantalla op.
func AuthFail(w http.ResponseWriter, r *http.Request, op i18n.Operation, err error) {
	lang := i18n.FromContext(r.Context())
	code := auth.CodeOf(err)
	if code == "" {
		code = auth.CodeInternal
	}
	WriteJSON(w, authStatus(code), ErrorResponse{
		Code:    string(code),
		Message: i18n.AuthMessage(lang, op, code),
	})
}

func authStatus(code auth.ErrorCode) int {
	switch code {
	case auth.CodeEmailAlreadyInUse:
		return http.StatusConflict
	case auth.CodeWeakPassword, auth.CodeInvalidEmail:
		return http.StatusBadRequest
	case auth.CodeUserNotFound, auth.CodeWrongPassword, auth.CodeInvalidIDToken, auth.CodeNoCurrentUser:
		return http.StatusUnauthorized
	case auth.CodeUserDisabled:
		return http.StatusForbidden
	case auth.CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeMsg(w http.ResponseWriter, status int, lang i18n.Language, key string) {
	WriteJSON(w, status, ErrorResponse{Code: key, Message: i18n.Message(lang, key)})
}

// ParseDate acepta RFC3339 o YYYY-MM-DD (UTC).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", validation.ErrInvalidInput, s)
	}
	return t, nil
}

// OptionalDate: nil o "" es sin fecha.
func OptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// RequiredDate: vacío devuelve zero (lo rechaza la validación del modelo).
func RequiredDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return ParseDate(s)
}
