// Package validation centraliza las reglas de esquema de los registros.
// Los tags `validate` viven en los modelos; los nombres de campo salen del tag `doc`.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidInput = errors.New("invalid input")

// Error acumula violaciones por campo (campo -> regla).
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%s", k, e.Fields[k]))
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, ", ")
}

func (e *Error) Unwrap() error { return ErrInvalidInput }

// Add registra una violación; devuelve e para encadenar.
func (e *Error) Add(field, rule string) *Error {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = rule
	return e
}

// OrNil devuelve nil si no hubo violaciones (evita el típico nil-interface con tipo).
func (e *Error) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("doc"), ",", 2)[0]
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct valida los tags `validate` de v y devuelve *Error o nil.
func Struct(v any) *Error {
	out := &Error{}
	err := validate.Struct(v)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out.Add("_", err.Error())
	}
	for _, fe := range verrs {
		out.Add(fieldPath(fe.Namespace()), fe.Tag())
	}
	return out
}

// Var valida un valor suelto (p.ej. un email) contra un tag.
func Var(value any, tag string) bool {
	return validate.Var(value, tag) == nil
}

// "Profile.weightRecords[0].weight" -> "weightRecords[0].weight"
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
