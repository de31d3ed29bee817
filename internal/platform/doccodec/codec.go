// Package doccodec traduce structs de dominio a campos de documento y viceversa.
//
// Cada campo se declara una sola vez con el tag `doc:"nombre"`. Las fechas se
// convierten según el tipo del campo destino (time.Time / *time.Time), nunca
// según el nombre, así que un campo de fecha nuevo o renombrado no se pierde.
package doccodec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

const tagName = "doc"

var (
	ErrUnsupported = errors.New("doccodec: unsupported value")

	timeType = reflect.TypeOf(time.Time{})
)

// Encode convierte un struct (o puntero a struct) en un map de campos.
// time.Time se conserva nativo para que cada backend use su tipo de fecha.
// Punteros nil se emiten como nil explícito: un merge-write los limpia.
// Campos sin tag `doc` no se emiten (p.ej. el ID, que vive en el path).
func Encode(v any) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil pointer", ErrUnsupported)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || rv.Type() == timeType {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrUnsupported, rv.Type())
	}
	return encodeStruct(rv)
}

func encodeStruct(rv reflect.Value) (map[string]any, error) {
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldName(f)
		if name == "" {
			continue
		}
		val, err := encodeValue(rv.Field(i))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		out[name] = val
	}
	return out, nil
}

func encodeValue(v reflect.Value) (any, error) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return encodeValue(v.Elem())
	case reflect.Struct:
		if v.Type() == timeType {
			return v.Interface().(time.Time).UTC(), nil
		}
		return encodeStruct(v)
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			e, err := encodeValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key %s", ErrUnsupported, v.Type().Key())
		}
		if v.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			e, err := encodeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = e
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: kind %s", ErrUnsupported, v.Kind())
	}
}

// Decode llena out (puntero a struct) desde los campos de un documento.
// Campos ausentes o null quedan en su zero value (nil para punteros): nunca epoch.
func Decode(fields map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    tagName,
		DecodeHook: mapstructure.DecodeHookFuncType(timeHook),
		Result:     out,
	})
	if err != nil {
		return fmt.Errorf("doccodec: new decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return fmt.Errorf("doccodec: decode: %w", err)
	}
	return nil
}

func timeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	return ToTime(data)
}

// ToTime normaliza las representaciones nativas de fecha de los backends:
// time.Time (memoria), tipos con Time() como primitive.DateTime (BSON),
// y texto RFC3339 o YYYY-MM-DD (columnas JSON).
func ToTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, nil
		}
		return *t, nil
	case interface{ Time() time.Time }:
		return t.Time().UTC(), nil
	case string:
		s := strings.TrimSpace(t)
		if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return ts, nil
		}
		if ts, err := time.Parse("2006-01-02", s); err == nil {
			return ts, nil
		}
		return time.Time{}, fmt.Errorf("%w: date %q", ErrUnsupported, t)
	default:
		return time.Time{}, fmt.Errorf("%w: %T is not a date", ErrUnsupported, v)
	}
}

func fieldName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup(tagName)
	if !ok {
		return ""
	}
	name := strings.TrimSpace(strings.SplitN(tag, ",", 2)[0])
	if name == "-" {
		return ""
	}
	return name
}
