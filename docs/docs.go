// Package docs registra el documento OpenAPI que sirve /swagger.
// Se regenera con `swag init -g cmd/api/main.go` a partir de los godoc de los handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Crear cuenta", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}, "429": {"description": "Too Many Requests"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Iniciar sesión", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "429": {"description": "Too Many Requests"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Cerrar sesión", "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized"}}}},
        "/auth/password-reset": {"post": {"tags": ["auth"], "summary": "Pedir email de recuperación", "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}},
        "/auth/password-reset/confirm": {"post": {"tags": ["auth"], "summary": "Confirmar nueva contraseña", "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized"}, "501": {"description": "Not Implemented"}}}},
        "/auth/profile": {"patch": {"tags": ["auth"], "summary": "Editar perfil de la cuenta", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/me": {"get": {"tags": ["auth"], "summary": "Usuario actual", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/breeds": {"get": {"tags": ["cats"], "summary": "Listar razas conocidas", "responses": {"200": {"description": "OK"}}}},
        "/cats": {
            "get": {"tags": ["cats"], "summary": "Listar gatos del usuario", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "post": {"tags": ["cats"], "summary": "Crear perfil de gato", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/cats/{catID}": {
            "get": {"tags": ["cats"], "summary": "Obtener perfil de gato", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["cats"], "summary": "Editar perfil de gato", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["cats"], "summary": "Borrar gato", "responses": {"204": {"description": "No Content"}}}
        },
        "/cats/{catID}/photo": {"post": {"tags": ["cats"], "summary": "Subir foto del gato", "responses": {"200": {"description": "OK"}, "413": {"description": "Request Entity Too Large"}, "503": {"description": "Service Unavailable"}}}},
        "/cats/{catID}/weights": {
            "get": {"tags": ["cats"], "summary": "Historial de peso", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "post": {"tags": ["cats"], "summary": "Registrar peso", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/vaccines": {"get": {"tags": ["vaccines"], "summary": "Listar vacunas de todos los gatos", "responses": {"200": {"description": "OK"}}}},
        "/cats/{catID}/vaccines": {
            "get": {"tags": ["vaccines"], "summary": "Listar vacunas de un gato", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["vaccines"], "summary": "Registrar vacuna", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/cats/{catID}/vaccines/{vaccineID}": {
            "get": {"tags": ["vaccines"], "summary": "Obtener vacuna", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["vaccines"], "summary": "Editar vacuna", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["vaccines"], "summary": "Borrar vacuna", "responses": {"204": {"description": "No Content"}}}
        },
        "/allergies": {"get": {"tags": ["allergies"], "summary": "Listar alergias de todos los gatos", "responses": {"200": {"description": "OK"}}}},
        "/cats/{catID}/allergies": {
            "get": {"tags": ["allergies"], "summary": "Listar alergias de un gato", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["allergies"], "summary": "Registrar alergia", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/cats/{catID}/allergies/{allergyID}": {
            "get": {"tags": ["allergies"], "summary": "Obtener alergia", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["allergies"], "summary": "Editar alergia", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["allergies"], "summary": "Borrar alergia", "responses": {"204": {"description": "No Content"}}}
        },
        "/treatments": {"get": {"tags": ["treatments"], "summary": "Listar tratamientos de todos los gatos", "responses": {"200": {"description": "OK"}}}},
        "/cats/{catID}/treatments": {
            "get": {"tags": ["treatments"], "summary": "Listar tratamientos de un gato", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["treatments"], "summary": "Registrar tratamiento", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/cats/{catID}/treatments/{treatmentID}": {
            "get": {"tags": ["treatments"], "summary": "Obtener tratamiento", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["treatments"], "summary": "Editar tratamiento", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["treatments"], "summary": "Borrar tratamiento", "responses": {"204": {"description": "No Content"}}}
        },
        "/cats/{catID}/treatments/{treatmentID}/attachments": {"post": {"tags": ["treatments"], "summary": "Adjuntar archivo al tratamiento", "responses": {"201": {"description": "Created"}, "413": {"description": "Request Entity Too Large"}, "503": {"description": "Service Unavailable"}}}},
        "/settings": {
            "get": {"tags": ["settings"], "summary": "Obtener preferencias", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["settings"], "summary": "Guardar preferencias", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/settings/language": {"put": {"tags": ["settings"], "summary": "Cambiar idioma", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/me/data": {"delete": {"tags": ["settings"], "summary": "Borrar todos los datos del usuario", "responses": {"204": {"description": "No Content"}}}}
    }
}`

// SwaggerInfo se puede ajustar en main antes de servir (host, esquemas).
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "nyanpass API",
	Description:      "Historia clínica de gatos: perfiles, peso, vacunas, alergias, tratamientos y preferencias.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
