// Package docs registra la definición OpenAPI del API para http-swagger.
// Se regenera con `go generate ./cmd/api` desde los godoc de los handlers.
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
    "paths": {
        "/health": {
            "get": {
                "tags": ["platform"],
                "summary": "Liveness",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/stool/scale": {
            "get": {
                "tags": ["logs"],
                "summary": "Escalas de referencia",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/logs": {
            "get": {
                "tags": ["logs"],
                "summary": "Listar mis registros",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "unauthorized"}}
            },
            "post": {
                "tags": ["logs"],
                "summary": "Registrar una visita",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "400": {"description": "invalid input"}, "401": {"description": "unauthorized"}}
            }
        },
        "/me/achievements": {
            "get": {
                "tags": ["achievements"],
                "summary": "Listar mis logros",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "unauthorized"}}
            }
        },
        "/me/stats": {
            "get": {
                "tags": ["reports"],
                "summary": "Estadísticas del usuario",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "unauthorized"}}
            }
        },
        "/me/reports/monthly": {
            "get": {
                "tags": ["reports"],
                "summary": "Resumen mensual",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "invalid month"}, "401": {"description": "unauthorized"}}
            }
        },
        "/venues/nearby": {
            "get": {
                "tags": ["venues"],
                "summary": "Baños cercanos",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "invalid coordinates"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "PooPals API",
	Description:      "Registro de visitas al baño, rachas, logros, círculo de amigos y baños públicos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
