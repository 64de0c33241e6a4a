package api

import (
	"net/http"

	"dbconsole/logger"

	"github.com/swaggo/swag"
)

// @title dbconsole API
// @version v1.0.0
// @description Grid data for the database monitoring dashboard.

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8779
// @BasePath /api
// @schemes http

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/health": {
            "get": {"tags": ["Health"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/tables": {
            "get": {"tags": ["Tables"], "summary": "List tables", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.TableSpec"}}}}}
        },
        "/grids/{table}": {
            "get": {"tags": ["Grids"], "summary": "Get a grid page", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "table", "in": "path", "required": true},
                    {"type": "integer", "name": "current", "in": "query"},
                    {"type": "integer", "name": "pagesize", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.GridResponse"}},
                    "400": {"description": "Invalid paging parameters", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Unknown table", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }}
        },
        "/settings/session": {
            "get": {"tags": ["Settings"], "summary": "Get session settings", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SessionSettings"}}}},
            "put": {"tags": ["Settings"], "summary": "Update session settings", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "session", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SessionUpdateRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SessionSettings"}}}},
            "delete": {"tags": ["Settings"], "summary": "Log out", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}}}}
        },
        "/settings/table-layouts": {
            "get": {"tags": ["Settings"], "summary": "Get table layouts", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Settings"], "summary": "Save table layouts", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}}}}
        },
        "/settings/table-layouts/reset": {
            "post": {"tags": ["Settings"], "summary": "Reset table layouts", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}}}}
        }
    },
    "definitions": {
        "models.Column": {"type": "object", "properties": {
            "key": {"type": "string"}, "label": {"type": "string"}, "width": {"type": "integer"}, "hidden": {"type": "boolean"}}},
        "models.GridResponse": {"type": "object", "properties": {
            "table": {"type": "string"},
            "columns": {"type": "array", "items": {"$ref": "#/definitions/models.Column"}},
            "records": {"type": "array", "items": {"type": "object"}},
            "page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"},
            "seq": {"type": "integer"}, "notice": {"type": "string"}}},
        "models.TableSpec": {"type": "object", "properties": {
            "name": {"type": "string"}, "title": {"type": "string"}, "endpoint": {"type": "string"},
            "count_endpoint": {"type": "string"}, "method": {"type": "string"}, "key_field": {"type": "string"}}},
        "models.SessionSettings": {"type": "object", "properties": {
            "instance": {"type": "string"}, "has_token": {"type": "boolean"}}},
        "models.SessionUpdateRequest": {"type": "object", "properties": {
            "instance": {"type": "string"}, "token": {"type": "string"}}},
        "models.ErrorResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "models.MessageResponse": {"type": "object", "properties": {"message": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "v1.0.0",
	Host:             "localhost:8779",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "dbconsole API",
	Description:      "Grid data for the database monitoring dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

func swaggerHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		logger.Error("swaggerHandler: Error reading swagger doc: %v", err)
		http.Error(w, "swagger doc unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
