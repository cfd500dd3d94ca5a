// Package docs holds the generated OpenAPI document for the fishdash API.
// Regenerate with go generate ./internal/services/api/...
package docs

import "github.com/swaggo/swag/v2"

const docTemplateapi = `{
    "schemes": {{ marshal .Schemes }},
    "openapi": "3.1.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/meta/health": {"get": {"tags": ["Meta"], "summary": "Health check", "responses": {"200": {"description": "ok"}}}},
        "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness probe with dependency checks", "responses": {"200": {"description": "ok"}}}},
        "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}},
        "/meta/service": {"get": {"tags": ["Meta"], "summary": "Service info and uptime", "responses": {"200": {"description": "ok"}}}},
        "/meta/catalog": {"get": {"tags": ["Meta"], "summary": "Loaded survey catalog and build", "responses": {"200": {"description": "ok"}}}},
        "/surveys/query": {"post": {"tags": ["Surveys"], "summary": "Filter surveys and pool fish records", "responses": {"200": {"description": "ok"}}}},
        "/surveys/stats": {"post": {"tags": ["Surveys"], "summary": "Fish statistics over the pooled records", "responses": {"200": {"description": "ok"}}}},
        "/surveys/compare": {"post": {"tags": ["Surveys"], "summary": "Compare two queries", "responses": {"200": {"description": "ok"}}}},
        "/surveys/token": {"post": {"tags": ["Surveys"], "summary": "Encode a query state into a shareable token", "responses": {"200": {"description": "ok"}}}},
        "/surveys/token/{token}": {"get": {"tags": ["Surveys"], "summary": "Decode a shareable token", "parameters": [{"name": "token", "in": "path", "required": true, "schema": {"type": "string"}}], "responses": {"200": {"description": "ok"}, "400": {"description": "malformed token"}}}},
        "/surveys/waters": {"get": {"tags": ["Surveys"], "summary": "List waters with stations", "responses": {"200": {"description": "ok"}}}},
        "/surveys/species": {"get": {"tags": ["Surveys"], "summary": "Species reference table", "responses": {"200": {"description": "ok"}}}},
        "/surveys/list": {"get": {"tags": ["Surveys"], "summary": "List surveys", "parameters": [{"name": "status", "in": "query", "schema": {"type": "string"}}, {"name": "water", "in": "query", "schema": {"type": "string"}}], "responses": {"200": {"description": "ok"}}}}
    }
}`

// SwaggerInfoapi holds exported Swagger Info so clients can modify it
var SwaggerInfoapi = &swag.Spec{
	Version:          "0.1.0",
	Title:            "Fishdash API",
	Description:      "Read only cross survey queries and fish statistics",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplateapi,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

// SwaggerInfo is the instance served at /api/docs/doc.json
var SwaggerInfo = SwaggerInfoapi

func init() {
	swag.Register(SwaggerInfoapi.InstanceName(), SwaggerInfoapi)
}
