// Package swaggerkit serves the generated OpenAPI document and the swagger UI.
// The document is patched on the way out so every operation advertises the
// error envelope the api actually writes
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	perr "fishdash/internal/platform/errors"
	phttp "fishdash/internal/platform/net/http"

	"fishdash/internal/services/api/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

// BaseURL is where the documented paths are served from
const BaseURL = "/api/v1"

// readDoc is swapped in tests
var readDoc = func() string { return docs.SwaggerInfo.ReadDoc() }

// Mount serves the UI under /api/docs/ when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDoc)
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

func serveDoc(w http.ResponseWriter, _ *http.Request) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(readDoc()), &spec); err != nil {
		http.Error(w, "spec parse error", http.StatusInternalServerError)
		return
	}
	Patch(spec)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(spec)
}

// default error responses added to operations that do not declare their own
var defaultErrors = []struct {
	status int
	code   perr.ErrorCode
	msg    string
}{
	{http.StatusBadRequest, perr.ErrorCodeValidation, "species must be at most 32 characters"},
	{http.StatusInternalServerError, perr.ErrorCodePanic, "panic recovered"},
	{http.StatusServiceUnavailable, perr.ErrorCodeUnavailable, "catalog not loaded"},
}

// Patch normalizes spec to OAS 3.0.3 with a servers entry, defines the
// ErrorResponse schema and fills default 400, 500 and 503 responses
func Patch(spec map[string]any) {
	ensureServers(spec)
	ensureErrorSchema(spec)

	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			resps, ok := op["responses"].(map[string]any)
			if !ok {
				resps = map[string]any{}
				op["responses"] = resps
			}
			for _, d := range defaultErrors {
				key := strconv.Itoa(d.status)
				if _, exists := resps[key]; !exists {
					resps[key] = errorResponse(d.status, d.code, d.msg)
				}
			}
		}
	}
}

// ensureServers lifts swagger 2 and downgrades 3.1, the UI renders neither
func ensureServers(spec map[string]any) {
	delete(spec, "swagger")
	if v, _ := spec["openapi"].(string); v == "" || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": BaseURL}}
	}
}

func ensureErrorSchema(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Error envelope",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

func errorResponse(status int, code perr.ErrorCode, msg string) map[string]any {
	text := http.StatusText(status)
	return map[string]any{
		"description": text,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      text,
					"code":        uint16(code),
					"error":       msg,
					"request_id":  "fishdash-01/abc-000001",
				},
			},
		},
	}
}
