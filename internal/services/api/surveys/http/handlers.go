// Package http provides http transport for survey queries
package http

import (
	stdhttp "net/http"

	"fishdash/internal/modkit/httpkit"
	"fishdash/internal/platform/net/http/bind"
	"fishdash/internal/services/api/surveys/domain"
	svc "fishdash/internal/services/api/surveys/service"

	"github.com/go-chi/chi/v5"
)

// Register mounts survey endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// engine runs
	httpkit.PostJSON[domain.QueryInput](r, "/query", h.query)
	httpkit.PostJSON[domain.QueryInput](r, "/stats", h.stats)
	httpkit.PostJSON[domain.CompareInput](r, "/compare", h.compare)

	// shareable state tokens
	httpkit.PostJSON[domain.TokenInput](r, "/token", h.encodeToken)
	httpkit.Get(r, "/token/{token}", h.decodeToken)

	// catalog listings
	httpkit.Get(r, "/waters", h.waters)
	httpkit.Get(r, "/species", h.species)
	httpkit.Get(r, "/list", h.list)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /surveys/query Surveys surveysQuery
// @Summary Filter surveys and pool fish records
// @Tags Surveys
// @Accept json
// @Produce json
// @Param payload body domain.QueryInput true "Query state or token"
// @Success 200 {object} domain.QueryOutput "ok"
// @Router /surveys/query [post]
func (h *handlers) query(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	return h.svc.Query(r.Context(), in)
}

// swagger:route POST /surveys/stats Surveys surveysStats
// @Summary Fish statistics over the pooled records
// @Tags Surveys
// @Accept json
// @Produce json
// @Param payload body domain.QueryInput true "Query state or token"
// @Success 200 {object} domain.StatsOutput "ok"
// @Router /surveys/stats [post]
func (h *handlers) stats(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	return h.svc.Stats(r.Context(), in)
}

// swagger:route POST /surveys/compare Surveys surveysCompare
// @Summary Compare two queries
// @Tags Surveys
// @Accept json
// @Produce json
// @Param payload body domain.CompareInput true "Left and right queries"
// @Success 200 {object} domain.CompareOutput "ok"
// @Router /surveys/compare [post]
func (h *handlers) compare(r *stdhttp.Request, in domain.CompareInput) (any, error) {
	return h.svc.Compare(r.Context(), in)
}

// swagger:route POST /surveys/token Surveys surveysEncodeToken
// @Summary Encode a query state into a shareable token
// @Tags Surveys
// @Accept json
// @Produce json
// @Param payload body domain.TokenInput true "State"
// @Success 200 {object} domain.TokenOutput "ok"
// @Router /surveys/token [post]
func (h *handlers) encodeToken(r *stdhttp.Request, in domain.TokenInput) (any, error) {
	return h.svc.EncodeToken(r.Context(), in)
}

// swagger:route GET /surveys/token/{token} Surveys surveysDecodeToken
// @Summary Decode a shareable token
// @Tags Surveys
// @Produce json
// @Param token path string true "Query token"
// @Success 200 {object} domain.TokenOutput "ok"
// @Failure 400 {object} object "malformed token"
// @Router /surveys/token/{token} [get]
func (h *handlers) decodeToken(r *stdhttp.Request) (any, error) {
	return h.svc.DecodeToken(r.Context(), chi.URLParam(r, "token"))
}

// swagger:route GET /surveys/waters Surveys surveysWaters
// @Summary List waters with stations
// @Tags Surveys
// @Produce json
// @Success 200 {array} survey.Water "ok"
// @Router /surveys/waters [get]
func (h *handlers) waters(r *stdhttp.Request) (any, error) {
	return h.svc.Waters(r.Context())
}

// swagger:route GET /surveys/species Surveys surveysSpecies
// @Summary Species reference table
// @Tags Surveys
// @Produce json
// @Success 200 {array} survey.Species "ok"
// @Router /surveys/species [get]
func (h *handlers) species(r *stdhttp.Request) (any, error) {
	return h.svc.Species(r.Context())
}

// swagger:route GET /surveys/list Surveys surveysList
// @Summary List surveys
// @Tags Surveys
// @Produce json
// @Param status query string false "Workflow status"
// @Param water query string false "Water id"
// @Success 200 {array} survey.Survey "ok"
// @Router /surveys/list [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	in := domain.ListInput{
		Status:  r.URL.Query().Get("status"),
		WaterID: r.URL.Query().Get("water"),
	}
	if err := bind.Validate(in); err != nil {
		return nil, err
	}
	return h.svc.Surveys(r.Context(), in)
}
