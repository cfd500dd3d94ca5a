package domain

import (
	"context"

	"fishdash/internal/core/catalog"
	"fishdash/internal/core/survey"
)

// ServicePort is consumed by handlers, the cli and other modules
type ServicePort interface {
	Query(ctx context.Context, in QueryInput) (QueryOutput, error)
	Stats(ctx context.Context, in QueryInput) (StatsOutput, error)
	Compare(ctx context.Context, in CompareInput) (CompareOutput, error)

	EncodeToken(ctx context.Context, in TokenInput) (TokenOutput, error)
	DecodeToken(ctx context.Context, token string) (TokenOutput, error)

	Waters(ctx context.Context) ([]survey.Water, error)
	Species(ctx context.Context) ([]survey.Species, error)
	Surveys(ctx context.Context, in ListInput) ([]survey.Survey, error)
	Catalog(ctx context.Context) (catalog.Info, error)
}
