// Package domain holds DTOs for the surveys http and service contracts
package domain

import (
	"fishdash/internal/core/fishstats"
	"fishdash/internal/core/query"
	"fishdash/internal/core/survey"
)

// Selector values are passed through untouched, so only sizes are validated
// here. An unknown water or species matches nothing; a region or protocol
// outside the exact keys (ne, two-pass, ...) leaves that stage a no-op

// StateInput is a query state on the wire; omitted selectors mean "all"
type StateInput struct {
	Water      string `json:"water,omitempty" validate:"omitempty,max=64" example:"south-platte"`
	Species    string `json:"species,omitempty" validate:"omitempty,max=16" example:"bnt"`
	Region     string `json:"region,omitempty" validate:"omitempty,max=32" example:"ne"`
	Protocol   string `json:"protocol,omitempty" validate:"omitempty,max=64" example:"two-pass"`
	DateFrom   string `json:"dateFrom,omitempty" validate:"omitempty,max=32" example:"2025-01-01"`
	DateTo     string `json:"dateTo,omitempty" validate:"omitempty,max=32" example:"2025-12-31"`
	ExcludeYOY bool   `json:"excludeYOY,omitempty" example:"false"`
	Unit       string `json:"unit,omitempty" validate:"omitempty,max=16" example:"mm"`
}

// QueryInput carries either an explicit state or a shared token, never both
type QueryInput struct {
	State *StateInput `json:"state,omitempty" validate:"required_without=Token"`
	Token string      `json:"token,omitempty" validate:"required_without=State,excluded_with=State,omitempty,max=4096" example:"eyJ3YXRlciI6ImFsbCJ9"`
	// reviewer status overrides keyed by survey id
	StatusOverrides map[string]string `json:"status_overrides,omitempty" validate:"omitempty,max=1000,dive,keys,min=1,max=64,endkeys,survey_status" example:"SV-2025-007:approved"`
}

// QueryOutput is one engine run
type QueryOutput struct {
	State           query.State         `json:"state"`
	Token           string              `json:"token" example:"eyJ3YXRlciI6ImFsbCJ9"`
	Description     string              `json:"description" example:"BNT on south-platte"`
	MatchingSurveys []survey.Survey     `json:"matching_surveys"`
	Aggregates      query.Aggregates    `json:"aggregates"`
	FishRecords     []survey.FishRecord `json:"fish_records"`
}

// StatsOutput is the statistics view over a run's pooled records
// Stats is null when the pool is empty
type StatsOutput struct {
	State      query.State              `json:"state"`
	Token      string                   `json:"token" example:"eyJ3YXRlciI6ImFsbCJ9"`
	Unit       string                   `json:"unit" example:"mm"`
	Stats      *fishstats.Stats         `json:"stats"`
	BySpecies  []fishstats.SpeciesStats `json:"by_species"`
	OutOfRange fishstats.RangeReport    `json:"out_of_range"`
}

// CompareInput runs two queries against the same pool
type CompareInput struct {
	Left  QueryInput `json:"left" validate:"required"`
	Right QueryInput `json:"right" validate:"required"`
}

// CompareSide summarises one side of a comparison
type CompareSide struct {
	State       query.State      `json:"state"`
	Token       string           `json:"token"`
	Description string           `json:"description"`
	Surveys     int              `json:"surveys" example:"3"`
	Aggregates  query.Aggregates `json:"aggregates"`
	Stats       *fishstats.Stats `json:"stats"`
}

// CompareDelta is right minus left
// MeanLengthMM is null unless both sides have records
type CompareDelta struct {
	Surveys        int      `json:"surveys" example:"-1"`
	TotalFishCount int      `json:"total_fish_count" example:"120"`
	SampleSize     int      `json:"sample_size" example:"4"`
	MeanLengthMM   *float64 `json:"mean_length_mm"`
}

// CompareOutput holds both sides and their difference
type CompareOutput struct {
	Left  CompareSide  `json:"left"`
	Right CompareSide  `json:"right"`
	Delta CompareDelta `json:"delta"`
}

// TokenInput asks for the shareable token of a state
type TokenInput struct {
	State StateInput `json:"state"`
}

// TokenOutput pairs a token with the state it encodes
type TokenOutput struct {
	Token       string      `json:"token" example:"eyJ3YXRlciI6ImFsbCJ9"`
	State       query.State `json:"state"`
	Description string      `json:"description" example:"all surveys"`
}

// ListInput filters the plain survey listing
type ListInput struct {
	Status  string `json:"status,omitempty" validate:"omitempty,survey_status" example:"approved"`
	WaterID string `json:"water,omitempty" validate:"omitempty,max=64" example:"south-platte"`
}
