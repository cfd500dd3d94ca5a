// Package query filters a survey pool against a multi dimensional query state,
// derives survey level aggregates and pools fish records for statistics.
// It also carries the URL safe codec for the query state
package query

// All is the selector value meaning "no filter"
const All = "all"

// Display units. Unit never affects filtering
const (
	UnitMM     = "mm"
	UnitInches = "inches"
)

// YOYThresholdMM is the length below which a fish counts as young of year
const YOYThresholdMM = 150

// State is the complete set of query filters. Every field always carries a value:
// "all" for an unset selector and "" for an open date bound.
// Field order is fixed because the token encoding depends on it
type State struct {
	Water      string `json:"water"`
	Species    string `json:"species"`
	Region     string `json:"region"`
	Protocol   string `json:"protocol"`
	DateFrom   string `json:"dateFrom"`
	DateTo     string `json:"dateTo"`
	ExcludeYOY bool   `json:"excludeYOY"`
	Unit       string `json:"unit"`
}

// DefaultState is the unfiltered view
func DefaultState() State {
	return State{
		Water:    All,
		Species:  All,
		Region:   All,
		Protocol: All,
		Unit:     UnitMM,
	}
}
