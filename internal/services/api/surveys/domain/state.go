package domain

import "fishdash/internal/core/query"

// ToState fills omitted selectors with "all" and the unit with mm
func (in StateInput) ToState() query.State {
	st := query.DefaultState()
	if in.Water != "" {
		st.Water = in.Water
	}
	if in.Species != "" {
		st.Species = in.Species
	}
	if in.Region != "" {
		st.Region = in.Region
	}
	if in.Protocol != "" {
		st.Protocol = in.Protocol
	}
	if in.Unit != "" {
		st.Unit = in.Unit
	}
	st.DateFrom = in.DateFrom
	st.DateTo = in.DateTo
	st.ExcludeYOY = in.ExcludeYOY
	return st
}

// FromState is the inverse view used by the cli
func FromState(st query.State) StateInput {
	return StateInput{
		Water:      st.Water,
		Species:    st.Species,
		Region:     st.Region,
		Protocol:   st.Protocol,
		DateFrom:   st.DateFrom,
		DateTo:     st.DateTo,
		ExcludeYOY: st.ExcludeYOY,
		Unit:       st.Unit,
	}
}
