package fishstats

import (
	"fishdash/internal/core/survey"
)

// MMPerInch converts display lengths
const MMPerInch = 25.4

// Display returns a copy of s with length fields converted for the given unit
// "inches" converts and rounds to one decimal; anything else leaves mm values untouched
// bins keep their mm edges so labels stay comparable across units
func Display(s *Stats, unit string) *Stats {
	if s == nil {
		return nil
	}
	out := *s
	out.LengthFrequency = append([]Bin(nil), s.LengthFrequency...)
	if unit != "inches" {
		return &out
	}
	conv := func(mm float64) float64 { return roundTo(mm/MMPerInch, 1) }
	out.MeanLength = conv(s.MeanLength)
	out.StdDevLength = conv(s.StdDevLength)
	out.MinLength = conv(s.MinLength)
	out.MaxLength = conv(s.MaxLength)
	return &out
}

// SpeciesRanges resolves the plausible reference ranges for a species code
type SpeciesRanges interface {
	SpeciesByCode(code string) (survey.Species, bool)
}

// RangeReport counts pooled records outside their species reference ranges
type RangeReport struct {
	Checked       int `json:"checked"`
	LengthOutside int `json:"length_outside"`
	WeightOutside int `json:"weight_outside"`
	Unknown       int `json:"unknown_species"`
}

// OutOfRange checks each record against its species' plausible length and weight
// ranges. Records of species missing from the reference table are only tallied as unknown
func OutOfRange(records []survey.FishRecord, ref SpeciesRanges) RangeReport {
	var rep RangeReport
	for _, r := range records {
		sp, ok := ref.SpeciesByCode(r.Species)
		if !ok {
			rep.Unknown++
			continue
		}
		rep.Checked++
		if !sp.Length.Contains(r.LengthMM) {
			rep.LengthOutside++
		}
		if !sp.Weight.Contains(r.WeightG) {
			rep.WeightOutside++
		}
	}
	return rep
}
