// Package fishstats computes descriptive statistics over pooled fish records.
// Everything here is a pure function of its input
package fishstats

import (
	"math"
	"sort"

	"fishdash/internal/core/survey"
)

// Condition index constants: predicted weight in grams is A * length_mm^B
const (
	WeightA = 0.00001
	WeightB = 3.0
)

// Bin is one length frequency bucket over [Min, Max); Max == 0 means open ended
type Bin struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max,omitempty"`
	Count int     `json:"count"`
}

// Contains applies the half open rule
func (b Bin) Contains(lengthMM float64) bool {
	if lengthMM < b.Min {
		return false
	}
	return b.Max == 0 || lengthMM < b.Max
}

// Bins returns a fresh, zeroed copy of the fixed length histogram layout
func Bins() []Bin {
	return []Bin{
		{Label: "50-100", Min: 50, Max: 100},
		{Label: "100-150", Min: 100, Max: 150},
		{Label: "150-200", Min: 150, Max: 200},
		{Label: "200-250", Min: 200, Max: 250},
		{Label: "250-300", Min: 250, Max: 300},
		{Label: "300-350", Min: 300, Max: 350},
		{Label: "350-400", Min: 350, Max: 400},
		{Label: "400+", Min: 400},
	}
}

// Stats summarise a non empty fish record set
type Stats struct {
	MeanLength        float64  `json:"mean_length"`
	MeanWeight        float64  `json:"mean_weight"`
	StdDevLength      float64  `json:"std_dev_length"`
	MinLength         float64  `json:"min_length"`
	MaxLength         float64  `json:"max_length"`
	LengthFrequency   []Bin    `json:"length_frequency"`
	RelativeWeightAvg *float64 `json:"relative_weight_avg"`
	SampleSize        int      `json:"sample_size"`
}

// Compute returns nil for an empty record set
func Compute(records []survey.FishRecord) *Stats {
	n := len(records)
	if n == 0 {
		return nil
	}

	var sumL, sumW float64
	minL, maxL := records[0].LengthMM, records[0].LengthMM
	for _, r := range records {
		sumL += r.LengthMM
		sumW += r.WeightG
		minL = math.Min(minL, r.LengthMM)
		maxL = math.Max(maxL, r.LengthMM)
	}
	meanL := sumL / float64(n)

	var sq float64
	for _, r := range records {
		d := r.LengthMM - meanL
		sq += d * d
	}
	denom := float64(max(n-1, 1))

	return &Stats{
		MeanLength:        roundTo(meanL, 0),
		MeanWeight:        roundTo(sumW/float64(n), 0),
		StdDevLength:      roundTo(math.Sqrt(sq/denom), 1),
		MinLength:         minL,
		MaxLength:         maxL,
		LengthFrequency:   Histogram(records),
		RelativeWeightAvg: RelativeWeight(records),
		SampleSize:        n,
	}
}

// Histogram counts records per fixed bin; lengths under 50 mm land in no bin
func Histogram(records []survey.FishRecord) []Bin {
	bins := Bins()
	for _, r := range records {
		for i := range bins {
			if bins[i].Contains(r.LengthMM) {
				bins[i].Count++
				break
			}
		}
	}
	return bins
}

// PredictedWeight is the length-weight model used by the condition index
func PredictedWeight(lengthMM float64) float64 {
	return WeightA * math.Pow(lengthMM, WeightB)
}

// RelativeWeight averages observed/predicted*100 over records with a positive
// predicted weight. nil when no record qualifies
func RelativeWeight(records []survey.FishRecord) *float64 {
	var sum float64
	used := 0
	for _, r := range records {
		p := PredictedWeight(r.LengthMM)
		if !(p > 0) || math.IsInf(p, 0) {
			continue
		}
		sum += r.WeightG / p * 100
		used++
	}
	if used == 0 {
		return nil
	}
	avg := roundTo(sum/float64(used), 1)
	return &avg
}

// SpeciesStats is Compute applied to a single species group
type SpeciesStats struct {
	Species string `json:"species"`
	Name    string `json:"name,omitempty"`
	Stats   *Stats `json:"stats"`
}

// BySpecies groups records by species code and computes stats per group,
// largest sample first then by code
func BySpecies(records []survey.FishRecord, names func(code string) string) []SpeciesStats {
	groups := map[string][]survey.FishRecord{}
	for _, r := range records {
		groups[r.Species] = append(groups[r.Species], r)
	}

	out := make([]SpeciesStats, 0, len(groups))
	for code, rs := range groups {
		ss := SpeciesStats{Species: code, Stats: Compute(rs)}
		if names != nil {
			ss.Name = names(code)
		}
		out = append(out, ss)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stats.SampleSize != out[j].Stats.SampleSize {
			return out[i].Stats.SampleSize > out[j].Stats.SampleSize
		}
		return out[i].Species < out[j].Species
	})
	return out
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}
