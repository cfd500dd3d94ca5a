package query

import (
	"sort"
	"strings"

	"fishdash/internal/core/survey"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Date range placeholders
const (
	NoDates        = "—"
	DateRangeDelim = " – "
)

// Lookup is the read only catalog surface the engine consumes
// a miss is never an error, it just contributes nothing
type Lookup interface {
	WaterByID(id string) (survey.Water, bool)
	FishRecordsBySurvey(surveyID string) []survey.FishRecord
	SpeciesByCode(code string) (survey.Species, bool)
}

// SpeciesShare is one row of the species detection distribution
type SpeciesShare struct {
	Code    string `json:"code"`
	Name    string `json:"name,omitempty"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// Aggregates summarise the matching surveys
type Aggregates struct {
	TotalFishCount      int            `json:"total_fish_count"`
	UniqueWaters        int            `json:"unique_waters"`
	DateRange           string         `json:"date_range"`
	Regions             int            `json:"regions"`
	SpeciesDistribution []SpeciesShare `json:"species_distribution"`
}

// Result is derived on every run and never cached by the engine
type Result struct {
	MatchingSurveys []survey.Survey     `json:"matching_surveys"`
	Aggregates      Aggregates          `json:"aggregates"`
	FishRecords     []survey.FishRecord `json:"fish_records"`
}

// Engine applies query states to survey pools. It holds no mutable state and is
// safe for concurrent use as long as the Lookup is
type Engine struct {
	lookup Lookup
	upper  func(string) string
}

// NewEngine builds an engine over a catalog lookup
func NewEngine(l Lookup) *Engine {
	if l == nil {
		panic("query.Engine requires a non nil Lookup")
	}
	return &Engine{lookup: l, upper: UpperCode}
}

// UpperCode normalizes a species selector to catalog case
func UpperCode(s string) string { return cases.Upper(language.Und).String(s) }

// Run filters surveys with st and derives aggregates and the pooled fish records
// surveys is the already merged pool; neither it nor st is modified
func (e *Engine) Run(surveys []survey.Survey, st State) Result {
	matched := e.Filter(surveys, st)
	return Result{
		MatchingSurveys: matched,
		Aggregates:      e.Aggregate(matched),
		FishRecords:     e.Pool(matched, st),
	}
}

// stage narrows a survey set; a nil stage is a no-op
type stage func(survey.Survey) bool

// Filter runs the fixed pipeline: water, region, species, protocol, date
// each enabled stage narrows the previous result, order is preserved
func (e *Engine) Filter(surveys []survey.Survey, st State) []survey.Survey {
	out := make([]survey.Survey, len(surveys))
	copy(out, surveys)

	for _, keep := range e.stages(st) {
		if keep == nil {
			continue
		}
		next := out[:0:0]
		for _, s := range out {
			if keep(s) {
				next = append(next, s)
			}
		}
		out = next
	}
	return out
}

func (e *Engine) stages(st State) []stage {
	return []stage{
		e.waterStage(st.Water),
		e.regionStage(st.Region),
		e.speciesStage(st.Species),
		protocolStage(st.Protocol),
		dateStage(st.DateFrom, st.DateTo),
	}
}

func (e *Engine) waterStage(sel string) stage {
	if sel == All {
		return nil
	}
	return func(s survey.Survey) bool { return s.WaterID == sel }
}

func (e *Engine) regionStage(sel string) stage {
	if sel == All {
		return nil
	}
	region := survey.RegionFromKey(sel)
	if region == survey.RegionUnknown {
		// unrecognized selector is permissive by contract
		return nil
	}
	return func(s survey.Survey) bool {
		w, ok := e.lookup.WaterByID(s.WaterID)
		return ok && w.Region == region
	}
}

func (e *Engine) speciesStage(sel string) stage {
	if sel == All {
		return nil
	}
	code := e.upper(sel)
	return func(s survey.Survey) bool { return s.Detected(code) }
}

func protocolStage(sel string) stage {
	if sel == All {
		return nil
	}
	p := survey.ProtocolFromKey(sel)
	if p == survey.ProtocolUnknown {
		return nil
	}
	return func(s survey.Survey) bool { return s.Protocol == p }
}

func dateStage(from, to string) stage {
	if from == "" && to == "" {
		return nil
	}
	return func(s survey.Survey) bool {
		if from != "" && s.Date < from {
			return false
		}
		if to != "" && s.Date > to {
			return false
		}
		return true
	}
}

// Aggregate derives the survey level summary
func (e *Engine) Aggregate(matched []survey.Survey) Aggregates {
	agg := Aggregates{DateRange: NoDates, SpeciesDistribution: []SpeciesShare{}}

	waters := map[string]struct{}{}
	regions := map[survey.Region]struct{}{}
	dates := make([]string, 0, len(matched))

	// encounter order is kept for stable tie breaking
	var order []string
	counts := map[string]int{}

	for _, s := range matched {
		agg.TotalFishCount += s.FishCount
		waters[s.WaterID] = struct{}{}
		if w, ok := e.lookup.WaterByID(s.WaterID); ok {
			regions[w.Region] = struct{}{}
		}
		if s.Date != "" {
			dates = append(dates, s.Date)
		}

		seen := map[string]struct{}{}
		for _, code := range s.SpeciesDetected {
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			if _, ok := counts[code]; !ok {
				order = append(order, code)
			}
			counts[code]++
		}
	}

	agg.UniqueWaters = len(waters)
	agg.Regions = len(regions)
	agg.DateRange = dateRange(dates)
	agg.SpeciesDistribution = e.distribution(order, counts)
	return agg
}

func dateRange(dates []string) string {
	switch len(dates) {
	case 0:
		return NoDates
	case 1:
		return dates[0]
	}
	sorted := append([]string(nil), dates...)
	sort.Strings(sorted)
	if sorted[0] == sorted[len(sorted)-1] {
		return sorted[0] + DateRangeDelim + sorted[0]
	}
	return sorted[0] + DateRangeDelim + sorted[len(sorted)-1]
}

func (e *Engine) distribution(order []string, counts map[string]int) []SpeciesShare {
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]SpeciesShare, 0, len(order))
	for _, code := range order {
		sh := SpeciesShare{Code: code, Count: counts[code]}
		if total > 0 {
			sh.Percent = roundHalfUp(float64(sh.Count) / float64(total) * 100)
		}
		if sp, ok := e.lookup.SpeciesByCode(code); ok {
			sh.Name = sp.CommonName
		}
		out = append(out, sh)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Pool concatenates the fish records of matched surveys, then applies the species
// and YOY filters. It never changes which surveys matched
func (e *Engine) Pool(matched []survey.Survey, st State) []survey.FishRecord {
	out := []survey.FishRecord{}
	for _, s := range matched {
		out = append(out, e.lookup.FishRecordsBySurvey(s.ID)...)
	}

	if st.Species != All {
		code := e.upper(st.Species)
		kept := out[:0:0]
		for _, r := range out {
			if r.Species == code {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	if st.ExcludeYOY {
		kept := out[:0:0]
		for _, r := range out {
			if r.LengthMM >= YOYThresholdMM {
				kept = append(kept, r)
			}
		}
		out = kept
	}
	return out
}

// Describe renders st as a short human label, used by logs and the CLI
func Describe(st State) string {
	var parts []string
	add := func(k, v string) {
		if v != "" && v != All {
			parts = append(parts, k+"="+v)
		}
	}
	add("water", st.Water)
	add("region", st.Region)
	add("species", st.Species)
	add("protocol", st.Protocol)
	add("from", st.DateFrom)
	add("to", st.DateTo)
	if st.ExcludeYOY {
		parts = append(parts, "excludeYOY")
	}
	if len(parts) == 0 {
		return "all surveys"
	}
	return strings.Join(parts, " ")
}

func roundHalfUp(v float64) int {
	if v < 0 {
		return -roundHalfUp(-v)
	}
	return int(v + 0.5)
}
