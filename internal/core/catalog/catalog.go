// Package catalog holds the read only survey catalog: waters, species reference
// ranges, surveys and their fish records. It is built once from a Snapshot and
// serves lookups to the query engine
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"fishdash/internal/core/survey"
)

// Snapshot is the raw catalog content as loaded from any source
type Snapshot struct {
	Version     int                 `json:"version"      yaml:"version"`
	Meta        map[string]string   `json:"meta"         yaml:"meta"`
	Waters      []survey.Water      `json:"waters"       yaml:"waters"`
	Species     []survey.Species    `json:"species"      yaml:"species"`
	Surveys     []survey.Survey     `json:"surveys"      yaml:"surveys"`
	FishRecords []survey.FishRecord `json:"fish_records" yaml:"fish_records"`
}

// Info describes a loaded catalog
type Info struct {
	Source      string            `json:"source"`
	Version     int               `json:"version"`
	Meta        map[string]string `json:"meta,omitempty"`
	Waters      int               `json:"waters"`
	Species     int               `json:"species"`
	Surveys     int               `json:"surveys"`
	FishRecords int               `json:"fish_records"`
}

// Catalog is an indexed, immutable view of a Snapshot. Safe for concurrent reads
type Catalog struct {
	info Info

	waters     []survey.Water
	waterIdx   map[string]int
	species    []survey.Species
	speciesIdx map[string]int
	surveys    []survey.Survey
	records    map[string][]survey.FishRecord
}

// New validates and indexes s. source is a free label reported by Info
func New(s Snapshot, source string) (*Catalog, error) {
	c := &Catalog{
		waters:     slices.Clone(s.Waters),
		waterIdx:   make(map[string]int, len(s.Waters)),
		species:    slices.Clone(s.Species),
		speciesIdx: make(map[string]int, len(s.Species)),
		surveys:    slices.Clone(s.Surveys),
		records:    make(map[string][]survey.FishRecord, len(s.Surveys)),
	}

	for i, w := range s.Waters {
		if strings.TrimSpace(w.ID) == "" {
			return nil, fmt.Errorf("catalog: water #%d has no id", i)
		}
		if _, dup := c.waterIdx[w.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate water %q", w.ID)
		}
		if !w.Region.Known() {
			return nil, fmt.Errorf("catalog: water %q has unknown region", w.ID)
		}
		c.waterIdx[w.ID] = i
	}

	for i, sp := range s.Species {
		code := strings.TrimSpace(sp.Code)
		if code == "" || code != strings.ToUpper(code) {
			return nil, fmt.Errorf("catalog: species #%d code %q must be non empty upper case", i, sp.Code)
		}
		if _, dup := c.speciesIdx[code]; dup {
			return nil, fmt.Errorf("catalog: duplicate species %q", code)
		}
		c.speciesIdx[code] = i
	}

	seen := make(map[string]struct{}, len(s.Surveys))
	for i, sv := range s.Surveys {
		if strings.TrimSpace(sv.ID) == "" {
			return nil, fmt.Errorf("catalog: survey #%d has no id", i)
		}
		if _, dup := seen[sv.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate survey %q", sv.ID)
		}
		if !sv.Protocol.Known() {
			return nil, fmt.Errorf("catalog: survey %q has unknown protocol", sv.ID)
		}
		if sv.SpeciesDetected == nil {
			c.surveys[i].SpeciesDetected = []string{}
		}
		seen[sv.ID] = struct{}{}
	}

	for _, r := range s.FishRecords {
		if _, ok := seen[r.SurveyID]; !ok {
			return nil, fmt.Errorf("catalog: fish record references unknown survey %q", r.SurveyID)
		}
		c.records[r.SurveyID] = append(c.records[r.SurveyID], r)
	}

	c.info = Info{
		Source:      source,
		Version:     s.Version,
		Meta:        s.Meta,
		Waters:      len(s.Waters),
		Species:     len(s.Species),
		Surveys:     len(s.Surveys),
		FishRecords: len(s.FishRecords),
	}
	return c, nil
}

// Info reports what was loaded and from where
func (c *Catalog) Info() Info { return c.info }

// WaterByID returns the water with the given id
func (c *Catalog) WaterByID(id string) (survey.Water, bool) {
	i, ok := c.waterIdx[id]
	if !ok {
		return survey.Water{}, false
	}
	return c.waters[i], true
}

// SpeciesByCode returns the species reference row for an upper case code
func (c *Catalog) SpeciesByCode(code string) (survey.Species, bool) {
	i, ok := c.speciesIdx[code]
	if !ok {
		return survey.Species{}, false
	}
	return c.species[i], true
}

// SpeciesName is the common name for code, or "" when unknown
func (c *Catalog) SpeciesName(code string) string {
	sp, ok := c.SpeciesByCode(code)
	if !ok {
		return ""
	}
	return sp.CommonName
}

// FishRecordsBySurvey returns a copy of the survey's records, nil when it has none
func (c *Catalog) FishRecordsBySurvey(surveyID string) []survey.FishRecord {
	return slices.Clone(c.records[surveyID])
}

// Waters lists every water in catalog order
func (c *Catalog) Waters() []survey.Water { return slices.Clone(c.waters) }

// Species lists the reference table in catalog order
func (c *Catalog) Species() []survey.Species { return slices.Clone(c.species) }

// Surveys returns a copy of the survey pool so callers can merge overrides freely
func (c *Catalog) Surveys() []survey.Survey { return slices.Clone(c.surveys) }

// WatersInRegion filters the water list by region
func (c *Catalog) WatersInRegion(r survey.Region) []survey.Water {
	var out []survey.Water
	for _, w := range c.waters {
		if w.Region == r {
			out = append(out, w)
		}
	}
	return out
}
