// Package survey holds the fisheries survey data model shared by the catalog,
// the query engine and the statistics calculator. All types are plain values
package survey

import pstrings "fishdash/internal/platform/strings"

// Range is an inclusive plausible range for a measurement
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v lies inside the range, bounds included
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// YearRange is the span of years a water has been actively surveyed
type YearRange struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to"   yaml:"to"`
}

// Coord is a WGS84 coordinate
type Coord struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Station is a sampling location owned by a Water
type Station struct {
	ID        string   `json:"id"                   yaml:"id"`
	Name      string   `json:"name"                 yaml:"name"`
	RiverMile *float64 `json:"river_mile,omitempty" yaml:"river_mile,omitempty"`
	Coord     *Coord   `json:"coord,omitempty"      yaml:"coord,omitempty"`
}

// Water is a surveyed water body
type Water struct {
	ID             string    `json:"id"              yaml:"id"`
	Name           string    `json:"name"            yaml:"name"`
	Region         Region    `json:"region"          yaml:"region"`
	Watershed      string    `json:"watershed"       yaml:"watershed"`
	Stations       []Station `json:"stations"        yaml:"stations"`
	ActiveYears    YearRange `json:"active_years"    yaml:"active_years"`
	PrimarySpecies []string  `json:"primary_species" yaml:"primary_species"`
}

// Species is a row of the global species reference table
type Species struct {
	Code           string `json:"code"            yaml:"code"`
	CommonName     string `json:"common_name"     yaml:"common_name"`
	ScientificName string `json:"scientific_name" yaml:"scientific_name"`
	Length         Range  `json:"length_mm"       yaml:"length_mm"`
	Weight         Range  `json:"weight_g"        yaml:"weight_g"`
}

// Survey is one field collection event at a station
// FishCount is a summary figure and need not match the number of FishRecords
type Survey struct {
	ID              string   `json:"id"               yaml:"id"`
	WaterID         string   `json:"water_id"         yaml:"water_id"`
	StationID       string   `json:"station_id"       yaml:"station_id"`
	Date            string   `json:"date"             yaml:"date"`
	Protocol        Protocol `json:"protocol"         yaml:"protocol"`
	Uploader        string   `json:"uploader"         yaml:"uploader"`
	Status          Status   `json:"status"           yaml:"status"`
	FishCount       int      `json:"fish_count"       yaml:"fish_count"`
	SpeciesDetected []string `json:"species_detected" yaml:"species_detected"`
	CPUE            *float64 `json:"cpue,omitempty"   yaml:"cpue,omitempty"`
}

// Detected reports whether code is in the survey's detected species list
// comparison is exact; callers normalize case first
func (s Survey) Detected(code string) bool {
	for _, c := range s.SpeciesDetected {
		if c == code {
			return true
		}
	}
	return false
}

// FishRecord is one measured fish belonging to a survey
type FishRecord struct {
	SurveyID string  `json:"survey_id" yaml:"survey_id"`
	Species  string  `json:"species"   yaml:"species"`
	LengthMM float64 `json:"length_mm" yaml:"length_mm"`
	WeightG  float64 `json:"weight_g"  yaml:"weight_g"`
}

// SplitCodes parses a comma separated species list as stored by SQL sources
func SplitCodes(s string) []string { return pstrings.SplitList(s, ",") }
