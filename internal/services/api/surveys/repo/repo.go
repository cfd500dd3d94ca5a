// Package repo reads the survey catalog from a sql backend
// queries stay portable between postgres and sqlite: text dates, positional
// placeholders used once each and in order
package repo

import (
	"context"
	"strings"

	"fishdash/internal/core/catalog"
	"fishdash/internal/core/survey"
	"fishdash/internal/modkit/repokit"
	perr "fishdash/internal/platform/errors"
)

// Repo is the read surface for a sql catalog
type Repo interface {
	Meta(ctx context.Context) (map[string]string, error)
	Waters(ctx context.Context) ([]survey.Water, error)
	Species(ctx context.Context) ([]survey.Species, error)
	Surveys(ctx context.Context) ([]survey.Survey, error)
	FishRecords(ctx context.Context) ([]survey.FishRecord, error)
}

type (
	// SQL is a binder that can bind the repo to a Queryer or TxRunner
	SQL struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewSQL returns a binder that can bind the repo to a Queryer or TxRunner
func NewSQL() repokit.Binder[Repo] { return SQL{} }

// Bind wires a Queryer to the repo
func (SQL) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// Snapshot reads every table into a catalog snapshot. Backend errors are
// classified, so a database that was never seeded reports unavailable
func Snapshot(ctx context.Context, r Repo) (catalog.Snapshot, error) {
	s := catalog.Snapshot{Version: catalog.SchemaVersion}
	var err error
	if s.Meta, err = r.Meta(ctx); err != nil {
		return catalog.Snapshot{}, perr.FromDB(err, "surveys repo: read catalog_meta")
	}
	if s.Waters, err = r.Waters(ctx); err != nil {
		return catalog.Snapshot{}, perr.FromDB(err, "surveys repo: read waters")
	}
	if s.Species, err = r.Species(ctx); err != nil {
		return catalog.Snapshot{}, perr.FromDB(err, "surveys repo: read species")
	}
	if s.Surveys, err = r.Surveys(ctx); err != nil {
		return catalog.Snapshot{}, perr.FromDB(err, "surveys repo: read surveys")
	}
	if s.FishRecords, err = r.FishRecords(ctx); err != nil {
		return catalog.Snapshot{}, perr.FromDB(err, "surveys repo: read fish_records")
	}
	return s, nil
}

func (r *queries) Meta(ctx context.Context) (map[string]string, error) {
	rows, err := r.q.Query(ctx, `select meta_key, meta_value from catalog_meta order by meta_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (r *queries) Waters(ctx context.Context) ([]survey.Water, error) {
	const sql = `
select id, name, region, watershed, active_from, active_to, primary_species
from waters
order by position asc, id asc
`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []survey.Water
	for rows.Next() {
		var (
			w       survey.Water
			region  string
			primary string
		)
		if err := rows.Scan(&w.ID, &w.Name, &region, &w.Watershed, &w.ActiveYears.From, &w.ActiveYears.To, &primary); err != nil {
			return nil, err
		}
		_ = w.Region.UnmarshalText([]byte(region))
		w.PrimarySpecies = survey.SplitCodes(primary)
		w.Stations = []survey.Station{}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	stations, err := r.stations(ctx)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if st, ok := stations[out[i].ID]; ok {
			out[i].Stations = st
		}
	}
	return out, nil
}

func (r *queries) stations(ctx context.Context) (map[string][]survey.Station, error) {
	const sql = `
select water_id, id, name, river_mile, lat, lon
from stations
order by water_id asc, position asc
`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string][]survey.Station{}
	for rows.Next() {
		var (
			waterID  string
			st       survey.Station
			lat, lon *float64
		)
		if err := rows.Scan(&waterID, &st.ID, &st.Name, &st.RiverMile, &lat, &lon); err != nil {
			return nil, err
		}
		if lat != nil && lon != nil {
			st.Coord = &survey.Coord{Lat: *lat, Lon: *lon}
		}
		out[waterID] = append(out[waterID], st)
	}
	return out, rows.Err()
}

func (r *queries) Species(ctx context.Context) ([]survey.Species, error) {
	const sql = `
select code, common_name, scientific_name, length_min, length_max, weight_min, weight_max
from species
order by position asc, code asc
`
	return repokit.Many(ctx, r.q, scanSpecies, sql)
}

func scanSpecies(row repokit.Row) (survey.Species, error) {
	var sp survey.Species
	err := row.Scan(&sp.Code, &sp.CommonName, &sp.ScientificName,
		&sp.Length.Min, &sp.Length.Max, &sp.Weight.Min, &sp.Weight.Max)
	return sp, err
}

func (r *queries) Surveys(ctx context.Context) ([]survey.Survey, error) {
	const sql = `
select id, water_id, station_id, survey_date, protocol, uploader, status, fish_count, species_detected, cpue
from surveys
order by position asc, id asc
`
	return repokit.Many(ctx, r.q, scanSurvey, sql)
}

func scanSurvey(row repokit.Row) (survey.Survey, error) {
	var (
		s                survey.Survey
		protocol, status string
		detected         string
	)
	if err := row.Scan(&s.ID, &s.WaterID, &s.StationID, &s.Date, &protocol, &s.Uploader,
		&status, &s.FishCount, &detected, &s.CPUE); err != nil {
		return s, err
	}
	_ = s.Protocol.UnmarshalText([]byte(protocol))
	_ = s.Status.UnmarshalText([]byte(status))
	s.SpeciesDetected = survey.SplitCodes(detected)
	return s, nil
}

func (r *queries) FishRecords(ctx context.Context) ([]survey.FishRecord, error) {
	const sql = `
select f.survey_id, f.species, f.length_mm, f.weight_g
from fish_records f
order by f.survey_id asc, f.seq asc
`
	return repokit.Many(ctx, r.q, func(row repokit.Row) (survey.FishRecord, error) {
		var fr survey.FishRecord
		err := row.Scan(&fr.SurveyID, &fr.Species, &fr.LengthMM, &fr.WeightG)
		return fr, err
	}, sql)
}

func joinCodes(codes []string) string { return strings.Join(codes, ",") }
