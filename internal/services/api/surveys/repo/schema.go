package repo

import (
	"context"

	"fishdash/internal/core/catalog"
	"fishdash/internal/modkit/repokit"
	perr "fishdash/internal/platform/errors"
)

// Schema creates the catalog tables; statements run one at a time so both
// backends accept them
var Schema = []string{
	`create table if not exists catalog_meta (
		meta_key   text primary key,
		meta_value text not null
	)`,
	`create table if not exists waters (
		id              text primary key,
		position        integer not null,
		name            text not null,
		region          text not null,
		watershed       text not null default '',
		active_from     integer not null default 0,
		active_to       integer not null default 0,
		primary_species text not null default ''
	)`,
	`create table if not exists stations (
		water_id   text not null references waters(id) on delete cascade,
		id         text not null,
		position   integer not null,
		name       text not null,
		river_mile double precision,
		lat        double precision,
		lon        double precision,
		primary key (water_id, id)
	)`,
	`create table if not exists species (
		code            text primary key,
		position        integer not null,
		common_name     text not null,
		scientific_name text not null default '',
		length_min      double precision not null,
		length_max      double precision not null,
		weight_min      double precision not null,
		weight_max      double precision not null
	)`,
	`create table if not exists surveys (
		id               text primary key,
		position         integer not null,
		water_id         text not null,
		station_id       text not null default '',
		survey_date      text not null,
		protocol         text not null,
		uploader         text not null default '',
		status           text not null,
		fish_count       integer not null default 0,
		species_detected text not null default '',
		cpue             double precision
	)`,
	`create table if not exists fish_records (
		survey_id text not null references surveys(id) on delete cascade,
		seq       integer not null,
		species   text not null,
		length_mm double precision not null,
		weight_g  double precision not null,
		primary key (survey_id, seq)
	)`,
}

// Migrate applies Schema
func Migrate(ctx context.Context, q repokit.Queryer) error {
	for i, stmt := range Schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return perr.FromDBf(err, "surveys repo: schema statement %d", i)
		}
	}
	return nil
}

// Seed replaces the catalog tables with s inside one transaction
func Seed(ctx context.Context, db repokit.TxRunner, s catalog.Snapshot) error {
	return repokit.WithTx(ctx, db, func(q repokit.Queryer) error {
		for _, t := range []string{"fish_records", "surveys", "species", "stations", "waters", "catalog_meta"} {
			if _, err := q.Exec(ctx, "delete from "+t); err != nil {
				return perr.FromDBf(err, "surveys repo: clear %s", t)
			}
		}

		for k, v := range s.Meta {
			if _, err := q.Exec(ctx, `insert into catalog_meta (meta_key, meta_value) values ($1, $2)`, k, v); err != nil {
				return perr.FromDBf(err, "surveys repo: meta %s", k)
			}
		}

		for i, w := range s.Waters {
			const sql = `insert into waters (id, position, name, region, watershed, active_from, active_to, primary_species)
values ($1, $2, $3, $4, $5, $6, $7, $8)`
			if _, err := q.Exec(ctx, sql, w.ID, i, w.Name, w.Region.String(), w.Watershed,
				w.ActiveYears.From, w.ActiveYears.To, joinCodes(w.PrimarySpecies)); err != nil {
				return perr.FromDBf(err, "surveys repo: water %s", w.ID)
			}
			for j, st := range w.Stations {
				var lat, lon *float64
				if st.Coord != nil {
					lat, lon = &st.Coord.Lat, &st.Coord.Lon
				}
				const ssql = `insert into stations (water_id, id, position, name, river_mile, lat, lon)
values ($1, $2, $3, $4, $5, $6, $7)`
				if _, err := q.Exec(ctx, ssql, w.ID, st.ID, j, st.Name, st.RiverMile, lat, lon); err != nil {
					return perr.FromDBf(err, "surveys repo: station %s/%s", w.ID, st.ID)
				}
			}
		}

		for i, sp := range s.Species {
			const sql = `insert into species (code, position, common_name, scientific_name, length_min, length_max, weight_min, weight_max)
values ($1, $2, $3, $4, $5, $6, $7, $8)`
			if _, err := q.Exec(ctx, sql, sp.Code, i, sp.CommonName, sp.ScientificName,
				sp.Length.Min, sp.Length.Max, sp.Weight.Min, sp.Weight.Max); err != nil {
				return perr.FromDBf(err, "surveys repo: species %s", sp.Code)
			}
		}

		for i, sv := range s.Surveys {
			const sql = `insert into surveys (id, position, water_id, station_id, survey_date, protocol, uploader, status, fish_count, species_detected, cpue)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
			if _, err := q.Exec(ctx, sql, sv.ID, i, sv.WaterID, sv.StationID, sv.Date, sv.Protocol.String(),
				sv.Uploader, sv.Status.String(), sv.FishCount, joinCodes(sv.SpeciesDetected), sv.CPUE); err != nil {
				return perr.FromDBf(err, "surveys repo: survey %s", sv.ID)
			}
		}

		seq := map[string]int{}
		for _, fr := range s.FishRecords {
			n := seq[fr.SurveyID]
			seq[fr.SurveyID] = n + 1
			const sql = `insert into fish_records (survey_id, seq, species, length_mm, weight_g) values ($1, $2, $3, $4, $5)`
			if _, err := q.Exec(ctx, sql, fr.SurveyID, n, fr.Species, fr.LengthMM, fr.WeightG); err != nil {
				return perr.FromDBf(err, "surveys repo: fish record %s#%d", fr.SurveyID, n)
			}
		}
		return nil
	})
}
