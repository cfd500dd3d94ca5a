// Package service contains the survey query workflows: runs, statistics,
// comparisons, tokens and catalog listings
package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"fishdash/internal/core/catalog"
	"fishdash/internal/core/fishstats"
	"fishdash/internal/core/query"
	"fishdash/internal/core/survey"
	perr "fishdash/internal/platform/errors"
	"fishdash/internal/platform/logger"
	"fishdash/internal/platform/metrics"
	"fishdash/internal/services/api/surveys/domain"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Service defines the surveys service contract
type Service interface {
	domain.ServicePort
	Reload(ctx context.Context) error
}

// loaded is one immutable catalog generation
type loaded struct {
	gen uint64
	cat *catalog.Catalog
	eng *query.Engine
}

// Svc implements the surveys service
type Svc struct {
	src Source
	cur atomic.Pointer[loaded]
	gen atomic.Uint64
	sf  singleflight.Group
}

// New constructs a surveys service. Call Reload before serving
func New(src Source) *Svc {
	if src == nil {
		panic("surveys.Service requires a non nil Source")
	}
	return &Svc{src: src}
}

// Reload loads the catalog from the source and swaps it in atomically
// the previous generation keeps serving when the load fails
func (s *Svc) Reload(ctx context.Context) error {
	c, err := s.src.Load(ctx)
	metrics.CatalogLoaded(s.src.Name(), err)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "catalog load from %s failed", s.src.Name())
	}
	l := &loaded{gen: s.gen.Add(1), cat: c, eng: query.NewEngine(c)}
	s.cur.Store(l)

	info := c.Info()
	logger.C(ctx).Info().
		Str("source", info.Source).
		Int("waters", info.Waters).
		Int("surveys", info.Surveys).
		Int("fish_records", info.FishRecords).
		Uint64("generation", l.gen).
		Msg("catalog loaded")
	return nil
}

func (s *Svc) current() (*loaded, error) {
	l := s.cur.Load()
	if l == nil {
		return nil, perr.Unavailablef("catalog not loaded")
	}
	return l, nil
}

// resolve turns the wire input into a state and parsed overrides
func resolve(in domain.QueryInput) (query.State, map[string]survey.Status, error) {
	st := query.DefaultState()
	switch {
	case in.Token != "":
		var err error
		if st, err = query.Parse(in.Token); err != nil {
			metrics.TokenFailed()
			return query.State{}, nil, perr.WithField(err, "token")
		}
	case in.State != nil:
		st = in.State.ToState()
	}

	ov, err := catalog.ParseOverrides(in.StatusOverrides)
	if err != nil {
		return query.State{}, nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, err.Error()), "status_overrides")
	}
	return st, ov, nil
}

// overridesKey is a stable rendering of the overrides for request coalescing
func overridesKey(ov map[string]survey.Status) string {
	if len(ov) == 0 {
		return ""
	}
	ids := make([]string, 0, len(ov))
	for id := range ov {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte('=')
		b.WriteString(ov[id].String())
		b.WriteByte(';')
	}
	return b.String()
}

// run executes the engine, sharing the result with identical in flight callers
// shared results are read only
func (s *Svc) run(l *loaded, st query.State, ov map[string]survey.Status) query.Result {
	key := fmt.Sprintf("%d|%s|%s", l.gen, query.Encode(st), overridesKey(ov))
	v, _, shared := s.sf.Do(key, func() (any, error) {
		pool := catalog.ApplyStatusOverrides(l.cat.Surveys(), ov)
		return l.eng.Run(pool, st), nil
	})
	if shared {
		metrics.Shared()
	}
	res := v.(query.Result)
	metrics.ObserveResult(len(res.MatchingSurveys), len(res.FishRecords))
	return res
}

// Query filters the survey pool and returns aggregates and pooled records
func (s *Svc) Query(ctx context.Context, in domain.QueryInput) (out domain.QueryOutput, err error) {
	defer func(start time.Time) { metrics.ObserveRun("query", start, err) }(time.Now())

	l, err := s.current()
	if err != nil {
		return domain.QueryOutput{}, err
	}
	st, ov, err := resolve(in)
	if err != nil {
		return domain.QueryOutput{}, err
	}
	res := s.run(l, st, ov)

	logger.C(ctx).Debug().
		Str("query", query.Describe(st)).
		Int("surveys", len(res.MatchingSurveys)).
		Int("records", len(res.FishRecords)).
		Msg("survey query")

	return domain.QueryOutput{
		State:           st,
		Token:           query.Encode(st),
		Description:     query.Describe(st),
		MatchingSurveys: res.MatchingSurveys,
		Aggregates:      res.Aggregates,
		FishRecords:     res.FishRecords,
	}, nil
}

// Stats computes the statistics view over a query's pooled records
func (s *Svc) Stats(ctx context.Context, in domain.QueryInput) (out domain.StatsOutput, err error) {
	defer func(start time.Time) { metrics.ObserveRun("stats", start, err) }(time.Now())

	l, err := s.current()
	if err != nil {
		return domain.StatsOutput{}, err
	}
	st, ov, err := resolve(in)
	if err != nil {
		return domain.StatsOutput{}, err
	}
	return s.stats(l, st, ov), nil
}

func (s *Svc) stats(l *loaded, st query.State, ov map[string]survey.Status) domain.StatsOutput {
	res := s.run(l, st, ov)

	by := fishstats.BySpecies(res.FishRecords, l.cat.SpeciesName)
	for i := range by {
		by[i].Stats = fishstats.Display(by[i].Stats, st.Unit)
	}
	return domain.StatsOutput{
		State:      st,
		Token:      query.Encode(st),
		Unit:       st.Unit,
		Stats:      fishstats.Display(fishstats.Compute(res.FishRecords), st.Unit),
		BySpecies:  by,
		OutOfRange: fishstats.OutOfRange(res.FishRecords, l.cat),
	}
}

// Compare runs two queries side by side against the same catalog generation
func (s *Svc) Compare(ctx context.Context, in domain.CompareInput) (out domain.CompareOutput, err error) {
	defer func(start time.Time) { metrics.ObserveRun("compare", start, err) }(time.Now())

	l, err := s.current()
	if err != nil {
		return domain.CompareOutput{}, err
	}

	var left, right domain.CompareSide
	var rawLeft, rawRight *fishstats.Stats
	var g errgroup.Group
	side := func(field string, q domain.QueryInput, dst *domain.CompareSide, raw **fishstats.Stats) func() error {
		return func() error {
			st, ov, err := resolve(q)
			if err != nil {
				return prefixField(err, field)
			}
			res := s.run(l, st, ov)
			stats := fishstats.Compute(res.FishRecords)
			*raw = stats
			*dst = domain.CompareSide{
				State:       st,
				Token:       query.Encode(st),
				Description: query.Describe(st),
				Surveys:     len(res.MatchingSurveys),
				Aggregates:  res.Aggregates,
				Stats:       fishstats.Display(stats, st.Unit),
			}
			return nil
		}
	}
	g.Go(side("left", in.Left, &left, &rawLeft))
	g.Go(side("right", in.Right, &right, &rawRight))
	if err := g.Wait(); err != nil {
		return domain.CompareOutput{}, err
	}

	delta := domain.CompareDelta{
		Surveys:        right.Surveys - left.Surveys,
		TotalFishCount: right.Aggregates.TotalFishCount - left.Aggregates.TotalFishCount,
	}
	if rawLeft != nil {
		delta.SampleSize -= rawLeft.SampleSize
	}
	if rawRight != nil {
		delta.SampleSize += rawRight.SampleSize
	}
	if rawLeft != nil && rawRight != nil {
		d := math.Round((rawRight.MeanLength-rawLeft.MeanLength)*10) / 10
		delta.MeanLengthMM = &d
	}
	return domain.CompareOutput{Left: left, Right: right, Delta: delta}, nil
}

// prefixField scopes a field error to one side of a comparison
func prefixField(err error, prefix string) error {
	if e, ok := perr.As(err); ok && e.Field() != "" {
		return perr.WithField(err, prefix+"."+e.Field())
	}
	return perr.WithFieldChain(err, prefix)
}

// EncodeToken returns the shareable token for a state
func (s *Svc) EncodeToken(_ context.Context, in domain.TokenInput) (domain.TokenOutput, error) {
	st := in.State.ToState()
	return domain.TokenOutput{Token: query.Encode(st), State: st, Description: query.Describe(st)}, nil
}

// DecodeToken restores the state behind a token; malformed tokens are invalid arguments
func (s *Svc) DecodeToken(_ context.Context, token string) (domain.TokenOutput, error) {
	st, err := query.Parse(token)
	if err != nil {
		metrics.TokenFailed()
		return domain.TokenOutput{}, perr.WithField(err, "token")
	}
	return domain.TokenOutput{Token: query.Encode(st), State: st, Description: query.Describe(st)}, nil
}

// Waters lists the catalog waters with their stations
func (s *Svc) Waters(context.Context) ([]survey.Water, error) {
	l, err := s.current()
	if err != nil {
		return nil, err
	}
	return l.cat.Waters(), nil
}

// Species lists the species reference table
func (s *Svc) Species(context.Context) ([]survey.Species, error) {
	l, err := s.current()
	if err != nil {
		return nil, err
	}
	return l.cat.Species(), nil
}

// Surveys lists surveys, optionally narrowed by status and water
func (s *Svc) Surveys(_ context.Context, in domain.ListInput) ([]survey.Survey, error) {
	l, err := s.current()
	if err != nil {
		return nil, err
	}
	var want survey.Status
	if in.Status != "" {
		if want, err = survey.ParseStatus(in.Status); err != nil {
			return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, err.Error()), "status")
		}
	}
	out := []survey.Survey{}
	for _, sv := range l.cat.Surveys() {
		if want != survey.StatusUnknown && sv.Status != want {
			continue
		}
		if in.WaterID != "" && sv.WaterID != in.WaterID {
			continue
		}
		out = append(out, sv)
	}
	return out, nil
}

// Catalog reports what is loaded
func (s *Svc) Catalog(context.Context) (catalog.Info, error) {
	l, err := s.current()
	if err != nil {
		return catalog.Info{}, err
	}
	return l.cat.Info(), nil
}
