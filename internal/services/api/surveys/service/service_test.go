package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fishdash/internal/core/catalog"
	"fishdash/internal/core/survey"
	perr "fishdash/internal/platform/errors"
	"fishdash/internal/services/api/surveys/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedSvc(t *testing.T) *Svc {
	t.Helper()
	c, err := catalog.Embedded()
	require.NoError(t, err)
	s := New(Static(c))
	require.NoError(t, s.Reload(context.Background()))
	return s
}

func stateIn(in domain.StateInput) domain.QueryInput { return domain.QueryInput{State: &in} }

// flakySource fails after the first successful load
type flakySource struct {
	calls int
	c     *catalog.Catalog
}

func (f *flakySource) Name() string { return "flaky" }

func (f *flakySource) Load(context.Context) (*catalog.Catalog, error) {
	f.calls++
	if f.calls > 1 {
		return nil, errors.New("backend gone")
	}
	return f.c, nil
}

func TestNew_NilSourcePanics(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}

func TestQuery_UnavailableBeforeLoad(t *testing.T) {
	s := New(Embedded())
	_, err := s.Query(context.Background(), domain.QueryInput{})
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))

	_, err = s.Waters(context.Background())
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))
}

func TestReload_FailureKeepsPreviousGeneration(t *testing.T) {
	c, err := catalog.Embedded()
	require.NoError(t, err)
	s := New(&flakySource{c: c})
	ctx := context.Background()

	require.NoError(t, s.Reload(ctx))
	err = s.Reload(ctx)
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeUnavailable, perr.CodeOf(err))

	info, err := s.Catalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, info.Surveys)
}

func TestQuery_ExactMatch(t *testing.T) {
	s := loadedSvc(t)
	out, err := s.Query(context.Background(), stateIn(domain.StateInput{Water: "south-platte", DateFrom: "2025-01-01"}))
	require.NoError(t, err)

	require.Len(t, out.MatchingSurveys, 1)
	assert.Equal(t, "SV-2025-001", out.MatchingSurveys[0].ID)
	assert.Equal(t, 214, out.Aggregates.TotalFishCount)
	assert.Equal(t, "2025-08-14", out.Aggregates.DateRange)
	assert.Len(t, out.FishRecords, 7)
	assert.Equal(t, "all", out.State.Species)
	assert.NotEmpty(t, out.Token)
}

func TestQuery_DefaultStateWhenEmpty(t *testing.T) {
	s := loadedSvc(t)
	out, err := s.Query(context.Background(), domain.QueryInput{})
	require.NoError(t, err)
	assert.Len(t, out.MatchingSurveys, 11)
	assert.Len(t, out.FishRecords, 32)
}

func TestQuery_TokenMatchesState(t *testing.T) {
	s := loadedSvc(t)
	ctx := context.Background()

	tok, err := s.EncodeToken(ctx, domain.TokenInput{State: domain.StateInput{Species: "mwf", ExcludeYOY: true}})
	require.NoError(t, err)

	byToken, err := s.Query(ctx, domain.QueryInput{Token: tok.Token})
	require.NoError(t, err)
	byState, err := s.Query(ctx, stateIn(domain.StateInput{Species: "mwf", ExcludeYOY: true}))
	require.NoError(t, err)

	assert.Equal(t, byState.MatchingSurveys, byToken.MatchingSurveys)
	assert.Equal(t, byState.FishRecords, byToken.FishRecords)
	for _, r := range byToken.FishRecords {
		assert.Equal(t, "MWF", r.Species)
		assert.GreaterOrEqual(t, r.LengthMM, 150.0)
	}
}

func TestQuery_BadToken(t *testing.T) {
	s := loadedSvc(t)
	_, err := s.Query(context.Background(), domain.QueryInput{Token: "!!not-a-token"})
	require.Error(t, err)

	e, ok := perr.As(err)
	require.True(t, ok)
	assert.Equal(t, perr.ErrorCodeInvalidArgument, e.Code())
	assert.Equal(t, "token", e.Field())
}

func TestQuery_StatusOverrides(t *testing.T) {
	s := loadedSvc(t)
	ctx := context.Background()

	out, err := s.Query(ctx, domain.QueryInput{StatusOverrides: map[string]string{"SV-2025-019": "approved"}})
	require.NoError(t, err)
	for _, sv := range out.MatchingSurveys {
		if sv.ID == "SV-2025-019" {
			assert.Equal(t, survey.StatusApproved, sv.Status)
		}
	}

	// overrides never leak into the catalog
	list, err := s.Surveys(ctx, domain.ListInput{Status: "rejected"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "SV-2025-019", list[0].ID)

	_, err = s.Query(ctx, domain.QueryInput{StatusOverrides: map[string]string{"SV-2025-019": "shelved"}})
	require.Error(t, err)
	e, ok := perr.As(err)
	require.True(t, ok)
	assert.Equal(t, perr.ErrorCodeInvalidArgument, e.Code())
	assert.Equal(t, "status_overrides", e.Field())
}

func TestStats_InchesAndBySpecies(t *testing.T) {
	s := loadedSvc(t)
	out, err := s.Stats(context.Background(), stateIn(domain.StateInput{Water: "south-platte", DateFrom: "2025-01-01", Unit: "inches"}))
	require.NoError(t, err)

	require.NotNil(t, out.Stats)
	assert.Equal(t, "inches", out.Unit)
	assert.Equal(t, 7, out.Stats.SampleSize)
	assert.Equal(t, 15.9, out.Stats.MaxLength)
	assert.Equal(t, 4.6, out.Stats.MinLength)

	require.Len(t, out.BySpecies, 2)
	assert.Equal(t, "BNT", out.BySpecies[0].Species)
	assert.Equal(t, "Brown Trout", out.BySpecies[0].Name)
	assert.Equal(t, 4, out.BySpecies[0].Stats.SampleSize)
	assert.Equal(t, 7, out.OutOfRange.Checked)
	assert.Zero(t, out.OutOfRange.LengthOutside)
}

func TestStats_EmptyPool(t *testing.T) {
	s := loadedSvc(t)
	out, err := s.Stats(context.Background(), stateIn(domain.StateInput{Water: "nowhere"}))
	require.NoError(t, err)
	assert.Nil(t, out.Stats)
	assert.Empty(t, out.BySpecies)
}

func TestCompare(t *testing.T) {
	s := loadedSvc(t)
	out, err := s.Compare(context.Background(), domain.CompareInput{
		Left:  stateIn(domain.StateInput{Water: "south-platte", DateFrom: "2025-01-01"}),
		Right: stateIn(domain.StateInput{Water: "blue-river", Unit: "inches"}),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Left.Surveys)
	assert.Equal(t, 2, out.Right.Surveys)
	assert.Equal(t, 1, out.Delta.Surveys)
	assert.Equal(t, 256, out.Delta.TotalFishCount)
	assert.Equal(t, -1, out.Delta.SampleSize)
	require.NotNil(t, out.Delta.MeanLengthMM)
	assert.Equal(t, 69.0, *out.Delta.MeanLengthMM)

	// the right side displays inches while the delta stays in mm
	require.NotNil(t, out.Right.Stats)
	assert.Equal(t, 16.6, out.Right.Stats.MaxLength)
}

func TestCompare_EmptySideHasNoMeanDelta(t *testing.T) {
	s := loadedSvc(t)
	out, err := s.Compare(context.Background(), domain.CompareInput{
		Left:  stateIn(domain.StateInput{Water: "nowhere"}),
		Right: stateIn(domain.StateInput{Water: "yampa"}),
	})
	require.NoError(t, err)
	assert.Nil(t, out.Left.Stats)
	assert.Nil(t, out.Delta.MeanLengthMM)
	assert.Equal(t, 3, out.Delta.SampleSize)
}

func TestCompare_FieldErrorsNameTheSide(t *testing.T) {
	s := loadedSvc(t)
	_, err := s.Compare(context.Background(), domain.CompareInput{
		Left:  domain.QueryInput{},
		Right: domain.QueryInput{Token: "%%%"},
	})
	require.Error(t, err)
	e, ok := perr.As(err)
	require.True(t, ok)
	assert.Equal(t, "right.token", e.Field())
}

func TestDecodeToken(t *testing.T) {
	s := New(Embedded())
	ctx := context.Background()

	enc, err := s.EncodeToken(ctx, domain.TokenInput{State: domain.StateInput{Region: "sw"}})
	require.NoError(t, err)
	dec, err := s.DecodeToken(ctx, enc.Token)
	require.NoError(t, err)
	assert.Equal(t, "sw", dec.State.Region)
	assert.Equal(t, "all", dec.State.Water)
	assert.Equal(t, enc.Description, dec.Description)

	_, err = s.DecodeToken(ctx, "")
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))
}

func TestListings(t *testing.T) {
	s := loadedSvc(t)
	ctx := context.Background()

	ws, err := s.Waters(ctx)
	require.NoError(t, err)
	assert.Len(t, ws, 8)

	sps, err := s.Species(ctx)
	require.NoError(t, err)
	assert.Len(t, sps, 8)

	ark, err := s.Surveys(ctx, domain.ListInput{WaterID: "arkansas", Status: "approved"})
	require.NoError(t, err)
	require.Len(t, ark, 1)
	assert.Equal(t, "SV-2024-008", ark[0].ID)

	_, err = s.Surveys(ctx, domain.ListInput{Status: "shelved"})
	assert.Equal(t, perr.ErrorCodeInvalidArgument, perr.CodeOf(err))
}

func TestQuery_ConcurrentCallersAgree(t *testing.T) {
	s := loadedSvc(t)
	in := stateIn(domain.StateInput{Region: "ne", Species: "BNT"})

	want, err := s.Query(context.Background(), in)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]domain.QueryOutput, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := s.Query(context.Background(), in)
			assert.NoError(t, err)
			results[i] = out
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want.MatchingSurveys, got.MatchingSurveys)
		assert.Equal(t, want.Aggregates, got.Aggregates)
	}
}

func TestResolve_Sources(t *testing.T) {
	src, err := Resolve(SourceConfig{}, Backends{})
	require.NoError(t, err)
	assert.Equal(t, catalog.SourceEmbedded, src.Name())

	_, err = Resolve(SourceConfig{Kind: catalog.SourceFile}, Backends{})
	assert.Error(t, err)

	_, err = Resolve(SourceConfig{Kind: catalog.SourcePG}, Backends{})
	assert.Error(t, err)

	_, err = Resolve(SourceConfig{Kind: catalog.SourceSQLite}, Backends{})
	assert.Error(t, err)

	_, err = Resolve(SourceConfig{Kind: "ftp"}, Backends{})
	assert.Error(t, err)

	src, err = Resolve(SourceConfig{Kind: catalog.SourceFile, Path: "catalog.yaml"}, Backends{})
	require.NoError(t, err)
	assert.Equal(t, catalog.SourceFile, src.Name())
}
