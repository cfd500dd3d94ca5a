package fishstats

import (
	"math"
	"testing"

	"fishdash/internal/core/survey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(species string, l, w float64) survey.FishRecord {
	return survey.FishRecord{SurveyID: "S1", Species: species, LengthMM: l, WeightG: w}
}

func TestCompute_EmptyIsNil(t *testing.T) {
	assert.Nil(t, Compute(nil))
	assert.Nil(t, Compute([]survey.FishRecord{}))
}

func TestCompute_SingleRecord(t *testing.T) {
	s := Compute([]survey.FishRecord{rec("BNT", 237.5, 140)})
	require.NotNil(t, s)
	assert.Equal(t, 0.0, s.StdDevLength)
	assert.Equal(t, 237.5, s.MinLength)
	assert.Equal(t, 237.5, s.MaxLength)
	assert.Equal(t, 1, s.SampleSize)
	assert.Equal(t, 238.0, s.MeanLength)
}

func TestCompute_Descriptive(t *testing.T) {
	rs := []survey.FishRecord{
		rec("BNT", 100, 10),
		rec("BNT", 200, 80),
		rec("RBT", 300, 260),
		rec("RBT", 401, 601),
	}
	s := Compute(rs)
	require.NotNil(t, s)

	assert.Equal(t, 4, s.SampleSize)
	// (100+200+300+401)/4 = 250.25
	assert.Equal(t, 250.0, s.MeanLength)
	// (10+80+260+601)/4 = 237.75
	assert.Equal(t, 238.0, s.MeanWeight)
	assert.Equal(t, 100.0, s.MinLength)
	assert.Equal(t, 401.0, s.MaxLength)

	mean := 250.25
	var sq float64
	for _, r := range rs {
		sq += (r.LengthMM - mean) * (r.LengthMM - mean)
	}
	want := math.Round(math.Sqrt(sq/3)*10) / 10
	assert.Equal(t, want, s.StdDevLength)
}

func TestHistogram_HalfOpenBoundaries(t *testing.T) {
	rs := []survey.FishRecord{
		rec("X", 50, 1),    // 50-100
		rec("X", 99.9, 1),  // 50-100
		rec("X", 100, 1),   // 100-150
		rec("X", 149, 1),   // 100-150
		rec("X", 150, 1),   // 150-200
		rec("X", 399.9, 1), // 350-400
		rec("X", 400, 1),   // 400+
		rec("X", 812, 1),   // 400+
	}
	bins := Histogram(rs)
	require.Len(t, bins, 8)

	counts := map[string]int{}
	for _, b := range bins {
		counts[b.Label] = b.Count
	}
	assert.Equal(t, map[string]int{
		"50-100": 2, "100-150": 2, "150-200": 1, "200-250": 0,
		"250-300": 0, "300-350": 0, "350-400": 1, "400+": 2,
	}, counts)
}

func TestHistogram_Completeness(t *testing.T) {
	var rs []survey.FishRecord
	for l := 50.0; l < 700; l += 7.3 {
		rs = append(rs, rec("X", l, 1))
	}
	total := 0
	for _, b := range Histogram(rs) {
		total += b.Count
	}
	assert.Equal(t, len(rs), total)
}

func TestHistogram_UnderFiftyLandsNowhere(t *testing.T) {
	total := 0
	for _, b := range Histogram([]survey.FishRecord{rec("X", 49.9, 1), rec("X", 0, 0)}) {
		total += b.Count
	}
	assert.Equal(t, 0, total)
}

func TestBins_FreshCopy(t *testing.T) {
	a := Bins()
	a[0].Count = 9
	assert.Equal(t, 0, Bins()[0].Count)
}

func TestRelativeWeight_Formula(t *testing.T) {
	// predicted = 0.00001 * 300^3 = 270
	assert.InDelta(t, 270.0, PredictedWeight(300), 1e-9)

	got := RelativeWeight([]survey.FishRecord{rec("BNT", 300, 300000)})
	require.NotNil(t, got)
	assert.Equal(t, math.Round(300000.0/270.0*100*10)/10, *got)
}

func TestRelativeWeight_AveragesPerRecord(t *testing.T) {
	// 270 g at 300 mm is 100; 135 g is 50
	got := RelativeWeight([]survey.FishRecord{rec("A", 300, 270), rec("A", 300, 135)})
	require.NotNil(t, got)
	assert.Equal(t, 75.0, *got)
}

func TestRelativeWeight_NoUsableRecords(t *testing.T) {
	assert.Nil(t, RelativeWeight([]survey.FishRecord{rec("A", 0, 10), rec("A", -5, 10)}))
	assert.Nil(t, RelativeWeight(nil))

	s := Compute([]survey.FishRecord{rec("A", 0, 10)})
	require.NotNil(t, s)
	assert.Nil(t, s.RelativeWeightAvg)
	assert.False(t, math.IsNaN(s.StdDevLength))
}

func TestBySpecies(t *testing.T) {
	rs := []survey.FishRecord{
		rec("RBT", 200, 80),
		rec("BNT", 250, 150),
		rec("BNT", 300, 260),
		rec("CTT", 180, 60),
	}
	names := map[string]string{"BNT": "Brown Trout"}
	got := BySpecies(rs, func(c string) string { return names[c] })

	require.Len(t, got, 3)
	assert.Equal(t, "BNT", got[0].Species)
	assert.Equal(t, "Brown Trout", got[0].Name)
	assert.Equal(t, 2, got[0].Stats.SampleSize)
	assert.Equal(t, "CTT", got[1].Species)
	assert.Equal(t, "RBT", got[2].Species)
	assert.Empty(t, BySpecies(nil, nil))
}

func TestDisplay(t *testing.T) {
	s := Compute([]survey.FishRecord{rec("A", 254, 100), rec("A", 508, 900)})
	require.NotNil(t, s)

	mm := Display(s, "mm")
	assert.Equal(t, s.MeanLength, mm.MeanLength)

	in := Display(s, "inches")
	assert.Equal(t, 15.0, in.MeanLength)
	assert.Equal(t, 10.0, in.MinLength)
	assert.Equal(t, 20.0, in.MaxLength)
	assert.Equal(t, s.MeanWeight, in.MeanWeight)
	assert.Equal(t, s.SampleSize, in.SampleSize)
	// source left alone
	assert.Equal(t, 381.0, s.MeanLength)

	assert.Nil(t, Display(nil, "inches"))
}

type refTable map[string]survey.Species

func (r refTable) SpeciesByCode(code string) (survey.Species, bool) {
	s, ok := r[code]
	return s, ok
}

func TestOutOfRange(t *testing.T) {
	ref := refTable{
		"BNT": {Code: "BNT", Length: survey.Range{Min: 50, Max: 700}, Weight: survey.Range{Min: 1, Max: 5000}},
	}
	rs := []survey.FishRecord{
		rec("BNT", 300, 250),
		rec("BNT", 900, 250),
		rec("BNT", 700, 9000),
		rec("ZZZ", 10, 1),
	}
	rep := OutOfRange(rs, ref)
	assert.Equal(t, RangeReport{Checked: 3, LengthOutside: 1, WeightOutside: 1, Unknown: 1}, rep)
}
