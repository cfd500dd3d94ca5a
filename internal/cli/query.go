package cli

import (
	"fmt"
	"strconv"

	"fishdash/internal/core/fishstats"
	"fishdash/internal/services/api/surveys/domain"

	"github.com/spf13/cobra"
)

func queryCmd(a *app) *cobra.Command {
	var f stateFlags
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter surveys and show aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svc.Query(cmd.Context(), f.input())
			if err != nil {
				return err
			}
			p := a.printer(cmd.OutOrStdout())
			if p.json {
				return p.JSON(out)
			}
			return printQuery(p, out)
		},
	}
	f.bind(cmd, true)
	return cmd
}

func printQuery(p *printer, out domain.QueryOutput) error {
	p.Title("Query: %s", out.Description)
	p.KV("token", out.Token)
	p.KV("matching surveys", len(out.MatchingSurveys))
	p.KV("total fish count", out.Aggregates.TotalFishCount)
	p.KV("unique waters", out.Aggregates.UniqueWaters)
	p.KV("regions", out.Aggregates.Regions)
	p.KV("date range", out.Aggregates.DateRange)
	p.KV("pooled records", len(out.FishRecords))
	if len(out.MatchingSurveys) == 0 {
		p.Blank()
		p.Warn("no surveys match")
		return nil
	}

	p.Blank()
	p.Title("Species detected")
	rows := make([][]string, 0, len(out.Aggregates.SpeciesDistribution))
	for _, s := range out.Aggregates.SpeciesDistribution {
		rows = append(rows, []string{s.Code, s.Name, strconv.Itoa(s.Count), fmt.Sprintf("%d%%", s.Percent)})
	}
	if err := p.Table([]string{"CODE", "NAME", "SURVEYS", "SHARE"}, rows); err != nil {
		return err
	}

	p.Blank()
	p.Title("Surveys")
	rows = rows[:0]
	for _, s := range out.MatchingSurveys {
		rows = append(rows, []string{s.ID, s.Date, s.WaterID, s.Protocol.String(), s.Status.String(), strconv.Itoa(s.FishCount)})
	}
	return p.Table([]string{"ID", "DATE", "WATER", "PROTOCOL", "STATUS", "FISH"}, rows)
}

func statsCmd(a *app) *cobra.Command {
	var f stateFlags
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Length and weight statistics over the pooled fish records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svc.Stats(cmd.Context(), f.input())
			if err != nil {
				return err
			}
			p := a.printer(cmd.OutOrStdout())
			if p.json {
				return p.JSON(out)
			}
			return printStats(p, out)
		},
	}
	f.bind(cmd, true)
	return cmd
}

func printStats(p *printer, out domain.StatsOutput) error {
	p.Title("Statistics (%s)", out.Unit)
	p.KV("token", out.Token)
	if out.Stats == nil {
		p.Warn("no fish records in the pooled set")
		return nil
	}
	s := out.Stats
	p.KV("sample size", s.SampleSize)
	p.KV("mean length", fmtFloat(s.MeanLength))
	p.KV("std dev length", fmtFloat(s.StdDevLength))
	p.KV("min length", fmtFloat(s.MinLength))
	p.KV("max length", fmtFloat(s.MaxLength))
	p.KV("mean weight (g)", fmtFloat(s.MeanWeight))
	p.KV("relative weight", fmtOptFloat(s.RelativeWeightAvg))
	if out.OutOfRange.LengthOutside+out.OutOfRange.WeightOutside > 0 {
		p.Warn("  %d length and %d weight values outside species reference ranges",
			out.OutOfRange.LengthOutside, out.OutOfRange.WeightOutside)
	}

	p.Blank()
	p.Title("Length frequency (mm)")
	if err := printHistogram(p, s.LengthFrequency); err != nil {
		return err
	}

	p.Blank()
	p.Title("By species")
	rows := make([][]string, 0, len(out.BySpecies))
	for _, sp := range out.BySpecies {
		rows = append(rows, []string{
			sp.Species, sp.Name, strconv.Itoa(sp.Stats.SampleSize),
			fmtFloat(sp.Stats.MeanLength), fmtFloat(sp.Stats.MeanWeight), fmtOptFloat(sp.Stats.RelativeWeightAvg),
		})
	}
	return p.Table([]string{"CODE", "NAME", "N", "MEAN LEN", "MEAN WT", "WR"}, rows)
}

func printHistogram(p *printer, bins []fishstats.Bin) error {
	maxN := 0
	for _, b := range bins {
		maxN = max(maxN, b.Count)
	}
	rows := make([][]string, 0, len(bins))
	for _, b := range bins {
		rows = append(rows, []string{b.Label, strconv.Itoa(b.Count), bar(b.Count, maxN, 30)})
	}
	return p.Table([]string{"BIN", "COUNT", ""}, rows)
}
