package cli

import (
	"strconv"

	"fishdash/internal/services/api/surveys/domain"

	"github.com/spf13/cobra"
)

func compareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <left-token> <right-token>",
		Short: "Compare two shared queries side by side",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svc.Compare(cmd.Context(), domain.CompareInput{
				Left:  domain.QueryInput{Token: args[0]},
				Right: domain.QueryInput{Token: args[1]},
			})
			if err != nil {
				return err
			}
			p := a.printer(cmd.OutOrStdout())
			if p.json {
				return p.JSON(out)
			}

			p.Title("Compare")
			p.KV("left", out.Left.Description)
			p.KV("right", out.Right.Description)
			p.Blank()
			sample := func(s domain.CompareSide) string {
				if s.Stats == nil {
					return "0"
				}
				return strconv.Itoa(s.Stats.SampleSize)
			}
			meanLen := func(s domain.CompareSide) string {
				if s.Stats == nil {
					return "-"
				}
				return fmtFloat(s.Stats.MeanLength)
			}
			return p.Table([]string{"", "LEFT", "RIGHT", "DELTA"}, [][]string{
				{"surveys", strconv.Itoa(out.Left.Surveys), strconv.Itoa(out.Right.Surveys), strconv.Itoa(out.Delta.Surveys)},
				{"fish count", strconv.Itoa(out.Left.Aggregates.TotalFishCount), strconv.Itoa(out.Right.Aggregates.TotalFishCount), strconv.Itoa(out.Delta.TotalFishCount)},
				{"sample size", sample(out.Left), sample(out.Right), strconv.Itoa(out.Delta.SampleSize)},
				{"mean length", meanLen(out.Left), meanLen(out.Right), fmtOptFloat(out.Delta.MeanLengthMM)},
			})
		},
	}
	return cmd
}
