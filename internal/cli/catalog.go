package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"fishdash/internal/core/catalog"
	"fishdash/internal/modkit/repokit"
	"fishdash/internal/services/api/surveys/domain"
	"fishdash/internal/services/api/surveys/repo"

	"github.com/spf13/cobra"
)

func catalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect, export and seed the survey catalog",
	}
	cmd.AddCommand(
		catalogInfoCmd(a),
		catalogWatersCmd(a),
		catalogSpeciesCmd(a),
		catalogSurveysCmd(a),
		catalogExportCmd(a),
		catalogSeedCmd(a),
	)
	return cmd
}

func catalogInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show what the selected source holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			info, err := svc.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			p := a.printer(cmd.OutOrStdout())
			if p.json {
				return p.JSON(info)
			}
			p.Title("Catalog %s", info.Source)
			p.KV("version", info.Version)
			for _, k := range sortedKeys(info.Meta) {
				p.KV(k, info.Meta[k])
			}
			p.KV("waters", info.Waters)
			p.KV("species", info.Species)
			p.KV("surveys", info.Surveys)
			p.KV("fish records", info.FishRecords)
			return nil
		},
	}
}

func catalogWatersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "waters",
		Short: "List waters and their stations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			ws, err := svc.Waters(cmd.Context())
			if err != nil {
				return err
			}
			p := a.printer(cmd.OutOrStdout())
			if p.json {
				return p.JSON(ws)
			}
			rows := make([][]string, 0, len(ws))
			for _, w := range ws {
				ids := make([]string, 0, len(w.Stations))
				for _, st := range w.Stations {
					ids = append(ids, st.ID)
				}
				rows = append(rows, []string{w.ID, w.Name, w.Region.String(), strings.Join(w.PrimarySpecies, ","), strings.Join(ids, ",")})
			}
			return p.Table([]string{"ID", "NAME", "REGION", "SPECIES", "STATIONS"}, rows)
		},
	}
}

func catalogSpeciesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "species",
		Short: "List the species reference table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			sps, err := svc.Species(cmd.Context())
			if err != nil {
				return err
			}
			p := a.printer(cmd.OutOrStdout())
			if p.json {
				return p.JSON(sps)
			}
			rows := make([][]string, 0, len(sps))
			for _, sp := range sps {
				rows = append(rows, []string{
					sp.Code, sp.CommonName, sp.ScientificName,
					fmt.Sprintf("%g-%g", sp.Length.Min, sp.Length.Max),
					fmt.Sprintf("%g-%g", sp.Weight.Min, sp.Weight.Max),
				})
			}
			return p.Table([]string{"CODE", "NAME", "SCIENTIFIC", "LENGTH MM", "WEIGHT G"}, rows)
		},
	}
}

func catalogSurveysCmd(a *app) *cobra.Command {
	var in domain.ListInput
	cmd := &cobra.Command{
		Use:   "surveys",
		Short: "List surveys, optionally by status and water",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			svs, err := svc.Surveys(cmd.Context(), in)
			if err != nil {
				return err
			}
			p := a.printer(cmd.OutOrStdout())
			if p.json {
				return p.JSON(svs)
			}
			rows := make([][]string, 0, len(svs))
			for _, sv := range svs {
				rows = append(rows, []string{
					sv.ID, sv.Date, sv.WaterID, sv.StationID, sv.Protocol.String(),
					sv.Status.String(), sv.Uploader, strconv.Itoa(sv.FishCount), fmtOptFloat(sv.CPUE),
				})
			}
			return p.Table([]string{"ID", "DATE", "WATER", "STATION", "PROTOCOL", "STATUS", "UPLOADER", "FISH", "CPUE"}, rows)
		},
	}
	cmd.Flags().StringVar(&in.Status, "status", "", "only surveys with this status")
	cmd.Flags().StringVar(&in.WaterID, "water", "", "only surveys on this water")
	return cmd
}

func catalogExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the selected source as a yaml catalog document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			b, err := catalog.Marshal(c.Snapshot())
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			return os.WriteFile(out, b, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "-", "destination file, - for stdout")
	return cmd
}

func catalogSeedCmd(a *app) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the catalog tables and load the selected source into them",
		Long: `seed reads the catalog from --source and replaces the contents of the
catalog tables in the --to database. Existing rows are deleted in the same
transaction.

Examples:
  fishdash catalog seed --to sqlite --sqlite ./fishdash.db
  fishdash catalog seed --source file --catalog ./catalog.yaml --to pg --pg-url postgres://...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := a.load(ctx)
			if err != nil {
				return err
			}
			// the source store may be open read only
			if err := a.close(ctx); err != nil {
				return err
			}
			st, err := a.openStore(ctx, to, false)
			if err != nil {
				return err
			}
			db, _, err := st.SQL()
			if err != nil {
				return err
			}
			if err := seed(ctx, db, c.Snapshot()); err != nil {
				return err
			}

			info := c.Info()
			p := a.printer(cmd.OutOrStdout())
			if p.json {
				return p.JSON(map[string]any{"target": to, "catalog": info})
			}
			p.Title("Seeded %s from %s", to, info.Source)
			p.KV("waters", info.Waters)
			p.KV("species", info.Species)
			p.KV("surveys", info.Surveys)
			p.KV("fish records", info.FishRecords)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", catalog.SourceSQLite, "target database: sqlite or pg")
	return cmd
}

func seed(ctx context.Context, db repokit.TxRunner, snap catalog.Snapshot) error {
	if err := repokit.WithTx(ctx, db, func(q repokit.Queryer) error {
		return repo.Migrate(ctx, q)
	}); err != nil {
		return err
	}
	return repo.Seed(ctx, db, snap)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
