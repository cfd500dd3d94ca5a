package cli

import (
	"fishdash/internal/core/query"
	"fishdash/internal/services/api/surveys/domain"

	"github.com/spf13/cobra"
)

// stateFlags are the query selectors shared by query, stats and token encode
type stateFlags struct {
	water, species, region, protocol string
	from, to, unit                   string
	excludeYOY                       bool
	token                            string
	status                           map[string]string
}

func (f *stateFlags) bind(cmd *cobra.Command, withToken bool) {
	fl := cmd.Flags()
	fl.StringVar(&f.water, "water", query.All, "water id")
	fl.StringVar(&f.species, "species", query.All, "species code, case insensitive")
	fl.StringVar(&f.region, "region", query.All, "region key (ne nw se sw)")
	fl.StringVar(&f.protocol, "protocol", query.All, "protocol key (two-pass single-pass mark-recapture electrofishing)")
	fl.StringVar(&f.from, "from", "", "earliest survey date, YYYY-MM-DD")
	fl.StringVar(&f.to, "to", "", "latest survey date, YYYY-MM-DD")
	fl.StringVar(&f.unit, "unit", query.UnitMM, "display unit: mm or inches")
	fl.BoolVar(&f.excludeYOY, "exclude-yoy", false, "drop fish under 150 mm from the pooled records")
	if withToken {
		fl.StringVar(&f.token, "token", "", "shared query token; replaces the selector flags")
		fl.StringToStringVar(&f.status, "status", nil, "status override, survey-id=status (repeatable)")
	}
}

func (f *stateFlags) stateInput() domain.StateInput {
	return domain.StateInput{
		Water:      f.water,
		Species:    f.species,
		Region:     f.region,
		Protocol:   f.protocol,
		DateFrom:   f.from,
		DateTo:     f.to,
		ExcludeYOY: f.excludeYOY,
		Unit:       f.unit,
	}
}

func (f *stateFlags) input() domain.QueryInput {
	in := domain.QueryInput{StatusOverrides: f.status}
	if f.token != "" {
		in.Token = f.token
		return in
	}
	st := f.stateInput()
	in.State = &st
	return in
}
