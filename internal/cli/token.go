package cli

import (
	"fishdash/internal/services/api/surveys/domain"
	surveyssvc "fishdash/internal/services/api/surveys/service"

	"github.com/spf13/cobra"
)

func tokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Encode and decode shareable query tokens",
	}
	cmd.AddCommand(tokenEncodeCmd(a), tokenDecodeCmd(a))
	return cmd
}

func tokenEncodeCmd(a *app) *cobra.Command {
	var f stateFlags
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the token for the given selectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := tokens().EncodeToken(cmd.Context(), domain.TokenInput{State: f.stateInput()})
			if err != nil {
				return err
			}
			return printToken(a.printer(cmd.OutOrStdout()), out)
		},
	}
	f.bind(cmd, false)
	return cmd
}

func tokenDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token>",
		Short: "Print the state behind a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := tokens().DecodeToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printToken(a.printer(cmd.OutOrStdout()), out)
		},
	}
}

// tokens is a service that never loads a catalog; codec operations do not need one
func tokens() surveyssvc.Service { return surveyssvc.New(surveyssvc.Embedded()) }

func printToken(p *printer, out domain.TokenOutput) error {
	if p.json {
		return p.JSON(out)
	}
	p.Title("%s", out.Token)
	p.KV("description", out.Description)
	p.KV("water", out.State.Water)
	p.KV("species", out.State.Species)
	p.KV("region", out.State.Region)
	p.KV("protocol", out.State.Protocol)
	p.KV("date from", out.State.DateFrom)
	p.KV("date to", out.State.DateTo)
	p.KV("exclude yoy", out.State.ExcludeYOY)
	p.KV("unit", out.State.Unit)
	return nil
}
