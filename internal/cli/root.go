package cli

import (
	"os"

	"fishdash/internal/core/version"
	"fishdash/internal/platform/config"
	"fishdash/internal/platform/logger"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the fishdash command tree
func NewRootCmd() *cobra.Command {
	a := newApp(config.New())

	root := &cobra.Command{
		Use:     "fishdash",
		Short:   "Query fisheries surveys and compute fish statistics",
		Version: version.For("fishdash").String(),
		Long: `fishdash filters a catalog of fisheries surveys across waters, regions,
species, protocols and dates, and computes length and weight statistics over
the pooled fish records.

Examples:
  fishdash query --water south-platte --from 2025-01-01
  fishdash stats --species bnt --exclude-yoy --unit inches
  fishdash token decode eyJ3YXRlciI6ImFsbCJ9
  fishdash catalog waters --json`,
		SilenceUsage: true,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close(cmd.Context())
		},
	}
	a.bindFlags(root)

	root.AddCommand(queryCmd(a))
	root.AddCommand(statsCmd(a))
	root.AddCommand(compareCmd(a))
	root.AddCommand(tokenCmd(a))
	root.AddCommand(catalogCmd(a))
	return root
}

// InitLogging keeps logs on stderr so stdout stays parseable
func InitLogging() {
	opt := logger.FromEnv()
	if os.Getenv("LOG_LEVEL") == "" {
		opt.Level = "warn"
	}
	opt.Writer = os.Stderr
	opt.Service = "fishdash"
	logger.Init(opt)
}
