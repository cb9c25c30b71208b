package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/foomo/recorddescription-mcp/description"
	"github.com/foomo/recorddescription-mcp/marc"
	"github.com/foomo/recorddescription-mcp/record"
	"github.com/foomo/recorddescription-mcp/service"
	"github.com/foomo/recorddescription-mcp/service/metrics"
	"github.com/foomo/recorddescription-mcp/service/vo"
)

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	var level string
	describeCmd := &cobra.Command{
		Use:   "describe <marc-file | record-id>",
		Short: "Describe a single record and print the JSON",
		Long: `Describe a single record. When the argument names a readable file it is
decoded as MARCXML or ISO 2709, otherwise it is looked up in the Solr index.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			source, _ := newSolrClient(cfg)
			svc := service.NewService(logger, source, metrics.New(prometheus.NewRegistry()), cfg.ServiceSettings())

			var d *vo.RecordDescription
			data, err := os.ReadFile(args[0])
			switch {
			case err == nil:
				m, decodeErr := marc.Decode(data)
				if decodeErr != nil {
					return fmt.Errorf("failed to decode %s: %w", args[0], decodeErr)
				}
				d, err = svc.DescribeRecord(cmd.Context(), record.FromMarc(m), description.Level(level))
			case errors.Is(err, fs.ErrNotExist):
				d, err = svc.Describe(cmd.Context(), args[0], description.Level(level))
			default:
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(d)
		},
	}
	describeCmd.Flags().StringVarP(&level, "level", "l", string(description.LevelFull), "Description level: full or short")
	return describeCmd
}
